package rtiform

import "errors"

// Sentinel errors for library operations.
var (
	// Wizard navigation errors.
	ErrAtFirstSection = errors.New("already at the first section")
	ErrCompleted      = errors.New("application already completed")
	ErrNotCompleted   = errors.New("application not completed")

	// Question list errors.
	ErrLastQuestion     = errors.New("at least one question must remain")
	ErrTooManyQuestions = errors.New("question limit reached")
	ErrQuestionIndex    = errors.New("question index out of range")

	// Composition errors.
	ErrIncompleteRecord = errors.New("application record is incomplete")
	ErrGeneration       = errors.New("document generation failed")
	ErrNilRecord        = errors.New("application record cannot be nil")
	ErrNilDocument      = errors.New("document cannot be nil")
	ErrInvalidDirectory = errors.New("invalid jurisdiction directory")

	// Signature errors.
	ErrEmptySignature         = errors.New("signature is empty")
	ErrInvalidSignature       = errors.New("invalid signature image")
	ErrUnsupportedImage       = errors.New("unsupported signature image format")
	ErrSignatureImageNotFound = errors.New("signature image file not found")
	ErrInvalidDataURL         = errors.New("invalid data URL")

	// Rendering errors.
	ErrUnknownFormat   = errors.New("unknown output format")
	ErrUnknownBackend  = errors.New("unknown renderer backend")
	ErrHTMLRender      = errors.New("HTML rendering failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrRendererClosed  = errors.New("renderer is closed")
	ErrInvalidTemplate = errors.New("invalid document template")

	// Record file errors.
	ErrRecordParse = errors.New("failed to parse application record")
)
