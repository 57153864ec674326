package rtiform

import (
	"context"
	"fmt"
)

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// PDF backends.
const (
	BackendNative = "native"
	BackendChrome = "chrome"
)

// Renderer turns a Document into file bytes.
type Renderer interface {
	// Render produces the artifact for doc.
	Render(ctx context.Context, doc *Document) ([]byte, error)
	// Close releases resources such as a browser process.
	Close() error
	// Extension returns the file extension including the dot.
	Extension() string
}

// Compile-time interface checks.
var (
	_ Renderer = (*PDFRenderer)(nil)
	_ Renderer = (*HTMLRenderer)(nil)
	_ Renderer = (*ChromeRenderer)(nil)
)

// NewRenderer returns the renderer for format. The backend selects how PDF
// is produced and is ignored for HTML. An empty backend means native.
func NewRenderer(format, backend string, opts ...Option) (Renderer, error) {
	switch format {
	case FormatHTML:
		return NewHTMLRenderer(opts...)
	case FormatPDF, "":
		switch backend {
		case BackendNative, "":
			return NewPDFRenderer(opts...), nil
		case BackendChrome:
			return NewChromeRenderer(opts...)
		default:
			return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownBackend, backend, BackendNative, BackendChrome)
		}
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownFormat, format, FormatPDF, FormatHTML)
	}
}

func checkRender(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}
	return nil
}
