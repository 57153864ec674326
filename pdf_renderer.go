package rtiform

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// pdfCreator is written to the PDF Creator field.
const pdfCreator = "go-rtiform"

// PDFRenderer writes documents with fpdf core fonts. Output is byte-stable:
// dates come from Document.CreatedAt and catalog entries are sorted.
// It keeps no state between calls and is safe for concurrent use.
type PDFRenderer struct {
	logger *zap.Logger
}

// NewPDFRenderer creates a native PDF renderer.
func NewPDFRenderer(opts ...Option) *PDFRenderer {
	s := newSettings(opts)
	return &PDFRenderer{logger: s.logger}
}

// Extension returns ".pdf".
func (r *PDFRenderer) Extension() string { return "." + FormatPDF }

// Close is a no-op.
func (r *PDFRenderer) Close() error { return nil }

// Render lays every instruction onto A4 pages.
func (r *PDFRenderer) Render(ctx context.Context, doc *Document) ([]byte, error) {
	if err := checkRender(ctx, doc); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(MarginLeft, MarginTop, MarginLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.CreatedAt)
	pdf.SetModificationDate(doc.CreatedAt)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetSubject(doc.Subject, true)
	pdf.SetCreator(pdfCreator, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()
		for _, in := range page.Instructions {
			switch in.Kind {
			case InstructionText:
				pdf.SetFont(in.Font.Family, in.Font.Style, in.Font.Size)
				pdf.Text(in.X, in.Y, tr(in.Text))
			case InstructionImage:
				r.image(pdf, in)
			}
		}
		if pdf.Err() {
			return nil, fmt.Errorf("%w: page %d: %v", ErrPDFGeneration, page.Number, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

// image registers and places a signature. Images fpdf cannot read are
// logged and skipped.
func (r *PDFRenderer) image(pdf *fpdf.Fpdf, in Instruction) {
	if in.Image.IsEmpty() {
		return
	}
	sum := blake2b.Sum256(in.Image.Data)
	name := "sig-" + hex.EncodeToString(sum[:8])
	opts := fpdf.ImageOptions{ImageType: string(in.Image.Format)}

	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(in.Image.Data))
	if pdf.Err() {
		r.logger.Warn("signature image skipped", zap.Error(pdf.Error()))
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(name, in.X, in.Y, in.W, in.H, false, opts, 0, "")
}
