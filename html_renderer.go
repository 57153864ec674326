package rtiform

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"go.uber.org/zap"
)

const (
	// ptToMM converts a point size to millimetres.
	ptToMM = 25.4 / 72
	// ascentRatio approximates the Helvetica ascent as a share of the font size.
	ascentRatio = 0.8
)

// HTMLRenderer writes a standalone HTML page per document with every run
// absolutely positioned in millimetres. Safe for concurrent use.
type HTMLRenderer struct {
	logger   *zap.Logger
	measurer Measurer
	tmpl     *template.Template
}

// NewHTMLRenderer parses the document template.
func NewHTMLRenderer(opts ...Option) (*HTMLRenderer, error) {
	s := newSettings(opts)
	return newHTMLRenderer(s)
}

func newHTMLRenderer(s *settings) (*HTMLRenderer, error) {
	src, err := s.resolveTemplate()
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("document").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return &HTMLRenderer{logger: s.logger, measurer: s.measurer, tmpl: tmpl}, nil
}

// Extension returns ".html".
func (r *HTMLRenderer) Extension() string { return "." + FormatHTML }

// Close is a no-op.
func (r *HTMLRenderer) Close() error { return nil }

// htmlDocument is the template view of a Document.
type htmlDocument struct {
	Title      string
	Author     string
	Subject    string
	PageWidth  string
	PageHeight string
	Pages      []htmlPage
}

type htmlPage struct {
	Number int
	Runs   []htmlRun
}

// htmlRun is a text run or, when Image is set, an image placement.
// Numbers are preformatted in millimetres or points.
type htmlRun struct {
	Class string
	Text  string
	X     string
	Top   string
	Size  string
	Image template.URL
	Y     string
	W     string
	H     string
}

// Render executes the template for doc.
func (r *HTMLRenderer) Render(ctx context.Context, doc *Document) ([]byte, error) {
	if err := checkRender(ctx, doc); err != nil {
		return nil, err
	}

	view := htmlDocument{
		Title:      doc.Title,
		Author:     doc.Author,
		Subject:    doc.Subject,
		PageWidth:  mm(PageWidth),
		PageHeight: mm(PageHeight),
		Pages:      make([]htmlPage, 0, len(doc.Pages)),
	}
	for _, p := range doc.Pages {
		hp := htmlPage{Number: p.Number, Runs: make([]htmlRun, 0, len(p.Instructions))}
		for _, in := range p.Instructions {
			if run, ok := r.run(in); ok {
				hp.Runs = append(hp.Runs, run)
			}
		}
		view.Pages = append(view.Pages, hp)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) run(in Instruction) (htmlRun, bool) {
	if in.Kind == InstructionImage {
		if err := in.Image.Validate(); err != nil {
			r.logger.Warn("signature image skipped", zap.Error(err))
			return htmlRun{}, false
		}
		return htmlRun{
			// #nosec G203 -- data URL built from validated image bytes
			Image: template.URL(in.Image.DataURL()),
			X:     mm(in.X),
			Y:     mm(in.Y),
			W:     mm(in.W),
			H:     mm(in.H),
		}, true
	}

	x := in.X
	class := "run"
	if in.Align == AlignCenter {
		x += r.measurer.Width(in.Text, in.Font) / 2
		class += " center"
	}
	switch in.Font.Style {
	case StyleBold:
		class += " bold"
	case StyleItalic:
		class += " italic"
	case StyleBold + StyleItalic:
		class += " bold italic"
	}
	return htmlRun{
		Class: class,
		Text:  in.Text,
		X:     mm(x),
		Top:   mm(in.Y - in.Font.Size*ptToMM*ascentRatio),
		Size:  strconv.FormatFloat(in.Font.Size, 'f', -1, 64),
	}, true
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
