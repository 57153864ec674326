// Package layout measures and wraps text in Helvetica core-font metrics.
package layout

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// Font styles understood by the core fonts.
const (
	StyleRegular    = ""
	StyleBold       = "B"
	StyleItalic     = "I"
	StyleBoldItalic = "BI"
)

// Font is a core font face at a point size.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Measurer reports the rendered width of text in millimetres.
type Measurer interface {
	Width(text string, font Font) float64
}

// CoreMeasurer measures with the AFM widths bundled in fpdf.
// Text is converted to cp1252 first, the encoding the PDF renderer writes.
// Safe for concurrent use.
type CoreMeasurer struct {
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewCoreMeasurer creates a measurer using A4 millimetre units.
func NewCoreMeasurer() *CoreMeasurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &CoreMeasurer{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Width returns the width of text set in font.
func (m *CoreMeasurer) Width(text string, font Font) float64 {
	if text == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(font.Family, font.Style, font.Size)
	w := m.pdf.GetStringWidth(m.translate(text))
	if m.pdf.Err() {
		// A bad family leaves the error latched; clear it so later calls work.
		m.pdf.ClearError()
		return 0
	}
	return w
}

var (
	sharedOnce     sync.Once
	sharedMeasurer *CoreMeasurer
)

// Default returns a process-wide CoreMeasurer.
func Default() *CoreMeasurer {
	sharedOnce.Do(func() { sharedMeasurer = NewCoreMeasurer() })
	return sharedMeasurer
}

// Wrap breaks text into lines no wider than width. Explicit newlines start a
// new paragraph, runs of spaces collapse, and a single word wider than width
// is split between characters. The result always has at least one line.
func Wrap(m Measurer, text string, font Font, width float64) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(paragraphs))

	for _, para := range paragraphs {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var current string
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.Width(candidate, font) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			if m.Width(word, font) <= width {
				current = word
				continue
			}
			pieces := breakWord(m, word, font, width)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
		}
		lines = append(lines, current)
	}

	return lines
}

// breakWord splits an over-long word into pieces that fit width.
// Every piece holds at least one rune so the loop always progresses.
func breakWord(m Measurer, word string, font Font, width float64) []string {
	var pieces []string
	start := 0
	for i := 0; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		if i > start && m.Width(word[start:i+size], font) > width {
			pieces = append(pieces, word[start:i])
			start = i
		}
		i += size
	}
	return append(pieces, word[start:])
}
