package rtiform

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"
	"unicode/utf8"
)

// testDate is the declaration date used by fixtures.
var testDate = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

// encodePNG returns a w×h PNG filled with a single grey.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// encodeJPEG returns a w×h JPEG.
func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

// testSignature returns a small valid PNG signature asset.
func testSignature(t *testing.T) SignatureAsset {
	t.Helper()
	return SignatureAsset{Data: encodePNG(t, 8, 4), Format: ImagePNG}
}

// completeRecord returns a record that passes every section against the
// embedded Kerala directory.
func completeRecord(t *testing.T) *ApplicationRecord {
	t.Helper()
	rec := NewRecord(testDate)
	rec.Applicant = Applicant{
		Name:    "Anitha Raghavan",
		Address: "TC 12/345, Pattom, Thiruvananthapuram",
		Place:   "Thiruvananthapuram",
	}
	rec.Authority = Authority{
		District:      "Thiruvananthapuram",
		LocalBodyType: "Municipal Corporation",
		LocalBodyName: "Thiruvananthapuram Corporation",
	}
	rec.Request = Request{
		Subject:   "Road maintenance in Ward 12",
		Questions: []string{"How much was spent on road repairs in 2025?"},
	}
	rec.Declaration.Place = "Thiruvananthapuram"
	rec.Declaration.Signature = testSignature(t)
	return rec
}

// monoMeasurer gives every rune the same advance so wrap points are exact.
type monoMeasurer struct{ advance float64 }

func (m monoMeasurer) Width(text string, _ Font) float64 {
	return float64(utf8.RuneCountInString(text)) * m.advance
}

// newTestComposer returns a composer with a 2 mm per rune measurer.
func newTestComposer(t *testing.T, opts ...Option) *Composer {
	t.Helper()
	opts = append([]Option{WithMeasurer(monoMeasurer{advance: 2})}, opts...)
	c, err := NewComposer(opts...)
	if err != nil {
		t.Fatalf("NewComposer() unexpected error: %v", err)
	}
	return c
}

// findText returns the first text run equal to s and its page number.
func findText(doc *Document, s string) (Instruction, int, bool) {
	for _, p := range doc.Pages {
		for _, in := range p.Instructions {
			if in.Kind == InstructionText && in.Text == s {
				return in, p.Number, true
			}
		}
	}
	return Instruction{}, 0, false
}

// texts returns every text run in document order.
func texts(doc *Document) []string {
	var out []string
	for _, p := range doc.Pages {
		for _, in := range p.Instructions {
			if in.Kind == InstructionText {
				out = append(out, in.Text)
			}
		}
	}
	return out
}
