package rtiform

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewComposer_InvalidDateFormat(t *testing.T) {
	t.Parallel()

	_, err := NewComposer(WithDateFormat(""))
	if !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("NewComposer() error = %v, want ErrInvalidDateFormat", err)
	}
}

func TestCompose_Errors(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)

	t.Run("nil record", func(t *testing.T) {
		t.Parallel()

		if _, err := c.Compose(nil); !errors.Is(err, ErrNilRecord) {
			t.Errorf("Compose(nil) error = %v, want ErrNilRecord", err)
		}
	})

	t.Run("incomplete record", func(t *testing.T) {
		t.Parallel()

		rec := completeRecord(t)
		rec.Declaration.Signature = SignatureAsset{}

		doc, err := c.Compose(rec)
		if doc != nil {
			t.Error("Compose() returned a partial document")
		}
		if !errors.Is(err, ErrIncompleteRecord) {
			t.Fatalf("Compose() error = %v, want ErrIncompleteRecord", err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Compose() error %v does not wrap *ValidationError", err)
		}
		if verr.Section != SectionDeclaration {
			t.Errorf("Section = %v, want declaration", verr.Section)
		}
		if verr.Message(FieldDeclarationSignature) == "" {
			t.Error("missing signature message")
		}
	})
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

func TestCompose_Idempotent(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	rec := completeRecord(t)

	first, err := c.Compose(rec)
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}
	second, err := c.Compose(rec)
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Compose() not idempotent (-first +second):\n%s", diff)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Error("fingerprints differ for identical records")
	}
}

func TestCompose_FixedLayout(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	doc, err := c.Compose(completeRecord(t))
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(doc.Pages))
	}

	tests := []struct {
		text  string
		wantX float64
		wantY float64
	}{
		{FormTitle, 105 - 6, 20},
		{FormHeading, 105 - float64(len(FormHeading)), 30},
		{"To,", 20, 45},
		{AddresseeOfficer, 20, 52},
		{"Thiruvananthapuram Corporation, Municipal Corporation,", 20, 58},
		{"Thiruvananthapuram District, Kerala.", 20, 64},
		{"1. Name of the Applicant:", 20, 79},
		{"Anitha Raghavan", 75, 79},
		{"2. Address:", 20, 89},
		{"3. Particulars of Information Required:", 20, 99},
		{"(i) Subject Matter:", 25, 109},
		{"Road maintenance in Ward 12", 65, 109},
		{"(ii) Specific Questions:", 25, 119},
		{"1. How much was spent on road repairs in 2025?", 30, 127},
		{"4. Application Fee Details:", 20, 145},
		{FeeSentence, 25, 152},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			in, _, ok := findText(doc, tt.text)
			if !ok {
				t.Fatalf("text %q not found in %q", tt.text, texts(doc))
			}
			if in.X != tt.wantX || in.Y != tt.wantY {
				t.Errorf("%q at (%v, %v), want (%v, %v)", tt.text, in.X, in.Y, tt.wantX, tt.wantY)
			}
		})
	}

	title, _, _ := findText(doc, FormTitle)
	if title.Align != AlignCenter || title.Font != fontTitle {
		t.Errorf("title = %+v, want centred 16pt bold", title)
	}

	if doc.FileName != "RTI_Application_Anitha_Raghavan" {
		t.Errorf("FileName = %q", doc.FileName)
	}
	if !doc.CreatedAt.Equal(testDate) {
		t.Errorf("CreatedAt = %v, want %v", doc.CreatedAt, testDate)
	}
	if doc.Author != "Anitha Raghavan" || doc.Subject != "Road maintenance in Ward 12" || doc.Title != FormHeading {
		t.Errorf("metadata = %q/%q/%q", doc.Author, doc.Subject, doc.Title)
	}
}

func TestCompose_ClosingBlock(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	doc, err := c.Compose(completeRecord(t))
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}

	place, _, ok := findText(doc, "Place: Thiruvananthapuram")
	if !ok {
		t.Fatalf("place line missing from %q", texts(doc))
	}
	salutation, _, _ := findText(doc, ClosingSalutation)
	date, _, _ := findText(doc, "Date: 09/03/2026")
	name, _, _ := findText(doc, "(Anitha Raghavan)")

	if salutation.Y != place.Y || salutation.X != 140 {
		t.Errorf("salutation at (%v, %v), want (140, %v)", salutation.X, salutation.Y, place.Y)
	}
	if date.Y != place.Y+7 {
		t.Errorf("date Y = %v, want %v", date.Y, place.Y+7)
	}
	if name.Y != place.Y+32 || name.X != 140 {
		t.Errorf("name at (%v, %v), want (140, %v)", name.X, name.Y, place.Y+32)
	}

	var images []Instruction
	for _, in := range doc.Pages[0].Instructions {
		if in.Kind == InstructionImage {
			images = append(images, in)
		}
	}
	if len(images) != 1 {
		t.Fatalf("images = %d, want 1", len(images))
	}
	want := Instruction{Kind: InstructionImage, Image: testSignature(t), X: 140, Y: place.Y + 7, W: 40, H: 20}
	if diff := cmp.Diff(want, images[0]); diff != "" {
		t.Errorf("signature placement (-want +got):\n%s", diff)
	}
}

func TestCompose_StatutoryAdvance(t *testing.T) {
	t.Parallel()

	statutory := func(doc *Document) (first Instruction, lines int) {
		for _, in := range doc.Pages[0].Instructions {
			if in.Kind == InstructionText && in.Font == fontStatutory {
				if lines == 0 {
					first = in
				}
				lines++
			}
		}
		return first, lines
	}

	t.Run("advance follows line count", func(t *testing.T) {
		t.Parallel()

		doc, err := newTestComposer(t).Compose(completeRecord(t))
		if err != nil {
			t.Fatalf("Compose() unexpected error: %v", err)
		}
		first, k := statutory(doc)
		place, _, _ := findText(doc, "Place: Thiruvananthapuram")
		if got, want := place.Y-first.Y, float64(k)*5+10; got != want {
			t.Errorf("statutory advance = %v, want %v for %d lines", got, want, k)
		}
	})

	t.Run("core metrics match the printed form", func(t *testing.T) {
		t.Parallel()

		c, err := NewComposer()
		if err != nil {
			t.Fatalf("NewComposer() unexpected error: %v", err)
		}
		doc, err := c.Compose(completeRecord(t))
		if err != nil {
			t.Fatalf("Compose() unexpected error: %v", err)
		}
		first, k := statutory(doc)
		if k != 2 {
			t.Fatalf("statutory lines = %d, want 2", k)
		}
		fee, _, _ := findText(doc, FeeSentence)
		place, _, _ := findText(doc, "Place: Thiruvananthapuram")
		if got := place.Y - first.Y; got != 20 {
			t.Errorf("statutory advance = %v, want 20", got)
		}
		if got := place.Y - fee.Y; got != 35 {
			t.Errorf("fee sentence to place = %v, want 35", got)
		}
	})
}

func TestCompose_AddressAdvance(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)

	// 60 runes fit per line at 2 mm; each word plus space is 5 runes.
	for k := 1; k <= 4; k++ {
		t.Run(fmt.Sprintf("%d lines", k), func(t *testing.T) {
			t.Parallel()

			rec := completeRecord(t)
			rec.Applicant.Address = strings.TrimSpace(strings.Repeat("abcd ", 12*k))

			doc, err := c.Compose(rec)
			if err != nil {
				t.Fatalf("Compose() unexpected error: %v", err)
			}
			label, _, _ := findText(doc, "2. Address:")
			next, _, _ := findText(doc, "3. Particulars of Information Required:")
			if got, want := next.Y-label.Y, float64(k)*6+4; got != want {
				t.Errorf("address advance = %v, want %v", got, want)
			}
		})
	}
}

func TestCompose_QuestionOrdinals(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)

	for n := MinQuestions; n <= MaxQuestions; n++ {
		t.Run(fmt.Sprintf("%d questions", n), func(t *testing.T) {
			t.Parallel()

			rec := completeRecord(t)
			rec.Request.Questions = make([]string, n)
			for i := range n {
				rec.Request.Questions[i] = fmt.Sprintf("Question number %d", i)
			}

			doc, err := c.Compose(rec)
			if err != nil {
				t.Fatalf("Compose() unexpected error: %v", err)
			}

			var got []string
			for _, s := range texts(doc) {
				if strings.Contains(s, ". Question number ") {
					got = append(got, s)
				}
			}
			var want []string
			for i := range n {
				want = append(want, fmt.Sprintf("%d. Question number %d", i+1, i))
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("question lines (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompose_Placeholders(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	rec := completeRecord(t)
	rec.Authority = Authority{
		District:      "Wayanad",
		LocalBodyType: "Grama Panchayat",
		LocalBodyName: "Sample Local Body 2",
	}

	doc, err := c.Compose(rec)
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}
	if _, _, ok := findText(doc, "Sample Local Body 2, Grama Panchayat,"); !ok {
		t.Errorf("placeholder addressee missing from %q", texts(doc))
	}
	if _, _, ok := findText(doc, "Wayanad District, Kerala."); !ok {
		t.Errorf("district line missing from %q", texts(doc))
	}
}

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

func TestCompose_Pagination(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)

	tests := []struct {
		name   string
		modify func(*ApplicationRecord)
	}{
		{
			name: "many long questions",
			modify: func(r *ApplicationRecord) {
				r.Request.Questions = make([]string, MaxQuestions)
				for i := range r.Request.Questions {
					r.Request.Questions[i] = strings.TrimSpace(strings.Repeat("detail ", 40))
				}
			},
		},
		{
			name: "address taller than a page",
			modify: func(r *ApplicationRecord) {
				r.Applicant.Address = strings.TrimSpace(strings.Repeat("abcd ", 12*50))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := completeRecord(t)
			tt.modify(rec)

			doc, err := c.Compose(rec)
			if err != nil {
				t.Fatalf("Compose() unexpected error: %v", err)
			}
			if len(doc.Pages) < 2 {
				t.Fatalf("pages = %d, want more than 1", len(doc.Pages))
			}
			for i, p := range doc.Pages {
				if p.Number != i+1 {
					t.Errorf("page %d numbered %d", i+1, p.Number)
				}
				if len(p.Instructions) == 0 {
					t.Errorf("page %d is empty", p.Number)
				}
				for _, in := range p.Instructions {
					if in.Y > UsableBottom || in.Y < MarginTop {
						t.Errorf("page %d: %q at Y=%v outside [%v, %v]", p.Number, in.Text, in.Y, MarginTop, UsableBottom)
					}
					if in.Kind == InstructionImage && in.Y+in.H > UsableBottom {
						t.Errorf("page %d: signature bottom %v below %v", p.Number, in.Y+in.H, UsableBottom)
					}
				}
			}

			count := 0
			for _, s := range texts(doc) {
				if s == FormTitle {
					count++
				}
			}
			if count != 1 {
				t.Errorf("title appears %d times, want 1", count)
			}
		})
	}
}

func TestCompose_ClosingBlockStaysTogether(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)

	// Grow the address until the closing block no longer fits on page one.
	for lines := 1; lines <= 30; lines++ {
		rec := completeRecord(t)
		rec.Applicant.Address = strings.TrimSpace(strings.Repeat("abcd ", 12*lines))
		doc, err := c.Compose(rec)
		if err != nil {
			t.Fatalf("Compose() unexpected error: %v", err)
		}
		_, placePage, _ := findText(doc, "Place: Thiruvananthapuram")
		_, namePage, _ := findText(doc, "(Anitha Raghavan)")
		if placePage != namePage {
			t.Fatalf("%d address lines: closing block split across pages %d and %d", lines, placePage, namePage)
		}
	}
}

// ---------------------------------------------------------------------------
// Signature handling
// ---------------------------------------------------------------------------

func TestCompose_InvalidSignatureSkipped(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	c := newTestComposer(t, WithLogger(zap.New(core)))

	rec := completeRecord(t)
	rec.Declaration.Signature = SignatureAsset{Data: []byte("definitely not a png"), Format: ImagePNG}

	doc, err := c.Compose(rec)
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}
	for _, p := range doc.Pages {
		for _, in := range p.Instructions {
			if in.Kind == InstructionImage {
				t.Fatal("undecodable signature should not be placed")
			}
		}
	}
	if _, _, ok := findText(doc, "(Anitha Raghavan)"); !ok {
		t.Error("closing block should still be emitted")
	}
	if logs.FilterMessage("signature image skipped").Len() != 1 {
		t.Errorf("warn entries = %v, want one skip entry", logs.All())
	}
}

func TestCompose_DateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"DD/MM/YYYY", "Date: 09/03/2026"},
		{"iso", "Date: 2026-03-09"},
		{"long", "Date: 9 March 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			c := newTestComposer(t, WithDateFormat(tt.format))
			doc, err := c.Compose(completeRecord(t))
			if err != nil {
				t.Fatalf("Compose() unexpected error: %v", err)
			}
			if _, _, ok := findText(doc, tt.want); !ok {
				t.Errorf("%q missing from %q", tt.want, texts(doc))
			}
		})
	}
}

func TestCompose_TrimsAndNamesFile(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	rec := completeRecord(t)
	rec.Applicant.Name = "  Anitha \t K  Raghavan "

	doc, err := c.Compose(rec)
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}
	if doc.FileName != "RTI_Application_Anitha_K_Raghavan" {
		t.Errorf("FileName = %q", doc.FileName)
	}
	if got := doc.OutputName(".pdf"); got != "RTI_Application_Anitha_K_Raghavan.pdf" {
		t.Errorf("OutputName() = %q", got)
	}
	if _, _, ok := findText(doc, "(Anitha K Raghavan)"); !ok {
		t.Errorf("closing name missing from %q", texts(doc))
	}
}

func TestCompose_CoreMetrics(t *testing.T) {
	t.Parallel()

	c, err := NewComposer()
	if err != nil {
		t.Fatalf("NewComposer() unexpected error: %v", err)
	}
	doc, err := c.Compose(completeRecord(t))
	if err != nil {
		t.Fatalf("Compose() unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Errorf("pages = %d, want 1", len(doc.Pages))
	}
	title, _, _ := findText(doc, FormTitle)
	if title.X <= MarginLeft || title.X >= centerX {
		t.Errorf("title X = %v, want between margin and centre", title.X)
	}
}
