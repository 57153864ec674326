package layout

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// monoMeasurer gives every rune the same advance so wrap points are exact.
type monoMeasurer struct{ advance float64 }

func (m monoMeasurer) Width(text string, _ Font) float64 {
	return float64(utf8.RuneCountInString(text)) * m.advance
}

var helvetica12 = Font{Family: "Helvetica", Size: 12}

// ---------------------------------------------------------------------------
// TestWrap - Greedy line breaking
// ---------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	t.Parallel()

	m := monoMeasurer{advance: 1}

	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{
			name:  "fits on one line",
			text:  "short text",
			width: 20,
			want:  []string{"short text"},
		},
		{
			name:  "breaks at spaces",
			text:  "alpha beta gamma delta",
			width: 11,
			want:  []string{"alpha beta", "gamma delta"},
		},
		{
			name:  "exact width fits",
			text:  "abcde fghij",
			width: 11,
			want:  []string{"abcde fghij"},
		},
		{
			name:  "collapses repeated spaces",
			text:  "a    b",
			width: 10,
			want:  []string{"a b"},
		},
		{
			name:  "newline starts paragraph",
			text:  "line one\nline two",
			width: 40,
			want:  []string{"line one", "line two"},
		},
		{
			name:  "blank paragraph kept",
			text:  "first\n\nthird",
			width: 40,
			want:  []string{"first", "", "third"},
		},
		{
			name:  "long word split",
			text:  "abcdefghij",
			width: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:  "long word after short word",
			text:  "ab cdefghij",
			width: 4,
			want:  []string{"ab", "cdef", "ghij"},
		},
		{
			name:  "empty text yields one line",
			text:  "",
			width: 10,
			want:  []string{""},
		},
		{
			name:  "multibyte runes split whole",
			text:  "ശ്രീമതി",
			width: 3,
			want:  []string{"ശ്ര", "ീമത", "ി"},
		},
		{
			name:  "width narrower than a rune still progresses",
			text:  "abc",
			width: 0.5,
			want:  []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Wrap(m, tt.text, helvetica12, tt.width)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCoreMeasurer - fpdf-backed metrics
// ---------------------------------------------------------------------------

func TestCoreMeasurer_Width(t *testing.T) {
	t.Parallel()

	m := NewCoreMeasurer()

	if got := m.Width("", helvetica12); got != 0 {
		t.Errorf("Width(\"\") = %v, want 0", got)
	}

	// Helvetica "M" is 833/1000 em: 12pt * 0.833 = 9.996pt = 3.5264mm.
	got := m.Width("M", helvetica12)
	if got < 3.5 || got > 3.55 {
		t.Errorf("Width(M) = %v, want about 3.526", got)
	}

	bold := m.Width("Application", Font{Family: "Helvetica", Style: StyleBold, Size: 12})
	regular := m.Width("Application", helvetica12)
	if bold <= regular {
		t.Errorf("bold width %v should exceed regular width %v", bold, regular)
	}

	small := m.Width("Application", Font{Family: "Helvetica", Size: 10})
	if small >= regular {
		t.Errorf("10pt width %v should be below 12pt width %v", small, regular)
	}
}

func TestCoreMeasurer_NonLatin(t *testing.T) {
	t.Parallel()

	m := NewCoreMeasurer()

	// Runes outside cp1252 must not panic; they measure as replacement bytes.
	_ = m.Width("തിരുവനന്തപുരം", helvetica12)
	if w := m.Width("Rs. 10/- ₹", helvetica12); w <= 0 {
		t.Errorf("Width() = %v, want positive", w)
	}
}

func TestCoreMeasurer_Concurrent(t *testing.T) {
	t.Parallel()

	m := Default()
	want := m.Width("The State Public Information Officer,", helvetica12)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := m.Width("The State Public Information Officer,", helvetica12); got != want {
				t.Errorf("concurrent Width() = %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestWrap_CoreMetrics(t *testing.T) {
	t.Parallel()

	m := NewCoreMeasurer()
	text := strings.Repeat("information ", 40)

	lines := Wrap(m, text, helvetica12, 120)
	if len(lines) < 2 {
		t.Fatalf("expected several lines, got %d", len(lines))
	}
	for i, line := range lines {
		if w := m.Width(line, helvetica12); w > 120 {
			t.Errorf("line %d width %v exceeds 120", i, w)
		}
	}
}
