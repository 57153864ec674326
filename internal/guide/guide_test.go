package guide

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-rtiform/internal/assets"
)

func loadSubmissionGuide(t *testing.T) string {
	t.Helper()
	content, err := assets.LoadGuide(assets.DefaultGuideName)
	if err != nil {
		t.Fatalf("LoadGuide() error = %v", err)
	}
	return content
}

// ---------------------------------------------------------------------------
// TestHTMLConverter - Markdown to sanitized HTML
// ---------------------------------------------------------------------------

func TestHTMLConverter_ToHTML(t *testing.T) {
	t.Parallel()

	c := NewHTMLConverter()
	out, err := c.ToHTML(context.Background(), "Submitting <RTI>", loadSubmissionGuide(t))
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	wants := []string{
		"<!DOCTYPE html>",
		"<title>Submitting &lt;RTI&gt;</title>",
		"<style>",
		`<h1 id="submitting-your-rti-application">`,
		"<strong>Rs. 10 Court Fee Stamp</strong>",
		`class="chroma"`,
		"<ol>",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}

	if idx := strings.Index(out, "<style>"); idx > strings.Index(out, "</head>") {
		t.Error("style block should be inside <head>")
	}
}

func TestHTMLConverter_Sanitizes(t *testing.T) {
	t.Parallel()

	c := NewHTMLConverter()
	md := "# Title\n\n<script>alert(1)</script>\n\n[x](javascript:alert(1))\n\n<img src=x onerror=alert(1)>\n"

	out, err := c.ToHTML(context.Background(), "t", md)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	for _, bad := range []string{"<script>alert", "javascript:", "onerror"} {
		if strings.Contains(out, bad) {
			t.Errorf("output should not contain %q", bad)
		}
	}
}

func TestHTMLConverter_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTMLConverter().ToHTML(ctx, "t", "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestInjectCSS - Style placement
// ---------------------------------------------------------------------------

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "before head close",
			html: "<html><head></head><body></body></html>",
			css:  "p{}",
			want: "<html><head><style>p{}</style></head><body></body></html>",
		},
		{
			name: "after body open",
			html: `<body class="x"><p>a</p></body>`,
			css:  "p{}",
			want: `<body class="x"><style>p{}</style><p>a</p></body>`,
		},
		{
			name: "prepend fragment",
			html: "<p>a</p>",
			css:  "p{}",
			want: "<style>p{}</style><p>a</p>",
		},
		{
			name: "empty css unchanged",
			html: "<p>a</p>",
			css:  "",
			want: "<p>a</p>",
		},
		{
			name: "closing tag escaped",
			html: "<p>a</p>",
			css:  "</style><script>",
			want: `<style><\/style><script></style><p>a</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InjectCSS(tt.html, tt.css); got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderTerminal - glamour output
// ---------------------------------------------------------------------------

func TestRenderTerminal(t *testing.T) {
	t.Parallel()

	out, err := RenderTerminal(loadSubmissionGuide(t), TerminalOptions{Style: "notty", Width: 100})
	if err != nil {
		t.Fatalf("RenderTerminal() error = %v", err)
	}

	for _, want := range []string{"Submitting your RTI application", "Registered Post (AD)", "rtiform generate"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

func TestRenderTerminal_UnknownStyle(t *testing.T) {
	t.Parallel()

	_, err := RenderTerminal("# x", TerminalOptions{Style: "no-such-style"})
	if !errors.Is(err, ErrTerminalRender) {
		t.Errorf("error = %v, want ErrTerminalRender", err)
	}
}
