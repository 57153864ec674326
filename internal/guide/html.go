package guide

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HighlightStyle is the chroma style used for code blocks.
const HighlightStyle = "github"

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body>
<main>
%s
</main>
</body>
</html>`

const pageCSS = `body{font-family:Helvetica,Arial,sans-serif;line-height:1.5;color:#1e293b;background:#f8fafc}
main{max-width:46rem;margin:2rem auto;padding:0 1.5rem}
h1,h2{color:#0f172a}
pre.chroma{padding:1rem;border-radius:.5rem;overflow-x:auto}
strong{color:#0f172a}`

// chroma emits class lists like "chroma" or "line" and token classes like "nt".
var chromaClass = regexp.MustCompile(`^[a-z0-9]+( [a-z0-9]+)*$`)

// HTMLConverter converts guide Markdown into a standalone, sanitized HTML page.
type HTMLConverter struct {
	md      goldmark.Markdown
	policy  *bluemonday.Policy
	css     string
	baseDir string
}

// ConverterOption configures an HTMLConverter.
type ConverterOption func(*HTMLConverter)

// WithBaseDir resolves relative image and link paths against dir.
func WithBaseDir(dir string) ConverterOption {
	return func(c *HTMLConverter) { c.baseDir = dir }
}

// NewHTMLConverter creates an HTMLConverter with GFM extensions and syntax highlighting.
func NewHTMLConverter(opts ...ConverterOption) *HTMLConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(HighlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(chromaClass).OnElements("pre", "code", "span")
	policy.AllowAttrs("tabindex").Matching(bluemonday.Integer).OnElements("pre")

	c := &HTMLConverter{md: md, policy: policy, css: pageCSS + "\n" + highlightCSS()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// highlightCSS returns the stylesheet for the classes chroma emits.
func highlightCSS() string {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(HighlightStyle)); err != nil {
		return ""
	}
	return buf.String()
}

// ToHTML converts Markdown content to a standalone HTML5 document titled title.
// Goldmark has no context support, so conversion runs in a goroutine and
// cancellation abandons it.
func (c *HTMLConverter) ToHTML(ctx context.Context, title, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		body, err := ResolveLinks(string(c.policy.SanitizeBytes(buf.Bytes())), c.baseDir)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		page := fmt.Sprintf(pageTemplate, html.EscapeString(title), body)
		done <- result{html: InjectCSS(page, c.css)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
