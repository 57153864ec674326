package rtiform

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-rtiform/internal/fileutil"
	"github.com/alnah/go-rtiform/internal/process"
)

// A4 paper in inches for Chrome's print settings.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// ChromeRenderer prints the HTML rendering to PDF in headless Chrome.
// Rod downloads Chromium on first use when no browser is found.
// The browser starts lazily and is reused until Close.
type ChromeRenderer struct {
	html    *HTMLRenderer
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	browser *rod.Browser
	pid     int
	closed  bool
}

// NewChromeRenderer creates a Chrome-backed PDF renderer.
func NewChromeRenderer(opts ...Option) (*ChromeRenderer, error) {
	s := newSettings(opts)
	h, err := newHTMLRenderer(s)
	if err != nil {
		return nil, err
	}
	return &ChromeRenderer{html: h, logger: s.logger, timeout: s.timeout}, nil
}

// Extension returns ".pdf".
func (r *ChromeRenderer) Extension() string { return "." + FormatPDF }

// Render writes doc as HTML to a temp file and prints it.
func (r *ChromeRenderer) Render(ctx context.Context, doc *Document) ([]byte, error) {
	if err := checkRender(ctx, doc); err != nil {
		return nil, err
	}
	content, err := r.html.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(content, FormatHTML)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRendererClosed
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}
	return r.printFile(ctx, tmpPath)
}

// ensureBrowser connects on first use. Callers hold r.mu.
func (r *ChromeRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	r.pid = l.PID()
	r.logger.Debug("browser connected", zap.Int("pid", r.pid))
	return nil
}

func (r *ChromeRenderer) printFile(ctx context.Context, path string) ([]byte, error) {
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(printOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return out, nil
}

// printOptions prints A4 with no margins; the page sections carry their own.
func printOptions() *proto.PagePrintToPDF {
	zero := 0.0
	return &proto.PagePrintToPDF{
		PaperWidth:        floatPtr(a4WidthInches),
		PaperHeight:       floatPtr(a4HeightInches),
		MarginTop:         &zero,
		MarginBottom:      &zero,
		MarginLeft:        &zero,
		MarginRight:       &zero,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// Close shuts the browser down. Later Render calls fail with ErrRendererClosed.
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if err != nil && r.pid > 0 {
		// The browser did not exit on request; take its children with it.
		r.logger.Warn("browser close failed, killing process group", zap.Int("pid", r.pid), zap.Error(err))
		process.KillProcessGroup(r.pid)
	}
	r.browser = nil
	r.pid = 0
	return err
}

func floatPtr(v float64) *float64 {
	return &v
}
