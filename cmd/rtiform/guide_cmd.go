package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/assets"
	"github.com/alnah/go-rtiform/internal/guide"
)

// guideTitle is the HTML page title of the submission guide.
const guideTitle = "Submitting your RTI application"

// runGuideCmd prints the submission guide for the terminal or as HTML.
func runGuideCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseGuideFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	loader := env.AssetLoader
	var baseDir string
	if flags.assetPath != "" {
		r, err := assets.NewAssetResolver(flags.assetPath)
		if err != nil {
			return fmt.Errorf("%w: %v", rtiform.ErrInvalidAssetPath, err)
		}
		loader = r
		baseDir = filepath.Join(flags.assetPath, "guide")
	}

	content, err := loader.LoadGuide(assets.DefaultGuideName)
	if err != nil {
		return err
	}

	if flags.html {
		page, err := guide.NewHTMLConverter(guide.WithBaseDir(baseDir)).ToHTML(ctx, guideTitle, content)
		if err != nil {
			return err
		}
		if flags.output == "" {
			_, err = io.WriteString(env.Stdout, page)
			return err
		}
		if err := writeOutput(flags.output, []byte(page)); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
		return nil
	}

	opts := guide.TerminalOptions{Style: flags.style, Width: flags.width}
	isTTY, width := terminalInfo(env.Stdout)
	if opts.Width <= 0 {
		opts.Width = width
	}
	if opts.Style == "" && !isTTY {
		opts.Style = "notty"
	}

	out, err := guide.RenderTerminal(content, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(env.Stdout, out)
	return err
}

// terminalInfo reports whether w is a terminal and its width (0 if unknown).
func terminalInfo(w io.Writer) (isTTY bool, width int) {
	f, ok := w.(*os.File)
	if !ok {
		return false, 0
	}
	fd := int(f.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return false, 0
	}
	if cols, _, err := term.GetSize(fd); err == nil {
		width = cols
	}
	return true, width
}
