package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags for commands that write documents.
type renderFlags struct {
	output     string
	format     string
	renderer   string
	timeout    string
	dateFormat string
	assetPath  string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common  commonFlags
	render  renderFlags
	workers int
}

// wizardFlags holds all flags for the wizard command.
type wizardFlags struct {
	common    commonFlags
	render    renderFlags
	save      string
	noPrefill bool
}

// optionsFlags holds flags for the options command.
type optionsFlags struct {
	common    commonFlags
	assetPath string
}

// guideFlags holds flags for the guide command.
type guideFlags struct {
	html      bool
	output    string
	style     string
	width     int
	assetPath string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	render renderFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addRenderFlags adds document output flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, html")
	fs.StringVarP(&f.renderer, "renderer", "r", "", "PDF backend: native, chrome")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "chrome render timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.dateFormat, "date-format", "", "declaration date format (e.g., DD/MM/YYYY, iso, long)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseFlagSet parses args. pflag has already printed the problem and the
// usage, so errors other than flag.ErrHelp are marked with ErrInvalidFlags.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidFlags, err)
}

// Each command registers its flags in one place so that parsing and shell
// completion see the same set.

func generateFlagSet(w io.Writer, f *generateFlags) *flag.FlagSet {
	fs := newFlagSet("generate", w, printGenerateUsage)
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func wizardFlagSet(w io.Writer, f *wizardFlags) *flag.FlagSet {
	fs := newFlagSet("wizard", w, printWizardUsage)
	fs.StringVarP(&f.save, "save", "s", "", "also save the answers as a record file")
	fs.BoolVar(&f.noPrefill, "no-prefill", false, "ignore the applicant section of the config")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

func optionsFlagSet(w io.Writer, f *optionsFlags) *flag.FlagSet {
	fs := newFlagSet("options", w, printOptionsUsage)
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	addCommonFlags(fs, &f.common)
	return fs
}

func guideFlagSet(w io.Writer, f *guideFlags) *flag.FlagSet {
	fs := newFlagSet("guide", w, printGuideUsage)
	fs.BoolVar(&f.html, "html", false, "write the guide as HTML")
	fs.StringVarP(&f.output, "output", "o", "", "HTML output file (default: stdout)")
	fs.StringVar(&f.style, "style", "", "terminal style: dark, light, notty")
	fs.IntVar(&f.width, "width", 0, "terminal wrap column (0 = terminal width)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	return fs
}

func doctorFlagSet(w io.Writer, f *doctorFlags) *flag.FlagSet {
	fs := newFlagSet("doctor", w, printDoctorUsage)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string, w io.Writer) (*generateFlags, []string, error) {
	f := &generateFlags{}
	fs := generateFlagSet(w, f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWizardFlags parses wizard command flags.
func parseWizardFlags(args []string, w io.Writer) (*wizardFlags, error) {
	f := &wizardFlags{}
	if err := parseFlagSet(wizardFlagSet(w, f), args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseOptionsFlags parses options command flags and returns positional args.
func parseOptionsFlags(args []string, w io.Writer) (*optionsFlags, []string, error) {
	f := &optionsFlags{}
	fs := optionsFlagSet(w, f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseGuideFlags parses guide command flags.
func parseGuideFlags(args []string, w io.Writer) (*guideFlags, error) {
	f := &guideFlags{}
	if err := parseFlagSet(guideFlagSet(w, f), args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	if err := parseFlagSet(doctorFlagSet(w, f), args); err != nil {
		return nil, err
	}
	return f, nil
}
