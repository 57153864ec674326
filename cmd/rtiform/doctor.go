package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/config"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"`
	Config    configInfo    `json:"config"`
	Directory directoryInfo `json:"directory"`
	Sample    sampleInfo    `json:"sample"`
	Output    outputInfo    `json:"output"`
	Chrome    chromeInfo    `json:"chrome"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// configInfo is the effective configuration after flags and environment.
type configInfo struct {
	Source    string `json:"source"` // file path or "defaults"
	Valid     bool   `json:"valid"`
	Format    string `json:"format"`
	Renderer  string `json:"renderer"`
	AssetPath string `json:"asset_path,omitempty"`
}

// directoryInfo summarizes the jurisdiction table.
type directoryInfo struct {
	Loaded         bool   `json:"loaded"`
	State          string `json:"state,omitempty"`
	Districts      int    `json:"districts"`
	LocalBodyTypes int    `json:"local_body_types"`
	MappedPairs    int    `json:"mapped_pairs"`
}

// sampleInfo reports the composition of a sample application.
type sampleInfo struct {
	Composed    bool   `json:"composed"`
	Pages       int    `json:"pages,omitempty"`
	PDFBytes    int    `json:"pdf_bytes,omitempty"`
	HTMLBytes   int    `json:"html_bytes,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// outputInfo reports whether documents can be written.
type outputInfo struct {
	Dir      string `json:"dir"`
	Writable bool   `json:"writable"`
	Missing  bool   `json:"missing,omitempty"` // created on first write
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Sandbox  bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd executes the doctor command and returns an exit code.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return flagErrorCode(err)
	}

	result := runDoctor(ctx, flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks. A failing check never stops
// the later ones.
func runDoctor(ctx context.Context, flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkConfig(result, flags, env)
	dir := checkDirectory(result, cfg, env)
	if dir != nil {
		checkSample(ctx, result, cfg, dir, env)
	}
	checkOutputDir(result, cfg.Output.Dir)
	checkChrome(result, cfg.Renderer.Backend == rtiform.BackendChrome && cfg.Output.Format != rtiform.FormatHTML)
	checkEnvironment(result)
	checkSystem(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkConfig loads the configuration the other commands would use.
// A broken file falls back to defaults so the remaining checks still run.
func checkConfig(result *doctorResult, flags *doctorFlags, env *Environment) *config.Config {
	result.Config.Source = flags.common.config
	if result.Config.Source == "" {
		result.Config.Source = loadEnvConfig().ConfigPath
	}
	if result.Config.Source == "" {
		result.Config.Source = "defaults"
	}

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		result.fail("Config: %v", err)
		cfg = config.DefaultConfig()
	}
	mergeRenderFlags(flags.render, cfg)
	if err := finalizeConfig(cfg); err != nil {
		result.fail("Config: %v", err)
	}
	result.Config.Valid = len(result.Errors) == 0

	result.Config.Format = cfg.Output.Format
	result.Config.Renderer = cfg.Renderer.Backend
	result.Config.AssetPath = cfg.Directory.Path
	return cfg
}

// checkDirectory loads the jurisdiction table and counts its entries.
func checkDirectory(result *doctorResult, cfg *config.Config, env *Environment) *rtiform.Directory {
	dir, err := loadDirectory(cfg, env)
	if err != nil {
		result.fail("Directory: %v", err)
		return nil
	}

	info := directoryInfo{
		Loaded:         true,
		State:          dir.State(),
		Districts:      len(dir.Districts()),
		LocalBodyTypes: len(dir.LocalBodyTypes()),
	}
	for _, d := range dir.Districts() {
		for _, t := range dir.LocalBodyTypes() {
			if _, found := dir.Options(d, t); found {
				info.MappedPairs++
			}
		}
	}
	if info.MappedPairs == 0 {
		result.warn("Directory %q maps no local bodies; every selection shows placeholder names", info.State)
	}
	result.Directory = info
	return dir
}

// checkSample composes a sample application and renders it natively and
// as HTML, which exercises the date format and the document template.
func checkSample(ctx context.Context, result *doctorResult, cfg *config.Config, dir *rtiform.Directory, env *Environment) {
	opts, err := libraryOptions(cfg, zap.NewNop(), env)
	if err != nil {
		result.fail("Sample: %v", err)
		return
	}
	rec, err := sampleRecord(dir, env.Now())
	if err != nil {
		result.fail("Sample: %v", err)
		return
	}

	composer, err := rtiform.NewComposer(opts...)
	if err != nil {
		result.fail("Sample: %v", err)
		return
	}
	doc, err := composer.Compose(rec)
	if err != nil {
		result.fail("Sample: %v", err)
		return
	}

	pdf, err := rtiform.NewPDFRenderer(opts...).Render(ctx, doc)
	if err != nil {
		result.fail("Sample PDF: %v", err)
		return
	}
	htmlRenderer, err := rtiform.NewHTMLRenderer(opts...)
	if err != nil {
		result.fail("Sample HTML: %v", err)
		return
	}
	html, err := htmlRenderer.Render(ctx, doc)
	if err != nil {
		result.fail("Sample HTML: %v", err)
		return
	}

	result.Sample = sampleInfo{
		Composed:    true,
		Pages:       len(doc.Pages),
		PDFBytes:    len(pdf),
		HTMLBytes:   len(html),
		Fingerprint: doc.Fingerprint(),
	}
}

// sampleRecord fills a complete application against the first entries of dir.
func sampleRecord(dir *rtiform.Directory, today time.Time) (*rtiform.ApplicationRecord, error) {
	districts, types := dir.Districts(), dir.LocalBodyTypes()
	if len(districts) == 0 || len(types) == 0 {
		return nil, fmt.Errorf("%w: no districts or local-body types", rtiform.ErrInvalidDirectory)
	}
	names, _ := dir.Options(districts[0], types[0])
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no local bodies for %s, %s", rtiform.ErrInvalidDirectory, districts[0], types[0])
	}

	pad := rtiform.NewStrokePad(0, 0)
	pad.AddStroke(rtiform.Point{X: 40, Y: 140}, rtiform.Point{X: 160, Y: 60}, rtiform.Point{X: 320, Y: 150})
	sig, err := pad.ToImage()
	if err != nil {
		return nil, err
	}

	rec := rtiform.NewRecord(today)
	rec.Applicant = rtiform.Applicant{Name: "Sample Applicant", Address: "Sample House, Sample Road", Place: "Sample Place"}
	rec.Authority = rtiform.Authority{District: districts[0], LocalBodyType: types[0], LocalBodyName: names[0]}
	rec.Request = rtiform.Request{
		Subject:   "Sample request",
		Questions: []string{"Please provide the sample information."},
	}
	rec.Declaration.Place = "Sample Place"
	rec.Declaration.Signature = sig
	return rec, nil
}

// checkOutputDir verifies that documents can be written to dir, or to the
// nearest existing parent when dir does not exist yet.
func checkOutputDir(result *doctorResult, dir string) {
	if dir == "" {
		dir = "."
	}
	result.Output.Dir = dir

	existing := dir
	for {
		info, err := os.Stat(existing)
		if err == nil {
			if !info.IsDir() {
				result.fail("Output directory: %s is not a directory", existing)
				return
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			result.fail("Output directory: %v", err)
			return
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			result.fail("Output directory: no existing parent for %s", dir)
			return
		}
		result.Output.Missing = true
		existing = parent
	}

	f, err := os.CreateTemp(existing, ".rtiform-doctor-*")
	if err != nil {
		result.fail("Output directory not writable: %s", existing)
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.Output.Writable = true
}

// checkChrome locates Chrome/Chromium with rod's launcher. A missing browser
// is an error only when the configuration selects the chrome renderer.
func checkChrome(result *doctorResult, required bool) {
	result.Chrome.Required = required
	report := result.warn
	if required {
		report = result.fail
	}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			report("Chrome/Chromium not found; --renderer chrome is unavailable (install Chrome or set ROD_BROWSER_BIN)")
			return
		}
	}
	if _, err := os.Stat(chromePath); err != nil {
		report("Chrome not found at %s", chromePath)
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from launcher or ROD_BROWSER_BIN
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" && result.Chrome.Found {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether we run in a container and which signal said so.
func isContainer() (bool, string) {
	if os.Getenv("RTIFORM_CONTAINER") == "1" {
		return true, "RTIFORM_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory the chrome renderer prints from.
func checkSystem(result *doctorResult) {
	f, err := os.CreateTemp("", "rtiform-doctor-*.html")
	if err != nil {
		result.fail("Temp directory not writable: %s", os.TempDir())
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "rtiform doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	fmt.Fprintf(w, "  %s Source: %s\n", mark(r.Config.Valid, "[ERROR]"), r.Config.Source)
	fmt.Fprintf(w, "  [OK] Output: %s via %s renderer\n", r.Config.Format, r.Config.Renderer)
	if r.Config.AssetPath != "" {
		fmt.Fprintf(w, "  [OK] Asset path: %s\n", r.Config.AssetPath)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Jurisdiction directory")
	if r.Directory.Loaded {
		fmt.Fprintf(w, "  [OK] %s: %d districts, %d local-body types, %d mapped pairs\n",
			r.Directory.State, r.Directory.Districts, r.Directory.LocalBodyTypes, r.Directory.MappedPairs)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not loaded")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Sample application")
	if r.Sample.Composed {
		fmt.Fprintf(w, "  [OK] Composed %d page(s), draft %s\n", r.Sample.Pages, shortFingerprint(r.Sample.Fingerprint))
		fmt.Fprintf(w, "  [OK] Native PDF: %s, HTML: %s\n",
			humanize.Bytes(uint64(r.Sample.PDFBytes)), humanize.Bytes(uint64(r.Sample.HTMLBytes)))
	} else {
		fmt.Fprintln(w, "  [ERROR] Not composed")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output")
	switch {
	case r.Output.Writable && r.Output.Missing:
		fmt.Fprintf(w, "  [OK] %s: will be created\n", r.Output.Dir)
	case r.Output.Writable:
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Output.Dir)
	default:
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Output.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	switch {
	case r.Chrome.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	case r.Chrome.Required:
		fmt.Fprintln(w, "  [ERROR] Not found, but the chrome renderer is configured")
	default:
		fmt.Fprintln(w, "  [WARN] Not found (only needed for --renderer chrome)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func mark(ok bool, bad string) string {
	if ok {
		return "[OK]"
	}
	return bad
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
