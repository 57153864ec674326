package main

// Notes:
// - Tests that use t.Setenv cannot run in parallel.
// - applyEnvConfig: environment beats file values; unset variables leave
//   the config untouched.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-rtiform/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("RTIFORM_CONFIG", "work")
	t.Setenv("RTIFORM_OUTPUT_DIR", "/tmp/out")
	t.Setenv("RTIFORM_FORMAT", "html")
	t.Setenv("RTIFORM_RENDERER", "chrome")
	t.Setenv("RTIFORM_TIMEOUT", "45s")
	t.Setenv("RTIFORM_WORKERS", "3")
	t.Setenv("RTIFORM_LOG_LEVEL", "debug")
	t.Setenv("RTIFORM_DATE_FORMAT", "iso")

	want := &envConfig{
		ConfigPath: "work",
		OutputDir:  "/tmp/out",
		Format:     "html",
		Renderer:   "chrome",
		Timeout:    "45s",
		Workers:    3,
		LogLevel:   "debug",
		DateFormat: "iso",
	}
	if diff := cmp.Diff(want, loadEnvConfig()); diff != "" {
		t.Errorf("loadEnvConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvConfig_InvalidWorkers(t *testing.T) {
	for _, v := range []string{"abc", "0", "-2"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("RTIFORM_WORKERS", v)
			if got := loadEnvConfig().Workers; got != 0 {
				t.Errorf("Workers = %d for %q, want 0", got, v)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("RTIFORM_FROMAT", "pdf")
	t.Setenv("RTIFORM_FORMAT", "pdf")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "RTIFORM_FROMAT") {
		t.Errorf("expected warning for RTIFORM_FROMAT, got %q", out)
	}
	if strings.Contains(out, "RTIFORM_FORMAT ") {
		t.Errorf("known variable reported as unknown: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Dir = "from-file"
		applyEnvConfig(&envConfig{
			OutputDir:  "from-env",
			Format:     "html",
			Renderer:   "chrome",
			Timeout:    "1m",
			Workers:    2,
			LogLevel:   "info",
			DateFormat: "long",
		}, cfg)

		want := config.DefaultConfig()
		want.Output = config.OutputConfig{Dir: "from-env", Format: "html"}
		want.Renderer = config.RendererConfig{Backend: "chrome", Timeout: "1m", Workers: 2}
		want.Log.Level = "info"
		want.Document.DateFormat = "long"
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty env keeps config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Dir = "from-file"
		applyEnvConfig(&envConfig{}, cfg)

		want := config.DefaultConfig()
		want.Output.Dir = "from-file"
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_EnvOverrides - env beats defaults, flags beat env
// ---------------------------------------------------------------------------

func TestRunMain_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	record := writeFile(t, dir, "a.yaml", recordYAML)
	envOut := dir + "/env-out"
	flagOut := dir + "/flag-out"

	t.Setenv("RTIFORM_OUTPUT_DIR", envOut)
	t.Setenv("RTIFORM_FORMAT", "html")

	env, stdout, stderr := testEnv(t)
	if code := runMain([]string{"rtiform", "generate", record}, env); code != ExitSuccess {
		t.Fatalf("exit = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout.String(), envOut+"/RTI_Application_Anitha_Raghavan.html") {
		t.Errorf("stdout = %q, want HTML in %s", stdout, envOut)
	}

	env, stdout, stderr = testEnv(t)
	if code := runMain([]string{"rtiform", "generate", "-o", flagOut, "--format", "pdf", record}, env); code != ExitSuccess {
		t.Fatalf("exit = %d, stderr: %s", code, stderr)
	}
	assertPDF(t, flagOut+"/RTI_Application_Anitha_Raghavan.pdf")
	if !strings.Contains(stdout.String(), flagOut) {
		t.Errorf("stdout = %q, want output in %s", stdout, flagOut)
	}
}
