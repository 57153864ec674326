package main

// Notes:
// - generateBatch: exercised with the real composer and the native PDF
//   renderer through a counting pool. Chrome is covered by the library's
//   integration tests.
// - Cancellation: a canceled context reports every unstarted record.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/alnah/go-rtiform"
)

// countingPool hands out native PDF renderers and tracks concurrency.
type countingPool struct {
	size    int
	mu      sync.Mutex
	active  int
	peak    int
	acquire atomic.Int32
	fail    bool
}

func (p *countingPool) Acquire() rtiform.Renderer {
	p.acquire.Add(1)
	if p.fail {
		return nil
	}
	p.mu.Lock()
	p.active++
	p.peak = max(p.peak, p.active)
	p.mu.Unlock()
	return rtiform.NewPDFRenderer()
}

func (p *countingPool) Release(rtiform.Renderer) {
	p.mu.Lock()
	p.active--
	p.mu.Unlock()
}

func (p *countingPool) Size() int { return p.size }

func newTestComposer(t *testing.T) *rtiform.Composer {
	t.Helper()
	c, err := rtiform.NewComposer()
	if err != nil {
		t.Fatalf("NewComposer() unexpected error: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// TestGenerateBatch
// ---------------------------------------------------------------------------

func TestGenerateBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var jobs []recordJob
	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml"} {
		jobs = append(jobs, recordJob{InputPath: writeFile(t, dir, name, recordYAML), OutputDir: filepath.Join(dir, "out")})
	}
	jobs = append(jobs, recordJob{InputPath: writeFile(t, dir, "bad.yaml", invalidRecordYAML), OutputDir: filepath.Join(dir, "out")})

	pool := &countingPool{size: 2}
	results := generateBatch(context.Background(), pool, newTestComposer(t), jobs, zap.NewNop())

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	if pool.peak > pool.size {
		t.Errorf("peak concurrency %d exceeds pool size %d", pool.peak, pool.size)
	}

	seen := map[string]bool{}
	for i, r := range results[:4] {
		if r.Err != nil {
			t.Fatalf("result %d unexpected error: %v", i, r.Err)
		}
		if r.InputPath != jobs[i].InputPath {
			t.Errorf("result %d input = %q, want %q (order must match jobs)", i, r.InputPath, jobs[i].InputPath)
		}
		if seen[r.OutputPath] {
			t.Errorf("output path %s used twice", r.OutputPath)
		}
		seen[r.OutputPath] = true
		assertPDF(t, r.OutputPath)
		if r.Pages != 1 || r.Size == 0 || len(r.Fingerprint) != 64 {
			t.Errorf("result %d = %+v, want 1 page, bytes and a fingerprint", i, r)
		}
	}

	// Same applicant four times: the first keeps the plain name.
	if !seen[filepath.Join(dir, "out", "RTI_Application_Anitha_Raghavan.pdf")] {
		t.Errorf("plain output name missing from %v", seen)
	}
	if !seen[filepath.Join(dir, "out", "RTI_Application_Anitha_Raghavan_4.pdf")] {
		t.Errorf("suffixed output name missing from %v", seen)
	}

	if err := results[4].Err; !errors.Is(err, rtiform.ErrIncompleteRecord) {
		t.Errorf("invalid record error = %v, want ErrIncompleteRecord", err)
	}
}

func TestGenerateBatch_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs := []recordJob{
		{InputPath: writeFile(t, dir, "a.yaml", recordYAML), OutputDir: dir},
		{InputPath: writeFile(t, dir, "b.yaml", recordYAML), OutputDir: dir},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := &countingPool{size: 1}
	results := generateBatch(ctx, pool, newTestComposer(t), jobs, zap.NewNop())

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
		}
	}
	if n := pool.acquire.Load(); n != 0 {
		t.Errorf("Acquire called %d times after cancellation, want 0", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "RTI_Application_Anitha_Raghavan.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("document written after cancellation (stat err = %v)", err)
	}
}

func TestGenerateBatch_RendererInitFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs := []recordJob{{InputPath: writeFile(t, dir, "a.yaml", recordYAML), OutputDir: dir}}

	results := generateBatch(context.Background(), &countingPool{size: 1, fail: true}, newTestComposer(t), jobs, zap.NewNop())
	if !errors.Is(results[0].Err, ErrRendererInit) {
		t.Errorf("error = %v, want ErrRendererInit", results[0].Err)
	}
}

// ---------------------------------------------------------------------------
// TestPathClaims
// ---------------------------------------------------------------------------

func TestPathClaims(t *testing.T) {
	t.Parallel()

	c := newPathClaims()
	got := []string{
		c.claim("out/RTI_Application_A.pdf"),
		c.claim("out/RTI_Application_A.pdf"),
		c.claim("out/RTI_Application_B.pdf"),
		c.claim("out/RTI_Application_A.pdf"),
	}
	want := []string{
		"out/RTI_Application_A.pdf",
		"out/RTI_Application_A_2.pdf",
		"out/RTI_Application_B.pdf",
		"out/RTI_Application_A_3.pdf",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("claim %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// TestPrintResults
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []GenerateResult{
		{InputPath: "a.yaml", OutputPath: "out/a.pdf", Pages: 2, Size: 2048, Fingerprint: "abc"},
		{InputPath: "b.yaml", Err: rtiform.ErrIncompleteRecord},
		{InputPath: "c.yaml", Err: context.Canceled},
	}

	tests := []struct {
		name       string
		common     commonFlags
		wantStdout []string
		notStdout  []string
	}{
		{"default", commonFlags{}, []string{"Created out/a.pdf (2.0 kB)", "1 succeeded, 2 failed"}, []string{"fingerprint"}},
		{"verbose", commonFlags{verbose: true}, []string{"a.yaml -> out/a.pdf (2 pages, 2.0 kB", "fingerprint: abc"}, nil},
		{"quiet", commonFlags{quiet: true}, nil, []string{"Created", "succeeded"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(t)
			if failed := printResults(results, tt.common, env); failed != 2 {
				t.Errorf("printResults() = %d, want 2", failed)
			}
			for _, s := range tt.wantStdout {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("stdout = %q, want it to contain %q", stdout, s)
				}
			}
			for _, s := range tt.notStdout {
				if strings.Contains(stdout.String(), s) {
					t.Errorf("stdout = %q, should not contain %q", stdout, s)
				}
			}
			if !strings.Contains(stderr.String(), "FAILED b.yaml") {
				t.Errorf("stderr = %q, want FAILED line", stderr)
			}
			if !strings.Contains(stderr.String(), "interrupted: 1 record(s)") {
				t.Errorf("stderr = %q, want interruption notice", stderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunGenerateCmd - End to end with the native renderer
// ---------------------------------------------------------------------------

func TestRunGenerateCmd(t *testing.T) {
	t.Parallel()

	t.Run("directory batch with HTML", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeFile(t, in, "a.yaml", recordYAML)
		writeFile(t, in, "ward/b.yaml", strings.Replace(recordYAML, "Anitha Raghavan", "Biju Thomas", 1))
		out := t.TempDir()

		env, stdout, _ := testEnv(t)
		err := runGenerateCmd(context.Background(), []string{"-o", out, "-f", "HTML", "-w", "2", in}, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range []string{
			filepath.Join(out, "RTI_Application_Anitha_Raghavan.html"),
			filepath.Join(out, "ward", "RTI_Application_Biju_Thomas.html"),
		} {
			data, err := os.ReadFile(p) // #nosec G304 -- test path
			if err != nil {
				t.Fatalf("reading %s: %v", p, err)
			}
			if !strings.Contains(string(data), "FORM A") {
				t.Errorf("%s does not contain the form title", p)
			}
		}
		if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q, want summary", stdout)
		}
	})

	t.Run("single invalid record returns its error", func(t *testing.T) {
		t.Parallel()

		in := writeFile(t, t.TempDir(), "bad.yaml", invalidRecordYAML)
		env, _, stderr := testEnv(t)

		err := runGenerateCmd(context.Background(), []string{in}, env)
		var verr *rtiform.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error = %v, want a ValidationError", err)
		}
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
		}
		if strings.Contains(stderr.String(), "FAILED") {
			t.Errorf("single failure printed twice: %s", stderr)
		}
	})

	t.Run("batch failure", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeFile(t, in, "a.yaml", recordYAML)
		writeFile(t, in, "bad.yaml", invalidRecordYAML)
		env, _, _ := testEnv(t)

		err := runGenerateCmd(context.Background(), []string{in}, env)
		if !errors.Is(err, ErrBatchFailed) {
			t.Errorf("error = %v, want ErrBatchFailed", err)
		}
	})

	t.Run("no records", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(t)
		err := runGenerateCmd(context.Background(), []string{t.TempDir()}, env)
		if !errors.Is(err, ErrNoRecords) {
			t.Errorf("error = %v, want ErrNoRecords", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()

		in := writeFile(t, t.TempDir(), "a.yaml", recordYAML)
		env, _, _ := testEnv(t)
		err := runGenerateCmd(context.Background(), []string{"--renderer", "latex", in}, env)
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("error = %v (exit %d), want a usage error", err, exitCodeFor(err))
		}
	})
}
