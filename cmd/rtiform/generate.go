package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-rtiform"
)

// DocumentComposer builds documents from records.
type DocumentComposer interface {
	Compose(rec *rtiform.ApplicationRecord) (*rtiform.Document, error)
}

// Compile-time interface implementation check.
var _ DocumentComposer = (*rtiform.Composer)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() rtiform.Renderer
	Release(rtiform.Renderer)
	Size() int
}

// Compile-time check that RendererPool implements Pool.
var _ Pool = (*rtiform.RendererPool)(nil)

// GenerateResult holds the outcome of a single record.
type GenerateResult struct {
	InputPath   string
	OutputPath  string
	Fingerprint string
	Pages       int
	Size        int
	Err         error
	Duration    time.Duration
}

// runGenerateCmd renders every record file found at the input path.
func runGenerateCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	if flags.workers > 0 {
		cfg.Renderer.Workers = flags.workers
	}
	if err := finalizeConfig(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, flags.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if len(positional) == 0 {
		return ErrNoInput
	}
	jobs, err := discoverRecords(positional[0], cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("discovering records: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w in %s", ErrNoRecords, positional[0])
	}

	opts, err := libraryOptions(cfg, logger, env)
	if err != nil {
		return err
	}
	composer, err := rtiform.NewComposer(opts...)
	if err != nil {
		return err
	}
	factory, err := rendererFactory(cfg, opts, logger)
	if err != nil {
		return err
	}

	size := min(rtiform.ResolvePoolSize(cfg.Renderer.Workers), len(jobs))
	logger.Debug("batch started", zap.Int("records", len(jobs)), zap.Int("workers", size))
	pool := rtiform.NewRendererPool(size, factory)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing renderers", zap.Error(err))
		}
	}()

	results := generateBatch(ctx, pool, composer, jobs, logger)

	if len(results) == 1 {
		if r := results[0]; r.Err != nil {
			return fmt.Errorf("%s: %w", r.InputPath, r.Err)
		}
	}
	if failed := printResults(results, flags.common, env); failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// generateBatch processes jobs concurrently, at most pool.Size() at a time.
// Once ctx is done no new job starts; unstarted jobs report ctx.Err().
func generateBatch(ctx context.Context, pool Pool, composer DocumentComposer, jobs []recordJob, logger *zap.Logger) []GenerateResult {
	results := make([]GenerateResult, len(jobs))
	claims := newPathClaims()

	var g errgroup.Group
	g.SetLimit(pool.Size())

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = GenerateResult{InputPath: job.InputPath, Err: err}
			continue
		}
		g.Go(func() error {
			r := pool.Acquire()
			if r == nil {
				results[i] = GenerateResult{InputPath: job.InputPath, Err: ErrRendererInit}
				return nil
			}
			defer pool.Release(r)

			results[i] = generateOne(ctx, r, composer, job, claims)
			if err := results[i].Err; err != nil {
				logger.Debug("record failed", zap.String("input", job.InputPath), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// generateOne loads, composes, renders and writes a single record.
func generateOne(ctx context.Context, r rtiform.Renderer, composer DocumentComposer, job recordJob, claims *pathClaims) GenerateResult {
	start := time.Now()
	result := GenerateResult{InputPath: job.InputPath}
	fail := func(err error) GenerateResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	rec, err := rtiform.LoadRecordFile(job.InputPath)
	if err != nil {
		return fail(err)
	}
	doc, err := composer.Compose(rec)
	if err != nil {
		return fail(err)
	}
	data, err := r.Render(ctx, doc)
	if err != nil {
		return fail(err)
	}

	out := claims.claim(filepath.Join(job.OutputDir, doc.OutputName(r.Extension())))
	if err := writeOutput(out, data); err != nil {
		return fail(err)
	}

	result.OutputPath = out
	result.Fingerprint = doc.Fingerprint()
	result.Pages = len(doc.Pages)
	result.Size = len(data)
	result.Duration = time.Since(start)
	return result
}

// ResultSummary tallies a batch.
type ResultSummary struct {
	Succeeded   int
	Failed      int
	Interrupted int // failed because the run was canceled
}

// countResults tallies succeeded and failed records.
func countResults(results []GenerateResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			if errors.Is(r.Err, context.Canceled) {
				summary.Interrupted++
			}
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults writes one line per record and a summary for batches.
// Returns the number of failures.
func printResults(results []GenerateResult, common commonFlags, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		if common.quiet {
			continue
		}
		size := humanize.Bytes(uint64(r.Size)) // #nosec G115 -- byte length is non-negative
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %s, %v)\n  fingerprint: %s\n",
				r.InputPath, r.OutputPath, pagesLabel(r.Pages), size, r.Duration.Round(time.Millisecond), r.Fingerprint)
		} else {
			fmt.Fprintf(env.Stdout, "Created %s (%s)\n", r.OutputPath, size)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	if summary.Interrupted > 0 {
		fmt.Fprintf(env.Stderr, "interrupted: %d record(s) not processed\n", summary.Interrupted)
	}

	return summary.Failed
}

func pagesLabel(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}
