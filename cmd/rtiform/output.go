package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/config"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating directory: %w", ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// pathClaims hands out unique output paths within one run.
// Two records from the same applicant would otherwise overwrite each other.
type pathClaims struct {
	mu   sync.Mutex
	seen map[string]int
}

func newPathClaims() *pathClaims {
	return &pathClaims{seen: make(map[string]int)}
}

// claim returns path, or path with a _2, _3... suffix if already claimed.
func (c *pathClaims) claim(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.seen[path]
	c.seen[path] = n + 1
	if n == 0 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), n+1, ext)
}

// rendererFactory checks that cfg selects a valid renderer and returns a
// constructor for the pool. The renderer built for the check is handed out
// first. Later failures are logged and yield nil.
func rendererFactory(cfg *config.Config, opts []rtiform.Option, logger *zap.Logger) (func() rtiform.Renderer, error) {
	format, backend := cfg.Output.Format, cfg.Renderer.Backend

	first, err := rtiform.NewRenderer(format, backend, opts...)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	pending := first
	return func() rtiform.Renderer {
		mu.Lock()
		if pending != nil {
			r := pending
			pending = nil
			mu.Unlock()
			return r
		}
		mu.Unlock()

		r, err := rtiform.NewRenderer(format, backend, opts...)
		if err != nil {
			logger.Error("renderer init failed", zap.Error(err))
			return nil
		}
		return r
	}, nil
}
