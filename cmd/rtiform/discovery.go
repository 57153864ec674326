package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-rtiform"
)

// recordJob is one record file and the directory its document goes to.
type recordJob struct {
	InputPath string
	OutputDir string
}

// discoverRecords finds the record files under inputPath.
// An empty outputDir writes each document next to its record; otherwise the
// input directory structure is mirrored under outputDir.
func discoverRecords(inputPath, outputDir string) ([]recordJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateRecordExtension(inputPath); err != nil {
			return nil, err
		}
		return []recordJob{{InputPath: inputPath, OutputDir: resolveOutputDir(inputPath, outputDir, "")}}, nil
	}

	var jobs []recordJob
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isRecordFile(path) {
			return nil
		}
		jobs = append(jobs, recordJob{InputPath: path, OutputDir: resolveOutputDir(path, outputDir, inputPath)})
		return nil
	})
	return jobs, err
}

// resolveOutputDir returns the directory for the document of inputPath.
func resolveOutputDir(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return filepath.Dir(inputPath)
	}
	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel))
		}
	}
	return outputDir
}

func isRecordFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// validateRecordExtension checks that path has a .yaml or .yml extension.
func validateRecordExtension(path string) error {
	if !isRecordFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > rtiform.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, rtiform.MaxPoolSize)
	}
	return nil
}
