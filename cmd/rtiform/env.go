package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-rtiform/internal/assets"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	AssetLoader assets.AssetLoader
	// Prompter drives the interactive wizard. Nil means survey on the
	// process terminal.
	Prompter PromptDriver
}

// DefaultEnv returns the production environment with embedded assets.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		AssetLoader: assets.NewEmbeddedLoader(),
	}
}

// prompter returns the configured driver or a survey driver on stdio.
func (e *Environment) prompter() PromptDriver {
	if e.Prompter != nil {
		return e.Prompter
	}
	return newSurveyDriver(os.Stdin, os.Stdout, e.Stderr)
}
