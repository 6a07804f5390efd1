package main

import (
	"io"
	"os"
	"os/exec"

	"github.com/alnah/go-markcv/internal/pipeline"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Runner   pipeline.CommandRunner // drives the converter executable
	LookPath func(file string) (string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Runner:   &pipeline.ExecRunner{},
		LookPath: exec.LookPath,
	}
}
