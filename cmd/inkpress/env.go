package main

import (
	"io"
	"os"
	"time"

	inkpress "github.com/alnah/go-inkpress"
	"github.com/alnah/go-inkpress/internal/server"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	NewRenderer func(opts ...inkpress.Option) (server.Renderer, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewRenderer: func(opts ...inkpress.Option) (server.Renderer, error) {
			return inkpress.NewConverter(opts...)
		},
	}
}
