package main

import (
	"context"
	"io"

	"github.com/fwojciec/flipdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Rebuilder flipdoc.Rebuilder
}

// RebuildCmd rebuilds one book into a PDF.
type RebuildCmd struct {
	Input  string
	Output string
}
