// Package node runs the external configuration decoder, a node script that
// decrypts book configurations and prints them as JSON on stdout.
package node

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/flipdoc"
)

// DefaultCommand is the decoder invocation; the staged payload path is
// appended as the last argument.
var DefaultCommand = []string{"node", "fliphtml5_decoder.js"}

// DefaultTimeout bounds a single decoder run.
const DefaultTimeout = 60 * time.Second

// Ensure Decoder implements flipdoc.Decoder at compile time.
var _ flipdoc.Decoder = (*Decoder)(nil)

// Decoder implements flipdoc.Decoder by running an external command.
type Decoder struct {
	command []string
	dir     string
	timeout time.Duration
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithCommand sets the command and its leading arguments.
func WithCommand(command ...string) Option {
	return func(d *Decoder) {
		d.command = command
	}
}

// WithDir sets the working directory the command runs in.
func WithDir(dir string) Option {
	return func(d *Decoder) {
		d.dir = dir
	}
}

// WithTimeout bounds each run. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Decoder) {
		d.timeout = timeout
	}
}

// NewDecoder creates a new Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		command: DefaultCommand,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode runs the command on the staged payload and parses its output.
// A non-zero exit is reported as EDECODE carrying the command's stderr.
func (d *Decoder) Decode(ctx context.Context, payload *flipdoc.ConfigPayload) (flipdoc.Manifest, error) {
	if len(d.command) == 0 {
		return nil, flipdoc.Errorf(flipdoc.EINVALID, "decoder command required")
	}
	if payload.Path == "" {
		return nil, flipdoc.Errorf(flipdoc.EINVALID, "decoder needs a staged configuration file")
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	// The command may run in another directory.
	path, err := filepath.Abs(payload.Path)
	if err != nil {
		return nil, err
	}

	args := append(append([]string(nil), d.command[1:]...), path)
	cmd := exec.CommandContext(ctx, d.command[0], args...)
	cmd.Dir = d.dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ctx.Err()
		}
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return nil, flipdoc.Errorf(flipdoc.EDECODE, "%s: %s", d.command[0], diag)
	}

	return flipdoc.ParseManifest(bytes.TrimSpace(stdout.Bytes()))
}
