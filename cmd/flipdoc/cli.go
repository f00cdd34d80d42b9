package main

import (
	"strings"
	"time"

	"github.com/fwojciec/flipdoc"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Input          string        `arg:"" help:"Book URL or identifier (e.g. abcde/fghi)"`
	Output         string        `short:"o" default:"book.pdf" env:"FLIPDOC_OUTPUT" help:"Output PDF path"`
	Concurrency    int           `short:"c" default:"8" env:"FLIPDOC_CONCURRENCY" help:"Concurrent page downloads"`
	Timeout        time.Duration `short:"t" default:"15s" env:"FLIPDOC_TIMEOUT" help:"Timeout per page download"`
	ConfigTimeout  time.Duration `default:"10s" env:"FLIPDOC_CONFIG_TIMEOUT" help:"Timeout per configuration request"`
	BatchTimeout   time.Duration `default:"0s" env:"FLIPDOC_BATCH_TIMEOUT" help:"Deadline for all page downloads (0 disables)"`
	Rate           float64       `default:"0" env:"FLIPDOC_RATE" help:"Requests per second per host (0 disables)"`
	Burst          int           `default:"1" env:"FLIPDOC_BURST" help:"Request burst per host when rate limiting"`
	Origin         string        `default:"http://online.fliphtml5.com" env:"FLIPDOC_ORIGIN" help:"Book host origin"`
	Decoder        []string      `default:"node,fliphtml5_decoder.js" env:"FLIPDOC_DECODER" help:"Decoder command, comma separated; the staged config path is appended"`
	DecoderDir     string        `env:"FLIPDOC_DECODER_DIR" help:"Working directory for the decoder command"`
	DecoderTimeout time.Duration `default:"60s" env:"FLIPDOC_DECODER_TIMEOUT" help:"Timeout for the decoder command"`
	TempDir        string        `env:"FLIPDOC_TEMP_DIR" help:"Parent directory for the scratch workspace"`
	Debug          bool          `env:"FLIPDOC_DEBUG" help:"Log every request and stage"`
}

// Validate checks flag combinations kong cannot express.
func (c *CLI) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return flipdoc.Errorf(flipdoc.EINVALID, "book URL or identifier required")
	}
	if flipdoc.ParseBookID(c.Input) == "" {
		return flipdoc.Errorf(flipdoc.EINVALID, "no book identifier in %q", c.Input)
	}
	if c.Output == "" {
		return flipdoc.Errorf(flipdoc.EINVALID, "output path required")
	}
	if c.Concurrency < 1 {
		return flipdoc.Errorf(flipdoc.EINVALID, "concurrency must be at least 1")
	}
	if c.Rate < 0 {
		return flipdoc.Errorf(flipdoc.EINVALID, "rate must not be negative")
	}
	return nil
}
