package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/flipdoc"
	"github.com/fwojciec/flipdoc/fs"
	"github.com/fwojciec/flipdoc/gopdf"
	"github.com/fwojciec/flipdoc/goquery"
	flipdochttp "github.com/fwojciec/flipdoc/http"
	"github.com/fwojciec/flipdoc/node"
	"github.com/fwojciec/flipdoc/rebuild"
	flipslog "github.com/fwojciec/flipdoc/slog"
	"github.com/fwojciec/flipdoc/webp"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("flipdoc"),
		kong.Description("Rebuild a FlipHTML5 flipbook into a single PDF"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	if err := cli.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", flipdoc.ErrorMessage(err))
		return err
	}

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Rebuilder: cli.newRebuilder(stderr),
	}

	cmd := &RebuildCmd{
		Input:  cli.Input,
		Output: cli.Output,
	}

	return cmd.Run(deps)
}

// newLogger returns the run logger. Every record carries a run id so
// interleaved runs can be told apart in shared logs.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run", uuid.NewString())
}

// newRebuilder wires the production services from the parsed flags.
func (c *CLI) newRebuilder(stderr io.Writer) *rebuild.Rebuilder {
	logger := newLogger(stderr, c.Debug)

	var (
		configFetcher flipdoc.Fetcher   = flipdochttp.NewFetcher(flipdochttp.WithTimeout(c.ConfigTimeout))
		pageFetcher   flipdoc.Fetcher   = flipdochttp.NewFetcher(flipdochttp.WithTimeout(c.Timeout))
		assembler     flipdoc.Assembler = gopdf.NewAssembler(logger)
	)
	if c.Debug {
		configFetcher = flipslog.NewLoggingFetcher(configFetcher, logger)
		pageFetcher = flipslog.NewLoggingFetcher(pageFetcher, logger)
		assembler = flipslog.NewLoggingAssembler(assembler, logger)
	}

	var resolver flipdoc.ConfigResolver = flipdochttp.NewConfigResolver(configFetcher,
		flipdochttp.WithOrigin(c.Origin),
		flipdochttp.WithScriptFinder(goquery.NewScriptFinder()),
		flipdochttp.WithLogger(logger),
	)

	nodeOpts := []node.Option{node.WithTimeout(c.DecoderTimeout)}
	if len(c.Decoder) > 0 {
		nodeOpts = append(nodeOpts, node.WithCommand(c.Decoder...))
	}
	if c.DecoderDir != "" {
		nodeOpts = append(nodeOpts, node.WithDir(c.DecoderDir))
	}
	var decoder flipdoc.Decoder = flipdoc.DecoderChain{
		flipdoc.PlainDecoder{},
		node.NewDecoder(nodeOpts...),
	}

	if c.Debug {
		resolver = flipslog.NewLoggingConfigResolver(resolver, logger)
		decoder = flipslog.NewLoggingDecoder(decoder, logger)
	}

	fetcher := &rebuild.PageFetcher{
		Fetcher:      pageFetcher,
		Concurrency:  c.Concurrency,
		BatchTimeout: c.BatchTimeout,
		Logger:       logger,
	}
	if c.Rate > 0 {
		fetcher.Limiter = rebuild.NewHostLimiter(c.Rate, c.Burst)
	}

	tempDir := c.TempDir
	return &rebuild.Rebuilder{
		Resolver:   resolver,
		Decoder:    decoder,
		Fetcher:    fetcher,
		Normalizer: webp.NewNormalizer(),
		Assembler:  assembler,
		Inspector:  gopdf.NewInspector(),
		NewWorkspace: func() (flipdoc.Workspace, error) {
			return fs.NewWorkspace(tempDir)
		},
		Origin: c.Origin,
		Logger: logger,
	}
}
