package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/flipdoc"
	"github.com/fwojciec/flipdoc/mock"
	flipslog "github.com/fwojciec/flipdoc/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingAssembler_Assemble(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Assembler{
		AssembleFn: func(ctx context.Context, pages []*flipdoc.Page, path string) (int, error) {
			return 0, errors.New("disk full")
		},
	}

	assembler := flipslog.NewLoggingAssembler(inner, newDebugLogger(&buf))
	_, err := assembler.Assemble(context.Background(), []*flipdoc.Page{{Index: 1}, {Index: 2}}, "/tmp/out.pdf")

	assert.EqualError(t, err, "disk full")
	output := buf.String()
	assert.Contains(t, output, "msg=assemble")
	assert.Contains(t, output, "pages=2")
	assert.Contains(t, output, "placed=0")
	assert.Contains(t, output, "path=/tmp/out.pdf")
	assert.Contains(t, output, "err=\"disk full\"")
}
