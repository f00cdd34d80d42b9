package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/flipdoc"
	"github.com/fwojciec/flipdoc/mock"
	flipslog "github.com/fwojciec/flipdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingDecoder_Decode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Decoder{
		DecodeFn: func(ctx context.Context, payload *flipdoc.ConfigPayload) (flipdoc.Manifest, error) {
			return flipdoc.Manifest{"title": "t", flipdoc.PagesKey: []any{}}, nil
		},
	}

	decoder := flipslog.NewLoggingDecoder(inner, newDebugLogger(&buf))
	m, err := decoder.Decode(context.Background(), &flipdoc.ConfigPayload{Data: []byte("abcd")})

	require.NoError(t, err)
	assert.Len(t, m, 2)
	output := buf.String()
	assert.Contains(t, output, "msg=decode")
	assert.Contains(t, output, "bytes=4")
	assert.Contains(t, output, "keys=2")
}
