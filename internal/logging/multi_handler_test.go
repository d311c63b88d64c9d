package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.Debug("dropped")
	logger.Info("hello", "owner_id", "o-1")
	logger.Error("boom")

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errs.Bytes(), []byte("\n")))
	assert.Contains(t, errs.String(), `"msg":"boom"`)
}

func TestMultiHandler_WithAttrsPropagates(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)).With("request_id", "r-42")

	logger.Info("scoped")

	for _, buf := range []*bytes.Buffer{&a, &b} {
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "r-42", line["request_id"])
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_AddsContextAttrs(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	))

	ctx := ContextWith(context.Background(), slog.String("owner_id", "o-7"))
	ctx = ContextWith(ctx, slog.String("request_id", "r-9"))
	logger.InfoContext(ctx, "scoped")
	logger.Info("plain")

	for _, buf := range []*bytes.Buffer{&a, &b} {
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var scoped, plain map[string]any
		require.NoError(t, json.Unmarshal(lines[0], &scoped))
		require.NoError(t, json.Unmarshal(lines[1], &plain))
		assert.Equal(t, "o-7", scoped["owner_id"])
		assert.Equal(t, "r-9", scoped["request_id"])
		assert.NotContains(t, plain, "owner_id")
	}
}

func TestMultiHandler_FailingSinkDoesNotBlockOthers(t *testing.T) {
	var out bytes.Buffer
	h := NewMultiHandler(
		failingHandler{slog.NewJSONHandler(&bytes.Buffer{}, nil)},
		slog.NewJSONHandler(&out, nil),
	)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "kept", 0))
	assert.EqualError(t, err, "sink down")
	assert.Contains(t, out.String(), `"msg":"kept"`)
}
