package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsSameInstance(t *testing.T) {
	l1 := Get(0)
	l2 := Get(-1)
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
	assert.Same(t, l1, GetGlobalLogger())
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(0, &buf)
	log.Info("loaded records", RecordsKey, 3, SourceKey, "synthetic")
	log.V(1).Info("hidden at info level")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "loaded records", entry[MessageKey])
	assert.EqualValues(t, 3, entry[RecordsKey])
	assert.Equal(t, "synthetic", entry[SourceKey])
	assert.Contains(t, entry, CommitKey)
	assert.Contains(t, entry, TimeStampKey)
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(-1, &buf)
	log.V(1).Info("debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	l1 := Get(0)
	ctx1 := WithLogger(ctx, l1)
	assert.Same(t, l1, FromContext(ctx1))
	assert.Equal(t, ctx1, WithLogger(ctx1, l1), "same logger keeps the context")

	l2 := logr.Discard()
	ctx2 := WithLogger(ctx1, &l2)
	assert.Same(t, &l2, FromContext(ctx2))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	orig := globalLogrLogger
	t.Cleanup(func() { globalLogrLogger = orig })

	globalLogrLogger = nil
	assert.Same(t, GetNoopLogger(), FromContext(context.Background()))

	l := logr.Discard()
	globalLogrLogger = &l
	assert.Same(t, &l, FromContext(context.Background()))
}

func TestWithValues(t *testing.T) {
	var buf bytes.Buffer
	base := New(0, &buf)
	log := WithValues(&base, DialectKey, "cel")
	log.Info("compiled")
	assert.Contains(t, buf.String(), `"dialect":"cel"`)
}

func TestIsIgnorableSyncError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{syscall.ENOTTY, true},
		{syscall.EINVAL, true},
		{&os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.EBADF}, true},
		{errors.New("The handle is invalid."), true},
		{errors.New("disk full"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isIgnorableSyncError(tt.err), tt.err.Error())
	}
}

func TestSyncWithoutLogger(t *testing.T) {
	orig := globalZapLogger
	t.Cleanup(func() { globalZapLogger = orig })
	globalZapLogger = nil
	assert.NotPanics(t, Sync)
}
