package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestModuleFieldIsAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.Info("submission", "upload accepted", map[string]interface{}{"status": 200})
	l.Debug("comment", "no details", nil)

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "upload accepted", first.Message)
	assert.Equal(t, "submission", first.ContextMap()["module"])
}

func TestErrorAttachesErrorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.Error("api", "request failed", map[string]interface{}{"error": errors.New("boom")})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["error"])
}

func TestRecentReadsFileNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stegshare.log")
	l := New(path, false)

	l.Info("a", "first", nil)
	l.Error("b", "second", nil)
	l.Info("c", "third", nil)
	require.NoError(t, l.Sync())

	all, err := Recent(path, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.Equal(t, "c", all[0].Module)

	errs, err := Recent(path, "ERROR", 10)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "second", errs[0].Message)

	limited, err := Recent(path, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecentMissingFile(t *testing.T) {
	entries, err := Recent(filepath.Join(t.TempDir(), "nope.log"), "", 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDebugSkippedWhenNotVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiet.log")
	l := New(path, false)
	l.Debug("x", "hidden", nil)
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read log: %v", err)
	}
	assert.NotContains(t, string(data), "hidden")
}
