package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestOptionsLevel(t *testing.T) {
	testData := []struct {
		options  *Options
		expected zapcore.Level
	}{
		{nil, zapcore.ErrorLevel},
		{new(Options), zapcore.ErrorLevel},
		{&Options{Level: "debug"}, zapcore.DebugLevel},
		{&Options{Level: "INFO"}, zapcore.InfoLevel},
		{&Options{Level: "Warn"}, zapcore.WarnLevel},
		{&Options{Level: "error"}, zapcore.ErrorLevel},
		{&Options{Level: "asdfasdfasdf"}, zapcore.ErrorLevel},
	}

	for _, record := range testData {
		assert.Equal(t, record.expected, record.options.level())
	}
}

func TestOptionsOutput(t *testing.T) {
	assert := assert.New(t)
	assert.NotNil((*Options)(nil).output())
	assert.NotNil((&Options{File: StdoutFile}).output())

	o := &Options{File: "test.log", MaxSize: 10, MaxAge: 2, MaxBackups: 3}
	assert.Equal(
		zapcore.AddSync(&lumberjack.Logger{Filename: "test.log", MaxSize: 10, MaxAge: 2, MaxBackups: 3}),
		o.output(),
	)
}

func TestNew(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		file    = filepath.Join(t.TempDir(), "rtsync.log")
		logger  = New(&Options{File: file, JSON: true, Level: "INFO"})
	)

	require.NotNil(logger)
	logger.Debug("filtered")
	logger.Info("written")
	logger.Sync()

	contents, err := os.ReadFile(file)
	require.NoError(err)
	assert.Contains(string(contents), `"msg":"written"`)
	assert.NotContains(string(contents), "filtered")

	assert.NotNil(New(nil))
}

func TestContext(t *testing.T) {
	var (
		assert = assert.New(t)
		logger = NewTestLogger(t)
		ctx    = With(context.Background(), logger)
	)

	assert.Equal(logger, Get(ctx))
	assert.NotNil(Get(With(context.Background(), nil)))
	assert.NotNil(Get(context.Background()))
}
