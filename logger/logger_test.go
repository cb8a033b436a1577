package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: 0},
		{name: "Console output mode", jsonOutput: false, verbosity: 1},
		{name: "Console with caller", jsonOutput: false, verbosity: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Logger.Sync()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Trace (-vvv)", LevelName(5))
	assert.Equal(t, "Unknown", LevelName(-2))
}

func TestComponentLogger(t *testing.T) {
	require.NoError(t, Initialize(false, 0))

	l := ComponentLogger("storage")
	require.NotNil(t, l)
	ChildLogger(l, FieldRecord, "Inbox").Debugw("ignored at warn level")
}

func TestPackageHelpersWithNilLogger(t *testing.T) {
	Logger = nil
	defer func() { require.NoError(t, Initialize(false, 0)) }()

	assert.NotPanics(t, func() {
		Infow("info")
		Warnw("warn")
		Debugw("debug")
		Errorw("error")
		Cleanup()
	})
}
