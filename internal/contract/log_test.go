package contract

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	InitLogger("debug")
	assert.Equal(t, zerolog.DebugLevel, Log().GetLevel())

	InitLogger("nonsense")
	assert.Equal(t, zerolog.InfoLevel, Log().GetLevel())

	InitLogger("")
	assert.Equal(t, zerolog.InfoLevel, Log().GetLevel())
}

func TestLogFatalExits(t *testing.T) {
	code := -1
	osExit = func(c int) { code = c }
	defer func() { osExit = defaultExit }()

	LogFatal("boom", errors.New("bad"))
	assert.Equal(t, 1, code)
}

func TestLogWarnDoesNotExit(t *testing.T) {
	called := false
	osExit = func(int) { called = true }
	defer func() { osExit = defaultExit }()

	LogWarn("careful", errors.New("hm"))
	assert.False(t, called)
}
