package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel(LevelDebug)
	require.True(t, Enabled(LevelDebug))

	SetLevel(LevelError)
	require.False(t, Enabled(LevelWarn))
	require.True(t, Enabled(LevelError))

	SetLevel("verbose")
	require.True(t, Enabled(LevelInfo))
	require.False(t, Enabled(LevelDebug))
}
