package system

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrent(t *testing.T) {
	info := Current()
	require.Equal(t, runtime.GOOS, info.Platform)
	require.Equal(t, runtime.GOARCH, info.Arch)
	require.Equal(t, Version, info.Version)
	require.NotEmpty(t, info.Version)
}
