//go:build integration && !windows

package rod_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/bookmarker"
	"github.com/fwojciec/bookmarker/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid)
	require.NoError(t, syscall.Kill(pid, syscall.Signal(0)), "browser should be running")

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close(), "second Close is a no-op")

	assert.Eventually(t, func() bool {
		return syscall.Kill(pid, syscall.Signal(0)) != nil
	}, 5*time.Second, 50*time.Millisecond, "browser should exit after Close")

	_, err = fetcher.Fetch(context.Background(), "https://example.com")
	assert.Equal(t, bookmarker.EINVALID, bookmarker.ErrorCode(err))
}
