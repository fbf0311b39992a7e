package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treykane/pass-tui/internal/backend"
	"github.com/treykane/pass-tui/internal/backend/backendtest"
)

func TestLockedRevealAwaitsUnlockThenDisplays(t *testing.T) {
	fake := backendtest.New(map[string]string{"secret": "hunter2"})
	fake.Locked["secret"] = true
	s := newSession(t, newStore(t, "secret"), fake)

	err := s.RequestPreview("secret", backend.ModeRaw, false)
	require.NoError(t, err, "a lock failure is not reported as an error")

	p := s.Preview()
	require.Equal(t, PreviewAwaitingUnlock, p.Phase)
	require.Equal(t, "secret", p.Key)
	require.Equal(t, backend.ModeRaw, p.Mode)
	require.Equal(t, LockedPlaceholder, p.Text)
	require.False(t, p.IsError)

	pending, ok := s.PendingUnlock()
	require.True(t, ok)
	require.Equal(t, PendingPreview{Key: "secret", Mode: backend.ModeRaw}, pending)

	require.NoError(t, fake.Unlock(pending.Key, pending.Mode))
	require.NoError(t, s.RequestPreview(pending.Key, pending.Mode, true))

	p = s.Preview()
	require.Equal(t, PreviewDisplayed, p.Phase)
	require.Equal(t, "hunter2", p.Text)
	require.False(t, p.IsError)
	_, ok = s.PendingUnlock()
	require.False(t, ok)
}

func TestLockedRetryFailureBecomesError(t *testing.T) {
	fake := backendtest.New(map[string]string{"secret": "hunter2"})
	fake.Locked["secret"] = true
	fake.Errs["unlock"] = errors.New("pinentry cancelled")
	s := newSession(t, newStore(t, "secret"), fake)

	require.NoError(t, s.RequestPreview("secret", backend.ModeQR, false))
	require.Error(t, fake.Unlock("secret", backend.ModeQR))

	err := s.RequestPreview("secret", backend.ModeQR, true)
	require.True(t, backend.IsLocked(err))

	p := s.Preview()
	require.Equal(t, PreviewDisplayed, p.Phase)
	require.True(t, p.IsError)
	require.Equal(t, err.Error(), p.Text)
	_, ok := s.PendingUnlock()
	require.False(t, ok, "a failed retry does not leave the workflow waiting")
}

func TestOtherRevealFailureIsReported(t *testing.T) {
	fake := backendtest.New(nil)
	s := newSession(t, newStore(t, "gone"), fake)

	err := s.RequestPreview("gone", backend.ModeRaw, false)
	require.Error(t, err)
	require.False(t, backend.IsLocked(err))

	p := s.Preview()
	require.Equal(t, PreviewDisplayed, p.Phase)
	require.True(t, p.IsError)
	_, ok := s.PendingUnlock()
	require.False(t, ok)
}

func TestShowSelectedSkipsUnchangedRequest(t *testing.T) {
	fake := backendtest.New(map[string]string{"a": "one", "b": "two"})
	s := newSession(t, newStore(t, "a", "b"), fake)

	require.NoError(t, s.ShowSelected(backend.ModeRaw))
	require.NoError(t, s.ShowSelected(backend.ModeRaw))
	require.Equal(t, 1, fake.Count("reveal"))

	require.NoError(t, s.ShowSelected(backend.ModeQR))
	require.Equal(t, 2, fake.Count("reveal"))
	require.Equal(t, "QR[one]", s.Preview().Text)

	s.MoveCursor(1)
	require.NoError(t, s.SelectionChanged(true))
	require.Equal(t, 3, fake.Count("reveal"))
	require.Equal(t, "b", s.Preview().Key)
	require.Equal(t, backend.ModeRaw, s.Preview().Mode)
	require.True(t, s.PreviewCurrent())
}

func TestDirectorySelectionClearsWithoutBackend(t *testing.T) {
	fake := backendtest.New(map[string]string{"leaf": "x"})
	s := newSession(t, newStore(t, "dir/inner", "leaf"), fake)

	// Rows: dir/, leaf.
	s.MoveCursor(1)
	require.NoError(t, s.SelectionChanged(true))
	require.Equal(t, PreviewDisplayed, s.Preview().Phase)

	s.MoveCursor(-1)
	require.NoError(t, s.SelectionChanged(true))
	require.Equal(t, PreviewState{}, s.Preview())
	require.Equal(t, 1, fake.Count("reveal"))
}

func TestSelectionChangedWithoutRevealKeepsPreview(t *testing.T) {
	fake := backendtest.New(map[string]string{"a": "one", "b": "two"})
	s := newSession(t, newStore(t, "a", "b"), fake)
	require.NoError(t, s.ShowSelected(backend.ModeRaw))

	s.MoveCursor(1)
	require.NoError(t, s.SelectionChanged(false))
	require.Equal(t, 1, fake.Count("reveal"))
	require.Equal(t, "a", s.Preview().Key)
	require.False(t, s.PreviewCurrent())
}

func TestRequestPreviewWithoutBackend(t *testing.T) {
	s := newSession(t, newStore(t, "a"), nil)
	err := s.RequestPreview("a", backend.ModeRaw, false)
	require.Error(t, err)
	require.True(t, s.Preview().IsError)
}
