package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	called bool
	now    int64
	purged int64
	err    error
}

func (f *fakePurger) PurgeExpiredOTPs(_ context.Context, now int64) (int64, error) {
	f.called = true
	f.now = now
	return f.purged, f.err
}

func TestOTPCleanupJob_Run(t *testing.T) {
	purger := &fakePurger{purged: 3}
	j := NewOTPCleanupJob(purger)
	require.Equal(t, "otp_cleanup", j.Name())
	require.NoError(t, j.Run(context.Background()))
	require.True(t, purger.called)
	require.Positive(t, purger.now)
}

func TestOTPCleanupJob_PropagatesError(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	require.Error(t, NewOTPCleanupJob(purger).Run(context.Background()))
}

func TestOTPCleanupJob_NilPurger(t *testing.T) {
	require.NoError(t, NewOTPCleanupJob(nil).Run(context.Background()))
}
