package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mauth/internal/pkg/timeutil"
)

type OTPPurger interface {
	PurgeExpiredOTPs(ctx context.Context, now int64) (int64, error)
}

// OTPCleanupJob clears OTP codes whose expiry has passed. Expired codes are
// already rejected at verification time; this keeps dead codes from sitting
// in the table indefinitely.
type OTPCleanupJob struct {
	users OTPPurger
}

func NewOTPCleanupJob(users OTPPurger) *OTPCleanupJob {
	return &OTPCleanupJob{users: users}
}

func (j *OTPCleanupJob) Name() string {
	return "otp_cleanup"
}

func (j *OTPCleanupJob) Run(ctx context.Context) error {
	if j.users == nil {
		return nil
	}
	purged, err := j.users.PurgeExpiredOTPs(ctx, timeutil.NowUnix())
	if err != nil {
		return err
	}
	if purged > 0 {
		logutil.GetLogger(ctx).Info("purged expired otp codes", zap.Int64("count", purged))
	}
	return nil
}
