package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mauth/internal/model"
	appErr "github.com/xxxsen/mauth/internal/pkg/errors"
	"github.com/xxxsen/mauth/internal/pkg/jwt"
	"github.com/xxxsen/mauth/internal/pkg/otp"
	"github.com/xxxsen/mauth/internal/pkg/password"
	"github.com/xxxsen/mauth/internal/pkg/timeutil"
)

const (
	verifyOTPTTL = 24 * time.Hour
	resetOTPTTL  = 15 * time.Minute
)

// UserStore is the persistence surface AuthService needs. *repo.UserRepo
// satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, userID string) (*model.User, error)
	SetVerifyOTP(ctx context.Context, userID, code string, expiresAt, mtime int64) error
	MarkVerified(ctx context.Context, userID string, mtime int64) error
	SetResetOTP(ctx context.Context, userID, code string, expiresAt, mtime int64) error
	UpdatePassword(ctx context.Context, userID, passwordHash string, mtime int64) error
}

type AuthService struct {
	users     UserStore
	sender    EmailSender
	jwtSecret []byte
	jwtTTL    time.Duration
	now       func() int64
}

func NewAuthService(users UserStore, sender EmailSender, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		sender:    sender,
		jwtSecret: secret,
		jwtTTL:    ttl,
		now:       timeutil.NowUnix,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, plainPassword string) (*model.User, string, error) {
	if name == "" || email == "" || plainPassword == "" {
		return nil, "", appErr.ErrInvalid
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}
	now := s.now()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := jwt.GenerateToken(user.ID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	// the account exists and the session is established at this point; a
	// failed welcome mail must not undo that
	body := "Welcome to mauth. Your account has been created with email id: " + email
	if err := s.sender.Send(email, "Welcome to mauth", body); err != nil {
		logutil.GetLogger(ctx).Warn("welcome mail failed",
			zap.String("email", email), zap.Error(err))
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	if email == "" || plainPassword == "" {
		return nil, "", appErr.ErrInvalid
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(user.ID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SendVerifyOTP issues a fresh verification code. A repeated call replaces
// the outstanding code, so only the latest one validates.
func (s *AuthService) SendVerifyOTP(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return appErr.ErrAlreadyVerified
	}
	code := otp.NewCode()
	now := s.now()
	if err := s.users.SetVerifyOTP(ctx, user.ID, code, now+int64(verifyOTPTTL.Seconds()), now); err != nil {
		return err
	}
	return s.sender.SendHTML(user.Email, "Account verification OTP", renderOTPMail(emailVerifyTemplate, code, user.Email))
}

func (s *AuthService) VerifyEmail(ctx context.Context, userID, code string) error {
	if userID == "" || code == "" {
		return appErr.ErrInvalid
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.VerifyOTP == "" || user.VerifyOTP != code {
		return appErr.ErrInvalidOTP
	}
	if s.now() >= user.VerifyOTPExpiresAt {
		return appErr.ErrOTPExpired
	}
	return s.users.MarkVerified(ctx, user.ID, s.now())
}

func (s *AuthService) SendResetOTP(ctx context.Context, email string) error {
	if email == "" {
		return appErr.ErrInvalid
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code := otp.NewCode()
	now := s.now()
	if err := s.users.SetResetOTP(ctx, user.ID, code, now+int64(resetOTPTTL.Seconds()), now); err != nil {
		return err
	}
	return s.sender.SendHTML(user.Email, "Password reset OTP", renderOTPMail(passwordResetTemplate, code, user.Email))
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return appErr.ErrInvalid
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.ResetOTP == "" || user.ResetOTP != code {
		return appErr.ErrInvalidOTP
	}
	if s.now() >= user.ResetOTPExpiresAt {
		return appErr.ErrOTPExpired
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash, s.now())
}
