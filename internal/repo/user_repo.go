package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/mauth/internal/model"
	"github.com/xxxsen/mauth/internal/pkg/dbutil"
	appErr "github.com/xxxsen/mauth/internal/pkg/errors"
)

var userColumns = []string{
	"id", "email", "display_name", "password_hash", "is_verified",
	"verify_otp", "verify_otp_expires_at", "reset_otp", "reset_otp_expires_at",
	"ctime", "mtime",
}

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":                    user.ID,
		"email":                 user.Email,
		"display_name":          user.DisplayName,
		"password_hash":         user.PasswordHash,
		"is_verified":           user.IsVerified,
		"verify_otp":            user.VerifyOTP,
		"verify_otp_expires_at": user.VerifyOTPExpiresAt,
		"reset_otp":             user.ResetOTP,
		"reset_otp_expires_at":  user.ResetOTPExpiresAt,
		"ctime":                 user.Ctime,
		"mtime":                 user.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"id": userID})
}

func (r *UserRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.User, error) {
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var user model.User
	if err := rows.Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.IsVerified,
		&user.VerifyOTP, &user.VerifyOTPExpiresAt, &user.ResetOTP, &user.ResetOTPExpiresAt,
		&user.Ctime, &user.Mtime,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetVerifyOTP stores a verification code and its expiry in one write. A
// previous outstanding code is overwritten.
func (r *UserRepo) SetVerifyOTP(ctx context.Context, userID, code string, expiresAt, mtime int64) error {
	return r.updateOne(ctx, userID, map[string]interface{}{
		"verify_otp":            code,
		"verify_otp_expires_at": expiresAt,
		"mtime":                 mtime,
	})
}

// MarkVerified flips is_verified and clears the verification code pair in
// the same write.
func (r *UserRepo) MarkVerified(ctx context.Context, userID string, mtime int64) error {
	return r.updateOne(ctx, userID, map[string]interface{}{
		"is_verified":           true,
		"verify_otp":            "",
		"verify_otp_expires_at": 0,
		"mtime":                 mtime,
	})
}

func (r *UserRepo) SetResetOTP(ctx context.Context, userID, code string, expiresAt, mtime int64) error {
	return r.updateOne(ctx, userID, map[string]interface{}{
		"reset_otp":            code,
		"reset_otp_expires_at": expiresAt,
		"mtime":                mtime,
	})
}

// UpdatePassword replaces the password hash and clears the reset code pair
// in the same write.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string, mtime int64) error {
	return r.updateOne(ctx, userID, map[string]interface{}{
		"password_hash":        passwordHash,
		"reset_otp":            "",
		"reset_otp_expires_at": 0,
		"mtime":                mtime,
	})
}

func (r *UserRepo) updateOne(ctx context.Context, userID string, update map[string]interface{}) error {
	where := map[string]interface{}{"id": userID}
	sqlStr, args, err := builder.BuildUpdate("users", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// PurgeExpiredOTPs clears verification and reset codes whose expiry has
// passed. Rows are touched per code kind so each pair stays consistent.
func (r *UserRepo) PurgeExpiredOTPs(ctx context.Context, now int64) (int64, error) {
	var total int64
	kinds := []struct {
		codeCol   string
		expiryCol string
	}{
		{"verify_otp", "verify_otp_expires_at"},
		{"reset_otp", "reset_otp_expires_at"},
	}
	for _, kind := range kinds {
		where := map[string]interface{}{
			kind.codeCol + " !=":   "",
			kind.expiryCol + " <=": now,
		}
		update := map[string]interface{}{
			kind.codeCol:   "",
			kind.expiryCol: 0,
		}
		sqlStr, args, err := builder.BuildUpdate("users", where, update)
		if err != nil {
			return total, err
		}
		sqlStr, args = dbutil.Finalize(sqlStr, args)
		result, err := r.db.ExecContext(ctx, sqlStr, args...)
		if err != nil {
			return total, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, err
		}
		total += affected
	}
	return total, nil
}
