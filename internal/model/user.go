package model

// User is one account record. OTP columns and their expiries are always
// written and cleared together; an empty code with a zero expiry means no
// code is outstanding.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	DisplayName        string `json:"display_name"`
	PasswordHash       string `json:"-"`
	IsVerified         bool   `json:"is_verified"`
	VerifyOTP          string `json:"-"`
	VerifyOTPExpiresAt int64  `json:"-"`
	ResetOTP           string `json:"-"`
	ResetOTPExpiresAt  int64  `json:"-"`
	Ctime              int64  `json:"ctime"`
	Mtime              int64  `json:"mtime"`
}

// UserData is the profile view returned to the client.
type UserData struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

func (u *User) Data() UserData {
	return UserData{Name: u.DisplayName, IsAccountVerified: u.IsVerified}
}
