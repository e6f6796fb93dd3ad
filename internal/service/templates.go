package service

import "strings"

const emailVerifyTemplate = `<div style="font-family: Arial, sans-serif; max-width: 480px; margin: 0 auto; padding: 24px; border: 1px solid #e2e8f0; border-radius: 8px;">
  <h2 style="color: #1a202c;">Verify your email</h2>
  <p>You are just one step away from verifying your account for this email: <b>{{email}}</b>.</p>
  <p>Use the OTP below to verify your account.</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold; color: #2b6cb0;">{{otp}}</p>
  <p style="color: #718096;">This code expires in 24 hours.</p>
</div>`

const passwordResetTemplate = `<div style="font-family: Arial, sans-serif; max-width: 480px; margin: 0 auto; padding: 24px; border: 1px solid #e2e8f0; border-radius: 8px;">
  <h2 style="color: #1a202c;">Forgot your password?</h2>
  <p>We received a password reset request for your account: <b>{{email}}</b>.</p>
  <p>Use the OTP below to reset the password.</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold; color: #c53030;">{{otp}}</p>
  <p style="color: #718096;">The password reset OTP is only valid for the next 15 minutes.</p>
</div>`

func renderOTPMail(template, otp, email string) string {
	return strings.NewReplacer("{{otp}}", otp, "{{email}}", email).Replace(template)
}
