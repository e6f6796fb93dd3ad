package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mauth/internal/middleware"
	appErr "github.com/xxxsen/mauth/internal/pkg/errors"
	"github.com/xxxsen/mauth/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

// handleError translates service errors into the client-visible messages.
// Unexpected errors surface their raw text in the envelope and are logged
// with the request id.
func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case err == appErr.ErrInvalid:
		response.Error(c, "Missing details")
	case appErr.IsConflict(err):
		response.Error(c, "User already exists")
	case appErr.IsNotFound(err):
		response.Error(c, "User not found")
	case err == appErr.ErrUnauthorized:
		response.Error(c, "Invalid Password")
	case err == appErr.ErrInvalidOTP:
		response.Error(c, "Invalid OTP")
	case err == appErr.ErrOTPExpired:
		response.Error(c, "OTP expired")
	case err == appErr.ErrAlreadyVerified:
		response.Error(c, "Account already verified")
	default:
		requestID, _ := c.Get(middleware.ContextRequestIDKey)
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.Any("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Error(c, err.Error())
	}
}
