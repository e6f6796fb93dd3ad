package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mauth/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	User      *UserHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/logout", deps.Auth.Logout)
	api.POST("/auth/verify-account", deps.Auth.VerifyAccount)
	api.POST("/auth/send-reset-otp", deps.Auth.SendResetOTP)
	api.POST("/auth/reset-password", deps.Auth.ResetPassword)

	authGroup := api.Group("")
	authGroup.Use(middleware.SessionAuth(deps.JWTSecret))
	authGroup.POST("/auth/send-verify-otp", deps.Auth.SendVerifyOTP)
	authGroup.GET("/auth/is-authenticated", deps.Auth.IsAuthenticated)
	authGroup.GET("/user/data", deps.User.Data)
}
