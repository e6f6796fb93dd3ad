// Package response writes the API envelope. Every reply, success or failure,
// goes out as HTTP 200 with a success flag; clients branch on the body, not
// the transport status.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	UserData interface{} `json:"userData,omitempty"`
}

func Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func SuccessData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, UserData: data})
}

func Error(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: false, Message: message})
}
