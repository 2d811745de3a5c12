// Package httperr renders the API error envelope:
//
//	{"error": {"message": "...", "code": "..."}, "detail": ...}
package httperr

import (
	"poorito-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type Response struct {
	Status int  `json:"-"`
	Error  Body `json:"error"`
	Detail any  `json:"detail,omitempty"`
}

func NewResponse(status int, code, msg string, detail any) Response {
	return Response{
		Status: status,
		Error:  Body{Message: msg, Code: code},
		Detail: detail,
	}
}

func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithCode(c, status, "", err, msg, detail)
}

// AbortWithCode writes the envelope and records err on the context so the
// logging middleware sees the underlying cause.
func AbortWithCode(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := NewResponse(status, code, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
