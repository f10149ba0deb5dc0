package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// WriteBusiness traduz o Kind do erro de negócio para o status HTTP.
// Erros não-negócio caem em 500 com o code genérico informado.
func WriteBusiness(c *gin.Context, err error, fallbackCode string) {
	be, ok := AsBusiness(err)
	if !ok {
		Internal(c, fallbackCode, "Erro interno.")
		return
	}

	switch be.Kind {
	case KindNotFound:
		NotFound(c, be.Code, be.Message)
	case KindValidation:
		BadRequest(c, be.Code, be.Message)
	case KindConflict:
		Conflict(c, be.Code, be.Message)
	case KindState:
		Conflict(c, be.Code, be.Message)
	case KindAuthorization:
		Forbidden(c, be.Code, be.Message)
	default:
		Internal(c, fallbackCode, "Erro interno.")
	}
}
