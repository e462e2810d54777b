package response

import (
	"net/http"

	"AudioFolio/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: 0, Msg: msg, Data: data})
}

func Accepted(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusAccepted, Body{Code: 0, Msg: msg, Data: data})
}

func Fail(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusBadRequest, Body{Code: -1, Msg: msg, Data: data})
}

// Error renders a coded error with the matching HTTP status.
func Error(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(httpStatus(code), Body{Code: code, Msg: errors.GetMessage(err)})
}

func httpStatus(code int) int {
	switch code {
	case errors.CodeUnsupportedFormat, errors.CodeExtractionError:
		return http.StatusUnprocessableEntity
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeNotReady:
		return http.StatusConflict
	case errors.CodeConfigurationErr:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
