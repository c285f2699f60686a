// Package callable implements the request/response envelope and error
// codes of the Firebase callable function protocol on top of gin.
package callable

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Code is a callable error code.
type Code string

const (
	Unauthenticated  Code = "unauthenticated"
	InvalidArgument  Code = "invalid-argument"
	PermissionDenied Code = "permission-denied"
	Internal         Code = "internal"
)

// Status is the wire name of the code, e.g. INVALID_ARGUMENT.
func (c Code) Status() string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "-", "_"))
}

func (c Code) HTTPStatus() int {
	switch c {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed failure returned to callable clients.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf returns the code carried by err, or Internal.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return Internal
}

type request struct {
	Data interface{} `json:"data"`
}

// BindData decodes the "data" member of the request body into v.
func BindData(c *gin.Context, v interface{}) error {
	req := request{Data: v}
	if err := c.ShouldBindJSON(&req); err != nil {
		return NewError(InvalidArgument, "request body must be a JSON object with a data field")
	}
	return nil
}

// WriteResult writes a successful callable response.
func WriteResult(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// WriteError writes err as a callable error response. Errors that are not
// *Error are reported as internal without leaking their text.
func WriteError(c *gin.Context, err error) {
	var ce *Error
	if !errors.As(err, &ce) {
		ce = NewError(Internal, "internal error")
	}
	c.JSON(ce.Code.HTTPStatus(), gin.H{
		"error": gin.H{
			"status":  ce.Code.Status(),
			"message": ce.Message,
		},
	})
}
