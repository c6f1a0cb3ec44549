// Package apperr defines the error vocabulary shared by the store and API
// layers. Every failure that crosses the API boundary is one of these codes;
// the fiber error handler renders them as {message, code} with a 4xx status.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

type Code string

const (
	CodeMissingCredentials Code = "missing-credentials"
	CodeInvalidCredentials Code = "invalid-credentials"
	CodeUserExists         Code = "user-already-exists"
	CodeChainExists        Code = "hotel-chain-already-exists"
	CodeUnauthorized       Code = "unauthorized"
	CodeInvalidInterval    Code = "invalid-time-interval"
	CodeJWTUndefined       Code = "jwt-undefined"
	CodeInvalidJWT         Code = "invalid-jwt"
	CodeUnknown            Code = "unknown"
)

type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func MissingCredentials() *Error {
	return New(CodeMissingCredentials, http.StatusBadRequest, "Email and/or password missing")
}

func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, http.StatusBadRequest, "Email or password incorrect")
}

func UserExists() *Error {
	return New(CodeUserExists, http.StatusBadRequest, "This NAS and/or email is already taken")
}

func ChainExists() *Error {
	return New(CodeChainExists, http.StatusBadRequest, "A hotel chain with this name, email and phone already exists")
}

func Unauthorized() *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, "You are not allowed to perform this action")
}

func InvalidInterval() *Error {
	return New(CodeInvalidInterval, http.StatusBadRequest, "The room is not available for this time interval")
}

func JWTUndefined() *Error {
	return New(CodeJWTUndefined, http.StatusUnauthorized, "No JsonWebToken was provided")
}

func InvalidJWT() *Error {
	return New(CodeInvalidJWT, http.StatusUnauthorized, "This JsonWebToken is invalid or has expired")
}

// Unknown wraps an underlying store error. The raw error never reaches the
// client, only the generic message and code do.
func Unknown(err error) *Error {
	return &Error{Code: CodeUnknown, Status: http.StatusBadRequest, Message: "Unexpected error", Err: err}
}

// Handler is installed as the fiber ErrorHandler so handlers can simply
// return typed errors.
func Handler(c fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(fiber.Map{
			"message": appErr.Message,
			"code":    appErr.Code,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
			"code":    CodeUnknown,
		})
	}

	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"message": "Unexpected error",
		"code":    CodeUnknown,
	})
}
