package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// UnprocessableEntity sends a 422 response
func UnprocessableEntity(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnprocessableEntity, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// DomainError maps a domain error to the matching HTTP response: validation
// errors to 400, authorization errors to 403, missing entities to 404,
// state conflicts to 409, resource shortfalls to 422.
func DomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidRecipient),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrRateTooLow),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrInvalidMemberBounds),
		errors.Is(err, domain.ErrInvalidContribution),
		errors.Is(err, domain.ErrInvalidCircleType),
		errors.Is(err, domain.ErrInvalidCycleCount):
		return BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrNotAMember),
		errors.Is(err, domain.ErrNotTheRecipient),
		errors.Is(err, domain.ErrNotThePayer):
		return Forbidden(c, err.Error())

	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTokenNotSupported):
		return NotFound(c, err.Error())

	case errors.Is(err, domain.ErrCircleFull),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrAlreadyContributed),
		errors.Is(err, domain.ErrCircleCompleted),
		errors.Is(err, domain.ErrLoanNotPending),
		errors.Is(err, domain.ErrLoanNotActive),
		errors.Is(err, domain.ErrStreamNotActive),
		errors.Is(err, domain.ErrStreamPaused),
		errors.Is(err, domain.ErrStreamNotPaused),
		errors.Is(err, domain.ErrUserAlreadyExists):
		return Conflict(c, err.Error())

	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientAllowance),
		errors.Is(err, domain.ErrInsufficientDeposit),
		errors.Is(err, domain.ErrInsufficientPoolBalance),
		errors.Is(err, domain.ErrInsufficientCreditScore),
		errors.Is(err, domain.ErrTransferFailed):
		return UnprocessableEntity(c, err.Error())

	case errors.Is(err, domain.ErrInvalidCredentials):
		return Unauthorized(c, err.Error())
	}
	return InternalServerError(c, "internal server error")
}
