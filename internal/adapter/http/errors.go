package http

import (
	"errors"
	"log"
	"net/http"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/loan"
	"estack-backend/internal/domain/payout"
	"estack-backend/internal/domain/transaction"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain errors to HTTP status codes. Zero means unknown.
func statusFor(err error) int {
	switch {
	case errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, payout.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, transaction.ErrDuplicate),
		errors.Is(err, loan.ErrPendingExists),
		errors.Is(err, loan.ErrAlreadyApproved),
		errors.Is(err, loan.ErrAlreadyDisbursed),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, payout.ErrActive),
		errors.Is(err, transaction.ErrNotLendable):
		return http.StatusConflict
	case errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidID),
		errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, loan.ErrInvalidRate),
		errors.Is(err, loan.ErrInvalidReturnDate),
		errors.Is(err, loan.ErrOverpayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, aggregator.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, aggregator.ErrUnavailable):
		return http.StatusBadGateway
	}
	return 0
}

// respondError writes err as an ErrorResponse. Unknown errors are logged and
// reported as a generic 500.
func respondError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == 0 {
		log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
