package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// InvalidTransitionError reports a lifecycle event that is not allowed from the
// booking's current status. From and Event are kept for diagnostics.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply event %q to a booking in status %q", e.Event, e.From)
}

// InvalidTransition returns a new InvalidTransitionError.
func InvalidTransition(from, event string) error {
	return &InvalidTransitionError{
		From:  from,
		Event: event,
	}
}

// CapacityExceededError reports a failed availability check. It is distinct from a
// plain bad request so that callers can offer alternative slots.
type CapacityExceededError struct {
	RestaurantID string
	Date         string
	TimeSlot     string
	Requested    int
	Booked       int
	Capacity     int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"restaurant %s has no capacity for %d guests on %s %s (%d of %d seats already booked)",
		e.RestaurantID, e.Requested, e.Date, e.TimeSlot, e.Booked, e.Capacity,
	)
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	var transition *InvalidTransitionError
	if errors.As(err, &transition) {
		return http.StatusUnprocessableEntity
	}

	var capacity *CapacityExceededError
	if errors.As(err, &capacity) {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
