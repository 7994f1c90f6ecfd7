package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"tavolo/shared/failure"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "bad request",
			err:      failure.BadRequestFromString("guest count out of range"),
			expected: http.StatusBadRequest,
		},
		{
			name:     "not found",
			err:      failure.NotFound("booking not found"),
			expected: http.StatusNotFound,
		},
		{
			name:     "conflict",
			err:      failure.Conflict("slot already taken"),
			expected: http.StatusConflict,
		},
		{
			name:     "invalid transition",
			err:      failure.InvalidTransition("cancelled", "confirm"),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "capacity exceeded",
			err:      &failure.CapacityExceededError{RestaurantID: "r1", Requested: 5, Booked: 45, Capacity: 50},
			expected: http.StatusConflict,
		},
		{
			name:     "wrapped invalid transition",
			err:      fmt.Errorf("update status: %w", failure.InvalidTransition("completed", "cancel")),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "plain error maps to internal",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestInvalidTransitionError_Fields(t *testing.T) {
	err := failure.InvalidTransition("no_show", "cancel")

	var transition *failure.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected *failure.InvalidTransitionError, got %T", err)
	}

	if transition.From != "no_show" || transition.Event != "cancel" {
		t.Errorf("unexpected diagnostics: from=%q event=%q", transition.From, transition.Event)
	}
}
