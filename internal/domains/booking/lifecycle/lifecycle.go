package lifecycle

import (
	"time"

	"tavolo/internal/domains/booking/model"
	"tavolo/shared/failure"
)

// Event is a lifecycle transition request. Events are the only way a booking
// changes status after creation.
type Event string

const (
	EventConfirm  Event = "confirm"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
	EventNoShow   Event = "no_show"
)

// transitions is the full state table. Statuses absent from the outer map are
// terminal; events absent from an inner map are illegal from that status.
var transitions = map[model.Status]map[Event]model.Status{
	model.StatusPending: {
		EventConfirm: model.StatusConfirmed,
		EventCancel:  model.StatusCancelled,
	},
	model.StatusConfirmed: {
		EventComplete: model.StatusCompleted,
		EventCancel:   model.StatusCancelled,
		EventNoShow:   model.StatusNoShow,
	},
}

// ParseEvent maps a wire-level event name to an Event.
func ParseEvent(value string) (Event, error) {
	switch Event(value) {
	case EventConfirm, EventCancel, EventComplete, EventNoShow:
		return Event(value), nil
	default:
		return "", failure.BadRequestFromString("unknown booking event " + value)
	}
}

// Next returns the status the event leads to from the given status.
func Next(from model.Status, event Event) (model.Status, error) {
	targets, ok := transitions[from]
	if !ok {
		return "", failure.InvalidTransition(string(from), string(event))
	}

	to, ok := targets[event]
	if !ok {
		return "", failure.InvalidTransition(string(from), string(event))
	}

	return to, nil
}

// Transition applies the event to a copy of the booking, stamping UpdatedAt.
// The input booking is never mutated; an illegal event returns the original
// booking unchanged alongside the transition error.
func Transition(booking model.Booking, event Event, now time.Time) (model.Booking, error) {
	next, err := Next(booking.Status, event)
	if err != nil {
		return booking, err
	}

	booking.Status = next
	booking.UpdatedAt = now

	return booking, nil
}

// CanModify reports whether the booking details may still be edited: the
// booking must be live and the start of its window more than the grace period
// away.
func CanModify(booking model.Booking, now time.Time, grace time.Duration) bool {
	if !booking.Status.Active() {
		return false
	}

	return booking.StartAt().Sub(now) > grace
}

// CanCancel reports whether the cancel event is legal from the booking's
// current status. Unlike CanModify there is no time window: a confirmed
// booking can be cancelled right up to its start.
func CanCancel(booking model.Booking) bool {
	_, err := Next(booking.Status, EventCancel)

	return err == nil
}
