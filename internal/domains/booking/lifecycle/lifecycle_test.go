package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tavolo/internal/domains/booking/lifecycle"
	"tavolo/internal/domains/booking/model"
	"tavolo/shared/failure"
)

func TestTransition(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    model.Status
		event   lifecycle.Event
		want    model.Status
		wantErr bool
	}{
		{name: "pending confirm", from: model.StatusPending, event: lifecycle.EventConfirm, want: model.StatusConfirmed},
		{name: "pending cancel", from: model.StatusPending, event: lifecycle.EventCancel, want: model.StatusCancelled},
		{name: "confirmed complete", from: model.StatusConfirmed, event: lifecycle.EventComplete, want: model.StatusCompleted},
		{name: "confirmed cancel", from: model.StatusConfirmed, event: lifecycle.EventCancel, want: model.StatusCancelled},
		{name: "confirmed no show", from: model.StatusConfirmed, event: lifecycle.EventNoShow, want: model.StatusNoShow},
		{name: "pending complete rejected", from: model.StatusPending, event: lifecycle.EventComplete, wantErr: true},
		{name: "pending no show rejected", from: model.StatusPending, event: lifecycle.EventNoShow, wantErr: true},
		{name: "cancelled cancel rejected", from: model.StatusCancelled, event: lifecycle.EventCancel, wantErr: true},
		{name: "completed confirm rejected", from: model.StatusCompleted, event: lifecycle.EventConfirm, wantErr: true},
		{name: "no show cancel rejected", from: model.StatusNoShow, event: lifecycle.EventCancel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{ID: "booking-1", Status: tt.from}

			got, err := lifecycle.Transition(booking, tt.event, now)

			if tt.wantErr {
				assert.Error(t, err)

				var transitionErr *failure.InvalidTransitionError
				assert.ErrorAs(t, err, &transitionErr)
				assert.Equal(t, string(tt.from), transitionErr.From)
				assert.Equal(t, string(tt.event), transitionErr.Event)

				// the original booking comes back untouched
				assert.Equal(t, tt.from, got.Status)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, now, got.UpdatedAt)
		})
	}
}

// Every event from every terminal status must be rejected.
func TestTerminalStatusesAreClosed(t *testing.T) {
	terminals := []model.Status{model.StatusCancelled, model.StatusCompleted, model.StatusNoShow}
	events := []lifecycle.Event{lifecycle.EventConfirm, lifecycle.EventCancel, lifecycle.EventComplete, lifecycle.EventNoShow}

	for _, status := range terminals {
		for _, event := range events {
			_, err := lifecycle.Next(status, event)
			assert.Error(t, err, "status %s must reject event %s", status, event)
		}
	}
}

func TestParseEvent(t *testing.T) {
	event, err := lifecycle.ParseEvent("confirm")
	assert.NoError(t, err)
	assert.Equal(t, lifecycle.EventConfirm, event)

	_, err = lifecycle.ParseEvent("reopen")
	assert.Error(t, err)
}

func TestCanModify(t *testing.T) {
	now := time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC)
	grace := time.Hour

	booking := model.Booking{
		Status:      model.StatusConfirmed,
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "19:00-21:00",
	}

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
		at     time.Time
		want   bool
	}{
		{
			name:   "well before the window",
			mutate: func(b *model.Booking) {},
			at:     now,
			want:   true,
		},
		{
			name:   "exactly at the grace boundary",
			mutate: func(b *model.Booking) {},
			at:     time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC),
			want:   false,
		},
		{
			name:   "inside the grace period",
			mutate: func(b *model.Booking) {},
			at:     time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC),
			want:   false,
		},
		{
			name:   "cancelled booking",
			mutate: func(b *model.Booking) { b.Status = model.StatusCancelled },
			at:     now,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := booking
			tt.mutate(&b)

			assert.Equal(t, tt.want, lifecycle.CanModify(b, tt.at, grace))
		})
	}
}

func TestCanCancel(t *testing.T) {
	assert.True(t, lifecycle.CanCancel(model.Booking{Status: model.StatusPending}))
	assert.True(t, lifecycle.CanCancel(model.Booking{Status: model.StatusConfirmed}))
	assert.False(t, lifecycle.CanCancel(model.Booking{Status: model.StatusCancelled}))
	assert.False(t, lifecycle.CanCancel(model.Booking{Status: model.StatusCompleted}))
	assert.False(t, lifecycle.CanCancel(model.Booking{Status: model.StatusNoShow}))
}
