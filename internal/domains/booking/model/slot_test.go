package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Slot
		wantErr bool
	}{
		{
			name:  "dinner window",
			value: "19:00-21:00",
			want:  Slot{Start: 19 * 60, End: 21 * 60},
		},
		{
			name:  "early morning",
			value: "08:30-09:15",
			want:  Slot{Start: 8*60 + 30, End: 9*60 + 15},
		},
		{
			name:    "missing end",
			value:   "19:00",
			wantErr: true,
		},
		{
			name:    "end before start",
			value:   "21:00-19:00",
			wantErr: true,
		},
		{
			name:    "zero length",
			value:   "19:00-19:00",
			wantErr: true,
		},
		{
			name:    "out of range hour",
			value:   "25:00-26:00",
			wantErr: true,
		},
		{
			name:    "garbage",
			value:   "dinner",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseSlot(test.value)
			if test.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestSlotOverlaps(t *testing.T) {
	mustParse := func(value string) Slot {
		slot, err := ParseSlot(value)
		assert.NoError(t, err)
		return slot
	}

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "identical windows",
			a:    "19:00-21:00",
			b:    "19:00-21:00",
			want: true,
		},
		{
			name: "partial overlap without substring relation",
			a:    "18:00-20:00",
			b:    "19:30-21:30",
			want: true,
		},
		{
			name: "contained window",
			a:    "18:00-22:00",
			b:    "19:00-20:00",
			want: true,
		},
		{
			name: "back to back",
			a:    "18:00-20:00",
			b:    "20:00-22:00",
			want: false,
		},
		{
			name: "disjoint",
			a:    "12:00-13:00",
			b:    "19:00-21:00",
			want: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a, b := mustParse(test.a), mustParse(test.b)
			assert.Equal(t, test.want, a.Overlaps(b))
			assert.Equal(t, test.want, b.Overlaps(a))
		})
	}
}

func TestBookingStartAt(t *testing.T) {
	booking := Booking{
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "19:30-21:00",
	}

	assert.Equal(t, time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC), booking.StartAt())
}
