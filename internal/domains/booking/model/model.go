package model

import (
	"time"

	"tavolo/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRestaurantID    = "restaurant_id"
	FieldClientID        = "client_id"
	FieldTableID         = "table_id"
	FieldBookingDate     = "booking_date"
	FieldTimeSlot        = "time_slot"
	FieldGuestCount      = "guest_count"
	FieldStatus          = "status"
	FieldPaymentStatus   = "payment_status"
	FieldTotalPrice      = "total_price"
	FieldClientName      = "client_name"
	FieldClientPhone     = "client_phone"
	FieldClientEmail     = "client_email"
	FieldSpecialRequests = "special_requests"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// Active reports whether a booking in this status still consumes seating
// capacity. Cancelled, completed and no-show bookings never do.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether the status has no outgoing lifecycle transitions.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking is the single canonical booking entity. Once created, only Status,
// PaymentStatus and the UpdatedAt stamp may change; bookings are never deleted
// by this service, cancellation is a status transition.
type Booking struct {
	ID              string        `db:"id"`
	RestaurantID    string        `db:"restaurant_id"`
	ClientID        string        `db:"client_id"`
	TableID         string        `db:"table_id"` // empty until a table is allocated
	BookingDate     time.Time     `db:"booking_date"`
	TimeSlot        string        `db:"time_slot"`
	GuestCount      int           `db:"guest_count"`
	Status          Status        `db:"status"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	TotalPrice      float64       `db:"total_price"`
	ClientName      string        `db:"client_name"`
	ClientPhone     string        `db:"client_phone"`
	ClientEmail     string        `db:"client_email"`
	SpecialRequests string        `db:"special_requests"`
	model.Metadata
}

// StartAt returns the instant the booked window opens, in the location of the
// booking date. Bookings with an unparseable slot fall back to midnight.
func (b *Booking) StartAt() time.Time {
	day := time.Date(b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(), 0, 0, 0, 0, b.BookingDate.Location())

	slot, err := ParseSlot(b.TimeSlot)
	if err != nil {
		return day
	}

	return day.Add(time.Duration(slot.Start) * time.Minute)
}

// SameDay reports whether the booking falls on the given calendar day.
func (b *Booking) SameDay(date time.Time) bool {
	return b.BookingDate.Year() == date.Year() &&
		b.BookingDate.Month() == date.Month() &&
		b.BookingDate.Day() == date.Day()
}
