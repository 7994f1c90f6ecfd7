package dto

import (
	"time"

	"github.com/google/uuid"

	"tavolo/internal/domains/booking/model"
	"tavolo/shared"
	"tavolo/shared/constant"
	gDto "tavolo/shared/dto"
	gModel "tavolo/shared/model"
)

type CreateBookingRequest struct {
	RestaurantID    string  `json:"restaurant_id"    validate:"required"`
	ClientID        string  `json:"client_id"        validate:"required"`
	ClientName      string  `json:"client_name"      validate:"required,max=100"`
	ClientPhone     string  `json:"client_phone"     validate:"omitempty,max=20"`
	ClientEmail     string  `json:"client_email"     validate:"omitempty,email"`
	Date            string  `json:"date"             validate:"required"`
	TimeSlot        string  `json:"time_slot"        validate:"required"`
	GuestCount      int     `json:"guest_count"      validate:"required"`
	TotalPrice      float64 `json:"total_price"      validate:"omitempty,min=0"`
	SpecialRequests string  `json:"special_requests" validate:"omitempty,max=500"`
}

// ToModel builds the canonical booking. The caller has already parsed and
// validated the date and window; new bookings always start out pending and
// unpaid.
func (c *CreateBookingRequest) ToModel(date time.Time, slot model.Slot, now time.Time) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		RestaurantID:    c.RestaurantID,
		ClientID:        c.ClientID,
		BookingDate:     date,
		TimeSlot:        slot.String(),
		GuestCount:      c.GuestCount,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentUnpaid,
		TotalPrice:      c.TotalPrice,
		ClientName:      c.ClientName,
		ClientPhone:     c.ClientPhone,
		ClientEmail:     c.ClientEmail,
		SpecialRequests: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// UpdateBookingRequest edits contact details and the table assignment. The
// window, party size and status never change through this path.
type UpdateBookingRequest struct {
	TableID         string `db:"table_id"         json:"table_id"         validate:"omitempty,max=50"`
	ClientName      string `db:"client_name"      json:"client_name"      validate:"omitempty,max=100"`
	ClientPhone     string `db:"client_phone"     json:"client_phone"     validate:"omitempty,max=20"`
	ClientEmail     string `db:"client_email"     json:"client_email"     validate:"omitempty,email"`
	SpecialRequests string `db:"special_requests" json:"special_requests" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RestaurantID    string  `json:"restaurant_id"`
	ClientID        string  `json:"client_id"`
	TableID         string  `json:"table_id,omitempty"`
	Date            string  `json:"date"`
	TimeSlot        string  `json:"time_slot"`
	GuestCount      int     `json:"guest_count"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	TotalPrice      float64 `json:"total_price"`
	ClientName      string  `json:"client_name"`
	ClientPhone     string  `json:"client_phone,omitempty"`
	ClientEmail     string  `json:"client_email,omitempty"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RestaurantID = model.RestaurantID
	r.ClientID = model.ClientID
	r.TableID = model.TableID
	r.Date = model.BookingDate.Format(constant.DayFormat)
	r.TimeSlot = model.TimeSlot
	r.GuestCount = model.GuestCount
	r.Status = string(model.Status)
	r.PaymentStatus = string(model.PaymentStatus)
	r.TotalPrice = model.TotalPrice
	r.ClientName = model.ClientName
	r.ClientPhone = model.ClientPhone
	r.ClientEmail = model.ClientEmail
	r.SpecialRequests = model.SpecialRequests
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type AvailabilityRequest struct {
	RestaurantID string `validate:"required"`
	Date         string `validate:"required"`
	TimeSlot     string `validate:"required,timeslot"`
	GuestCount   int    `validate:"required,min=1"`
}

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Booked    int    `json:"booked"`
	Capacity  int    `json:"capacity"`
	TimeSlot  string `json:"time_slot"`
	Date      string `json:"date"`
}
