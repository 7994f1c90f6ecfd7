package model

import (
	"fmt"
	"time"

	"tavolo/shared/constant"
	"tavolo/shared/failure"
	"tavolo/shared/model"
)

const (
	TableName  = "restaurants"
	EntityName = "restaurant"

	FieldID        = "id"
	FieldName      = "name"
	FieldLocation  = "location"
	FieldCapacity  = "capacity"
	FieldOpenTime  = "open_time"
	FieldCloseTime = "close_time"
	FieldActive    = "active"
)

// Restaurant holds the seating capacity and working hours the availability
// checks arbitrate against. OpenTime and CloseTime are wall-clock "HH:MM"
// strings in the restaurant's local day.
type Restaurant struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Location  string `db:"location"`
	Capacity  int    `db:"capacity"`
	OpenTime  string `db:"open_time"`
	CloseTime string `db:"close_time"`
	Active    bool   `db:"active"`
	model.Metadata
}

// WorkingHours is a restaurant's daily opening window in minutes since
// midnight.
type WorkingHours struct {
	Open  int
	Close int
}

// WorkingMinutes parses a pair of "HH:MM" wall-clock times.
func WorkingMinutes(open, close string) (WorkingHours, error) {
	openAt, err := time.Parse(constant.SlotTimeFormat, open)
	if err != nil {
		return WorkingHours{}, failure.BadRequestFromString(fmt.Sprintf("invalid open time %q, expected HH:MM", open))
	}

	closeAt, err := time.Parse(constant.SlotTimeFormat, close)
	if err != nil {
		return WorkingHours{}, failure.BadRequestFromString(fmt.Sprintf("invalid close time %q, expected HH:MM", close))
	}

	return WorkingHours{
		Open:  openAt.Hour()*60 + openAt.Minute(),
		Close: closeAt.Hour()*60 + closeAt.Minute(),
	}, nil
}

// Hours returns the restaurant's opening window.
func (r *Restaurant) Hours() (WorkingHours, error) {
	return WorkingMinutes(r.OpenTime, r.CloseTime)
}
