package validator_test

import (
	"strings"
	"testing"

	"tavolo/shared/validator"
)

type createRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	TimeSlot     string `json:"time_slot"     validate:"required,timeslot"`
	GuestCount   int    `json:"guest_count"   validate:"required,min=1,max=20"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    createRequest
		wantErr bool
	}{
		{
			name:    "valid window slot",
			data:    createRequest{RestaurantID: "r1", TimeSlot: "18:00-20:00", GuestCount: 4},
			wantErr: false,
		},
		{
			name:    "valid bare start time",
			data:    createRequest{RestaurantID: "r1", TimeSlot: "18:00", GuestCount: 4},
			wantErr: false,
		},
		{
			name:    "missing restaurant",
			data:    createRequest{TimeSlot: "18:00-20:00", GuestCount: 4},
			wantErr: true,
		},
		{
			name:    "12-hour time rejected",
			data:    createRequest{RestaurantID: "r1", TimeSlot: "6pm-8pm", GuestCount: 4},
			wantErr: true,
		},
		{
			name:    "hour out of range",
			data:    createRequest{RestaurantID: "r1", TimeSlot: "25:00-26:00", GuestCount: 4},
			wantErr: true,
		},
		{
			name:    "guest count above maximum",
			data:    createRequest{RestaurantID: "r1", TimeSlot: "18:00-20:00", GuestCount: 21},
			wantErr: true,
		},
		{
			name:    "guest count below minimum",
			data:    createRequest{RestaurantID: "r1", TimeSlot: "18:00-20:00", GuestCount: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidate_DecodeFailure(t *testing.T) {
	var data createRequest

	err := validator.Validate(strings.NewReader("{not json"), &data)
	if err == nil {
		t.Error("expected decode error, got nil")
	}
}
