package model

import (
	"fmt"
	"strings"
	"time"

	"tavolo/shared/constant"
	"tavolo/shared/failure"
)

// Slot is a booked time window expressed in minutes since midnight. The end
// bound is exclusive, so back-to-back windows such as 18:00-20:00 and
// 20:00-22:00 do not overlap.
type Slot struct {
	Start int
	End   int
}

// ParseSlot parses a "HH:MM-HH:MM" window. The end must be strictly after the
// start; windows never cross midnight.
func ParseSlot(value string) (Slot, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return Slot{}, failure.BadRequestFromString(fmt.Sprintf("invalid time slot %q, expected HH:MM-HH:MM", value))
	}

	start, err := ParseClock(parts[0])
	if err != nil {
		return Slot{}, err
	}

	end, err := ParseClock(parts[1])
	if err != nil {
		return Slot{}, err
	}

	if end <= start {
		return Slot{}, failure.BadRequestFromString(fmt.Sprintf("invalid time slot %q, end must be after start", value))
	}

	return Slot{Start: start, End: end}, nil
}

// ParseClock parses a "HH:MM" wall-clock time into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(constant.SlotTimeFormat, strings.TrimSpace(value))
	if err != nil {
		return 0, failure.BadRequestFromString(fmt.Sprintf("invalid time %q, expected HH:MM", value))
	}

	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps reports whether two windows share any instant. Comparison is on
// the parsed bounds, so "18:00-20:00" and "19:30-21:30" overlap even though
// neither string contains the other.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start < other.End && other.Start < s.End
}

// Within reports whether the window fits entirely inside the given bounds.
func (s Slot) Within(open, close int) bool {
	return s.Start >= open && s.End <= close
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", s.Start/60, s.Start%60, s.End/60, s.End%60)
}
