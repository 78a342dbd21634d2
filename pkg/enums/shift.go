package enums

import "fmt"

// Shift is the working shift of warehouse staff.
type Shift string

const (
	ShiftDay   Shift = "Day"
	ShiftNight Shift = "Night"
)

var validShifts = []Shift{ShiftDay, ShiftNight}

// String implements fmt.Stringer.
func (s Shift) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Shift.
func (s Shift) IsValid() bool {
	for _, candidate := range validShifts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShift converts raw input into a Shift.
func ParseShift(value string) (Shift, error) {
	for _, candidate := range validShifts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shift %q", value)
}
