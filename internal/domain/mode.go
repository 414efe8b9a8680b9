package domain

import "strings"

// Mode is the conversational persona selected for a session.
type Mode int

const (
	ModeGeneralInquiry Mode = iota
	ModeCharterBooking
	ModeYachtSales
	ModeFleetInformation
	ModeContactSupport

	modeCount
)

// DefaultMode is active when a session starts.
const DefaultMode = ModeGeneralInquiry

var modeLabels = [modeCount]string{
	ModeGeneralInquiry:   "General Inquiry",
	ModeCharterBooking:   "Charter Booking",
	ModeYachtSales:       "Yacht Sales",
	ModeFleetInformation: "Fleet Information",
	ModeContactSupport:   "Contact & Support",
}

// Modes returns every mode in display order.
func Modes() []Mode {
	out := make([]Mode, 0, modeCount)
	for m := Mode(0); m < modeCount; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is a member of the closed mode set.
func (m Mode) Valid() bool { return m >= 0 && m < modeCount }

// String returns the display label. Unknown values render as the default mode.
func (m Mode) String() string {
	if !m.Valid() {
		return modeLabels[DefaultMode]
	}
	return modeLabels[m]
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	if !m.Valid() {
		return DefaultMode
	}
	return (m + 1) % modeCount
}

// Prev returns the preceding mode, wrapping around.
func (m Mode) Prev() Mode {
	if !m.Valid() {
		return DefaultMode
	}
	return (m - 1 + modeCount) % modeCount
}

// ParseMode maps a display label (case-insensitive) to a mode.
// Unrecognized labels yield DefaultMode and ok=false.
func ParseMode(s string) (Mode, bool) {
	s = strings.TrimSpace(s)
	for m, label := range modeLabels {
		if strings.EqualFold(label, s) {
			return Mode(m), true
		}
	}
	return DefaultMode, false
}
