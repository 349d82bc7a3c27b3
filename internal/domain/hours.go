package domain

// HoursWindow is a continuous opening interval in decimal hours, Close is exclusive
type HoursWindow struct {
	Open  float64
	Close float64
}

// BusinessHours is the slot configuration table injected into the time grid
type BusinessHours struct {
	GranularityMinutes int
	Windows            []HoursWindow
}

// IsEmpty returns true if no opening window is configured
func (h BusinessHours) IsEmpty() bool {
	return len(h.Windows) == 0
}
