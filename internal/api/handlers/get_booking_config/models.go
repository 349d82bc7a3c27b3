package get_booking_config

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Settings публичные параметры онлайн-записи
type Settings struct {
	Configured  bool
	AdminEmail  string
	Location    *time.Location
	Hours       domain.BusinessHours
	HorizonDays int
}

// BookingConfigResponse HTTP response model
type BookingConfigResponse struct {
	Configured          bool          `json:"configured"`
	AdminEmail          string        `json:"adminEmail,omitempty"`
	Timezone            string        `json:"timezone"`
	SlotDurationMinutes int           `json:"slotDurationMinutes"`
	GranularityMinutes  int           `json:"granularityMinutes"`
	LeadTimeMinutes     int           `json:"leadTimeMinutes"`
	HorizonDays         int           `json:"horizonDays"`
	Hours               []HoursWindow `json:"hours"`
}

// HoursWindow интервал рабочего времени
type HoursWindow struct {
	Open  string `json:"open"`  // "HH:MM"
	Close string `json:"close"` // "HH:MM"
}

func fromSettings(s Settings) *BookingConfigResponse {
	resp := &BookingConfigResponse{
		Configured:          s.Configured,
		Timezone:            s.Location.String(),
		SlotDurationMinutes: domain.SlotDurationMinutes,
		GranularityMinutes:  s.Hours.GranularityMinutes,
		LeadTimeMinutes:     domain.LeadTimeBufferMinutes,
		HorizonDays:         s.HorizonDays,
		Hours:               make([]HoursWindow, len(s.Hours.Windows)),
	}
	if s.Configured {
		resp.AdminEmail = s.AdminEmail
	}
	for i, w := range s.Hours.Windows {
		resp.Hours[i] = HoursWindow{
			Open:  domain.TimeSlot(w.Open).String(),
			Close: domain.TimeSlot(w.Close).String(),
		}
	}
	return resp
}
