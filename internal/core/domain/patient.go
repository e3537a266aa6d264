package domain

import "github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"

const UnknownPatientName = "Unknown Patient"

type Patient struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DateOfBirth json_types.Date `json:"dateOfBirth"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
}
