package domain

import "errors"

var (
	ErrConfiguration      = errors.New("configuration error")
	ErrNotFound           = errors.New("not found")
	ErrRepository         = errors.New("repository error")
	ErrInvalidTimeSlot    = errors.New("invalid time slot")
	ErrInvalidAppointment = errors.New("invalid appointment")
	ErrInvalidResource    = errors.New("invalid resource")
)
