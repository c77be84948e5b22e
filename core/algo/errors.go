package algo

import "errors"

var (
	// ErrNoData is returned when a summary is requested for a window without any points.
	ErrNoData = errors.New("no data in year window")

	// ErrInvalidWindow is returned when the start year is after the end year.
	ErrInvalidWindow = errors.New("start year is after end year")
)
