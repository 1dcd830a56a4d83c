package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyMarked      = errors.New("attendance already marked for today")
	ErrCheckOutBeforeIn   = errors.New("check_out_time must not be before check_in_time")
)
