package buzzer

import "errors"

var (
	// ErrInvalidArgument is returned for a nil Buzzer, a zero frequency or a zero tempo
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrHardware is returned when the pwm driver fails, the buzzer
	// cannot tell a disconnected piezo from a rejected call
	ErrHardware = errors.New("hardware failure")
)
