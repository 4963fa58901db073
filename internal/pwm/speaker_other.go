//go:build !amd64

package pwm

import "errors"

// Speaker is only available on amd64 development machines
type Speaker struct {
	Driver
}

func NewSpeaker() (*Speaker, error) {
	return nil, errors.New("speaker backend is only supported on amd64")
}
