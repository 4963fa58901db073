package input

import (
	"context"
	"fmt"

	"github.com/mattn/go-tty"
)

type Input struct {
	ctx     context.Context
	tty     *tty.TTY
	restore func() error
}

const (
	KeyArrowLeft       = '\x02'
	KeyArrowRight      = '\x06'
	KeyArrowUp         = '\x10'
	KeyArrowDown       = '\x0e'
	KeyEnter           = '\r'
	KeyInterrupt       = '\x03'
	KeyEndTransmission = '\x04'
	KeyEscape          = '\x1b'
	ignoreKey          = '\000'
)

// New puts the controlling terminal in raw mode, Close restores it
func New(ctx context.Context) (*Input, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}

	restore, err := t.Raw()
	if err != nil {
		_ = t.Close()
		return nil, err
	}

	return &Input{
		ctx:     ctx,
		tty:     t,
		restore: restore,
	}, nil
}

func (i *Input) Close() error {
	if err := i.restore(); err != nil {
		_ = i.tty.Close()
		return err
	}
	return i.tty.Close()
}

// ReadRune reads a key from the tty, arrow escape sequences are folded
// into the Key* constants and other sequences are skipped.
// KeyEndTransmission is returned once ctx is cancelled.
func (i *Input) ReadRune() (r rune, err error) {
	for {
		select {
		case <-i.ctx.Done():
			return KeyEndTransmission, nil
		default:
		}

		r, err = i.tty.ReadRune()
		if err != nil {
			return r, err
		}

		// parse escape sequences
		if r == '\033' {

			// not buffered anything? just a pure escape
			if !i.tty.Buffered() {
				return KeyEscape, nil
			}

			r, err = i.tty.ReadRune()
			if err != nil {
				return r, err
			}

			if r != '[' {
				return r, fmt.Errorf("Unexpected escape sequence: %q", r)
			}

			r, err = i.tty.ReadRune()
			if err != nil {
				return r, err
			}

			switch r {
			case 'D':
				return KeyArrowLeft, nil
			case 'C':
				return KeyArrowRight, nil
			case 'A':
				return KeyArrowUp, nil
			case 'B':
				return KeyArrowDown, nil
			default:
				r = ignoreKey
			}
		}

		if r != ignoreKey {
			break
		}
	}

	return r, nil
}
