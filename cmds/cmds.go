/*
Package cmds includes the command implementations of the cloud agent CLI. The
cobra commands in package cmd only bind the flags and call them.
*/
package cmds

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lainio/err2/try"
)

var ErrInvalid = errors.New("invalid command, check arguments")

type Result interface {
	JSON() ([]byte, error)
}

type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// ValidateTime checks that the string is a time of day in HH:MM[:SS] format,
// which is what the backup scheduler accepts.
func ValidateTime(s string) error {
	if _, err := time.Parse("15:04:05", s); err == nil {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("time %q must be in HH:MM[:SS] format", s)
	}
	return nil
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws an
// error.
func Fprintln(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws an
// error.
func Fprintf(w io.Writer, format string, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}
