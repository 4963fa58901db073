package file

import (
	"io"
	"os"
)

// WriteString writes value to an existing file, like `echo -n value > path`.
// Meant for sysfs attributes, which must be written in one go.
func WriteString(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := f.WriteString(value)
	if err != nil {
		return err
	}

	if n < len(value) {
		return io.ErrShortWrite
	}

	return nil
}

// Append appends data to path, creating it if needed
func Append(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	n, err := f.Write(data)
	if err != nil {
		_ = f.Close()
		return err
	}

	if n < len(data) {
		_ = f.Close()
		return io.ErrShortWrite
	}

	return f.Close()
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
