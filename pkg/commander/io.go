package commander

import (
	"bufio"
	"fmt"
	"io"

	"lineshell/pkg/linetypes"
)

// scanReader adapts an io.Reader to the LineReader capability using a
// buffered line scanner.
type scanReader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r as a LineReader. ReadLine returns one line without
// its terminator and io.EOF once r is exhausted.
func NewReader(r io.Reader) linetypes.LineReader {
	return &scanReader{scanner: bufio.NewScanner(r)}
}

func (r *scanReader) ReadLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// printWriter adapts an io.Writer to the LineWriter capability.
type printWriter struct {
	w io.Writer
}

// NewWriter wraps w as a LineWriter that terminates every write with a
// newline.
func NewWriter(w io.Writer) linetypes.LineWriter {
	return &printWriter{w: w}
}

func (w *printWriter) WriteLine(s string) error {
	_, err := fmt.Fprintln(w.w, s)
	return err
}
