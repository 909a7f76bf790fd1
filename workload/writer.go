package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// A Writer writes ops in the trace format understood by the Parser.
type Writer struct {
	w      *bufio.Writer
	header bool
}

// NewWriter creates a writer that writes into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends ops to the trace. The header comment is written before the
// first op.
func (w *Writer) Write(ops ...Op) error {
	if !w.header {
		if _, err := fmt.Fprintln(w.w, "# Type  Addr"); err != nil {
			return fmt.Errorf("writing trace header: %w", err)
		}

		w.header = true
	}

	for _, op := range ops {
		if _, err := fmt.Fprintln(w.w, op.String()); err != nil {
			return fmt.Errorf("writing trace op: %w", err)
		}
	}

	return nil
}

// Flush writes any buffered ops into the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteFile stores the ops as a trace at path, replacing any existing file.
func WriteFile(path string, ops []Op) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace: %w", err)
	}

	w := NewWriter(f)
	if err := w.Write(ops...); err != nil {
		f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing trace: %w", err)
	}

	return f.Close()
}
