package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"PixelBoard/internal/state"
)

// Writer appends records to a sink. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	closer io.Closer
}

// Create opens path for appending, creating it when missing.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	log.Printf("[RECORD] Appending session record to %s", path)
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// NewWriter writes records to w. Closing the Writer does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// Write encodes r as one line. It is buffered until Flush.
func (w *Writer) Write(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", r.Kind(), err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.buf.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Open writes and flushes the session's open record.
func (w *Writer) Open(port uint16) (OpenRecord, error) {
	open := NewOpenRecord(port)
	if err := w.Write(Record{Open: &open}); err != nil {
		return open, err
	}
	return open, w.Flush()
}

// Outcome records everything durable about out and flushes.
func (w *Writer) Outcome(out state.Outcome) error {
	recs := FromOutcome(out)
	if len(recs) == 0 {
		return nil
	}
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Close writes the close record, flushes, and closes the file opened by
// Create.
func (w *Writer) Close(pointer int) error {
	err := w.Write(Record{Close: &CloseRecord{Timestamp: time.Now().Unix(), Pointer: pointer}})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %v", ErrIO, cerr)
		}
	}
	return err
}
