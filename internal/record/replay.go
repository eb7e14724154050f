package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"PixelBoard/internal/state"
)

const maxLine = 64 << 20

// Read decodes records line by line and calls fn for each known record.
// Blank lines and records with only unknown keys are skipped.
func Read(r io.Reader, fn func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	line := 0
	for sc.Scan() {
		line++
		data := sc.Bytes()
		if len(data) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Empty() {
			continue
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Stats summarizes a replayed record stream.
type Stats struct {
	Sessions []OpenRecord
	Commits  int
	Undos    int
	Redos    int
	External int
}

// Replay applies every record in r to e. Commits are appended verbatim;
// undo and redo records move the log pointer. Several sessions in one
// stream continue from each other.
func Replay(r io.Reader, e *state.Engine) (Stats, error) {
	var st Stats
	err := Read(r, func(rec Record) error {
		switch {
		case rec.Open != nil:
			st.Sessions = append(st.Sessions, *rec.Open)
		case rec.Commit != nil:
			e.Commit(*rec.Commit)
			st.Commits++
		case rec.Undo != nil:
			if !e.Undo() {
				return fmt.Errorf("undo record with nothing to undo")
			}
			st.Undos++
		case rec.Redo != nil:
			if !e.Redo() {
				return fmt.Errorf("redo record with nothing to redo")
			}
			st.Redos++
		case rec.External != nil:
			st.External++
		}
		return nil
	})
	return st, err
}
