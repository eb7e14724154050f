// Package record writes and replays the session record: a JSON-lines log
// with one open record per session followed by one record per applied
// effect group.
package record

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"PixelBoard/internal/state"
)

// Version is stamped into every open record.
var Version = "0.3.0"

// ErrIO indicates that the record sink could not be written.
var ErrIO = errors.New("record io")

// OpenRecord starts a session.
type OpenRecord struct {
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
	Port      uint16    `json:"port"`
	UUID      uuid.UUID `json:"uuid"`
}

func NewOpenRecord(port uint16) OpenRecord {
	return OpenRecord{
		Timestamp: time.Now().Unix(),
		Version:   Version,
		Port:      port,
		UUID:      uuid.New(),
	}
}

// CloseRecord ends a session.
type CloseRecord struct {
	Timestamp int64 `json:"timestamp"`
	Pointer   int   `json:"pointer"`
}

// Record is one line of the log. Exactly one field is set; lines whose
// only key is unknown decode to an empty Record and are skipped.
type Record struct {
	Open     *OpenRecord            `json:"open,omitempty"`
	Commit   *state.Group           `json:"commit,omitempty"`
	Undo     *state.Group           `json:"undo,omitempty"`
	Redo     *state.Group           `json:"redo,omitempty"`
	External *state.ExternalCommand `json:"external_command,omitempty"`
	Close    *CloseRecord           `json:"close,omitempty"`
}

// Empty reports whether no known field is set.
func (r Record) Empty() bool {
	return r.Open == nil && r.Commit == nil && r.Undo == nil &&
		r.Redo == nil && r.External == nil && r.Close == nil
}

// Kind names the set field.
func (r Record) Kind() string {
	switch {
	case r.Open != nil:
		return "open"
	case r.Commit != nil:
		return "commit"
	case r.Undo != nil:
		return "undo"
	case r.Redo != nil:
		return "redo"
	case r.External != nil:
		return "external_command"
	case r.Close != nil:
		return "close"
	}
	return ""
}

// FromOutcome lists the records describing one applied intent. Intents
// that changed nothing durable produce none.
func FromOutcome(out state.Outcome) []Record {
	var recs []Record
	if out.Group != nil {
		g := *out.Group
		switch out.Op {
		case state.OpCommit:
			recs = append(recs, Record{Commit: &g})
		case state.OpUndo:
			recs = append(recs, Record{Undo: &g})
		case state.OpRedo:
			recs = append(recs, Record{Redo: &g})
		}
	}
	if out.External != nil {
		c := *out.External
		recs = append(recs, Record{External: &c})
	}
	return recs
}
