package net

import (
	"context"
	"encoding/json"

	"PixelBoard/internal/record"
	"PixelBoard/internal/state"
)

// Message types exchanged with remote controllers.
const (
	TypeIntent = "intent" // controller -> host
	TypeAck    = "ack"    // host -> controller, answers one intent
	TypeRecord = "record" // host -> every peer, one per applied group
)

// Message is one newline-delimited JSON frame on the wire. Websocket peers
// exchange the same frames as text messages.
type Message struct {
	Type   string          `json:"type"`
	Seq    uint64          `json:"seq,omitempty"`
	Intent json.RawMessage `json:"intent,omitempty"`
	Op     state.Op        `json:"op,omitempty"`
	Error  string          `json:"error,omitempty"`
	Record *record.Record  `json:"record,omitempty"`
}

// Submitter applies a remote intent on the editor's goroutine and reports
// what happened.
type Submitter interface {
	Submit(ctx context.Context, in state.Intent) (state.Outcome, error)
}

// ack builds the reply to an intent message.
func ack(seq uint64, out state.Outcome, err error) Message {
	m := Message{Type: TypeAck, Seq: seq, Op: out.Op}
	if err != nil {
		m.Error = err.Error()
	}
	return m
}
