package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"PixelBoard/internal/record"
	"PixelBoard/internal/state"
)

// ErrRejected indicates that the host refused an intent.
var ErrRejected = errors.New("intent rejected by host")

// Client is a remote controller connected to a host over TCP. A reader
// goroutine keeps draining the connection, so record broadcasts never back
// up while the client is idle.
type Client struct {
	conn net.Conn
	enc  *json.Encoder

	mu   sync.Mutex
	seq  uint64
	acks chan Message
	done chan struct{}
	err  error

	onRecord func(record.Record)
}

type ClientOption func(*Client)

// OnRecord registers fn for every record broadcast. It runs on the reader
// goroutine.
func OnRecord(fn func(record.Record)) ClientOption {
	return func(c *Client) { c.onRecord = fn }
}

// Dial connects to a host address or share link.
func Dial(ctx context.Context, link string, opts ...ClientOption) (*Client, error) {
	addr, err := ParseShareLink(link)
	if err != nil {
		return nil, err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	c := &Client{
		conn: conn,
		enc:  json.NewEncoder(conn),
		acks: make(chan Message, 1),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	sc := bufio.NewScanner(c.conn)
	sc.Buffer(make([]byte, 0, 64<<10), maxFrame)
	for sc.Scan() {
		var m Message
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			c.err = fmt.Errorf("decode reply: %w", err)
			return
		}
		switch {
		case m.Type == TypeRecord && m.Record != nil:
			if c.onRecord != nil {
				c.onRecord(*m.Record)
			}
		case m.Type == TypeAck:
			// Only the pending Send waits for an ack; strays are dropped.
			select {
			case c.acks <- m:
			default:
			}
		}
	}
	if err := sc.Err(); err != nil {
		c.err = fmt.Errorf("read reply: %w", err)
		return
	}
	c.err = errors.New("host closed the connection")
}

// Send submits in and waits for the host's acknowledgement.
func (c *Client) Send(in state.Intent) (Message, error) {
	raw, err := state.MarshalIntent(in)
	if err != nil {
		return Message{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	seq := c.seq
	if err := c.enc.Encode(Message{Type: TypeIntent, Seq: seq, Intent: raw}); err != nil {
		return Message{}, fmt.Errorf("send %s: %w", in.Name(), err)
	}

	for {
		select {
		case m := <-c.acks:
			if m.Seq != seq {
				continue
			}
			if m.Error != "" {
				return m, fmt.Errorf("%w: %s", ErrRejected, m.Error)
			}
			return m, nil
		case <-c.done:
			return Message{}, c.err
		}
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
