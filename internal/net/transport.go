package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"PixelBoard/internal/record"
	"PixelBoard/internal/state"
)

const (
	maxFrame = 16 << 20

	// peerQueue bounds the messages waiting for one peer. A peer that
	// falls this far behind is disconnected.
	peerQueue = 256

	writeTimeout = 10 * time.Second
)

var (
	ErrPeerClosed = errors.New("peer closed")
	ErrPeerBehind = errors.New("peer is not reading")
)

// Peer is one connected remote controller, over TCP or websocket. Messages
// are queued and written by the peer's own goroutine.
type Peer struct {
	Addr string

	out       chan Message
	closed    chan struct{}
	closeOnce sync.Once
	closeConn func()
}

// NewPeer starts the writer for a connection. write sends one message;
// closeConn tears the connection down and may be nil.
func NewPeer(addr string, write func(Message) error, closeConn func()) *Peer {
	p := &Peer{
		Addr:      addr,
		out:       make(chan Message, peerQueue),
		closed:    make(chan struct{}),
		closeConn: closeConn,
	}
	go p.writeLoop(write)
	return p
}

func (p *Peer) writeLoop(write func(Message) error) {
	for {
		select {
		case m := <-p.out:
			if err := write(m); err != nil {
				log.Printf("[NET] Error writing to %s: %v", p.Addr, err)
				p.Close()
				return
			}
		case <-p.closed:
			return
		}
	}
}

// Send queues m without blocking. A peer whose queue is full is closed.
func (p *Peer) Send(m Message) error {
	select {
	case <-p.closed:
		return ErrPeerClosed
	default:
	}
	select {
	case p.out <- m:
		return nil
	default:
		p.Close()
		return ErrPeerBehind
	}
}

// Close stops the writer and closes the connection. Safe to call twice.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		if p.closeConn != nil {
			p.closeConn()
		}
	})
}

// Done is closed once the peer is closed.
func (p *Peer) Done() <-chan struct{} { return p.closed }

// PeerManager is used by the HOST to manage all active remote controllers
// and to route their intents into the editor.
type PeerManager struct {
	peers  map[string]*Peer
	mu     sync.RWMutex
	submit Submitter
}

// NewPeerManager creates a manager that forwards intents to submit.
func NewPeerManager(submit Submitter) *PeerManager {
	return &PeerManager{
		peers:  make(map[string]*Peer),
		submit: submit,
	}
}

// Add registers a newly connected peer.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.Addr] = peer
	log.Printf("[NET] Peer connected from %s", peer.Addr)
}

func (pm *PeerManager) Remove(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, peer.Addr)
	log.Printf("[NET] Peer %s disconnected", peer.Addr)
}

// Len is the number of connected peers.
func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Broadcast sends m to every peer except exclude.
func (pm *PeerManager) Broadcast(m Message, exclude *Peer) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for _, peer := range pm.peers {
		if peer == exclude {
			continue
		}
		if err := peer.Send(m); err != nil {
			log.Printf("[NET] Error sending to %s: %v", peer.Addr, err)
		}
	}
}

// Publish notifies every peer of the records produced by out.
func (pm *PeerManager) Publish(out state.Outcome) {
	for _, rec := range record.FromOutcome(out) {
		pm.Broadcast(Message{Type: TypeRecord, Record: &rec}, nil)
	}
}

// handle decodes one frame from peer, applies its intent and acknowledges.
func (pm *PeerManager) handle(ctx context.Context, peer *Peer, frame []byte) {
	var m Message
	if err := json.Unmarshal(frame, &m); err != nil {
		pm.reply(peer, Message{Type: TypeAck, Error: fmt.Sprintf("malformed message: %v", err)})
		return
	}
	if m.Type != TypeIntent {
		pm.reply(peer, Message{Type: TypeAck, Seq: m.Seq, Error: fmt.Sprintf("unexpected message type %q", m.Type)})
		return
	}
	in, err := state.ParseIntent(m.Intent)
	if err != nil {
		pm.reply(peer, ack(m.Seq, state.Outcome{}, err))
		return
	}
	log.Printf("[NET] Received '%s' from %s", in.Name(), peer.Addr)
	out, err := pm.submit.Submit(ctx, in)
	pm.reply(peer, ack(m.Seq, out, err))
}

func (pm *PeerManager) reply(peer *Peer, m Message) {
	if err := peer.Send(m); err != nil {
		log.Printf("[NET] Error replying to %s: %v", peer.Addr, err)
	}
}

// ListenAndServe accepts TCP controllers on port until ctx is done.
func (pm *PeerManager) ListenAndServe(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}
	log.Printf("[NET] TCP host server listening on port %d...", port)
	return pm.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done. It closes ln.
func (pm *PeerManager) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("[NET] Error accepting connection: %v", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			pm.serveConn(ctx, conn)
		}()
	}
}

func (pm *PeerManager) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	peer := NewPeer(conn.RemoteAddr().String(), lineWriter(conn), func() { conn.Close() })
	pm.Add(peer)
	defer pm.Remove(peer)
	defer peer.Close()

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64<<10), maxFrame)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		pm.handle(ctx, peer, sc.Bytes())
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		log.Printf("[NET] Client %s read error: %v", peer.Addr, err)
	}
}

// lineWriter encodes messages as newline-terminated JSON on conn.
func lineWriter(conn net.Conn) func(Message) error {
	enc := json.NewEncoder(conn)
	return func(m Message) error {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return enc.Encode(m)
	}
}
