package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Remote controllers are browser pages served from anywhere on the LAN.
	CheckOrigin: func(*http.Request) bool { return true },
}

// WebSocketHandler accepts controllers that speak the message protocol as
// websocket text frames.
func (pm *PeerManager) WebSocketHandler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[NET] Websocket upgrade from %s failed: %v", r.RemoteAddr, err)
			return
		}
		defer conn.Close()
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		peer := NewPeer("ws://"+r.RemoteAddr, func(m Message) error {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			return conn.WriteJSON(m)
		}, func() { conn.Close() })
		pm.Add(peer)
		defer pm.Remove(peer)
		defer peer.Close()

		conn.SetReadLimit(maxFrame)
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
					log.Printf("[NET] Websocket %s read error: %v", peer.Addr, err)
				}
				return
			}
			if kind != websocket.TextMessage {
				continue
			}
			pm.handle(ctx, peer, data)
		}
	})
}

// ListenAndServeWebSocket serves the websocket endpoint at addr under /ws
// until ctx is done.
func (pm *PeerManager) ListenAndServeWebSocket(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", pm.WebSocketHandler(ctx))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Printf("[NET] Websocket endpoint listening on %s/ws", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket server: %w", err)
	}
	return nil
}
