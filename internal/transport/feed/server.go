// Package feed streams trade journal entries to websocket subscribers.
// Ops dashboards watch it live; nothing in the trade path depends on it.
package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/skytopia/Shoptopia/internal/shop"
)

const (
	writeTimeout = 5 * time.Second
	pingEvery    = 30 * time.Second
	// Slow consumer budget before we drop entries for that client.
	clientBuffer = 256
)

type Server struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]chan []byte
	closed  bool
}

func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: make(map[string]chan []byte),
	}
}

// RecordTrade fans the entry out to every connected subscriber. A client
// that cannot keep up loses entries rather than stalling the caller.
func (s *Server) RecordTrade(e shop.TradeEntry) {
	b, err := json.Marshal(e)
	if err != nil {
		s.log.Printf("feed marshal failed: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.clients {
		select {
		case ch <- b:
		default:
		}
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id := uuid.NewString()
		out := make(chan []byte, clientBuffer)
		if !s.register(id, out) {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
			return
		}
		defer s.unregister(id)

		s.log.Printf("feed client %s connected from %s", id, r.RemoteAddr)

		// Writer goroutine; the read loop below only consumes control
		// frames and detects disconnects.
		done := make(chan struct{})
		go func() {
			defer close(done)
			ping := time.NewTicker(pingEvery)
			defer ping.Stop()
			for {
				select {
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				case <-ping.C:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(2 * pingEvery))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		s.unregister(id)
		<-done
		s.log.Printf("feed client %s disconnected", id)
	}
}

// Close disconnects every subscriber and refuses new ones.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
}

func (s *Server) register(id string, ch chan []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.clients[id] = ch
	return true
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.clients[id]; ok {
		close(ch)
		delete(s.clients, id)
	}
}
