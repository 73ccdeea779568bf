// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-poll/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames
	maxMessageSize = 512

	sendBufferSize = 64
)

// subscriber is one WebSocket connection on the tally feed
type subscriber struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

func (s *subscriber) enqueue(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("tally feed buffer full, update dropped", "subscriber", s.id)
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	s.conn.Close()
}

// TallyHub pushes updated tallies to every connected subscriber.
type TallyHub struct {
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[string]*subscriber

	latestMu sync.Mutex
	latest   map[int]int
}

func NewTallyHub() *TallyHub {
	return &TallyHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The poll is embedded in arbitrary host pages
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[string]*subscriber),
		latest:      make(map[int]int),
	}
}

// Publish sends a tally to all subscribers without blocking. Slow
// subscribers miss updates rather than stall the vote path. Totals only
// grow, so a tally no newer than the last one sent for its question is
// dropped; concurrent votes may finish out of order.
func (h *TallyHub) Publish(tally models.TallyResponse) {
	if !h.advance(tally) {
		slog.Debug("stale tally dropped", "question_id", tally.QuestionID, "total_votes", tally.TotalVotes)
		return
	}

	data, err := json.Marshal(tally)
	if err != nil {
		slog.Error("failed to encode tally", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subscribers {
		s.enqueue(data)
	}
}

// advance records tally as the newest for its question
func (h *TallyHub) advance(tally models.TallyResponse) bool {
	h.latestMu.Lock()
	defer h.latestMu.Unlock()

	if last, ok := h.latest[tally.QuestionID]; ok && tally.TotalVotes <= last {
		return false
	}
	h.latest[tally.QuestionID] = tally.TotalVotes
	return true
}

// Subscribers returns the number of connected subscribers
func (h *TallyHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber
func (h *TallyHub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, s := range subs {
		s.close()
	}
}

// ServeHTTP handles GET /ws/tallies
func (h *TallyHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	s := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subscribers[s.id] = s
	h.mu.Unlock()

	slog.Info("tally subscriber connected", "subscriber", s.id)

	go h.writePump(s)
	h.readPump(s)
}

// readPump discards client frames and detects disconnects
func (h *TallyHub) readPump(s *subscriber) {
	defer func() {
		h.mu.Lock()
		delete(h.subscribers, s.id)
		h.mu.Unlock()
		s.close()
		slog.Info("tally subscriber disconnected", "subscriber", s.id)
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump sends queued tallies, one per text frame, and keeps the
// connection alive with pings
func (h *TallyHub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		}
	}
}
