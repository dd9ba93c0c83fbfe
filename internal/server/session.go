package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/teamwatch/internal/engine"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds viewer messages; they are tiny control frames.
	maxMessageSize = 1024
)

// Message types on the websocket.
const (
	TypeRegion     = "region"
	TypeVisibility = "visibility"
	TypeRefresh    = "refresh"
)

// RegionMessage is pushed to the viewer for every region write.
type RegionMessage struct {
	Type   string        `json:"type"`
	Region render.Region `json:"region"`
	HTML   string        `json:"html"`
}

// ViewerMessage is what a viewer may send.
type ViewerMessage struct {
	Type    string `json:"type"`
	Visible *bool  `json:"visible,omitempty"`
}

// session is one viewer connection. It is the engine's render.Page:
// region writes are coalesced per region and flushed by a single writer
// goroutine, so a slow viewer never blocks a render pass.
type session struct {
	id     string
	conn   *websocket.Conn
	logger *logrus.Entry
	engine *engine.Engine

	mu      sync.Mutex
	pending map[render.Region]render.Fragment
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newSession(id string, conn *websocket.Conn, logger *logrus.Entry) *session {
	return &session{
		id:      id,
		conn:    conn,
		logger:  logger.WithField("session", id),
		pending: make(map[render.Region]render.Fragment),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// SetRegion implements render.Page. Only the latest fragment per region
// is kept until the writer flushes.
func (s *session) SetRegion(region render.Region, fragment render.Fragment) {
	s.mu.Lock()
	s.pending[region] = fragment
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// take drains the pending writes in page order.
func (s *session) take() []RegionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msgs []RegionMessage
	for _, region := range render.Regions() {
		if frag, ok := s.pending[region]; ok {
			msgs = append(msgs, RegionMessage{Type: TypeRegion, Region: region, HTML: string(frag)})
			delete(s.pending, region)
		}
	}
	return msgs
}

// writeLoop is the only goroutine writing to the connection.
func (s *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-s.wake:
			for _, msg := range s.take() {
				data, err := json.Marshal(msg)
				if err != nil {
					s.logger.WithError(err).Error("Failed to encode region message")
					continue
				}
				_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
					s.logger.WithError(err).Debug("Write failed, closing session")
					return
				}
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop handles viewer messages until the connection drops.
func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).Warn("Websocket read error")
			}
			return
		}

		var msg ViewerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.WithError(err).Debug("Ignoring malformed viewer message")
			continue
		}

		switch msg.Type {
		case TypeVisibility:
			if msg.Visible != nil {
				s.engine.SetVisible(*msg.Visible)
			}
		case TypeRefresh:
			s.engine.PollNow()
		default:
			s.logger.WithField("type", msg.Type).Debug("Ignoring unknown viewer message")
		}
	}
}

// close stops the writer; safe to call more than once.
func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}
