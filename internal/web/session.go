package web

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/input"
	"github.com/tomz197/pewpew/internal/loop"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 512
	maxMessagesPerSec = 120
	maxKeyLen         = 16
	keyBufSize        = 64
)

var errRateLimited = errors.New("rate limit exceeded")

// session is one browser tab playing its own game. The run goroutine owns
// the game and is the only writer on the connection; readPump is the only
// reader.
type session struct {
	conn   *websocket.Conn
	game   *loop.Game
	queue  *loop.FrameQueue
	bg, fg *Recorder
	hello  []byte
	keys   chan input.KeyEvent
	logger *log.Logger
}

// serve runs the session until the page goes away or ctx is cancelled.
// Closing the connection when run returns unblocks readPump; readPump
// closing the key channel ends run.
func (s *session) serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer s.conn.Close()
		return s.run(ctx)
	})
	g.Go(s.readPump)
	return g.Wait()
}

// readPump decodes key messages and hands them to the game goroutine.
func (s *session) readPump() error {
	defer close(s.keys)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var count int
	var resetAt time.Time
	for {
		msgType, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "err", err)
			}
			return nil
		}

		now := time.Now()
		if now.After(resetAt) {
			count = 0
			resetAt = now.Add(time.Second)
		}
		count++
		if count > maxMessagesPerSec {
			return errRateLimited
		}

		if msgType != websocket.BinaryMessage {
			continue
		}
		var msg KeyMsg
		if err := msgpack.Unmarshal(raw, &msg); err != nil {
			s.logger.Debug("bad message", "err", err)
			continue
		}
		if msg.T != MsgKey || msg.Key == "" || len(msg.Key) > maxKeyLen {
			continue
		}
		select {
		case s.keys <- msg.Event():
		default:
			// Game goroutine is behind; dropping a key beats stalling reads.
		}
	}
}

// run drives the game at the target frame rate and ships changed layers.
func (s *session) run(ctx context.Context) error {
	if err := s.write(websocket.BinaryMessage, s.hello); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}
	s.game.Start()

	frames := time.NewTicker(config.TargetFrameTime)
	defer frames.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return nil

		case ev, ok := <-s.keys:
			if !ok {
				return nil
			}
			s.game.HandleKey(ev)

		case now := <-frames.C:
			s.queue.Run(now)
			if err := s.flush(); err != nil {
				return err
			}

		case <-pings.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// flush sends the ops queued on either layer. Nothing is sent when neither
// layer changed.
func (s *session) flush() error {
	if !s.bg.Pending() && !s.fg.Pending() {
		return nil
	}
	frame := Frame{T: MsgFrame}
	if s.bg.Pending() {
		frame.Layers = append(frame.Layers, Layer{Layer: LayerBackground, Ops: s.bg.Take()})
	}
	if s.fg.Pending() {
		frame.Layers = append(frame.Layers, Layer{Layer: LayerForeground, Ops: s.fg.Take()})
	}
	data, err := msgpack.Marshal(&frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return s.write(websocket.BinaryMessage, data)
}

func (s *session) write(msgType int, data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(msgType, data)
}
