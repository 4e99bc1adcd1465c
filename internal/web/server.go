// Package web serves the game to browsers. Each websocket connection plays
// its own game on the server; the page only rasterises draw operations and
// reports keys.
package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/input"
	"github.com/tomz197/pewpew/internal/loop"
	"github.com/tomz197/pewpew/internal/object"
)

//go:embed index.html
var indexPage []byte

// QRSize is the edge length of /qr.png in pixels.
const QRSize = 256

// ErrNoSheet is returned when Options carries no sprite sheet.
var ErrNoSheet = errors.New("web: sprite sheet is required")

// Options configures a Server.
type Options struct {
	Sheet *asset.Sheet
	// PublicURL is the page address encoded in the QR code. Empty derives it
	// from each request.
	PublicURL string
	Logger    *log.Logger
}

// Server holds the HTTP routes and the live sessions.
type Server struct {
	sheet     *asset.Sheet
	publicURL string
	logger    *log.Logger
	hello     []byte
	upgrader  websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex // Guards closing and wg.Add against Close's Wait
	closing bool
	wg      sync.WaitGroup
}

// NewServer prepares a server. The hello message is encoded once and shared
// by every session.
func NewServer(opts Options) (*Server, error) {
	if opts.Sheet == nil {
		return nil, ErrNoSheet
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	hello, err := msgpack.Marshal(NewHello(opts.Sheet, config.FieldWidth, config.FieldHeight))
	if err != nil {
		return nil, fmt.Errorf("encode hello: %w", err)
	}

	s := &Server{
		sheet:     opts.Sheet,
		publicURL: opts.PublicURL,
		logger:    logger,
		hello:     hello,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameHost,
		},
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// sameHost accepts non-browser clients and pages served from this host.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /qr.png", s.handleQR)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})
	return mux
}

// Close ends every session and waits for them to finish.
func (s *Server) Close() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// begin registers a session. It returns false once Close has started.
func (s *Server) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(indexPage)
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(s.pageURL(r), qrcode.Medium, QRSize)
	if err != nil {
		s.logger.Error("failed to encode QR code", "err", err)
		http.Error(w, "qr code unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// pageURL is the address players should open.
func (s *Server) pageURL(r *http.Request) string {
	if s.publicURL != "" {
		return s.publicURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: r.Host, Path: "/"}).String()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.logger.Debug("upgrade failed", "err", err)
		return
	}

	if !s.begin() {
		conn.Close()
		return
	}
	defer s.wg.Done()

	remote := remoteIP(r)
	logger := s.logger.With("remote", remote)

	sess, err := s.newSession(conn, logger)
	if err != nil {
		logger.Error("failed to start session", "err", err)
		conn.Close()
		return
	}

	logger.Info("session started")
	if err := sess.serve(s.ctx); err != nil {
		logger.Warn("session ended", "err", err)
		return
	}
	logger.Info("session ended")
}

func (s *Server) newSession(conn *websocket.Conn, logger *log.Logger) (*session, error) {
	field := object.Field{Width: config.FieldWidth, Height: config.FieldHeight}
	sess := &session{
		conn:   conn,
		queue:  &loop.FrameQueue{},
		bg:     NewRecorder(field.Rect()),
		fg:     NewRecorder(field.Rect()),
		hello:  s.hello,
		keys:   make(chan input.KeyEvent, keyBufSize),
		logger: logger,
	}
	game, err := loop.New(loop.Options{
		Sheet:      s.sheet,
		Background: sess.bg,
		Foreground: sess.fg,
		Scheduler:  sess.queue,
		Field:      field,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	sess.game = game
	return sess, nil
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
