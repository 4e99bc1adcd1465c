// Package client runs one game on one terminal: a local tty or an SSH
// session.
package client

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/draw"
	"github.com/tomz197/pewpew/internal/input"
	"github.com/tomz197/pewpew/internal/loop"
)

// ErrNoSheet is returned when ClientOptions carries no sprite sheet.
var ErrNoSheet = errors.New("client: sprite sheet is required")

// Client handles rendering and input for a single terminal.
type Client struct {
	game         *loop.Game
	queue        *loop.FrameQueue
	bg, fg       *draw.CanvasSurface
	text         *draw.TextRenderer
	chunkWriter  *draw.ChunkWriter // Accumulates the frame for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Sheet        *asset.Sheet
	Logger       *log.Logger     // Must not write to the game's terminal
	ColorProfile termenv.Profile // Zero value is true colour
	Rand         *rand.Rand
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r io.ByteReader, w io.Writer, opts ClientOptions) (*Client, error) {
	if opts.Sheet == nil {
		return nil, ErrNoSheet
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Create canvases with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	newSurface := func() *draw.CanvasSurface {
		canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.FieldWidth, config.FieldHeight)
		canvas.SetOffset(offsetCol, offsetRow)
		return draw.NewCanvasSurface(canvas)
	}

	c := &Client{
		queue:        &loop.FrameQueue{},
		bg:           newSurface(),
		fg:           newSurface(),
		text:         draw.NewTextRenderer(w, opts.ColorProfile),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r, config.TermKeyReleaseAfter),
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}

	game, err := loop.New(loop.Options{
		Sheet:      opts.Sheet,
		Background: c.bg,
		Foreground: c.fg,
		Scheduler:  c.queue,
		Rand:       opts.Rand,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	c.game = game
	return c, nil
}

// Run starts the game and the client loop. Blocks until the user quits,
// input ends or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if err := draw.EnterScreen(c.writer); err != nil {
		return err
	}
	defer draw.LeaveScreen(c.writer)

	c.game.Start()

	for ctx.Err() == nil {
		frameStart := time.Now()

		// Process input
		for _, ev := range c.inputStream.ReadEvents(frameStart) {
			c.game.HandleKey(ev)
		}
		if c.inputStream.Quit() {
			break
		}

		// Handle screen resize
		c.updateScreen()

		// Advance the game if it asked for a frame
		c.queue.Run(frameStart)

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	c.logger.Debug("client stopped", "phase", c.game.Phase(), "score", c.game.World().Player.Score)
	return nil
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	canvas := c.fg.Canvas()
	if renderWidth == canvas.TerminalWidth() && renderHeight == canvas.TerminalHeight() &&
		offsetCol == canvas.OffsetCol() && offsetRow == canvas.OffsetRow() {
		return
	}

	c.logger.Debug("terminal resized", "width", termWidth, "height", termHeight)
	for _, s := range []*draw.CanvasSurface{c.bg, c.fg} {
		s.Resize(renderWidth, renderHeight)
		s.SetOffset(offsetCol, offsetRow)
	}
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, config.MaxTermWidth), 1)
	renderHeight = max(min(termHeight, config.MaxTermHeight), 1)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// drawFrame composes the background, the foreground and the text overlays
// into one write.
func (c *Client) drawFrame() error {
	c.chunkWriter.ClearScreen()

	c.bg.Render(c.chunkWriter)
	c.fg.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.fg.Canvas().RenderBorder(c.chunkWriter)

	c.bg.RenderText(c.chunkWriter, c.text)
	c.fg.RenderText(c.chunkWriter, c.text)

	return c.chunkWriter.Flush()
}
