// Package desktop runs the game in an ebiten window (native or wasm).
package desktop

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/input"
	"github.com/tomz197/pewpew/internal/loop"
)

// ErrNoSheet is returned when Options carries no sprite sheet.
var ErrNoSheet = errors.New("desktop: sprite sheet is required")

var keymap = map[ebiten.Key]input.Key{
	ebiten.KeyArrowUp:     input.KeyUp,
	ebiten.KeyW:           input.KeyUp,
	ebiten.KeyArrowDown:   input.KeyDown,
	ebiten.KeyS:           input.KeyDown,
	ebiten.KeyArrowLeft:   input.KeyLeft,
	ebiten.KeyA:           input.KeyLeft,
	ebiten.KeyArrowRight:  input.KeyRight,
	ebiten.KeyD:           input.KeyRight,
	ebiten.KeySpace:       input.KeySpace,
	ebiten.KeyEnter:       input.KeyEnter,
	ebiten.KeyNumpadEnter: input.KeyEnter,
}

// Options configures a Game.
type Options struct {
	Sheet  *asset.Sheet
	Logger *log.Logger
}

// Game adapts a loop.Game to ebiten.Game. Ebiten calls Update at a fixed
// tick rate; each Update feeds the key transitions and runs the pending
// frame request.
type Game struct {
	game    *loop.Game
	queue   *loop.FrameQueue
	bg, fg  *Surface
	repeat  input.Repeat
	aliases *input.Aliases[ebiten.Key]
	keys    []ebiten.Key
	started bool
	logger  *log.Logger
}

// New creates the adapter. The round starts on the first Update.
func New(opts Options) (*Game, error) {
	if opts.Sheet == nil {
		return nil, ErrNoSheet
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	faces, err := NewFaces()
	if err != nil {
		return nil, err
	}
	sprites := NewSprites()

	g := &Game{
		queue:   &loop.FrameQueue{},
		bg:      NewSurface(config.FieldWidth, config.FieldHeight, sprites, faces),
		fg:      NewSurface(config.FieldWidth, config.FieldHeight, sprites, faces),
		repeat:  input.Repeat{Delay: config.KeyRepeatDelay, Interval: config.KeyRepeatInterval},
		aliases: input.NewAliases(keymap),
		logger:  logger,
	}
	game, err := loop.New(loop.Options{
		Sheet:      opts.Sheet,
		Background: g.bg,
		Foreground: g.fg,
		Scheduler:  g.queue,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	g.game = game
	return g, nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if !g.started {
		g.game.Start()
		g.started = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.logger.Debug("window closed by key", "score", g.game.World().Player.Score)
		return ebiten.Termination
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if key, ok := g.aliases.Press(k); ok {
			g.game.KeyDown(key)
		}
	}

	// Ebiten reports state, not repeats; emulate browser-style auto-repeat
	// for held keys.
	tick := time.Second / time.Duration(ebiten.TPS())
	g.keys = inpututil.AppendPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		key, ok := g.aliases.Lookup(k)
		if !ok {
			continue
		}
		held := time.Duration(inpututil.KeyPressDuration(k)) * tick
		if g.repeat.Due(held, tick) {
			g.game.KeyDown(key)
		}
	}

	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		// W and ArrowUp share a key; it is up once both are.
		if key, up := g.aliases.Release(k); up {
			g.game.KeyUp(key)
		}
	}

	g.queue.Run(time.Now())
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.bg.Image(), nil)
	screen.DrawImage(g.fg.Image(), nil)
}

// Layout implements ebiten.Game. The playfield is scaled to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.FieldWidth, config.FieldHeight
}
