// Package loop runs one game: it owns the world, wires the event bus
// handlers, resolves collisions each frame and draws the result.
package loop

import (
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/draw"
	"github.com/tomz197/pewpew/internal/event"
	"github.com/tomz197/pewpew/internal/input"
	"github.com/tomz197/pewpew/internal/object"
	"github.com/tomz197/pewpew/internal/physics"
)

// gridCellSize is wider than any enemy, so most lasers query one or two cells.
const gridCellSize = 100

// Phase is the lifecycle state of a game.
type Phase int

const (
	PhaseRunning Phase = iota // Frames are scheduled
	PhaseEnded                // End screen shown, waiting for Enter
)

func (p Phase) String() string {
	if p == PhaseEnded {
		return "ended"
	}
	return "running"
}

// Outcome is how the last round finished.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	}
	return "none"
}

var (
	ErrNoSheet     = errors.New("loop: sprite sheet is required")
	ErrNoSurface   = errors.New("loop: background and foreground surfaces are required")
	ErrNoScheduler = errors.New("loop: frame scheduler is required")
)

// Options configures a Game.
type Options struct {
	Sheet      *asset.Sheet
	Background draw.Surface // Starfield, drawn once per round
	Foreground draw.Surface // Entities and HUD, redrawn every frame
	Scheduler  Scheduler
	Field      object.Field // Zero means the standard playfield
	Rand       *rand.Rand   // Star placement; nil uses a random seed
	Logger     *log.Logger  // Nil discards
}

// Game is a single player's game. All methods must be called from the
// goroutine that runs the scheduler's frames.
type Game struct {
	sheet  *asset.Sheet
	bg, fg draw.Surface
	sched  Scheduler
	field  object.Field
	rng    *rand.Rand
	logger *log.Logger

	bus    *event.Bus
	mapper *input.Mapper
	world  *World
	grid   *physics.Grid // Broad phase for the resolver

	phase     Phase
	outcome   Outcome
	pending   Outcome // Reported during the running frame, settled at its end
	inFrame   bool
	lastFrame time.Time
	scheduled bool // A frame request is outstanding
	rounds    int
}

// New creates a game. Call Start to set up the first round.
func New(opts Options) (*Game, error) {
	if opts.Sheet == nil {
		return nil, ErrNoSheet
	}
	if opts.Background == nil || opts.Foreground == nil {
		return nil, ErrNoSurface
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}

	g := &Game{
		sheet:  opts.Sheet,
		bg:     opts.Background,
		fg:     opts.Foreground,
		sched:  opts.Scheduler,
		field:  opts.Field,
		rng:    opts.Rand,
		logger: opts.Logger,
		bus:    event.NewBus(),
	}
	if g.field.Width <= 0 || g.field.Height <= 0 {
		g.field = object.Field{Width: config.FieldWidth, Height: config.FieldHeight}
	}
	g.grid = physics.NewGrid(g.field.Width, g.field.Height, gridCellSize)
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.mapper = input.NewMapper(g.bus)
	return g, nil
}

// Start sets up the first round and schedules its first frame.
func (g *Game) Start() {
	g.newRound()
}

// Restart throws the current round away and starts a fresh one: new
// entities, new subscriptions, new starfield.
func (g *Game) Restart() {
	g.newRound()
}

func (g *Game) newRound() {
	g.world = NewWorld(g.sheet, g.field)
	g.bus.Reset()
	g.subscribe()
	g.mapper.Reset()

	g.phase = PhaseRunning
	g.outcome = OutcomeNone
	g.pending = OutcomeNone
	g.lastFrame = time.Time{}
	g.rounds++

	g.drawGalaxy()
	g.fg.Clear(g.field.Rect())
	g.drawHUD()

	g.logger.Debug("round started", "round", g.rounds, "objects", len(g.world.Objects))
	g.schedule()
}

func (g *Game) schedule() {
	if g.scheduled {
		return
	}
	g.scheduled = true
	g.sched.RequestFrame(g.frame)
}

// frame advances the simulation to now and redraws the foreground.
func (g *Game) frame(now time.Time) {
	g.scheduled = false
	if g.phase != PhaseRunning {
		return
	}

	var delta time.Duration
	if !g.lastFrame.IsZero() {
		delta = min(max(now.Sub(g.lastFrame), 0), config.MaxFrameDelta)
	}
	g.lastFrame = now

	g.fg.Clear(g.field.Rect())
	g.inFrame = true

	ctx := object.UpdateContext{
		Delta:   delta,
		Field:   g.field,
		Spawner: g.world,
		Logger:  g.logger,
	}
	for _, obj := range g.world.Objects {
		obj.Tick(ctx)
	}
	g.world.FlushSpawned()

	g.resolve()
	g.world.FlushSpawned()
	g.world.Purge()
	g.inFrame = false

	if g.pending != OutcomeNone {
		g.endGame(g.pending)
		return
	}

	g.drawObjects()
	g.drawHUD()
	g.schedule()
}

// report records a round outcome. During a frame it is held until every
// collision has been handled; a victory reported anywhere in the frame
// replaces a defeat.
func (g *Game) report(outcome Outcome) {
	if g.phase == PhaseEnded {
		return
	}
	if !g.inFrame {
		g.endGame(outcome)
		return
	}
	if g.pending == OutcomeNone || outcome == OutcomeVictory {
		g.pending = outcome
	}
}

// endGame shows the end screen. Only the first outcome of a round counts.
func (g *Game) endGame(outcome Outcome) {
	if g.phase == PhaseEnded {
		return
	}
	g.phase = PhaseEnded
	g.outcome = outcome
	g.logger.Info("game over", "outcome", outcome, "score", g.world.Player.Score, "round", g.rounds)
	g.drawEndScreen()
}

// KeyDown feeds a key press through the input mapper. It returns true when
// the host should suppress the key's default action.
func (g *Game) KeyDown(k input.Key) bool {
	return g.mapper.KeyDown(k)
}

// KeyUp feeds a key release through the input mapper.
func (g *Game) KeyUp(k input.Key) bool {
	return g.mapper.KeyUp(k)
}

// HandleKey feeds a raw key event through the input mapper.
func (g *Game) HandleKey(ev input.KeyEvent) bool {
	return g.mapper.Handle(ev)
}

// Phase returns the lifecycle state.
func (g *Game) Phase() Phase { return g.phase }

// Outcome returns how the round ended, OutcomeNone while running.
func (g *Game) Outcome() Outcome { return g.outcome }

// World returns the current round's world.
func (g *Game) World() *World { return g.world }

// Bus returns the game's event bus.
func (g *Game) Bus() *event.Bus { return g.bus }

// Field returns the playfield size.
func (g *Game) Field() object.Field { return g.field }
