package loop

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/draw"
	"github.com/tomz197/pewpew/internal/event"
	"github.com/tomz197/pewpew/internal/input"
	"github.com/tomz197/pewpew/internal/object"
	"github.com/tomz197/pewpew/internal/physics"
)

type drawCall struct {
	id         asset.ID
	x, y, w, h float64
}

// fakeSurface records what is currently drawn. Any clear empties it.
type fakeSurface struct {
	images []drawCall
	texts  []string
	clears int
}

func (s *fakeSurface) Clear(physics.Rect) {
	s.clears++
	s.images = nil
	s.texts = nil
}

func (s *fakeSurface) DrawImage(img asset.Image, x, y, w, h float64) {
	var id asset.ID
	if sp, ok := img.(*asset.Sprite); ok {
		id = sp.ID
	}
	s.images = append(s.images, drawCall{id, x, y, w, h})
}

func (s *fakeSurface) DrawText(text string, _ draw.TextStyle, _, _ float64) {
	s.texts = append(s.texts, text)
}

func (s *fakeSurface) count(id asset.ID) int {
	n := 0
	for _, c := range s.images {
		if c.id == id {
			n++
		}
	}
	return n
}

type harness struct {
	game   *Game
	queue  *FrameQueue
	bg, fg *fakeSurface
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sheet, err := asset.LoadSheet(context.Background(), asset.Embedded(), asset.Manifest)
	if err != nil {
		t.Fatal(err)
	}
	h := &harness{
		queue: &FrameQueue{},
		bg:    &fakeSurface{},
		fg:    &fakeSurface{},
		now:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	h.game, err = New(Options{
		Sheet:      sheet,
		Background: h.bg,
		Foreground: h.fg,
		Scheduler:  h.queue,
		Rand:       rand.New(rand.NewPCG(1, 2)),
	})
	if err != nil {
		t.Fatal(err)
	}
	h.game.Start()
	return h
}

// frame runs the queued frame without advancing time, so no timers fire.
func (h *harness) frame() int {
	return h.queue.Run(h.now)
}

func (h *harness) world() *World {
	return h.game.World()
}

func (h *harness) place(obj object.Object) {
	h.world().Spawn(obj)
	h.world().FlushSpawned()
}

func firstOf[T object.Object](w *World) T {
	for _, obj := range w.Objects {
		if o, ok := obj.(T); ok {
			return o
		}
	}
	var zero T
	return zero
}

func countKind(w *World, kind object.Kind) int {
	n := 0
	for _, obj := range w.Objects {
		if obj.Kind() == kind {
			n++
		}
	}
	return n
}

func TestNewValidatesOptions(t *testing.T) {
	sheet := asset.NewSheet(nil)
	s := &fakeSurface{}
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"no sheet", Options{Background: s, Foreground: s, Scheduler: &FrameQueue{}}, ErrNoSheet},
		{"no surface", Options{Sheet: sheet, Foreground: s, Scheduler: &FrameQueue{}}, ErrNoSurface},
		{"no scheduler", Options{Sheet: sheet, Background: s, Foreground: s}, ErrNoScheduler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStartBuildsRound(t *testing.T) {
	h := newHarness(t)
	w := h.world()

	if len(w.Objects) != 51 {
		t.Errorf("objects = %d, want 51", len(w.Objects))
	}
	if w.Player.Life != 3 || w.Player.Score != 0 {
		t.Errorf("player life=%d score=%d", w.Player.Life, w.Player.Score)
	}
	if h.game.Phase() != PhaseRunning || h.game.Outcome() != OutcomeNone {
		t.Errorf("phase=%v outcome=%v", h.game.Phase(), h.game.Outcome())
	}
	if h.queue.Pending() != 1 {
		t.Errorf("pending frames = %d, want 1", h.queue.Pending())
	}

	if got := h.bg.count(asset.Background); got != 1 {
		t.Errorf("backdrops = %d", got)
	}
	if got := h.bg.count(asset.StarBig); got != 30 {
		t.Errorf("big stars = %d", got)
	}
	if got := h.bg.count(asset.StarSmall); got != 100 {
		t.Errorf("small stars = %d", got)
	}
	for _, c := range h.bg.images {
		if c.x < 0 || c.x >= 800 || c.y < 0 || c.y >= 600 {
			t.Errorf("star outside field: %+v", c)
		}
	}
}

func TestFrameDrawsAndReschedules(t *testing.T) {
	h := newHarness(t)

	if ran := h.frame(); ran != 1 {
		t.Fatalf("ran %d frames", ran)
	}
	if h.queue.Pending() != 1 {
		t.Errorf("frame did not reschedule")
	}
	if got := h.fg.count(asset.EnemyShip) + h.fg.count(asset.EnemyUFO); got != 50 {
		t.Errorf("enemies drawn = %d", got)
	}
	if got := h.fg.count(asset.Life); got != 3 {
		t.Errorf("life icons = %d", got)
	}
	if !slices.Contains(h.fg.texts, "Scores: 0") {
		t.Errorf("texts = %v", h.fg.texts)
	}

	// Icons sit at natural size from W-135 in 45px steps.
	var xs []float64
	for _, c := range h.fg.images {
		if c.id == asset.Life {
			xs = append(xs, c.x)
			if c.w != 33 || c.h != 26 || c.y != 500 {
				t.Errorf("life icon %+v", c)
			}
		}
	}
	if !slices.Equal(xs, []float64{665, 710, 755}) {
		t.Errorf("life icon x = %v", xs)
	}
}

func TestMovementKeys(t *testing.T) {
	h := newHarness(t)
	p := h.world().Player
	x := p.X

	if !h.game.KeyDown(input.KeyLeft) {
		t.Error("arrow should be suppressed")
	}
	if p.X != x-5 || p.Sprite() != asset.PlayerLeft {
		t.Errorf("after left: x=%v sprite=%v", p.X, p.Sprite())
	}
	h.game.KeyUp(input.KeyLeft)
	if p.Sprite() != asset.Player {
		t.Errorf("after release sprite=%v", p.Sprite())
	}
}

func TestFireAndCooldown(t *testing.T) {
	h := newHarness(t)
	h.frame()

	h.game.KeyDown(input.KeySpace)
	h.game.KeyDown(input.KeySpace)
	h.frame()

	if got := countKind(h.world(), object.KindLaserFriendly); got != 1 {
		t.Fatalf("friendly lasers = %d, want 1", got)
	}
	laser := firstOf[*object.Laser](h.world())
	y := laser.Y

	// A stalled host is clamped to a quarter second: two laser steps.
	h.now = h.now.Add(time.Hour)
	h.frame()
	if laser.Y != y-30 {
		t.Errorf("laser y = %v, want %v", laser.Y, y-30)
	}
}

func TestLaserDestroysShip(t *testing.T) {
	h := newHarness(t)
	ship := firstOf[*object.EnemyShip](h.world())
	h.place(object.NewFriendlyLaser(h.game.sheet, ship.X+10, ship.Y+4))

	h.frame()

	if !ship.IsDead() {
		t.Fatal("ship survived")
	}
	w := h.world()
	if w.Player.Score != 100 {
		t.Errorf("score = %d, want 100", w.Player.Score)
	}
	if len(w.Objects) != 51 {
		t.Errorf("objects = %d, want 51 (ship and laser purged, explosion added)", len(w.Objects))
	}
	if countKind(w, object.KindExplosionHostile) != 1 {
		t.Error("missing explosion")
	}
	if w.EnemiesLeft() != 49 {
		t.Errorf("enemies left = %d", w.EnemiesLeft())
	}
}

func TestDoubleHitCountsOnce(t *testing.T) {
	h := newHarness(t)
	ship := firstOf[*object.EnemyShip](h.world())
	h.place(object.NewFriendlyLaser(h.game.sheet, ship.X+10, ship.Y+4))
	h.place(object.NewFriendlyLaser(h.game.sheet, ship.X+20, ship.Y+4))

	h.frame()

	w := h.world()
	if w.Player.Score != 100 {
		t.Errorf("score = %d, want 100", w.Player.Score)
	}
	if got := countKind(w, object.KindExplosionHostile); got != 1 {
		t.Errorf("explosions = %d, want 1", got)
	}
	if got := countKind(w, object.KindLaserFriendly); got != 0 {
		t.Errorf("lasers left = %d", got)
	}

	// The purged ship is never reported again.
	hits := 0
	h.game.Bus().Subscribe(event.LaserHitShip, func(event.Topic, any) { hits++ })
	h.frame()
	if hits != 0 {
		t.Errorf("dead ship hit %d more times", hits)
	}
}

func TestUFONeedsTwoHits(t *testing.T) {
	h := newHarness(t)
	ufo := firstOf[*object.EnemyUFO](h.world())

	h.place(object.NewFriendlyLaser(h.game.sheet, ufo.X+10, ufo.Y+5))
	h.frame()
	if ufo.IsDead() || ufo.Life != 1 {
		t.Fatalf("after one hit: dead=%v life=%d", ufo.IsDead(), ufo.Life)
	}
	if h.world().Player.Score != 0 {
		t.Errorf("score after first hit = %d", h.world().Player.Score)
	}

	h.place(object.NewFriendlyLaser(h.game.sheet, ufo.X+10, ufo.Y+5))
	h.frame()
	if !ufo.IsDead() {
		t.Fatal("UFO survived two hits")
	}
	if h.world().Player.Score != 200 {
		t.Errorf("score = %d, want 200", h.world().Player.Score)
	}
}

func TestThreeLaserHitsKillPlayer(t *testing.T) {
	h := newHarness(t)
	p := h.world().Player
	for i := range 3 {
		h.place(object.NewHostileLaser(h.game.sheet, p.X+10+float64(i)*5, p.Y+5))
	}

	h.frame()

	if p.Life != 0 || !p.IsDead() {
		t.Errorf("life=%d dead=%v", p.Life, p.IsDead())
	}
	if h.game.Outcome() != OutcomeDefeat || h.game.Phase() != PhaseEnded {
		t.Errorf("phase=%v outcome=%v", h.game.Phase(), h.game.Outcome())
	}
	if countKind(h.world(), object.KindExplosionFriendly) != 3 {
		t.Error("each hostile hit should explode")
	}
	if !slices.Contains(h.fg.texts, DefeatMessage) {
		t.Errorf("end screen = %v", h.fg.texts)
	}
}

func TestWinBeforeLose(t *testing.T) {
	h := newHarness(t)
	w := h.world()
	p := w.Player
	p.Life = 1

	// Only one enemy left, sitting on the player.
	ship := object.NewEnemyShip(h.game.sheet, p.X, p.Y)
	w.Objects = []object.Object{p, ship}

	h.frame()

	if !p.IsDead() || !ship.IsDead() {
		t.Fatalf("player dead=%v ship dead=%v", p.IsDead(), ship.IsDead())
	}
	if h.game.Outcome() != OutcomeVictory {
		t.Errorf("outcome = %v, want victory", h.game.Outcome())
	}
	want := []string{VictoryMessage, "Your scores: 50", RestartPrompt}
	if !slices.Equal(h.fg.texts, want) {
		t.Errorf("end screen = %v, want %v", h.fg.texts, want)
	}
}

func TestLastLifeLaserAndLastEnemyIsVictory(t *testing.T) {
	h := newHarness(t)
	w := h.world()
	p := w.Player
	p.Life = 1

	// The laser hit is resolved first and takes the last life; the ram
	// that follows in the same frame destroys the last enemy.
	ship := object.NewEnemyShip(h.game.sheet, p.X, p.Y)
	laser := object.NewHostileLaser(h.game.sheet, p.X+5, p.Y+5)
	w.Objects = []object.Object{p, ship, laser}

	h.frame()

	if !p.IsDead() || w.EnemiesLeft() != 0 {
		t.Fatalf("player dead=%v enemies left=%d", p.IsDead(), w.EnemiesLeft())
	}
	if h.game.Phase() != PhaseEnded || h.game.Outcome() != OutcomeVictory {
		t.Errorf("phase=%v outcome=%v, want ended victory", h.game.Phase(), h.game.Outcome())
	}
	want := []string{VictoryMessage, "Your scores: 50", RestartPrompt}
	if !slices.Equal(h.fg.texts, want) {
		t.Errorf("end screen = %v, want %v", h.fg.texts, want)
	}
	if h.queue.Pending() != 0 {
		t.Error("frame rescheduled after the round ended")
	}
}

func TestEnemyAtBottomShortCircuits(t *testing.T) {
	h := newHarness(t)
	w := h.world()

	var ships []*object.EnemyShip
	for _, obj := range w.Objects {
		if s, ok := obj.(*object.EnemyShip); ok {
			ships = append(ships, s)
		}
	}
	low, target := ships[len(ships)-1], ships[0]
	low.Y = 600 - low.Height
	h.place(object.NewFriendlyLaser(h.game.sheet, target.X+10, target.Y+4))

	h.frame()

	if h.game.Outcome() != OutcomeDefeat {
		t.Errorf("outcome = %v, want defeat", h.game.Outcome())
	}
	if target.IsDead() || w.Player.Score != 0 {
		t.Error("collision checks ran after the bottom was reached")
	}
}

func TestEndedStopsFramesAndConfirmRestarts(t *testing.T) {
	h := newHarness(t)
	old := h.world()

	// Confirm while running is ignored.
	h.game.KeyDown(input.KeyEnter)
	if h.world() != old {
		t.Fatal("restarted while running")
	}

	h.frame()
	h.game.Bus().Publish(event.GameLost, nil)
	h.game.Bus().Publish(event.GameWon, nil)
	if h.game.Phase() != PhaseEnded || h.game.Outcome() != OutcomeDefeat {
		t.Fatalf("phase=%v outcome=%v", h.game.Phase(), h.game.Outcome())
	}

	// The frame queued before the end runs once and does not reschedule.
	h.frame()
	if h.queue.Pending() != 0 {
		t.Fatalf("frames still scheduled after the end")
	}
	if h.frame() != 0 {
		t.Fatal("frame ran while ended")
	}

	old.Player.Score = 1234
	h.game.KeyDown(input.KeyEnter)

	w := h.world()
	if w == old {
		t.Fatal("confirm did not restart")
	}
	if len(w.Objects) != 51 || w.Player.Life != 3 || w.Player.Score != 0 {
		t.Errorf("restart: objects=%d life=%d score=%d", len(w.Objects), w.Player.Life, w.Player.Score)
	}
	if h.game.Phase() != PhaseRunning || h.game.Outcome() != OutcomeNone {
		t.Errorf("phase=%v outcome=%v", h.game.Phase(), h.game.Outcome())
	}
	if h.queue.Pending() != 1 {
		t.Errorf("pending = %d, want 1", h.queue.Pending())
	}
	if got := h.game.Bus().Subscribers(event.Fire); got != 1 {
		t.Errorf("fire subscribers after restart = %d, want 1", got)
	}

	// Confirm again right away is ignored.
	h.game.KeyDown(input.KeyEnter)
	if h.world() != w {
		t.Error("second confirm restarted a running game")
	}
}

func TestFrameQueueDefersNestedRequests(t *testing.T) {
	var q FrameQueue
	calls := 0
	var fn func(time.Time)
	fn = func(time.Time) {
		calls++
		q.RequestFrame(fn)
	}
	q.RequestFrame(fn)

	if q.Run(time.Now()) != 1 || calls != 1 {
		t.Errorf("calls = %d", calls)
	}
	if q.Pending() != 1 {
		t.Errorf("pending = %d", q.Pending())
	}
}
