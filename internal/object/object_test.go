package object

import (
	"testing"
	"time"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
)

// testCatalog mirrors the natural sizes of the embedded sprite set.
type testCatalog map[asset.ID][2]float64

func (c testCatalog) Size(id asset.ID) (float64, float64) {
	s := c[id]
	return s[0], s[1]
}

var catalog = testCatalog{
	asset.Player:         {99, 75},
	asset.PlayerLeft:     {98, 75},
	asset.PlayerRight:    {98, 75},
	asset.PlayerDamaged:  {99, 75},
	asset.EnemyShip:      {98, 50},
	asset.EnemyUFO:       {91, 91},
	asset.LaserRed:       {9, 33},
	asset.LaserGreen:     {9, 33},
	asset.LaserRedShot:   {56, 54},
	asset.LaserGreenShot: {56, 54},
}

var field = Field{Width: config.FieldWidth, Height: config.FieldHeight}

type recordingSpawner struct {
	spawned []Object
}

func (s *recordingSpawner) Spawn(obj Object) {
	s.spawned = append(s.spawned, obj)
}

func tick(obj Object, d time.Duration, s Spawner) {
	obj.Tick(UpdateContext{Delta: d, Field: field, Spawner: s})
}

func TestInterval(t *testing.T) {
	i := NewInterval(100 * time.Millisecond)

	if n := i.Advance(250 * time.Millisecond); n != 2 {
		t.Errorf("Advance(250ms) = %d, want 2", n)
	}
	if n := i.Advance(49 * time.Millisecond); n != 0 {
		t.Errorf("Advance(49ms) = %d, want 0 (remainder carried)", n)
	}
	if n := i.Advance(time.Millisecond); n != 1 {
		t.Errorf("Advance(1ms) = %d, want 1", n)
	}

	i.Stop()
	if n := i.Advance(time.Second); n != 0 || !i.Stopped() {
		t.Errorf("stopped interval advanced %d periods", n)
	}

	i.Restart()
	if n := i.Advance(99 * time.Millisecond); n != 0 {
		t.Errorf("restart kept old elapsed time: %d", n)
	}
}

func TestCountdown(t *testing.T) {
	var c Countdown
	if c.Advance(time.Hour) {
		t.Fatal("unarmed countdown fired")
	}

	c.Start(500 * time.Millisecond)
	if c.Advance(499 * time.Millisecond) {
		t.Fatal("fired early")
	}
	if !c.Advance(time.Millisecond) {
		t.Fatal("did not fire at 500ms")
	}
	if c.Advance(time.Second) || c.Active() {
		t.Fatal("fired twice")
	}
}

func TestPlayerStart(t *testing.T) {
	p := SpawnPlayer(catalog, field)

	if p.X != (800-99)/2.0 || p.Y != 600*7/8.0-75/2.0 {
		t.Errorf("start = (%v, %v), want (350.5, 487.5)", p.X, p.Y)
	}
	if p.Width != 49.5 || p.Height != 37.5 {
		t.Errorf("size = %vx%v, want half the sprite", p.Width, p.Height)
	}
	if p.Life != 3 || p.Score != 0 || !p.CanFire() || p.IsDead() {
		t.Errorf("unexpected initial state %+v", p)
	}
	if p.Kind() != KindPlayer || p.Sprite() != asset.Player {
		t.Errorf("kind/sprite = %v/%v", p.Kind(), p.Sprite())
	}
}

func TestPlayerMoves(t *testing.T) {
	tests := []struct {
		name   string
		move   func(p *Player)
		dx, dy float64
		look   asset.ID
	}{
		{"up", (*Player).MoveUp, 0, -5, asset.Player},
		{"down", (*Player).MoveDown, 0, 5, asset.Player},
		{"left", (*Player).MoveLeft, -5, 0, asset.PlayerLeft},
		{"right", (*Player).MoveRight, 5, 0, asset.PlayerRight},
		{"up-left", (*Player).MoveUpLeft, -4, -4, asset.PlayerLeft},
		{"up-right", (*Player).MoveUpRight, 4, -4, asset.PlayerRight},
		{"left-down", (*Player).MoveLeftDown, -4, 4, asset.PlayerLeft},
		{"right-down", (*Player).MoveRightDown, 4, 4, asset.PlayerRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(catalog, 100, 100)
			tt.move(p)
			if p.X != 100+tt.dx || p.Y != 100+tt.dy {
				t.Errorf("position = (%v, %v), want (%v, %v)", p.X, p.Y, 100+tt.dx, 100+tt.dy)
			}
			if p.Sprite() != tt.look {
				t.Errorf("sprite = %v, want %v", p.Sprite(), tt.look)
			}
			p.Stop()
			if p.Sprite() != asset.Player {
				t.Errorf("sprite after Stop = %v", p.Sprite())
			}
		})
	}
}

func TestPlayerFireAndCooldown(t *testing.T) {
	p := NewPlayer(catalog, 100, 200)
	sp := &recordingSpawner{}

	p.Fire(sp)
	if len(sp.spawned) != 1 {
		t.Fatalf("spawned %d objects, want 1", len(sp.spawned))
	}
	laser := sp.spawned[0].(*Laser)
	if laser.Kind() != KindLaserFriendly {
		t.Errorf("laser kind = %v", laser.Kind())
	}
	wantX := 100 + 49.5/2 - 9/4.0
	wantY := 200 - 33/2.0
	if laser.X != wantX || laser.Y != wantY {
		t.Errorf("laser at (%v, %v), want (%v, %v)", laser.X, laser.Y, wantX, wantY)
	}

	if p.CanFire() || p.Cooldown != config.FireCooldownTicks {
		t.Fatalf("cooldown = %d after firing", p.Cooldown)
	}
	for i := config.FireCooldownTicks - 1; i > 0; i-- {
		tick(p, config.FireCooldownTick, sp)
		if p.Cooldown != i {
			t.Fatalf("cooldown = %d, want %d", p.Cooldown, i)
		}
	}
	tick(p, config.FireCooldownTick, sp)
	if !p.CanFire() {
		t.Fatalf("cooldown = %d after 5 ticks", p.Cooldown)
	}

	// One long frame drains the whole cooldown and never goes negative.
	p.Fire(sp)
	tick(p, 5*time.Second, sp)
	if p.Cooldown != 0 {
		t.Errorf("cooldown = %d after long frame", p.Cooldown)
	}
}

func TestPlayerHits(t *testing.T) {
	p := NewPlayer(catalog, 0, 0)

	p.IsHit()
	if p.Life != 2 || p.IsDead() || !p.Damaged() || p.Sprite() != asset.PlayerDamaged {
		t.Fatalf("after 1 hit: life=%d dead=%v sprite=%v", p.Life, p.IsDead(), p.Sprite())
	}
	p.IsHit()
	p.IsHit()
	if p.Life != 0 || !p.IsDead() {
		t.Fatalf("after 3 hits: life=%d dead=%v", p.Life, p.IsDead())
	}
	p.IsHit()
	if p.Life != 0 {
		t.Errorf("hit on dead player changed life to %d", p.Life)
	}
}

func TestPlayerDamagedWindow(t *testing.T) {
	p := NewPlayer(catalog, 0, 0)
	p.IsHit()

	tick(p, config.DamagedDuration-time.Millisecond, nil)
	if p.Sprite() != asset.PlayerDamaged {
		t.Fatalf("reverted early")
	}
	tick(p, time.Millisecond, nil)
	if p.Sprite() != asset.Player || p.Damaged() {
		t.Errorf("sprite = %v after damaged window", p.Sprite())
	}
}

func TestFriendlyLaserLeavesTop(t *testing.T) {
	l := NewFriendlyLaser(catalog, 10, 30)
	if l.Width != 4.5 || l.Height != 16.5 {
		t.Errorf("size = %vx%v", l.Width, l.Height)
	}

	tick(l, config.LaserTick, nil)
	if l.Y != 15 {
		t.Fatalf("y = %v, want 15", l.Y)
	}
	tick(l, 50*time.Millisecond, nil)
	if l.Y != 15 {
		t.Fatalf("moved on a partial tick")
	}
	tick(l, 50*time.Millisecond, nil)
	if l.Y != 0 || l.IsDead() {
		t.Fatalf("y = %v dead = %v, want 0 alive", l.Y, l.IsDead())
	}
	tick(l, config.LaserTick, nil)
	if !l.IsDead() || !l.motion.Stopped() {
		t.Errorf("laser at top should be dead and stopped")
	}
}

func TestHostileLaserLeavesBottom(t *testing.T) {
	l := NewHostileLaser(catalog, 10, field.Height-10)
	if l.Kind() != KindLaserHostile || l.Sprite() != asset.LaserGreen {
		t.Fatalf("kind/sprite = %v/%v", l.Kind(), l.Sprite())
	}

	tick(l, config.LaserTick, nil)
	if l.Y != field.Height+5 || l.IsDead() {
		t.Fatalf("y = %v dead = %v", l.Y, l.IsDead())
	}
	tick(l, config.LaserTick, nil)
	if !l.IsDead() {
		t.Error("laser past the bottom should be dead")
	}
}

func TestHostileLaserExplode(t *testing.T) {
	l := NewHostileLaser(catalog, 100, 300)
	sp := &recordingSpawner{}

	l.Explode(sp)
	if !l.motion.Stopped() {
		t.Error("explode should stop the laser")
	}
	if len(sp.spawned) != 1 {
		t.Fatalf("spawned %d, want 1", len(sp.spawned))
	}
	ex := sp.spawned[0].(*Explosion)
	if ex.Kind() != KindExplosionFriendly || ex.Sprite() != asset.LaserGreenShot {
		t.Errorf("explosion kind/sprite = %v/%v", ex.Kind(), ex.Sprite())
	}
	wantX := 100 - (56/2.0 - 99/4.0)
	wantY := 300 - (54/2.0 - 75/4.0)
	if ex.X != wantX || ex.Y != wantY {
		t.Errorf("explosion at (%v, %v), want (%v, %v)", ex.X, ex.Y, wantX, wantY)
	}
	if ex.Width != 56 || ex.Height != 54 {
		t.Errorf("explosion size = %vx%v, want natural size", ex.Width, ex.Height)
	}
}

func TestEnemyShipDescendsAndFires(t *testing.T) {
	e := NewEnemyShip(catalog, 100, 50)
	sp := &recordingSpawner{}

	tick(e, config.EnemyDescentTick, sp)
	if e.Y != 53 {
		t.Fatalf("y = %v after one descent tick, want 53", e.Y)
	}

	// Remaining time up to the first shot, in sub-descent slices so the
	// ship's position at firing time is known.
	elapsed := config.EnemyDescentTick
	for elapsed+config.EnemyDescentTick <= config.EnemyFireInterval-time.Millisecond {
		tick(e, config.EnemyDescentTick, sp)
		elapsed += config.EnemyDescentTick
	}
	tick(e, config.EnemyFireInterval-time.Millisecond-elapsed, sp)
	if len(sp.spawned) != 0 {
		t.Fatalf("fired before the interval")
	}

	tick(e, time.Millisecond, sp)
	if len(sp.spawned) != 1 {
		t.Fatalf("spawned %d lasers at 10s, want 1", len(sp.spawned))
	}
	l := sp.spawned[0].(*Laser)
	if l.Kind() != KindLaserHostile {
		t.Errorf("laser kind = %v", l.Kind())
	}
	if wantX, wantY := e.X+e.Width/2-9/4.0, e.Y+e.Height; l.X != wantX || l.Y != wantY {
		t.Errorf("laser at (%v, %v), want (%v, %v)", l.X, l.Y, wantX, wantY)
	}
}

func TestDeadEnemyShipNeverFires(t *testing.T) {
	e := NewEnemyShip(catalog, 100, 50)
	sp := &recordingSpawner{}

	tick(e, config.EnemyFireInterval-time.Millisecond, sp)
	e.MarkDead()
	y := e.Y
	tick(e, time.Minute, sp)

	if len(sp.spawned) != 0 {
		t.Errorf("dead ship fired %d lasers", len(sp.spawned))
	}
	if e.Y != y {
		t.Errorf("dead ship moved from %v to %v", y, e.Y)
	}
}

func TestDescentStopsAtBottom(t *testing.T) {
	u := NewEnemyUFO(catalog, 0, field.Height-45.5-1)

	tick(u, config.EnemyDescentTick, nil)
	if u.Y != field.Height-45.5+2 || u.fall.interval.Stopped() {
		t.Fatalf("y = %v, want one more step", u.Y)
	}
	tick(u, config.EnemyDescentTick, nil)
	if !u.fall.interval.Stopped() {
		t.Fatal("descent should stop once the bottom band is reached")
	}
	y := u.Y
	tick(u, time.Minute, nil)
	if u.Y != y {
		t.Errorf("stopped enemy moved from %v to %v", y, u.Y)
	}
	if u.Rect().Bottom < field.Height {
		t.Errorf("bottom = %v, expected at or past the field bottom", u.Rect().Bottom)
	}
}

func TestEnemyUFOTakesTwoHits(t *testing.T) {
	u := NewEnemyUFO(catalog, 0, 0)

	u.IsHit()
	if u.IsDead() || u.Life != 1 {
		t.Fatalf("after 1 hit: life=%d dead=%v", u.Life, u.IsDead())
	}
	u.IsHit()
	if !u.IsDead() || u.Life != 0 {
		t.Fatalf("after 2 hits: life=%d dead=%v", u.Life, u.IsDead())
	}
	u.IsHit()
	if u.Life != 0 {
		t.Errorf("hit on dead ufo changed life to %d", u.Life)
	}
}

func TestEnemyExplosions(t *testing.T) {
	sp := &recordingSpawner{}

	NewEnemyShip(catalog, 200, 100).Explode(sp)
	NewEnemyUFO(catalog, 200, 100).Explode(sp)

	want := [][2]float64{
		{200 - (56/2.0 - 98/4.0), 100 - (54/2.0 - 50/4.0)},
		{200 - (56/2.0 - 91/4.0), 100 - (54/2.0 - 91/4.0)},
	}
	for i, obj := range sp.spawned {
		ex := obj.(*Explosion)
		if ex.Kind() != KindExplosionHostile || ex.Sprite() != asset.LaserRedShot {
			t.Errorf("explosion %d kind/sprite = %v/%v", i, ex.Kind(), ex.Sprite())
		}
		if ex.X != want[i][0] || ex.Y != want[i][1] {
			t.Errorf("explosion %d at (%v, %v), want %v", i, ex.X, ex.Y, want[i])
		}
	}
}

func TestExplosionExpires(t *testing.T) {
	ex := NewExplosion(catalog, KindExplosionHostile, 0, 0)

	tick(ex, config.ExplosionLifetime-time.Millisecond, nil)
	if ex.IsDead() {
		t.Fatal("expired early")
	}
	tick(ex, time.Millisecond, nil)
	if !ex.IsDead() {
		t.Error("explosion should expire after its lifetime")
	}
}

func TestSpawnFormation(t *testing.T) {
	enemies := SpawnFormation(catalog, field)
	if len(enemies) != 50 {
		t.Fatalf("formation has %d enemies, want 50", len(enemies))
	}

	ships, ufos := 0, 0
	columns := make(map[float64]bool)
	for _, e := range enemies {
		switch e.Kind() {
		case KindEnemyShip:
			ships++
		case KindEnemyUFO:
			ufos++
		}
		columns[e.Rect().Left] = true
	}
	if ships != 30 || ufos != 20 {
		t.Errorf("ships=%d ufos=%d, want 30/20", ships, ufos)
	}
	if len(columns) != 10 {
		t.Errorf("%d columns, want 10", len(columns))
	}

	// First column, top to bottom.
	wantY := []float64{0, 45.5, 91, 116, 141}
	for i, y := range wantY {
		r := enemies[i].Rect()
		if r.Left != 155 || r.Top != y {
			t.Errorf("enemy %d at (%v, %v), want (155, %v)", i, r.Left, r.Top, y)
		}
	}
}

func TestSpawnFormationZeroSizes(t *testing.T) {
	if got := SpawnFormation(testCatalog{}, field); got != nil {
		t.Errorf("formation with unknown sprites = %d enemies", len(got))
	}
}

func TestFilterLive(t *testing.T) {
	a := NewExplosion(catalog, KindExplosionHostile, 0, 0)
	b := NewExplosion(catalog, KindExplosionHostile, 0, 0)
	c := NewExplosion(catalog, KindExplosionHostile, 0, 0)
	b.MarkDead()

	objects := []Object{a, b, c}
	live := FilterLive(objects)
	if len(live) != 2 || live[0] != a || live[1] != c {
		t.Errorf("FilterLive = %v", live)
	}
	if objects[1] != b {
		t.Error("FilterLive must not modify its input")
	}
}

func TestKindString(t *testing.T) {
	if KindEnemyUFO.String() != "enemy_ufo" || Kind(99).String() != "unknown" {
		t.Error("unexpected kind names")
	}
	if !KindEnemyShip.IsEnemy() || KindLaserHostile.IsEnemy() {
		t.Error("IsEnemy misclassifies")
	}
}
