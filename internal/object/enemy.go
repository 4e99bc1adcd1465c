package object

import (
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
)

// descent moves an enemy down in fixed steps until its bottom edge would
// pass the field's, then stops for good.
type descent struct {
	interval Interval
}

func newDescent() descent {
	return descent{interval: NewInterval(config.EnemyDescentTick)}
}

func (d *descent) step(b *Body, ctx UpdateContext) {
	for range d.interval.Advance(ctx.Delta) {
		if b.Y < ctx.Field.Height-b.Height {
			b.Y += config.EnemyDescentStep
			continue
		}
		d.interval.Stop()
		if ctx.Logger != nil {
			ctx.Logger.Debug("enemy descent stopped", "y", b.Y)
		}
		return
	}
}

// EnemyShip descends and fires a hostile laser every EnemyFireInterval.
// It dies from a single hit.
type EnemyShip struct {
	Body
	fall descent
	fire Interval
	cat  Catalog
}

// NewEnemyShip creates an enemy ship at (x, y).
func NewEnemyShip(cat Catalog, x, y float64) *EnemyShip {
	w, h := cat.Size(asset.EnemyShip)
	return &EnemyShip{
		Body: Body{X: x, Y: y, Width: w / 2, Height: h / 2},
		fall: newDescent(),
		fire: NewInterval(config.EnemyFireInterval),
		cat:  cat,
	}
}

func (e *EnemyShip) Kind() Kind       { return KindEnemyShip }
func (e *EnemyShip) Sprite() asset.ID { return asset.EnemyShip }

// Tick descends and fires. A dead ship does neither.
func (e *EnemyShip) Tick(ctx UpdateContext) {
	if e.dead {
		return
	}
	e.fall.step(&e.Body, ctx)

	lw, _ := e.cat.Size(asset.LaserGreen)
	for range e.fire.Advance(ctx.Delta) {
		ctx.Spawner.Spawn(NewHostileLaser(e.cat, e.X+e.Width/2-lw/4, e.Y+e.Height))
	}
}

// Explode spawns an enemy explosion centred on the ship.
func (e *EnemyShip) Explode(s Spawner) {
	spawnEnemyExplosion(s, e.cat, asset.EnemyShip, e.X, e.Y)
}

// EnemyUFO descends without firing and takes UFOHitPoints hits to destroy.
type EnemyUFO struct {
	Body
	Life int

	fall descent
	cat  Catalog
}

// NewEnemyUFO creates a UFO at (x, y).
func NewEnemyUFO(cat Catalog, x, y float64) *EnemyUFO {
	w, h := cat.Size(asset.EnemyUFO)
	return &EnemyUFO{
		Body: Body{X: x, Y: y, Width: w / 2, Height: h / 2},
		Life: config.UFOHitPoints,
		fall: newDescent(),
		cat:  cat,
	}
}

func (u *EnemyUFO) Kind() Kind       { return KindEnemyUFO }
func (u *EnemyUFO) Sprite() asset.ID { return asset.EnemyUFO }

// Tick descends.
func (u *EnemyUFO) Tick(ctx UpdateContext) {
	if u.dead {
		return
	}
	u.fall.step(&u.Body, ctx)
}

// IsHit removes one hit point; the last one kills the UFO.
func (u *EnemyUFO) IsHit() {
	if u.dead {
		return
	}
	u.Life--
	if u.Life <= 0 {
		u.Life = 0
		u.MarkDead()
	}
}

// Explode spawns an enemy explosion centred on the UFO.
func (u *EnemyUFO) Explode(s Spawner) {
	spawnEnemyExplosion(s, u.cat, asset.EnemyUFO, u.X, u.Y)
}

func spawnEnemyExplosion(s Spawner, cat Catalog, enemy asset.ID, x, y float64) {
	sw, sh := cat.Size(asset.LaserRedShot)
	ew, eh := cat.Size(enemy)
	s.Spawn(NewExplosion(cat, KindExplosionHostile, x-(sw/2-ew/4), y-(sh/2-eh/4)))
}
