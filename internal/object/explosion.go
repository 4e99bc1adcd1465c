package object

import (
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
)

// Explosion is a short-lived flash left behind by a death or a hit.
// It is drawn at the shot sprite's natural size and never moves.
type Explosion struct {
	Body
	kind Kind
	life Countdown
}

// NewExplosion creates an explosion of kind (KindExplosionFriendly or
// KindExplosionHostile) with its top-left corner at (x, y).
func NewExplosion(cat Catalog, kind Kind, x, y float64) *Explosion {
	w, h := cat.Size(explosionSprite(kind))
	e := &Explosion{
		Body: Body{X: x, Y: y, Width: w, Height: h},
		kind: kind,
	}
	e.life.Start(config.ExplosionLifetime)
	return e
}

func (e *Explosion) Kind() Kind       { return e.kind }
func (e *Explosion) Sprite() asset.ID { return explosionSprite(e.kind) }

// Tick expires the explosion after ExplosionLifetime.
func (e *Explosion) Tick(ctx UpdateContext) {
	if e.dead {
		return
	}
	if e.life.Advance(ctx.Delta) {
		e.MarkDead()
	}
}

func explosionSprite(kind Kind) asset.ID {
	if kind == KindExplosionFriendly {
		return asset.LaserGreenShot
	}
	return asset.LaserRedShot
}
