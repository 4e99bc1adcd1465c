package object

import (
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
)

// Laser is a projectile moving straight up (friendly) or down (hostile)
// in fixed steps until it leaves the field or hits something.
type Laser struct {
	Body
	kind   Kind
	motion Interval
	cat    Catalog
}

// NewFriendlyLaser creates a player laser at (x, y).
func NewFriendlyLaser(cat Catalog, x, y float64) *Laser {
	return newLaser(cat, KindLaserFriendly, asset.LaserRed, x, y)
}

// NewHostileLaser creates an enemy laser at (x, y).
func NewHostileLaser(cat Catalog, x, y float64) *Laser {
	return newLaser(cat, KindLaserHostile, asset.LaserGreen, x, y)
}

func newLaser(cat Catalog, kind Kind, id asset.ID, x, y float64) *Laser {
	w, h := cat.Size(id)
	return &Laser{
		Body:   Body{X: x, Y: y, Width: w / 2, Height: h / 2},
		kind:   kind,
		motion: NewInterval(config.LaserTick),
		cat:    cat,
	}
}

func (l *Laser) Kind() Kind { return l.kind }

func (l *Laser) Sprite() asset.ID {
	if l.kind == KindLaserFriendly {
		return asset.LaserRed
	}
	return asset.LaserGreen
}

// Tick moves the laser one step per elapsed tick and kills it once it is
// past the edge it travels toward.
func (l *Laser) Tick(ctx UpdateContext) {
	if l.dead {
		return
	}
	for range l.motion.Advance(ctx.Delta) {
		if l.kind == KindLaserFriendly {
			if l.Y > 0 {
				l.Y -= config.LaserStep
				continue
			}
		} else if l.Y < ctx.Field.Height {
			l.Y += config.LaserStep
			continue
		}
		l.MarkDead()
		l.motion.Stop()
		return
	}
}

// Explode halts the laser and spawns the player-hit explosion around it.
func (l *Laser) Explode(s Spawner) {
	l.motion.Stop()

	sw, sh := l.cat.Size(asset.LaserGreenShot)
	pw, ph := l.cat.Size(asset.Player)
	s.Spawn(NewExplosion(l.cat, KindExplosionFriendly, l.X-(sw/2-pw/4), l.Y-(sh/2-ph/4)))
}
