package loop

import (
	"github.com/tomz197/pewpew/internal/event"
	"github.com/tomz197/pewpew/internal/object"
	"github.com/tomz197/pewpew/internal/physics"
)

// ShipHit is the payload of event.LaserHitShip.
type ShipHit struct {
	Laser *object.Laser
	Ship  *object.EnemyShip
}

// UFOHit is the payload of event.LaserHitUFO.
type UFOHit struct {
	Laser *object.Laser
	UFO   *object.EnemyUFO
}

// PlayerHit is the payload of event.PlayerHitByLaser.
type PlayerHit struct {
	Player *object.Player
	Laser  *object.Laser
}

// PlayerCollision is the payload of event.PlayerCollidedEnemy.
type PlayerCollision struct {
	Player *object.Player
	Enemy  object.Enemy
}

// collidables is the per-pass partition of live objects.
type collidables struct {
	friendly []*object.Laser
	hostile  []*object.Laser
	ships    []*object.EnemyShip
	ufos     []*object.EnemyUFO
	enemies  []object.Enemy
	player   *object.Player
}

// collect partitions the objects that are alive when the pass starts.
// Deaths during the pass do not remove anything from the partition.
func collect(objects []object.Object) collidables {
	var c collidables
	for _, obj := range objects {
		if obj.IsDead() {
			continue
		}
		switch o := obj.(type) {
		case *object.Laser:
			if o.Kind() == object.KindLaserFriendly {
				c.friendly = append(c.friendly, o)
			} else {
				c.hostile = append(c.hostile, o)
			}
		case *object.EnemyShip:
			c.ships = append(c.ships, o)
			c.enemies = append(c.enemies, o)
		case *object.EnemyUFO:
			c.ufos = append(c.ufos, o)
			c.enemies = append(c.enemies, o)
		case *object.Player:
			c.player = o
		}
	}
	return c
}

// resolve publishes one event per overlapping pair. An enemy at the bottom
// edge loses the round and skips every other check.
//
// Laser against enemy checks go through the grid; candidates come back in
// index order so events keep the order of a plain nested loop.
func (g *Game) resolve() {
	c := collect(g.world.Objects)

	for _, e := range c.enemies {
		if e.Rect().Bottom >= g.field.Height {
			g.bus.Publish(event.GameLost, nil)
			return
		}
	}

	g.grid.Clear()
	for i, s := range c.ships {
		g.grid.Insert(s.Rect(), i)
	}
	for _, l := range c.friendly {
		for _, i := range g.grid.Query(l.Rect()) {
			if s := c.ships[i]; physics.Intersects(l.Rect(), s.Rect()) {
				g.bus.Publish(event.LaserHitShip, ShipHit{Laser: l, Ship: s})
			}
		}
	}

	g.grid.Clear()
	for i, u := range c.ufos {
		g.grid.Insert(u.Rect(), i)
	}
	for _, l := range c.friendly {
		for _, i := range g.grid.Query(l.Rect()) {
			if u := c.ufos[i]; physics.Intersects(l.Rect(), u.Rect()) {
				g.bus.Publish(event.LaserHitUFO, UFOHit{Laser: l, UFO: u})
			}
		}
	}

	if c.player == nil {
		return
	}
	for _, l := range c.hostile {
		if physics.Intersects(c.player.Rect(), l.Rect()) {
			g.bus.Publish(event.PlayerHitByLaser, PlayerHit{Player: c.player, Laser: l})
		}
	}
	for _, e := range c.enemies {
		if physics.Intersects(c.player.Rect(), e.Rect()) {
			g.bus.Publish(event.PlayerCollidedEnemy, PlayerCollision{Player: c.player, Enemy: e})
		}
	}
}
