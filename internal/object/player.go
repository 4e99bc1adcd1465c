package object

import (
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
)

// Player is the ship controlled by the user.
type Player struct {
	Body
	Life     int // Remaining hits, dead at 0
	Score    int
	Cooldown int // Ticks until the next shot, 0 means ready

	look         asset.ID
	cooldownTick Interval
	damaged      Countdown
	cat          Catalog
}

// NewPlayer creates a player with full life at (x, y).
func NewPlayer(cat Catalog, x, y float64) *Player {
	w, h := cat.Size(asset.Player)
	p := &Player{
		Body:         Body{X: x, Y: y, Width: w / 2, Height: h / 2},
		Life:         config.InitialLives,
		look:         asset.Player,
		cooldownTick: NewInterval(config.FireCooldownTick),
		cat:          cat,
	}
	p.cooldownTick.Stop()
	return p
}

func (p *Player) Kind() Kind { return KindPlayer }

// Sprite returns the idle, banking or damaged ship image.
func (p *Player) Sprite() asset.ID { return p.look }

// Damaged reports whether the damaged look is showing.
func (p *Player) Damaged() bool { return p.damaged.Active() }

// Tick runs the fire cooldown and the damaged window.
func (p *Player) Tick(ctx UpdateContext) {
	if p.dead {
		return
	}
	for range p.cooldownTick.Advance(ctx.Delta) {
		p.Cooldown--
		if p.Cooldown <= 0 {
			p.Cooldown = 0
			p.cooldownTick.Stop()
			break
		}
	}
	if p.damaged.Advance(ctx.Delta) {
		p.look = asset.Player
	}
}

func (p *Player) MoveUp() {
	p.Y -= config.PlayerStep
}

func (p *Player) MoveDown() {
	p.Y += config.PlayerStep
}

func (p *Player) MoveLeft() {
	p.look = asset.PlayerLeft
	p.X -= config.PlayerStep
}

func (p *Player) MoveRight() {
	p.look = asset.PlayerRight
	p.X += config.PlayerStep
}

func (p *Player) MoveUpLeft() {
	p.look = asset.PlayerLeft
	p.Y -= config.PlayerDiagonalStep
	p.X -= config.PlayerDiagonalStep
}

func (p *Player) MoveUpRight() {
	p.look = asset.PlayerRight
	p.Y -= config.PlayerDiagonalStep
	p.X += config.PlayerDiagonalStep
}

func (p *Player) MoveLeftDown() {
	p.look = asset.PlayerLeft
	p.X -= config.PlayerDiagonalStep
	p.Y += config.PlayerDiagonalStep
}

func (p *Player) MoveRightDown() {
	p.look = asset.PlayerRight
	p.X += config.PlayerDiagonalStep
	p.Y += config.PlayerDiagonalStep
}

// Stop returns to the idle sprite.
func (p *Player) Stop() {
	p.look = asset.Player
}

// CanFire reports whether the cooldown has run out.
func (p *Player) CanFire() bool {
	return p.Cooldown == 0
}

// Fire spawns a laser above the ship's centre and starts the cooldown.
// Callers check CanFire first.
func (p *Player) Fire(s Spawner) {
	lw, lh := p.cat.Size(asset.LaserRed)
	s.Spawn(NewFriendlyLaser(p.cat, p.X+p.Width/2-lw/4, p.Y-lh/2))

	p.Cooldown = config.FireCooldownTicks
	p.cooldownTick.Restart()
}

// IsHit takes one life. The last life kills the player; otherwise the ship
// shows as damaged for a while. Hits on a dead player are ignored.
func (p *Player) IsHit() {
	if p.dead {
		return
	}
	p.Life--
	if p.Life <= 0 {
		p.Life = 0
		p.MarkDead()
		return
	}
	p.look = asset.PlayerDamaged
	p.damaged.Start(config.DamagedDuration)
}
