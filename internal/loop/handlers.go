package loop

import (
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/event"
)

// subscribe registers the round's handlers on a freshly reset bus.
func (g *Game) subscribe() {
	p := g.world.Player

	moves := map[event.Topic]func(){
		event.MoveUp:        p.MoveUp,
		event.MoveDown:      p.MoveDown,
		event.MoveLeft:      p.MoveLeft,
		event.MoveRight:     p.MoveRight,
		event.MoveUpLeft:    p.MoveUpLeft,
		event.MoveUpRight:   p.MoveUpRight,
		event.MoveLeftDown:  p.MoveLeftDown,
		event.MoveRightDown: p.MoveRightDown,
		event.MoveReleased:  p.Stop,
	}
	for topic, move := range moves {
		g.bus.Subscribe(topic, func(event.Topic, any) { move() })
	}

	g.bus.Subscribe(event.Fire, func(event.Topic, any) {
		if p.CanFire() {
			p.Fire(g.world)
		}
	})

	g.bus.Subscribe(event.LaserHitShip, g.onLaserHitShip)
	g.bus.Subscribe(event.LaserHitUFO, g.onLaserHitUFO)
	g.bus.Subscribe(event.PlayerHitByLaser, g.onPlayerHitByLaser)
	g.bus.Subscribe(event.PlayerCollidedEnemy, g.onPlayerCollidedEnemy)

	g.bus.Subscribe(event.GameWon, func(event.Topic, any) { g.report(OutcomeVictory) })
	g.bus.Subscribe(event.GameLost, func(event.Topic, any) { g.report(OutcomeDefeat) })

	g.bus.Subscribe(event.Confirm, func(event.Topic, any) {
		if g.phase == PhaseEnded {
			g.Restart()
		}
	})
}

func (g *Game) onLaserHitShip(_ event.Topic, payload any) {
	hit := payload.(ShipHit)
	hit.Laser.MarkDead()
	if hit.Ship.IsDead() {
		return
	}
	hit.Ship.MarkDead()
	hit.Ship.Explode(g.world)
	g.world.Player.Score += config.ScoreEnemyShip
	g.checkWin()
}

func (g *Game) onLaserHitUFO(_ event.Topic, payload any) {
	hit := payload.(UFOHit)
	hit.Laser.MarkDead()
	if hit.UFO.IsDead() {
		return
	}
	hit.UFO.IsHit()
	if hit.UFO.IsDead() {
		hit.UFO.Explode(g.world)
		g.world.Player.Score += config.ScoreEnemyUFO
	}
	g.checkWin()
}

func (g *Game) onPlayerHitByLaser(_ event.Topic, payload any) {
	hit := payload.(PlayerHit)
	hit.Player.IsHit()
	hit.Laser.Explode(g.world)
	hit.Laser.MarkDead()
	if hit.Player.IsDead() {
		g.bus.Publish(event.GameLost, nil)
	}
}

func (g *Game) onPlayerCollidedEnemy(_ event.Topic, payload any) {
	hit := payload.(PlayerCollision)
	if hit.Enemy.IsDead() {
		return
	}
	hit.Player.IsHit()
	hit.Enemy.Explode(g.world)
	hit.Enemy.MarkDead()
	hit.Player.Score += config.ScoreEnemyCollision

	g.checkWin()
	if hit.Player.IsDead() {
		g.bus.Publish(event.GameLost, nil)
	}
}

func (g *Game) checkWin() {
	if g.world.EnemiesLeft() == 0 {
		g.bus.Publish(event.GameWon, nil)
	}
}
