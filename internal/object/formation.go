package object

import (
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
)

// SpawnPlayer creates the player at its starting spot: horizontally centred
// on the full ship image, one eighth of the field above the bottom.
func SpawnPlayer(cat Catalog, field Field) *Player {
	w, h := cat.Size(asset.Player)
	return NewPlayer(cat, (field.Width-w)/2, field.Height*7/8-h/2)
}

// SpawnFormation creates the initial enemy block, column by column from the
// left: two UFO rows on top, then FormationShipRows rows of ships.
// Columns and rows overlap by half a sprite.
func SpawnFormation(cat Catalog, field Field) []Enemy {
	shipW, shipH := cat.Size(asset.EnemyShip)
	_, ufoH := cat.Size(asset.EnemyUFO)
	if shipW <= 0 || shipH <= 0 || ufoH <= 0 {
		return nil
	}

	width := config.FormationColumns * shipW / 2
	startX := (field.Width - width) / 2
	stopX := startX + width
	shipsEnd := ufoH + config.FormationShipRows*shipH/2

	var enemies []Enemy
	for x := startX; x < stopX; x += shipW / 2 {
		for y := 0.0; y < ufoH; y += ufoH / 2 {
			enemies = append(enemies, NewEnemyUFO(cat, x, y))
		}
		for y := ufoH; y < shipsEnd; y += shipH / 2 {
			enemies = append(enemies, NewEnemyShip(cat, x, y))
		}
	}
	return enemies
}
