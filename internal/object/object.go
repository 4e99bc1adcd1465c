package object

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/physics"
)

// Kind tags each entity variant.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemyShip
	KindEnemyUFO
	KindLaserFriendly     // Fired by the player, travels up
	KindLaserHostile      // Fired by enemy ships, travels down
	KindExplosionFriendly // Hostile laser hitting the player
	KindExplosionHostile  // Enemy destroyed
)

var kindNames = [...]string{
	KindPlayer:            "player",
	KindEnemyShip:         "enemy_ship",
	KindEnemyUFO:          "enemy_ufo",
	KindLaserFriendly:     "laser_friendly",
	KindLaserHostile:      "laser_hostile",
	KindExplosionFriendly: "explosion_friendly",
	KindExplosionHostile:  "explosion_hostile",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsEnemy reports whether k is an enemy ship or UFO.
func (k Kind) IsEnemy() bool {
	return k == KindEnemyShip || k == KindEnemyUFO
}

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Catalog reports natural sprite sizes. Entity dimensions derive from them.
// *asset.Sheet implements it.
type Catalog interface {
	Size(id asset.ID) (w, h float64)
}

// Field is the playfield entities move within.
type Field struct {
	Width  float64
	Height float64
}

// Rect returns the whole field as a rectangle.
func (f Field) Rect() physics.Rect {
	return physics.RectAt(0, 0, f.Width, f.Height)
}

// UpdateContext provides all the information an object needs during a tick.
type UpdateContext struct {
	Delta   time.Duration // Time since the previous frame
	Field   Field
	Spawner Spawner
	Logger  *log.Logger // Optional
}

// Destructible is implemented by objects that can be marked for removal.
type Destructible interface {
	// MarkDead marks the object for removal in the next purge. Irreversible.
	MarkDead()
	// IsDead returns true once MarkDead was called.
	IsDead() bool
}

// Object is a simulated game entity.
type Object interface {
	Destructible

	Kind() Kind

	// Rect returns the bounding rectangle used for collisions and drawing.
	Rect() physics.Rect

	// Sprite returns the image to draw at Rect.
	Sprite() asset.ID

	// Tick advances the object's timers and motion by ctx.Delta.
	// Dead objects ignore ticks.
	Tick(ctx UpdateContext)
}

// Enemy is an object the player has to destroy to win.
type Enemy interface {
	Object
	// Explode spawns the explosion shown when the enemy is destroyed.
	Explode(s Spawner)
}

// Body is the position, size and dead flag shared by every entity.
type Body struct {
	X, Y          float64
	Width, Height float64
	dead          bool
}

// Rect returns the bounding rectangle.
func (b *Body) Rect() physics.Rect {
	return physics.RectAt(b.X, b.Y, b.Width, b.Height)
}

// MarkDead flags the body for removal.
func (b *Body) MarkDead() {
	b.dead = true
}

// IsDead returns true if the body is flagged for removal.
func (b *Body) IsDead() bool {
	return b.dead
}

// FilterLive returns objects that are not dead, keeping their order.
func FilterLive(objects []Object) []Object {
	live := objects[:0:0]
	for _, obj := range objects {
		if !obj.IsDead() {
			live = append(live, obj)
		}
	}
	return live
}
