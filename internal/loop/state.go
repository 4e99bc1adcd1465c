package loop

import "github.com/tomz197/pewpew/internal/object"

// World owns the entity collection of one game. Handlers never add or remove
// objects directly: spawns are queued and deaths only set the dead flag,
// both applied between passes.
type World struct {
	Objects []object.Object
	Player  *object.Player
	toSpawn []object.Object // Objects to add after the current pass
}

// NewWorld creates the initial entities: the player and the enemy formation.
func NewWorld(cat object.Catalog, field object.Field) *World {
	w := &World{Player: object.SpawnPlayer(cat, field)}
	w.Objects = append(w.Objects, w.Player)
	for _, e := range object.SpawnFormation(cat, field) {
		w.Objects = append(w.Objects, e)
	}
	return w
}

// Spawn queues an object to be added after the current pass.
// Implements object.Spawner interface.
func (w *World) Spawn(obj object.Object) {
	w.toSpawn = append(w.toSpawn, obj)
}

// FlushSpawned adds all queued objects to the world and clears the queue.
func (w *World) FlushSpawned() {
	w.Objects = append(w.Objects, w.toSpawn...)
	clear(w.toSpawn)
	w.toSpawn = w.toSpawn[:0]
}

// Purge drops every dead object in one pass.
func (w *World) Purge() {
	w.Objects = object.FilterLive(w.Objects)
}

// EnemiesLeft counts living enemies.
func (w *World) EnemiesLeft() int {
	n := 0
	for _, obj := range w.Objects {
		if obj.Kind().IsEnemy() && !obj.IsDead() {
			n++
		}
	}
	return n
}
