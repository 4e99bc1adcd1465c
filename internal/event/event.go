// Package event provides the synchronous publish/subscribe bus that connects
// input, simulation and presentation.
package event

// Topic names an event category. The set of topics is closed.
type Topic string

// Movement and action intents published by the input mapper.
const (
	MoveUp        Topic = "move.up"
	MoveDown      Topic = "move.down"
	MoveLeft      Topic = "move.left"
	MoveRight     Topic = "move.right"
	MoveUpLeft    Topic = "move.up_left"
	MoveUpRight   Topic = "move.up_right"
	MoveLeftDown  Topic = "move.left_down"
	MoveRightDown Topic = "move.right_down"
	MoveReleased  Topic = "move.released"
	Fire          Topic = "action.fire"
	Confirm       Topic = "action.confirm"
)

// Collision events published by the resolver.
const (
	LaserHitShip        Topic = "collision.laser_ship"
	LaserHitUFO         Topic = "collision.laser_ufo"
	PlayerHitByLaser    Topic = "collision.player_laser"
	PlayerCollidedEnemy Topic = "collision.player_enemy"
)

// End of game.
const (
	GameWon  Topic = "game.won"
	GameLost Topic = "game.lost"
)

// Topics lists every topic in declaration order.
var Topics = []Topic{
	MoveUp, MoveDown, MoveLeft, MoveRight,
	MoveUpLeft, MoveUpRight, MoveLeftDown, MoveRightDown,
	MoveReleased, Fire, Confirm,
	LaserHitShip, LaserHitUFO, PlayerHitByLaser, PlayerCollidedEnemy,
	GameWon, GameLost,
}

// Handler receives the topic it was registered for and the published payload.
// Payload is nil for topics that carry no data.
type Handler func(topic Topic, payload any)

// Bus dispatches published events to subscribed handlers.
//
// Delivery is synchronous: Publish returns after every handler has run, in
// registration order. Handlers may publish further events; those are
// delivered before the outer Publish continues. A panicking handler
// propagates to the publisher.
//
// Bus is not safe for concurrent use; the game loop owns it.
type Bus struct {
	handlers map[Topic][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

// Subscribe registers h for topic.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish invokes every handler registered for topic.
// Handlers subscribed during delivery are not called for this publish.
func (b *Bus) Publish(topic Topic, payload any) {
	for _, h := range b.handlers[topic] {
		h(topic, payload)
	}
}

// Reset removes all registrations. A publish in progress finishes with the
// handlers it started with.
func (b *Bus) Reset() {
	b.handlers = make(map[Topic][]Handler)
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	return len(b.handlers[topic])
}
