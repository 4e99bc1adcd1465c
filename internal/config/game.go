// Package config holds the fixed gameplay parameters and the deployment
// settings read from files and the environment.
package config

import "time"

// Playfield dimensions in logical pixels.
// Frontends scale this area to whatever they render on.
const (
	FieldWidth  = 800
	FieldHeight = 600
)

// Player
const (
	InitialLives       = 3
	PlayerStep         = 5 // Cardinal move distance per key event
	PlayerDiagonalStep = 4 // Applied to both axes on diagonal moves
	FireCooldownTicks  = 5
	FireCooldownTick   = 200 * time.Millisecond
	DamagedDuration    = 3000 * time.Millisecond // Damaged sprite window after a non-fatal hit
)

// Lasers
const (
	LaserStep = 15
	LaserTick = 100 * time.Millisecond
)

// Enemies
const (
	EnemyDescentStep  = 3
	EnemyDescentTick  = 600 * time.Millisecond
	EnemyFireInterval = 10000 * time.Millisecond
	UFOHitPoints      = 2
	FormationColumns  = 10
	FormationShipRows = 3
)

// Explosions
const (
	ExplosionLifetime = 500 * time.Millisecond
)

// Scoring
const (
	ScoreEnemyShip      = 100
	ScoreEnemyUFO       = 200
	ScoreEnemyCollision = 50
)

// Background
const (
	BigStars   = 30
	SmallStars = 100
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxFrameDelta   = 250 * time.Millisecond // Longer gaps (suspended tab, slow link) are clamped
)

// Terminal rendering
const (
	MaxTermWidth  = 160 // Max columns used for the playfield
	MaxTermHeight = 60  // Max rows used for the playfield
)

// Key handling for hosts without real key events.
const (
	TermKeyReleaseAfter = 600 * time.Millisecond // No repeat within this window counts as a release
	KeyRepeatDelay      = 500 * time.Millisecond
	KeyRepeatInterval   = 33 * time.Millisecond
)
