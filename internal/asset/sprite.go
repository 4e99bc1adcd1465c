// Package asset loads the sprite set the game draws with.
//
// Sprites are small text files. A header gives the natural size in playfield
// pixels and a colour, followed by a mask of '#' (set) and '.' (clear) rows
// that is stretched over whatever rectangle the sprite is drawn into:
//
//	size 99 75
//	color #4fc3f7
//	..#..
//	#####
//
// A "fill" directive marks a solid backdrop; such sprites carry no mask.
package asset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ID identifies a sprite by its path inside the sprite file system.
type ID string

// The fixed sprite set.
const (
	Background     ID = "sprites/background.txt"
	StarBig        ID = "sprites/star_big.txt"
	StarSmall      ID = "sprites/star_small.txt"
	Player         ID = "sprites/player.txt"
	PlayerLeft     ID = "sprites/player_left.txt"
	PlayerRight    ID = "sprites/player_right.txt"
	PlayerDamaged  ID = "sprites/player_damaged.txt"
	EnemyShip      ID = "sprites/enemy_ship.txt"
	EnemyUFO       ID = "sprites/enemy_ufo.txt"
	LaserRed       ID = "sprites/laser_red.txt"
	LaserRedShot   ID = "sprites/laser_red_shot.txt"
	LaserGreen     ID = "sprites/laser_green.txt"
	LaserGreenShot ID = "sprites/laser_green_shot.txt"
	Life           ID = "sprites/life.txt"
)

// Manifest lists every sprite loaded at startup.
var Manifest = []ID{
	Background, StarBig, StarSmall,
	Player, PlayerLeft, PlayerRight, PlayerDamaged,
	EnemyShip, EnemyUFO,
	LaserRed, LaserRedShot, LaserGreen, LaserGreenShot,
	Life,
}

// Image is a drawable handle with known natural dimensions.
type Image interface {
	Width() int
	Height() int
}

var (
	ErrMissingSize = errors.New("sprite has no size directive")
	ErrEmptyMask   = errors.New("sprite has no mask rows")
	ErrRaggedMask  = errors.New("sprite mask rows differ in length")
)

// Sprite is a parsed sprite file.
type Sprite struct {
	ID     ID
	W, H   int        // Natural size in playfield pixels
	Color  color.RGBA // Ink colour for set mask cells (or the whole rect when Fill)
	Fill   bool       // Solid backdrop, no mask
	MaskW  int
	MaskH  int
	Mask   []bool // Row-major, MaskW*MaskH
}

// Width returns the natural width.
func (s *Sprite) Width() int { return s.W }

// Height returns the natural height.
func (s *Sprite) Height() int { return s.H }

// At samples the mask at normalised coordinates u, v in [0, 1).
// Fill sprites are set everywhere.
func (s *Sprite) At(u, v float64) bool {
	if s.Fill {
		return true
	}
	if u < 0 || v < 0 || u >= 1 || v >= 1 {
		return false
	}
	mx := int(u * float64(s.MaskW))
	my := int(v * float64(s.MaskH))
	return s.Mask[my*s.MaskW+mx]
}

// Rows returns the mask as '#'/'.' strings, the same form it was parsed from.
func (s *Sprite) Rows() []string {
	rows := make([]string, s.MaskH)
	var b strings.Builder
	for y := 0; y < s.MaskH; y++ {
		b.Reset()
		for x := 0; x < s.MaskW; x++ {
			if s.Mask[y*s.MaskW+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// Parse decodes a sprite file.
func Parse(id ID, data []byte) (*Sprite, error) {
	s := &Sprite{ID: id, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
	var rows []string

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if isMaskRow(text) {
			rows = append(rows, text)
			continue
		}
		if len(rows) > 0 {
			return nil, fmt.Errorf("%s:%d: directive after mask", id, line)
		}
		if err := s.directive(strings.Fields(text)); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", id, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	if s.W <= 0 || s.H <= 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrMissingSize)
	}
	if s.Fill {
		return s, nil
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrEmptyMask)
	}

	s.MaskW = len(rows[0])
	s.MaskH = len(rows)
	s.Mask = make([]bool, s.MaskW*s.MaskH)
	for y, row := range rows {
		if len(row) != s.MaskW {
			return nil, fmt.Errorf("%s: row %d: %w", id, y+1, ErrRaggedMask)
		}
		for x := 0; x < len(row); x++ {
			s.Mask[y*s.MaskW+x] = row[x] == '#'
		}
	}
	return s, nil
}

func (s *Sprite) directive(fields []string) error {
	switch fields[0] {
	case "size":
		if len(fields) != 3 {
			return fmt.Errorf("size wants 2 values, got %d", len(fields)-1)
		}
		w, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("size width: %w", err)
		}
		h, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("size height: %w", err)
		}
		s.W, s.H = w, h
	case "color":
		if len(fields) != 2 {
			return fmt.Errorf("color wants 1 value, got %d", len(fields)-1)
		}
		c, err := ParseHexColor(fields[1])
		if err != nil {
			return err
		}
		s.Color = c
	case "fill":
		s.Fill = true
	default:
		return fmt.Errorf("unknown directive %q", fields[0])
	}
	return nil
}

func isMaskRow(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' && text[i] != '.' {
			return false
		}
	}
	return true
}

// ParseHexColor parses "#rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
