package loop

import (
	"fmt"
	"image/color"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/draw"
)

var (
	Green = color.RGBA{R: 25, G: 173, B: 47, A: 255}
	Red   = color.RGBA{R: 255, A: 255}
)

// Text shown on the end screen.
const (
	VictoryMessage = "Victory!!! Pew pew..."
	DefeatMessage  = "You lose!!!"
	RestartPrompt  = "Press [Enter] to start a new game Captain Pew Pew"
)

var (
	scoreStyle   = draw.TextStyle{Color: Green, Size: 24, Bold: true, Align: draw.AlignLeft}
	messageStyle = draw.TextStyle{Size: 32, Bold: true, Align: draw.AlignCenter}
)

// drawGalaxy paints the backdrop and scatters the stars over it.
func (g *Game) drawGalaxy() {
	g.bg.Clear(g.field.Rect())
	if img := g.sheet.Image(asset.Background); img != nil {
		g.bg.DrawImage(img, 0, 0, g.field.Width, g.field.Height)
	}
	g.scatter(asset.StarBig, config.BigStars)
	g.scatter(asset.StarSmall, config.SmallStars)
}

func (g *Game) scatter(id asset.ID, count int) {
	img := g.sheet.Image(id)
	if img == nil {
		return
	}
	w, h := float64(img.Width()), float64(img.Height())
	for range count {
		x := g.rng.Float64() * g.field.Width
		y := g.rng.Float64() * g.field.Height
		g.bg.DrawImage(img, x, y, w, h)
	}
}

// drawObjects draws every live entity at its rectangle.
func (g *Game) drawObjects() {
	for _, obj := range g.world.Objects {
		img := g.sheet.Image(obj.Sprite())
		if img == nil {
			continue
		}
		r := obj.Rect()
		g.fg.DrawImage(img, r.Left, r.Top, r.Width(), r.Height())
	}
}

// drawHUD draws the remaining lives and the score in the bottom right corner.
func (g *Game) drawHUD() {
	p := g.world.Player
	if life := g.sheet.Image(asset.Life); life != nil {
		w, h := float64(life.Width()), float64(life.Height())
		start := g.field.Width - 180
		for i := 1; i <= p.Life; i++ {
			g.fg.DrawImage(life, start+45*float64(i), g.field.Height-100, w, h)
		}
	}
	g.fg.DrawText(fmt.Sprintf("Scores: %d", p.Score), scoreStyle, g.field.Width-160, g.field.Height-47)
}

// drawEndScreen replaces the foreground with the outcome and restart prompt.
func (g *Game) drawEndScreen() {
	g.fg.Clear(g.field.Rect())

	style := messageStyle
	style.Color = Green
	headline := VictoryMessage
	if g.outcome == OutcomeDefeat {
		style.Color = Red
		headline = DefeatMessage
	}

	x, y := g.field.Width/2, g.field.Height/2
	g.fg.DrawText(headline, style, x, y)
	g.fg.DrawText(fmt.Sprintf("Your scores: %d", g.world.Player.Score), style, x, y+35)
	g.fg.DrawText(RestartPrompt, style, x, y+70)
}
