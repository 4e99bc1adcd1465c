package desktop

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/draw"
	"github.com/tomz197/pewpew/internal/physics"
)

// Sprites rasterises sprite masks into ebiten images on first use.
type Sprites struct {
	images map[asset.ID]*ebiten.Image
}

// NewSprites creates an empty cache.
func NewSprites() *Sprites {
	return &Sprites{images: make(map[asset.ID]*ebiten.Image)}
}

// Image returns the rasterised mask of sp at mask resolution.
func (c *Sprites) Image(sp *asset.Sprite) *ebiten.Image {
	if img, ok := c.images[sp.ID]; ok {
		return img
	}
	rgba := image.NewRGBA(image.Rect(0, 0, max(sp.MaskW, 1), max(sp.MaskH, 1)))
	for y := 0; y < sp.MaskH; y++ {
		for x := 0; x < sp.MaskW; x++ {
			if sp.Mask[y*sp.MaskW+x] {
				rgba.SetRGBA(x, y, sp.Color)
			}
		}
	}
	img := ebiten.NewImageFromImage(rgba)
	c.images[sp.ID] = img
	return img
}

// Faces holds the fonts for text drawing, one face per style size.
type Faces struct {
	regular, bold *text.GoTextFaceSource
	faces         map[faceKey]*text.GoTextFace
}

type faceKey struct {
	size float64
	bold bool
}

// NewFaces loads the Go fonts.
func NewFaces() (*Faces, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Faces{regular: regular, bold: bold, faces: make(map[faceKey]*text.GoTextFace)}, nil
}

func (f *Faces) face(style draw.TextStyle) *text.GoTextFace {
	key := faceKey{size: style.Size, bold: style.Bold}
	if face, ok := f.faces[key]; ok {
		return face
	}
	src := f.regular
	if style.Bold {
		src = f.bold
	}
	size := style.Size
	if size <= 0 {
		size = 16
	}
	face := &text.GoTextFace{Source: src, Size: size}
	f.faces[key] = face
	return face
}

// Surface is an offscreen image the size of the playfield. What is drawn
// stays until cleared; Draw composites it onto the screen every frame.
type Surface struct {
	img     *ebiten.Image
	sprites *Sprites
	faces   *Faces
}

// NewSurface creates a transparent surface of the given size.
func NewSurface(width, height int, sprites *Sprites, faces *Faces) *Surface {
	return &Surface{
		img:     ebiten.NewImage(width, height),
		sprites: sprites,
		faces:   faces,
	}
}

// Image returns the backing image.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

// Clear makes the region transparent.
func (s *Surface) Clear(region physics.Rect) {
	r := image.Rect(int(region.Left), int(region.Top), int(region.Right+0.5), int(region.Bottom+0.5))
	r = r.Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	s.img.SubImage(r).(*ebiten.Image).Clear()
}

// DrawImage stretches a sprite over the rectangle. Images that are not
// sprites are ignored.
func (s *Surface) DrawImage(img asset.Image, x, y, w, h float64) {
	sp, ok := img.(*asset.Sprite)
	if !ok || w <= 0 || h <= 0 {
		return
	}
	if sp.Fill {
		vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), sp.Color, false)
		return
	}

	src := s.sprites.Image(sp)
	b := src.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	s.img.DrawImage(src, op)
}

// DrawText draws text with its baseline at y.
func (s *Surface) DrawText(str string, style draw.TextStyle, x, y float64) {
	face := s.faces.face(style)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(opaque(style.Color))
	if style.Align == draw.AlignCenter {
		op.PrimaryAlign = text.AlignCenter
	}
	text.Draw(s.img, str, face, op)
}

func opaque(c color.RGBA) color.RGBA {
	if c.A == 0 {
		c.A = 255
	}
	return c
}
