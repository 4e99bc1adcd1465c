package asset

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"

	"golang.org/x/sync/errgroup"
)

//go:embed sprites/*.txt
var embedded embed.FS

// Provider yields an image for a sprite ID.
type Provider interface {
	Load(ctx context.Context, id ID) (Image, error)
}

// FSProvider parses sprite files from a file system.
type FSProvider struct {
	FS fs.FS
}

// Embedded returns a provider over the sprite set compiled into the binary.
func Embedded() FSProvider {
	return FSProvider{FS: embedded}
}

// Load reads and parses one sprite. The returned image is a *Sprite.
func (p FSProvider) Load(ctx context.Context, id ID) (Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(p.FS, string(id))
	if err != nil {
		return nil, err
	}
	return Parse(id, data)
}

// Sheet holds every loaded image by ID.
type Sheet struct {
	images map[ID]Image
}

// NewSheet wraps already loaded images.
func NewSheet(images map[ID]Image) *Sheet {
	return &Sheet{images: images}
}

// LoadSheet loads ids concurrently. The first failure cancels the rest and
// is returned; startup cannot continue without the full set.
func LoadSheet(ctx context.Context, p Provider, ids []ID) (*Sheet, error) {
	images := make([]Image, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			img, err := p.Load(ctx, id)
			if err != nil {
				return fmt.Errorf("load sprite %s: %w", id, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sheet := &Sheet{images: make(map[ID]Image, len(ids))}
	for i, id := range ids {
		sheet.images[id] = images[i]
	}
	return sheet, nil
}

// Image returns the image for id, or nil if it was not loaded.
func (s *Sheet) Image(id ID) Image {
	return s.images[id]
}

// Size returns the natural size of id. Unknown IDs have zero size.
func (s *Sheet) Size(id ID) (w, h float64) {
	img, ok := s.images[id]
	if !ok {
		return 0, 0
	}
	return float64(img.Width()), float64(img.Height())
}

// IDs returns the loaded IDs in sorted order.
func (s *Sheet) IDs() []ID {
	ids := make([]ID, 0, len(s.images))
	for id := range s.images {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
