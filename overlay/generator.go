// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

// Package overlay renders decoded OSD frames into transparent RGBA
// overlay images and feeds them to a PNG frame directory or an
// ffmpeg encoded transparent video.
package overlay

import (
	"image"
	"image/draw"
	"log"
	"sync"

	osd "github.com/openfpv/go-osd"

	"github.com/openfpv/go-osd/video"
)

// Generator draws OSD frames of one recording as transparent overlay
// images. It is safe for concurrent DrawFrame calls.
type Generator struct {
	tiles         []*image.RGBA
	tileDims      osd.Dimensions
	resolution    video.Resolution
	fontVariant   osd.FontVariant
	hiddenRegions []osd.Region
	hiddenItems   []string

	missingWarn sync.Once
}

// NewGenerator resolves the scaling request for the recording's kind
// and loads (and if needed resizes) the matching font tiles.
// fontIdent overrides the recording's font variant when non nil; the
// empty string selects the generic set. hiddenRegions and hiddenItems
// are erased from every frame before drawing; item names must resolve
// for the recording's font variant.
func NewGenerator(frames *osd.SortedFrames, fontDir *FontDir, fontIdent *string, scaling Scaling,
	hiddenRegions []osd.Region, hiddenItems []string) (*Generator, error) {
	if err := osd.CheckItems(frames.FontVariant(), hiddenItems); err != nil {
		return nil, err
	}
	settings, err := selectRenderSettings(frames.Kind(), scaling)
	if err != nil {
		return nil, err
	}

	maxUsed, _ := osd.MaxUsedTileIndex(frames)
	var tiles []*image.RGBA
	if fontIdent != nil {
		tiles, err = fontDir.Load(*fontIdent, settings.tileKind, maxUsed)
	} else {
		tiles, err = fontDir.LoadVariant(frames.FontVariant(), settings.tileKind, maxUsed)
	}
	if err != nil {
		return nil, err
	}

	tileDims := settings.tileKind.Dimensions()
	if settings.tileDimensions != nil {
		tiles = resizeTiles(tiles, *settings.tileDimensions)
		tileDims = *settings.tileDimensions
	}

	if scaling.Mode == ScaleNo && scaling.TargetResolution != (video.Resolution{}) {
		scale := (float64(settings.overlayResolution.Width)/float64(scaling.TargetResolution.Width) +
			float64(settings.overlayResolution.Height)/float64(scaling.TargetResolution.Height)) / 2
		if scale < 0.8 {
			log.Printf("warning: without scaling the overlay resolution is much smaller than the target video resolution, consider using scaling for better results")
		}
	}

	return &Generator{
		tiles:         tiles,
		tileDims:      tileDims,
		resolution:    settings.overlayResolution,
		fontVariant:   frames.FontVariant(),
		hiddenRegions: hiddenRegions,
		hiddenItems:   hiddenItems,
	}, nil
}

// Resolution returns the overlay canvas size in pixels.
func (g *Generator) Resolution() video.Resolution {
	return g.resolution
}

// BlankFrame returns a fully transparent overlay image.
func (g *Generator) BlankFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, g.resolution.Width, g.resolution.Height))
}

// DrawFrame renders one OSD frame, erasing the configured hidden
// regions and items first. Cells using tiles the loaded font
// does not provide are skipped; the first time this happens a single
// warning is logged for the whole run. Cells falling outside the
// overlay canvas are skipped silently, they belong to grid kinds
// larger than the recording's visible rectangle.
func (g *Generator) DrawFrame(frame osd.Frame) *image.RGBA {
	img := g.BlankFrame()
	grid := frame.Grid()
	if len(g.hiddenRegions) > 0 || len(g.hiddenItems) > 0 {
		grid = grid.Clone()
		grid.EraseRegions(g.hiddenRegions)
		// item names are validated in NewGenerator
		_ = grid.EraseItems(g.fontVariant, g.hiddenItems)
	}
	missing := 0
	grid.VisitUsed(func(x, y int, index osd.TileIndex) {
		if int(index) >= len(g.tiles) {
			missing++
			return
		}
		px, py := x*g.tileDims.Width, y*g.tileDims.Height
		if px+g.tileDims.Width > g.resolution.Width || py+g.tileDims.Height > g.resolution.Height {
			return
		}
		tile := g.tiles[index]
		rect := image.Rect(px, py, px+g.tileDims.Width, py+g.tileDims.Height)
		draw.Draw(img, rect, tile, tile.Bounds().Min, draw.Src)
	})
	if missing > 0 {
		g.missingWarn.Do(func() {
			log.Printf("warning: frame %d uses %d tiles not present in the loaded font, they will not be rendered",
				frame.Index(), missing)
		})
	}
	return img
}
