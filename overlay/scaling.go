// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"fmt"
	"log"

	osd "github.com/openfpv/go-osd"
	"github.com/openfpv/go-osd/video"
)

// Default scaling decision parameters.
const (
	DefaultMinMarginHorizontal = 20
	DefaultMinMarginVertical   = 20
	DefaultMinCoveragePercent  = 90
)

// ScalingMode selects how tile images are sized against the target
// video resolution.
type ScalingMode int

const (
	// ScaleNo renders tiles at one of their native sizes.
	ScaleNo ScalingMode = iota
	// ScaleYes resizes tiles so the overlay fills the target video
	// up to the minimum margins.
	ScaleYes
	// ScaleAuto renders natively when the result keeps the minimum
	// margins and covers enough of the target video, and falls back
	// to scaling otherwise.
	ScaleAuto
)

func (m ScalingMode) String() string {
	switch m {
	case ScaleNo:
		return "no"
	case ScaleYes:
		return "yes"
	case ScaleAuto:
		return "auto"
	}
	return fmt.Sprintf("ScalingMode(%d)", int(m))
}

// Scaling is a complete scaling request. TargetResolution drives tile
// kind selection and may be left zero for ScaleNo only, in which case
// the recording kind's native tile kind is used.
type Scaling struct {
	Mode             ScalingMode
	TargetResolution video.Resolution
	MinMargins       Margins
	// MinResolution is the smallest acceptable overlay resolution
	// before ScaleAuto falls back to scaling.
	MinResolution video.Resolution
}

// NoScaling renders at native tile sizes, picking the best fitting
// tile kind for the target resolution when one is given.
func NoScaling(target video.Resolution) Scaling {
	return Scaling{Mode: ScaleNo, TargetResolution: target}
}

// ForcedScaling always resizes tiles to fill the target up to the
// minimum margins.
func ForcedScaling(target video.Resolution, minMargins Margins) Scaling {
	return Scaling{Mode: ScaleYes, TargetResolution: target, MinMargins: minMargins}
}

// AutoScaling decides between native and scaled rendering using the
// minimum margins and a minimum coverage percentage of the target
// resolution.
func AutoScaling(target video.Resolution, minMargins Margins, minCoveragePercent int) Scaling {
	return Scaling{
		Mode:             ScaleAuto,
		TargetResolution: target,
		MinMargins:       minMargins,
		MinResolution: video.Resolution{
			Width:  target.Width * minCoveragePercent / 100,
			Height: target.Height * minCoveragePercent / 100,
		},
	}
}

// VideoResolutionTooSmallError reports a target video too small to
// fit the OSD grid at any native tile size.
type VideoResolutionTooSmallError struct {
	Kind            osd.Kind
	VideoResolution video.Resolution
}

func (e *VideoResolutionTooSmallError) Error() string {
	return fmt.Sprintf("video resolution %s too small to render %s OSD kind without scaling",
		e.VideoResolution, e.Kind)
}

// renderSettings is the outcome of scaling selection: the overlay
// canvas size, which font bank to load, and the tile size to resize
// to (nil for native size).
type renderSettings struct {
	overlayResolution video.Resolution
	tileKind          osd.TileKind
	tileDimensions    *osd.Dimensions
}

// pixelDimensions returns the pixel size of a kind's grid drawn with
// tiles of the given size.
func pixelDimensions(kind osd.Kind, tile osd.Dimensions) video.Resolution {
	grid := kind.GridDimensions()
	return video.Resolution{Width: grid.Width * tile.Width, Height: grid.Height * tile.Height}
}

// bestTileKindWithoutScaling picks the native tile kind filling as
// much of the video as possible while still fitting.
func bestTileKindWithoutScaling(kind osd.Kind, resolution video.Resolution) (osd.TileKind, error) {
	best := osd.TileSD
	bestAvg := -1
	for _, tileKind := range osd.TileKinds {
		horizontal, vertical := margins(resolution, pixelDimensions(kind, tileKind.Dimensions()))
		if horizontal < 0 || vertical < 0 {
			continue
		}
		if avg := (horizontal + vertical) / 2; bestAvg < 0 || avg < bestAvg {
			best, bestAvg = tileKind, avg
		}
	}
	if bestAvg < 0 {
		return 0, &VideoResolutionTooSmallError{Kind: kind, VideoResolution: resolution}
	}
	return best, nil
}

// bestTileKindWithScaling picks the tile kind closest to the largest
// tile size fitting maxResolution, preferring kinds that would be
// downscaled, and returns the aspect preserving tile size to resize
// to.
func bestTileKindWithScaling(kind osd.Kind, maxResolution video.Resolution) (osd.TileKind, osd.Dimensions) {
	grid := kind.GridDimensions()
	maxTile := osd.Dimensions{
		Width:  maxResolution.Width / grid.Width,
		Height: maxResolution.Height / grid.Height,
	}

	candidates := make([]scalingCandidate, 0, len(osd.TileKinds))
	downscaling := make([]scalingCandidate, 0, len(osd.TileKinds))
	for _, tileKind := range osd.TileKinds {
		dims := tileKind.Dimensions()
		c := scalingCandidate{
			tileKind:   tileKind,
			widthDiff:  maxTile.Width - dims.Width,
			heightDiff: maxTile.Height - dims.Height,
		}
		c.minAbsDiff = min(abs(c.widthDiff), abs(c.heightDiff))
		candidates = append(candidates, c)
		if min(c.widthDiff, c.heightDiff) <= 0 {
			downscaling = append(downscaling, c)
		}
	}

	var best scalingCandidate
	switch len(downscaling) {
	case 0:
		// every kind would be upscaled, pick the one upscaled the least
		best = minByAbsDiff(candidates)
	case 1:
		best = downscaling[0]
	default:
		best = minByAbsDiff(downscaling)
	}

	native := best.tileKind.Dimensions()
	tile := native
	if best.widthDiff < best.heightDiff {
		tile.Width = native.Width + best.widthDiff
		tile.Height = native.Height * tile.Width / native.Width
	} else {
		tile.Height = native.Height + best.heightDiff
		tile.Width = native.Width * tile.Height / native.Height
	}
	return best.tileKind, tile
}

type scalingCandidate struct {
	tileKind   osd.TileKind
	widthDiff  int
	heightDiff int
	minAbsDiff int
}

func minByAbsDiff(candidates []scalingCandidate) scalingCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.minAbsDiff < best.minAbsDiff {
			best = c
		}
	}
	return best
}

// selectRenderSettings resolves a scaling request against a recording
// kind.
func selectRenderSettings(kind osd.Kind, scaling Scaling) (renderSettings, error) {
	switch scaling.Mode {
	case ScaleNo:
		if scaling.TargetResolution == (video.Resolution{}) {
			return renderSettings{
				overlayResolution: pixelDimensions(kind, kind.TileKind().Dimensions()),
				tileKind:          kind.TileKind(),
			}, nil
		}
		tileKind, err := bestTileKindWithoutScaling(kind, scaling.TargetResolution)
		if err != nil {
			return renderSettings{}, err
		}
		return renderSettings{
			overlayResolution: pixelDimensions(kind, tileKind.Dimensions()),
			tileKind:          tileKind,
		}, nil

	case ScaleYes:
		maxResolution := video.Resolution{
			Width:  scaling.TargetResolution.Width - 2*scaling.MinMargins.Horizontal,
			Height: scaling.TargetResolution.Height - 2*scaling.MinMargins.Vertical,
		}
		tileKind, tile := bestTileKindWithScaling(kind, maxResolution)
		return renderSettings{
			overlayResolution: pixelDimensions(kind, tile),
			tileKind:          tileKind,
			tileDimensions:    &tile,
		}, nil

	case ScaleAuto:
		settings, err := selectRenderSettings(kind, NoScaling(scaling.TargetResolution))
		if err == nil {
			horizontal, vertical := margins(scaling.TargetResolution, settings.overlayResolution)
			marginsOK := horizontal >= scaling.MinMargins.Horizontal && vertical >= scaling.MinMargins.Vertical
			coverageOK := settings.overlayResolution.Width >= scaling.MinResolution.Width &&
				settings.overlayResolution.Height >= scaling.MinResolution.Height
			if !marginsOK || !coverageOK {
				settings, err = selectRenderSettings(kind, ForcedScaling(scaling.TargetResolution, scaling.MinMargins))
			}
		} else {
			settings, err = selectRenderSettings(kind, ForcedScaling(scaling.TargetResolution, scaling.MinMargins))
		}
		if err != nil {
			return renderSettings{}, err
		}
		scaled := "no"
		if settings.tileDimensions != nil {
			scaled = "yes"
		}
		log.Printf("calculated best approach: tile kind: %s - scaling %s - overlay resolution %s",
			settings.tileKind, scaled, settings.overlayResolution)
		return settings, nil
	}
	return renderSettings{}, fmt.Errorf("invalid scaling mode: %v", scaling.Mode)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
