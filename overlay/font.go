// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	osd "github.com/openfpv/go-osd"
)

// TilesPerBank is the number of tiles in one font bin file. Fonts
// using tile indices past the base bank ship a second "_2" file.
const TilesPerBank = 256

// FontLoadError reports a font bin file that could not be read or
// has the wrong size for its tile kind.
type FontLoadError struct {
	Path   string
	Reason string
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("failed to load font file %s: %s", e.Path, e.Reason)
}

// FontDir loads font tile banks from a directory of bin files named
// font[_<ident>][_hd][_2].bin. Bin files hold raw RGBA tiles back to
// back.
type FontDir struct {
	fsys afero.Fs
	path string
}

// NewFontDir returns a FontDir over the OS filesystem.
func NewFontDir(path string) *FontDir {
	return NewFontDirFs(afero.NewOsFs(), path)
}

// NewFontDirFs returns a FontDir over an arbitrary filesystem.
func NewFontDirFs(fsys afero.Fs, path string) *FontDir {
	return &FontDir{fsys: fsys, path: path}
}

func fontFileName(ident string, tileKind osd.TileKind, extended bool) string {
	var b strings.Builder
	b.WriteString("font")
	if ident != "" {
		b.WriteString("_" + ident)
	}
	if tileKind == osd.TileHD {
		b.WriteString("_hd")
	}
	if extended {
		b.WriteString("_2")
	}
	b.WriteString(".bin")
	return b.String()
}

// loadBank reads one bin file into tile images.
func (d *FontDir) loadBank(ident string, tileKind osd.TileKind, extended bool) ([]*image.RGBA, error) {
	path := filepath.Join(d.path, fontFileName(ident, tileKind, extended))
	raw, err := afero.ReadFile(d.fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, &FontLoadError{Path: path, Reason: err.Error()}
	}

	dims := tileKind.Dimensions()
	tileBytes := dims.Width * dims.Height * 4
	if len(raw) != TilesPerBank*tileBytes {
		return nil, &FontLoadError{
			Path:   path,
			Reason: fmt.Sprintf("invalid size %d for %s tiles", len(raw), tileKind),
		}
	}

	tiles := make([]*image.RGBA, TilesPerBank)
	for i := range tiles {
		tile := image.NewRGBA(image.Rect(0, 0, dims.Width, dims.Height))
		copy(tile.Pix, raw[i*tileBytes:(i+1)*tileBytes])
		tiles[i] = tile
	}
	return tiles, nil
}

// Load reads the bank(s) of the font set identified by ident, "" for
// the generic set. The extended bank is included only when the
// recording uses tile indices past the base bank. A missing bin file
// yields an error satisfying os.IsNotExist.
func (d *FontDir) Load(ident string, tileKind osd.TileKind, maxUsedTileIndex osd.TileIndex) ([]*image.RGBA, error) {
	tiles, err := d.loadBank(ident, tileKind, false)
	if err != nil {
		return nil, err
	}
	if maxUsedTileIndex <= TilesPerBank {
		return tiles, nil
	}
	extended, err := d.loadBank(ident, tileKind, true)
	if err != nil {
		return nil, err
	}
	return append(tiles, extended...), nil
}

// LoadVariant loads the font set matching a recording's font variant,
// falling back to the generic set when no set with the variant's
// ident is installed.
func (d *FontDir) LoadVariant(variant osd.FontVariant, tileKind osd.TileKind, maxUsedTileIndex osd.TileIndex) ([]*image.RGBA, error) {
	ident := variant.SetIdent()
	tiles, err := d.Load(ident, tileKind, maxUsedTileIndex)
	if err != nil && os.IsNotExist(err) && ident != "" {
		log.Printf("warning: font for %s (%s ident) not found, falling back to generic font", variant, ident)
		ident = ""
		tiles, err = d.Load(ident, tileKind, maxUsedTileIndex)
	}
	if err != nil && os.IsNotExist(err) {
		return nil, &FontLoadError{
			Path:   filepath.Join(d.path, fontFileName(ident, tileKind, false)),
			Reason: "file not found",
		}
	}
	return tiles, err
}
