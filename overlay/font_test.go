// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osd "github.com/openfpv/go-osd"
)

// fontBank builds a bin file whose tiles are solid colors: every
// channel of tile i is base+i truncated to a byte.
func fontBank(tileKind osd.TileKind, base int) []byte {
	dims := tileKind.Dimensions()
	tileBytes := dims.Width * dims.Height * 4
	b := make([]byte, TilesPerBank*tileBytes)
	for i := 0; i < TilesPerBank; i++ {
		v := byte(base + i)
		for j := 0; j < tileBytes; j++ {
			b[i*tileBytes+j] = v
		}
	}
	return b
}

func TestFontFileName(t *testing.T) {
	assert.Equal(t, "font.bin", fontFileName("", osd.TileSD, false))
	assert.Equal(t, "font_hd.bin", fontFileName("", osd.TileHD, false))
	assert.Equal(t, "font_inav.bin", fontFileName("inav", osd.TileSD, false))
	assert.Equal(t, "font_inav_hd_2.bin", fontFileName("inav", osd.TileHD, true))
	assert.Equal(t, "font_2.bin", fontFileName("", osd.TileSD, true))
}

func TestFontDirLoadBase(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font_hd.bin", fontBank(osd.TileHD, 0), 0o644))

	tiles, err := NewFontDirFs(fsys, "/fonts").Load("", osd.TileHD, 100)
	require.NoError(t, err)
	require.Len(t, tiles, TilesPerBank)

	dims := osd.TileHD.Dimensions()
	assert.Equal(t, dims.Width, tiles[0].Bounds().Dx())
	assert.Equal(t, dims.Height, tiles[0].Bounds().Dy())
	assert.Equal(t, uint8(7), tiles[7].Pix[0])
}

func TestFontDirLoadExtended(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font_hd.bin", fontBank(osd.TileHD, 0), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font_hd_2.bin", fontBank(osd.TileHD, 100), 0o644))

	d := NewFontDirFs(fsys, "/fonts")

	// indices within the base bank do not need the extended file
	tiles, err := d.Load("", osd.TileHD, TilesPerBank)
	require.NoError(t, err)
	assert.Len(t, tiles, TilesPerBank)

	tiles, err = d.Load("", osd.TileHD, TilesPerBank+1)
	require.NoError(t, err)
	require.Len(t, tiles, 2*TilesPerBank)
	assert.Equal(t, uint8(100), tiles[TilesPerBank].Pix[0])
}

func TestFontDirLoadMissingExtended(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font.bin", fontBank(osd.TileSD, 0), 0o644))

	_, err := NewFontDirFs(fsys, "/fonts").Load("", osd.TileSD, 500)
	assert.Error(t, err)
}

func TestFontDirLoadInvalidSize(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font.bin", []byte("short"), 0o644))

	_, err := NewFontDirFs(fsys, "/fonts").Load("", osd.TileSD, 10)
	var loadErr *FontLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestFontDirLoadVariantFallback(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font_hd.bin", fontBank(osd.TileHD, 0), 0o644))

	// no INAV font installed: falls back to the generic set
	tiles, err := NewFontDirFs(fsys, "/fonts").LoadVariant(osd.FontINAV, osd.TileHD, 10)
	require.NoError(t, err)
	assert.Len(t, tiles, TilesPerBank)
}

func TestFontDirLoadVariantPrefersIdent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font_hd.bin", fontBank(osd.TileHD, 0), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/fonts/font_inav_hd.bin", fontBank(osd.TileHD, 50), 0o644))

	tiles, err := NewFontDirFs(fsys, "/fonts").LoadVariant(osd.FontINAV, osd.TileHD, 10)
	require.NoError(t, err)
	assert.Equal(t, uint8(50), tiles[0].Pix[0])
}

func TestFontDirLoadVariantNothingInstalled(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := NewFontDirFs(fsys, "/fonts").LoadVariant(osd.FontGeneric, osd.TileSD, 10)
	var loadErr *FontLoadError
	require.ErrorAs(t, err, &loadErr)
}
