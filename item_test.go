// Copyright 2024 The OpenFPV Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package osd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRow fills a horizontal run of cells starting at the marker
// cell, the way flight controllers draw OSD items.
func writeRow(g *TileGrid, x, y int, indices ...TileIndex) {
	for i, index := range indices {
		g.set(x+i, y, index)
	}
}

func TestEraseItemINAVCoordinates(t *testing.T) {
	g := NewTileGrid(dimensionsFakeHD)
	// gpslat: marker tile 3 followed by 9 digit tiles
	writeRow(g, 10, 5, 3, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29)
	// gpslon: marker tile 4 followed by 9 digit tiles
	writeRow(g, 10, 6, 4, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29)
	// unrelated cell on the same rows
	g.set(25, 5, 0x41)

	require.NoError(t, g.EraseItem(FontINAV, "gpslat"))
	require.NoError(t, g.EraseItem(FontINAV, "gpslon"))

	assert.Equal(t, map[[2]int]TileIndex{{25, 5}: 0x41}, usedCells(g))
}

func TestEraseItemINAVAltitude(t *testing.T) {
	g := NewTileGrid(dimensionsFakeHD)
	// altitude is drawn right aligned, the marker is its last tile
	writeRow(g, 50, 8, 0x21, 0x22, 0x23, 0x24, 0x76)

	require.NoError(t, g.EraseItem(FontINAV, "alt"))

	assert.Empty(t, usedCells(g))
}

func TestEraseItemArdupilotMessages(t *testing.T) {
	g := NewTileGrid(dimensionsFakeHD)
	// short+code erases 8 cells ending at the marker offset
	writeRow(g, 6, 12, 0x31, 0x32, 0x33, 0x34, 0x2B, 0x35, 0x36, 0x37)

	require.NoError(t, g.EraseItem(FontArdupilot, "short+code"))

	assert.Empty(t, usedCells(g))
}

func TestEraseItemMultipleMarkers(t *testing.T) {
	g := NewTileGrid(dimensionsFakeHD)
	// both 0xB1 and 0xB3 mark an Ardupilot altitude item
	writeRow(g, 20, 2, 0x21, 0x22, 0x23, 0x24, 0xB1)
	writeRow(g, 20, 9, 0x25, 0x26, 0x27, 0x28, 0xB3)

	require.NoError(t, g.EraseItems(FontArdupilot, []string{"alt"}))

	assert.Empty(t, usedCells(g))
}

func TestEraseItemUnknown(t *testing.T) {
	g := NewTileGrid(dimensionsFakeHD)

	err := g.EraseItem(FontINAV, "bogus")
	var unknownErr *UnknownItemError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, FontINAV, unknownErr.FontVariant)
	assert.Equal(t, "bogus", unknownErr.Name)
	assert.EqualError(t, err, "unknown OSD item for `INAV` font variant: bogus")

	// Betaflight has no marker table at all
	assert.Error(t, g.EraseItem(FontBetaflight, "gpslat"))
}

func TestItemNames(t *testing.T) {
	assert.Equal(t, []string{"gpslat", "gpslon", "alt"}, FontINAV.ItemNames())
	assert.Equal(t,
		[]string{"gpslat", "gpslon", "alt", "short+code", "long+code"},
		FontArdupilot.ItemNames())
	assert.Empty(t, FontBetaflight.ItemNames())
}
