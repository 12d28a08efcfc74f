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

// TileGrid is a 2D grid of tile indices. Cells are stored column
// major (cell = y + x*height), matching the on-disk layout of both
// supported file formats.
type TileGrid struct {
	dims  Dimensions
	cells []TileIndex
}

// NewTileGrid returns a blank grid of the given dimensions.
func NewTileGrid(dims Dimensions) *TileGrid {
	return &TileGrid{
		dims:  dims,
		cells: make([]TileIndex, dims.Cells()),
	}
}

// NewTileGridFromCells builds a grid over the given column major cell
// values. Short cell slices leave the remaining cells blank; extra
// values are dropped.
func NewTileGridFromCells(dims Dimensions, cells []TileIndex) *TileGrid {
	g := NewTileGrid(dims)
	copy(g.cells, cells)
	return g
}

// Dimensions returns the grid size in tile units.
func (g *TileGrid) Dimensions() Dimensions {
	return g.dims
}

// At returns the tile index at the given grid cell.
func (g *TileGrid) At(x, y int) TileIndex {
	return g.cells[y+x*g.dims.Height]
}

func (g *TileGrid) set(x, y int, v TileIndex) {
	g.cells[y+x*g.dims.Height] = v
}

// Clone returns an independent copy of the grid.
func (g *TileGrid) Clone() *TileGrid {
	cells := make([]TileIndex, len(g.cells))
	copy(cells, g.cells)
	return &TileGrid{dims: g.dims, cells: cells}
}

// Equal reports whether both grids have the same dimensions and cell
// contents.
func (g *TileGrid) Equal(o *TileGrid) bool {
	if g.dims != o.dims {
		return false
	}
	for i, v := range g.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// MaxIndex returns the highest tile index used by the grid, 0 when
// the grid is blank.
func (g *TileGrid) MaxIndex() TileIndex {
	var max TileIndex
	for _, v := range g.cells {
		if v > max {
			max = v
		}
	}
	return max
}

// VisitUsed calls fn for every non blank cell, columns outer, rows
// inner.
func (g *TileGrid) VisitUsed(fn func(x, y int, index TileIndex)) {
	for i, v := range g.cells {
		if v == 0 {
			continue
		}
		fn(i/g.dims.Height, i%g.dims.Height, v)
	}
}

// EraseRegion blanks every cell covered by the region. Parts of the
// region outside the grid are ignored.
func (g *TileGrid) EraseRegion(r Region) {
	x0, y0, x1, y1 := r.clip(g.dims)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			g.set(x, y, 0)
		}
	}
}

// EraseRegions blanks every cell covered by any of the regions.
func (g *TileGrid) EraseRegions(regions []Region) {
	for _, r := range regions {
		g.EraseRegion(r)
	}
}

// EraseItem blanks the regions of the named OSD item. The item name
// is resolved through the font variant's marker tile table; every
// grid cell holding one of the item's marker tiles yields one region
// to erase.
func (g *TileGrid) EraseItem(variant FontVariant, name string) error {
	loc, ok := findItemLocation(variant, name)
	if !ok {
		return &UnknownItemError{FontVariant: variant, Name: name}
	}
	var regions []Region
	for _, marker := range loc.markers {
		g.VisitUsed(func(x, y int, index TileIndex) {
			if index == marker {
				regions = append(regions, loc.region(x, y))
			}
		})
	}
	g.EraseRegions(regions)
	return nil
}

// EraseItems blanks the regions of every named item.
func (g *TileGrid) EraseItems(variant FontVariant, names []string) error {
	for _, name := range names {
		if err := g.EraseItem(variant, name); err != nil {
			return err
		}
	}
	return nil
}
