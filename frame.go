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

// Frame is one decoded OSD frame: the tile grid that became current
// at a given index of the recording device's own frame clock. Frames
// are immutable once constructed; consumers clone the grid before
// mutating it.
type Frame struct {
	index uint32
	grid  *TileGrid
}

// NewFrame returns a frame over the given grid.
func NewFrame(index uint32, grid *TileGrid) Frame {
	return Frame{index: index, grid: grid}
}

// Index returns the device clock video frame index at which the
// frame became current.
func (f Frame) Index() uint32 {
	return f.index
}

// Grid returns the frame's tile grid. The grid is shared and must
// not be mutated.
func (f Frame) Grid() *TileGrid {
	return f.grid
}

// Equal reports whether both frames have the same index and grid
// contents.
func (f Frame) Equal(o Frame) bool {
	return f.index == o.index && f.grid.Equal(o.grid)
}
