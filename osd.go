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

// Package osd decodes FPV on-screen-display recordings into frame
// collections of tile-index grids and realigns them against a target
// video's frame clock.
package osd

import "fmt"

// TileIndex identifies a bitmap tile within a font tile set. Index 0
// is the blank tile.
type TileIndex uint16

// Dimensions is a width and height pair, in tile or pixel units
// depending on context.
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Cells returns the number of grid cells covered by the dimensions.
func (d Dimensions) Cells() int {
	return d.Width * d.Height
}

// AirUnitFrameShift is the empirically determined offset between the
// frame clock of DJI air unit OSD recordings and the frame clock of
// the video file recorded alongside them. It should be applied when
// the paired video contains an audio stream, which indicates an air
// unit recording rather than a goggles one.
const AirUnitFrameShift = -36
