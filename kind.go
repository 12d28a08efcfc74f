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

import "fmt"

// Kind identifies the grid layout of an OSD recording. It is derived
// from the dimensions declared in the file header.
type Kind int

const (
	// KindSD is the DJI standard definition 30x15 grid.
	KindSD Kind = iota
	// KindFakeHD is the DJI 60x22 grid. DJI frame payloads are always
	// sized for this grid whatever the declared kind.
	KindFakeHD
	// KindHD is the DJI high definition 50x18 grid.
	KindHD
	// KindWSA is the Walksnail Avatar 53x20 grid.
	KindWSA
)

var (
	dimensionsSD     = Dimensions{Width: 30, Height: 15}
	dimensionsFakeHD = Dimensions{Width: 60, Height: 22}
	dimensionsHD     = Dimensions{Width: 50, Height: 18}
	dimensionsWSA    = Dimensions{Width: 53, Height: 20}
)

func (k Kind) String() string {
	switch k {
	case KindSD:
		return "DJI_SD"
	case KindFakeHD:
		return "DJI_FakeHD"
	case KindHD:
		return "DJI_HD"
	case KindWSA:
		return "WSA"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// GridDimensions returns the grid size of the kind in tile units.
func (k Kind) GridDimensions() Dimensions {
	switch k {
	case KindSD:
		return dimensionsSD
	case KindFakeHD:
		return dimensionsFakeHD
	case KindHD:
		return dimensionsHD
	case KindWSA:
		return dimensionsWSA
	}
	return Dimensions{}
}

// TileKind returns the physical tile image kind the OSD kind is
// rendered with natively.
func (k Kind) TileKind() TileKind {
	switch k {
	case KindFakeHD, KindHD:
		return TileHD
	default:
		return TileSD
	}
}

// KindForDimensions maps header declared grid dimensions to a DJI
// kind. Unrecognized dimensions are a hard parse error.
func KindForDimensions(d Dimensions) (Kind, error) {
	switch d {
	case dimensionsSD:
		return KindSD, nil
	case dimensionsFakeHD:
		return KindFakeHD, nil
	case dimensionsHD:
		return KindHD, nil
	}
	return 0, fmt.Errorf("invalid OSD dimensions: %v", d)
}

// TileKind identifies a physical tile image size.
type TileKind int

const (
	// TileSD tiles are 36x54 pixels.
	TileSD TileKind = iota
	// TileHD tiles are 24x36 pixels.
	TileHD
)

// TileKinds lists every available tile kind, in the order used for
// deterministic scaling selection.
var TileKinds = []TileKind{TileSD, TileHD}

func (t TileKind) String() string {
	switch t {
	case TileSD:
		return "SD"
	case TileHD:
		return "HD"
	}
	return fmt.Sprintf("TileKind(%d)", int(t))
}

// Dimensions returns the pixel size of tiles of the kind.
func (t TileKind) Dimensions() Dimensions {
	switch t {
	case TileSD:
		return Dimensions{Width: 36, Height: 54}
	case TileHD:
		return Dimensions{Width: 24, Height: 36}
	}
	return Dimensions{}
}
