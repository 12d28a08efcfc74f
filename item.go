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

// UnknownItemError is returned when an OSD item name cannot be
// resolved through the marker tile table of the active font variant.
type UnknownItemError struct {
	FontVariant FontVariant
	Name        string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown OSD item for `%s` font variant: %s", e.FontVariant, e.Name)
}

// itemLocation describes how to locate one named OSD item on a grid:
// the tile indices marking its presence, and the offset and size of
// the rectangle it occupies relative to a marker cell.
type itemLocation struct {
	name    string
	markers []TileIndex
	offsetX int
	offsetY int
	width   int
	height  int
}

func (l itemLocation) region(markerX, markerY int) Region {
	return Region{
		X:      markerX + l.offsetX,
		Y:      markerY + l.offsetY,
		Width:  l.width,
		Height: l.height,
	}
}

func loc(name string, markers []TileIndex, width int) itemLocation {
	return itemLocation{name: name, markers: markers, width: width, height: 1}
}

func locOffset(name string, markers []TileIndex, offsetX, width int) itemLocation {
	return itemLocation{name: name, markers: markers, offsetX: offsetX, width: width, height: 1}
}

// Marker tile tables per font variant. These never change at runtime.
var itemLocations = map[FontVariant][]itemLocation{
	FontINAV: {
		loc("gpslat", []TileIndex{3}, 10),
		loc("gpslon", []TileIndex{4}, 10),
		locOffset("alt", []TileIndex{0x76, 0x77, 0x78, 0x79}, -4, 5),
	},
	FontArdupilot: {
		loc("gpslat", []TileIndex{0xA6}, 10),
		loc("gpslon", []TileIndex{0xA7}, 11),
		locOffset("alt", []TileIndex{0xB1, 0xB3}, -4, 5),
		locOffset("short+code", []TileIndex{0x2B}, -4, 8),
		locOffset("long+code", []TileIndex{0x2B}, -8, 12),
	},
}

func findItemLocation(variant FontVariant, name string) (itemLocation, bool) {
	for _, l := range itemLocations[variant] {
		if l.name == name {
			return l, true
		}
	}
	return itemLocation{}, false
}

// CheckItems verifies that every item name resolves through the
// variant's marker tile table.
func CheckItems(variant FontVariant, names []string) error {
	for _, name := range names {
		if _, ok := findItemLocation(variant, name); !ok {
			return &UnknownItemError{FontVariant: variant, Name: name}
		}
	}
	return nil
}

// ItemNames returns the names of the OSD items that can be located
// for the variant.
func (v FontVariant) ItemNames() []string {
	locations := itemLocations[v]
	names := make([]string, 0, len(locations))
	for _, l := range locations {
		names = append(names, l.name)
	}
	return names
}
