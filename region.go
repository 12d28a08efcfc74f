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
	"fmt"
	"regexp"
	"strconv"
)

// Region is a rectangle in grid cell units. The top left corner may
// lie outside the grid; erasure clips it to the grid bounds.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d:%dx%d", r.X, r.Y, r.Width, r.Height)
}

// clip returns the inclusive cell range of the region intersected
// with a grid of the given dimensions. The returned range is empty
// (x0 > x1 or y0 > y1) when the region lies fully outside.
func (r Region) clip(dims Dimensions) (x0, y0, x1, y1 int) {
	x0, y0 = r.X, r.Y
	x1, y1 = r.X+r.Width-1, r.Y+r.Height-1
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > dims.Width-1 {
		x1 = dims.Width - 1
	}
	if y1 > dims.Height-1 {
		y1 = dims.Height - 1
	}
	return x0, y0, x1, y1
}

var regionRe = regexp.MustCompile(`\A(\d{1,2}),(\d{1,2})(?::(\d{1,3})x(\d{1,3}))?\z`)

// ParseRegion parses a region string of the form "x,y" (a single
// cell) or "x,y:WxH".
func ParseRegion(s string) (Region, error) {
	m := regionRe.FindStringSubmatch(s)
	if m == nil {
		return Region{}, fmt.Errorf("invalid OSD region format: %q", s)
	}
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	width, height := 1, 1
	if m[3] != "" {
		width, _ = strconv.Atoi(m[3])
		height, _ = strconv.Atoi(m[4])
		if width == 0 || height == 0 {
			return Region{}, fmt.Errorf("invalid OSD region dimensions: %q: dimension component cannot be 0", s)
		}
	}
	return Region{X: x, Y: y, Width: width, Height: height}, nil
}
