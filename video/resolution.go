// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

// Package video holds the video side of OSD overlay generation:
// resolutions, timestamps and ffprobe based file inspection.
package video

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Resolution is a video frame size in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// standardResolutions maps the named target resolutions accepted on
// the command line. FPV goggles record either 16:9 or 4:3 DVR files.
var standardResolutions = []struct {
	name       string
	resolution Resolution
}{
	{"720p", Resolution{1280, 720}},
	{"720p4:3", Resolution{960, 720}},
	{"1080p", Resolution{1920, 1080}},
	{"1080p4:3", Resolution{1440, 1080}},
}

var resolutionRe = regexp.MustCompile(`\A(\d{1,5})x(\d{1,5})\z`)

// ValidTargetResolutions returns the accepted target resolution
// names, for usage and error messages.
func ValidTargetResolutions() string {
	names := make([]string, 0, len(standardResolutions)+1)
	for _, std := range standardResolutions {
		names = append(names, std.name)
	}
	names = append(names, "<width>x<height>")
	return strings.Join(names, ", ")
}

// ParseTargetResolution parses a standard resolution name or a custom
// "WxH" value.
func ParseTargetResolution(s string) (Resolution, error) {
	for _, std := range standardResolutions {
		if s == std.name {
			return std.resolution, nil
		}
	}
	m := resolutionRe.FindStringSubmatch(s)
	if m == nil {
		return Resolution{}, fmt.Errorf("invalid target resolution `%s`, valid resolutions are: %s",
			s, ValidTargetResolutions())
	}
	width, _ := strconv.Atoi(m[1])
	height, _ := strconv.Atoi(m[2])
	return Resolution{Width: width, Height: height}, nil
}
