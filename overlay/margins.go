// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/openfpv/go-osd/video"
)

// Margins is the blank border around the rendered OSD, in pixels per
// side.
type Margins struct {
	Horizontal int
	Vertical   int
}

func (m Margins) String() string {
	return fmt.Sprintf("%d:%d", m.Horizontal, m.Vertical)
}

var marginsRe = regexp.MustCompile(`\A(\d{1,3}):(\d{1,3})\z`)

// ParseMargins parses a "horizontal:vertical" margins string.
func ParseMargins(s string) (Margins, error) {
	m := marginsRe.FindStringSubmatch(s)
	if m == nil {
		return Margins{}, fmt.Errorf("invalid margins format: %s", s)
	}
	horizontal, _ := strconv.Atoi(m[1])
	vertical, _ := strconv.Atoi(m[2])
	return Margins{Horizontal: horizontal, Vertical: vertical}, nil
}

// margins returns the per side border between an outside resolution
// and a centered inside resolution. Either value is negative when the
// inside does not fit.
func margins(outside, inside video.Resolution) (horizontal, vertical int) {
	return (outside.Width - inside.Width) / 2, (outside.Height - inside.Height) / 2
}
