// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetResolution(t *testing.T) {
	cases := map[string]Resolution{
		"720p":     {1280, 720},
		"720p4:3":  {960, 720},
		"1080p":    {1920, 1080},
		"1080p4:3": {1440, 1080},
		"2560x1440": {2560, 1440},
	}
	for s, want := range cases {
		r, err := ParseTargetResolution(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, r, s)
	}

	for _, s := range []string{"", "480i", "1920x", "x1080", "1920 x 1080"} {
		_, err := ParseTargetResolution(s)
		assert.Error(t, err, "%q", s)
	}
}

func TestResolutionString(t *testing.T) {
	assert.Equal(t, "1920x1080", Resolution{1920, 1080}.String())
}
