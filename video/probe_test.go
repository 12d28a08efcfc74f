// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeOutput(t *testing.T) {
	out := []byte(`{
		"streams": [
			{
				"codec_type": "video",
				"codec_name": "h264",
				"width": 1280,
				"height": 720,
				"r_frame_rate": "60/1",
				"nb_frames": "18240"
			},
			{
				"codec_type": "audio"
			}
		]
	}`)

	info, err := parseProbeOutput(out)
	require.NoError(t, err)
	assert.Equal(t, Resolution{1280, 720}, info.Resolution)
	assert.Equal(t, "h264", info.CodecName)
	assert.Equal(t, Rational{Num: 60, Den: 1}, info.FrameRate)
	assert.Equal(t, uint64(18240), info.FrameCount)
	assert.True(t, info.HasAudio)
}

func TestParseProbeOutputNoAudio(t *testing.T) {
	out := []byte(`{
		"streams": [
			{
				"codec_type": "video",
				"width": 1920,
				"height": 1080,
				"r_frame_rate": "60000/1001",
				"nb_frames": "100"
			}
		]
	}`)

	info, err := parseProbeOutput(out)
	require.NoError(t, err)
	assert.False(t, info.HasAudio)
	assert.Equal(t, Rational{Num: 60000, Den: 1001}, info.FrameRate)
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	_, err := parseProbeOutput([]byte(`{"streams": [{"codec_type": "audio"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot find video stream")
}

func TestParseProbeOutputGarbage(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	assert.Error(t, err)
}
