// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osd "github.com/openfpv/go-osd"
	"github.com/openfpv/go-osd/video"
)

func TestParseMargins(t *testing.T) {
	m, err := ParseMargins("20:20")
	require.NoError(t, err)
	assert.Equal(t, Margins{Horizontal: 20, Vertical: 20}, m)

	m, err = ParseMargins("0:115")
	require.NoError(t, err)
	assert.Equal(t, Margins{Horizontal: 0, Vertical: 115}, m)

	for _, s := range []string{"", "20", "20:", ":20", "20x20", "1234:5"} {
		_, err := ParseMargins(s)
		assert.Error(t, err, "%q", s)
	}
}

func TestSelectSettingsNativeTileKind(t *testing.T) {
	// no target resolution: use the kind's native tile kind
	settings, err := selectRenderSettings(osd.KindFakeHD, NoScaling(video.Resolution{}))
	require.NoError(t, err)
	assert.Equal(t, osd.TileHD, settings.tileKind)
	assert.Equal(t, video.Resolution{Width: 1440, Height: 792}, settings.overlayResolution)
	assert.Nil(t, settings.tileDimensions)
}

func TestSelectSettingsBestFitWithoutScaling(t *testing.T) {
	// 1080p fits the FakeHD grid only with HD tiles
	settings, err := selectRenderSettings(osd.KindFakeHD, NoScaling(video.Resolution{Width: 1920, Height: 1080}))
	require.NoError(t, err)
	assert.Equal(t, osd.TileHD, settings.tileKind)
	assert.Equal(t, video.Resolution{Width: 1440, Height: 792}, settings.overlayResolution)

	// 1440p fits SD tiles too, which leave smaller margins
	settings, err = selectRenderSettings(osd.KindFakeHD, NoScaling(video.Resolution{Width: 2560, Height: 1440}))
	require.NoError(t, err)
	assert.Equal(t, osd.TileSD, settings.tileKind)
	assert.Equal(t, video.Resolution{Width: 2160, Height: 1188}, settings.overlayResolution)

	// 720p 4:3 recording with the SD grid needs HD tiles
	settings, err = selectRenderSettings(osd.KindSD, NoScaling(video.Resolution{Width: 1280, Height: 720}))
	require.NoError(t, err)
	assert.Equal(t, osd.TileHD, settings.tileKind)
	assert.Equal(t, video.Resolution{Width: 720, Height: 540}, settings.overlayResolution)

	// the WSA grid almost exactly covers 1080p with SD tiles
	settings, err = selectRenderSettings(osd.KindWSA, NoScaling(video.Resolution{Width: 1920, Height: 1080}))
	require.NoError(t, err)
	assert.Equal(t, osd.TileSD, settings.tileKind)
	assert.Equal(t, video.Resolution{Width: 1908, Height: 1080}, settings.overlayResolution)
}

func TestSelectSettingsVideoTooSmall(t *testing.T) {
	_, err := selectRenderSettings(osd.KindFakeHD, NoScaling(video.Resolution{Width: 640, Height: 480}))
	var tooSmall *VideoResolutionTooSmallError
	require.ErrorAs(t, err, &tooSmall)
	assert.Equal(t, osd.KindFakeHD, tooSmall.Kind)
	assert.Equal(t, video.Resolution{Width: 640, Height: 480}, tooSmall.VideoResolution)
}

func TestSelectSettingsForcedScaling(t *testing.T) {
	minMargins := Margins{Horizontal: 20, Vertical: 20}
	settings, err := selectRenderSettings(osd.KindFakeHD,
		ForcedScaling(video.Resolution{Width: 1920, Height: 1080}, minMargins))
	require.NoError(t, err)
	assert.Equal(t, osd.TileSD, settings.tileKind)
	require.NotNil(t, settings.tileDimensions)
	assert.Equal(t, osd.Dimensions{Width: 31, Height: 47}, *settings.tileDimensions)
	assert.Equal(t, video.Resolution{Width: 1860, Height: 1034}, settings.overlayResolution)
}

func TestSelectSettingsAuto(t *testing.T) {
	minMargins := Margins{Horizontal: 20, Vertical: 20}

	// at 1080p the native HD rendering covers less than 90% of the
	// video, so auto falls back to scaling
	settings, err := selectRenderSettings(osd.KindFakeHD,
		AutoScaling(video.Resolution{Width: 1920, Height: 1080}, minMargins, 90))
	require.NoError(t, err)
	require.NotNil(t, settings.tileDimensions)
	assert.Equal(t, video.Resolution{Width: 1860, Height: 1034}, settings.overlayResolution)

	// with a lower coverage requirement the native SD rendering at
	// 1440p is good enough
	settings, err = selectRenderSettings(osd.KindFakeHD,
		AutoScaling(video.Resolution{Width: 2560, Height: 1440}, minMargins, 80))
	require.NoError(t, err)
	assert.Nil(t, settings.tileDimensions)
	assert.Equal(t, osd.TileSD, settings.tileKind)
	assert.Equal(t, video.Resolution{Width: 2160, Height: 1188}, settings.overlayResolution)
}
