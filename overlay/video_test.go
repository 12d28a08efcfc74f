// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osd "github.com/openfpv/go-osd"
	"github.com/openfpv/go-osd/video"
)

func TestWriteRawFrames(t *testing.T) {
	g := &Generator{
		tiles:      solidTiles(8, osd.TileSD.Dimensions()),
		tileDims:   osd.TileSD.Dimensions(),
		resolution: video.Resolution{Width: 72, Height: 54},
	}
	slice := testSlice(2,
		osd.NewFrame(0, gridWithCell(osd.KindSD, 0, 0, 1)),
		osd.NewFrame(2, gridWithCell(osd.KindSD, 1, 0, 2)),
	)

	var buf bytes.Buffer
	require.NoError(t, g.writeRawFrames(context.Background(), slice.Realign(osd.ContinueToLastVideoFrame), &buf, 4))

	frameBytes := 72 * 54 * 4
	require.Equal(t, 3*frameBytes, buf.Len())

	out := buf.Bytes()
	first := out[:frameBytes]
	second := out[frameBytes : 2*frameBytes]
	third := out[2*frameBytes:]

	// video frame 1 has no OSD frame of its own and repeats frame 0
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, third)

	// frame 0 draws tile 1 in the left cell
	assert.Equal(t, byte(1), first[0])
	// frame 2 draws tile 2 in the right cell, left cell transparent
	assert.Equal(t, byte(0), third[0])
	assert.Equal(t, byte(2), third[36*4])
}

func TestWriteRawFramesEmptySequence(t *testing.T) {
	g := &Generator{
		tiles:      solidTiles(8, osd.TileSD.Dimensions()),
		tileDims:   osd.TileSD.Dimensions(),
		resolution: video.Resolution{Width: 72, Height: 54},
	}
	slice := testSlice(1)

	var buf bytes.Buffer
	require.NoError(t, g.writeRawFrames(context.Background(), slice.Realign(osd.ContinueToLastVideoFrame), &buf, 2))

	// both slots are blank frames
	frameBytes := 72 * 54 * 4
	require.Equal(t, 2*frameBytes, buf.Len())
	for _, v := range buf.Bytes() {
		require.Zero(t, v)
	}
}

func TestWriteRawFramesContextCancel(t *testing.T) {
	g := &Generator{
		tiles:      solidTiles(8, osd.TileSD.Dimensions()),
		tileDims:   osd.TileSD.Dimensions(),
		resolution: video.Resolution{Width: 72, Height: 54},
	}
	slice := testSlice(1000, osd.NewFrame(0, gridWithCell(osd.KindSD, 0, 0, 1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.writeRawFrames(ctx, slice.Realign(osd.ContinueToLastVideoFrame), &bytes.Buffer{}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
