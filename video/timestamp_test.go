// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("1:23")
	require.NoError(t, err)
	assert.Equal(t, Timestamp{Minutes: 1, Seconds: 23}, ts)

	ts, err = ParseTimestamp("2:01:23")
	require.NoError(t, err)
	assert.Equal(t, Timestamp{Hours: 2, Minutes: 1, Seconds: 23}, ts)

	for _, s := range []string{"", "12", "1:2:3:4", "1m23s", "123:45"} {
		_, err := ParseTimestamp(s)
		assert.Error(t, err, "%q", s)
	}
}

func TestTimestampString(t *testing.T) {
	assert.Equal(t, "1:23", Timestamp{Minutes: 1, Seconds: 23}.String())
	assert.Equal(t, "2:1:23", Timestamp{Hours: 2, Minutes: 1, Seconds: 23}.String())
	assert.Equal(t, "0:1:23", Timestamp{Minutes: 1, Seconds: 23}.FFmpegPosition())
}

func TestTimestampFrameIndex(t *testing.T) {
	fps := Rational{Num: 60, Den: 1}
	assert.Equal(t, uint64(4980), Timestamp{Minutes: 1, Seconds: 23}.FrameIndex(fps))

	ntsc := Rational{Num: 60000, Den: 1001}
	assert.Equal(t, uint64(599), Timestamp{Seconds: 10}.FrameIndex(ntsc))
}

func TestIntervalFrames(t *testing.T) {
	fps := Rational{Num: 60, Den: 1}
	start := Timestamp{Seconds: 10}
	end := Timestamp{Seconds: 25}
	assert.Equal(t, uint64(900), IntervalFrames(start, end, fps))
	assert.Equal(t, uint64(0), IntervalFrames(end, start, fps))
}

func TestParseRational(t *testing.T) {
	r, err := ParseRational("60000/1001")
	require.NoError(t, err)
	assert.Equal(t, Rational{Num: 60000, Den: 1001}, r)
	assert.InDelta(t, 59.94, r.Float(), 0.01)

	_, err = ParseRational("60")
	assert.Error(t, err)
}
