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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrames(indices ...uint32) []Frame {
	frames := make([]Frame, len(indices))
	for i, index := range indices {
		frames[i] = NewFrame(index, NewTileGrid(dimensionsHD))
	}
	return frames
}

func itemsString(items []RealignItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func TestRealignProducesOneItemPerVideoFrame(t *testing.T) {
	frames := NewSortedFrames(KindHD, FontArdupilot, testFrames(5, 8, 10, 11, 14))

	iter := frames.AsSlice().Realign(StopAtLastFrame)
	require.Equal(t, 15, iter.Len())
	items := iter.Collect()
	require.Len(t, items, 15)
	assert.Equal(t,
		"c0 l1:0 l2:0 l3:0 l4:0 e5(5) l6:5 l7:5 e8(8) l9:8 e10(10) e11(11) l12:11 l13:11 e14(14)",
		itemsString(items))
}

func TestRealignContinuesToLastVideoFrame(t *testing.T) {
	frames := NewSortedFrames(KindHD, FontArdupilot, testFrames(5, 8, 10, 11, 14))

	iter := frames.SelectSlice(0, 17, 0).Realign(ContinueToLastVideoFrame)
	require.Equal(t, 18, iter.Len())
	items := iter.Collect()
	require.Len(t, items, 18)
	assert.Equal(t, "l15:14 l16:14 l17:14", itemsString(items[15:]))
}

func TestRealignFirstFrameAtZero(t *testing.T) {
	frames := NewSortedFrames(KindHD, FontINAV, testFrames(0, 2))

	items := frames.AsSlice().Realign(StopAtLastFrame).Collect()
	assert.Equal(t, "e0(0) l1:0 e2(2)", itemsString(items))
}

func TestRealignEmptySlice(t *testing.T) {
	frames := NewSortedFrames(KindHD, FontINAV, nil)

	iter := frames.AsSlice().Realign(StopAtLastFrame)
	assert.Equal(t, 0, iter.Len())
	assert.Empty(t, iter.Collect())

	iter = frames.SelectSlice(0, 2, 0).Realign(ContinueToLastVideoFrame)
	require.Equal(t, 3, iter.Len())
	assert.Equal(t, "l0:0 l1:0 l2:0", itemsString(iter.Collect()))
}

func TestRealignShiftedSlice(t *testing.T) {
	frames := NewSortedFrames(KindHD, FontINAV, testFrames(5, 8))

	// shift -3 realigns frame 5 onto video frame 2 and frame 8 onto 5
	items := frames.SelectSlice(0, NoLastFrame, -3).Realign(StopAtLastFrame).Collect()
	assert.Equal(t, "c0 l1:0 e2(5) l3:2 l4:2 e5(8)", itemsString(items))

	// starting at video frame 4 shifts the relative indices down
	items = frames.SelectSlice(4, NoLastFrame, 0).Realign(StopAtLastFrame).Collect()
	assert.Equal(t, "c0 e1(5) l2:1 l3:1 e4(8)", itemsString(items))
}

// Splitting an iterator at any frame offset must leave the
// concatenated output of the two halves identical to the unsplit
// sequence, for every combination of range restriction, shift and
// end of frames action.
func TestRealignSplitMatchesUnsplit(t *testing.T) {
	frames := NewSortedFrames(KindHD, FontArdupilot, testFrames(5, 8, 10, 11, 14))

	for _, eofAction := range EOFActions {
		for first := uint32(0); first < 15; first++ {
			for last := int64(first); last < 18; last++ {
				lastVideoFrame := last
				if last == 15 {
					lastVideoFrame = NoLastFrame
				}
				for shift := int32(-15); shift < 15; shift++ {
					slice := frames.SelectSlice(first, lastVideoFrame, shift)

					want := itemsString(slice.Realign(eofAction).Collect())

					for split := 0; split <= slice.Len(); split++ {
						desc := fmt.Sprintf("eof=%v first=%d last=%d shift=%d split=%d",
							eofAction, first, lastVideoFrame, shift, split)

						left, right := slice.Realign(eofAction).SplitAt(split)
						items := append(left.Collect(), right.Collect()...)
						require.Equal(t, want, itemsString(items), desc)
					}
				}
			}
		}
	}
}
