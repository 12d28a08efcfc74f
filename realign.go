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

// EOFAction selects what the realignment iterator does once the last
// decoded frame has been produced.
type EOFAction int

const (
	// StopAtLastFrame ends the sequence right after the last decoded
	// frame's slot.
	StopAtLastFrame EOFAction = iota
	// ContinueToLastVideoFrame keeps producing gap items up to the
	// requested last video frame.
	ContinueToLastVideoFrame
)

// EOFActions lists both actions, for exhaustive tests.
var EOFActions = []EOFAction{StopAtLastFrame, ContinueToLastVideoFrame}

func (a EOFAction) String() string {
	switch a {
	case StopAtLastFrame:
		return "StopAtLastFrame"
	case ContinueToLastVideoFrame:
		return "ContinueToLastVideoFrame"
	}
	return fmt.Sprintf("EOFAction(%d)", int(a))
}

// RealignItemKind tags one produced slot of the realignment
// sequence.
type RealignItemKind int

const (
	// ItemExisting marks a slot matching a decoded OSD frame exactly.
	ItemExisting RealignItemKind = iota
	// ItemFirstNonExisting marks slot 0 when no OSD frame exists at
	// or before it. Callers can render one blank frame and reuse it
	// for the following gap slots.
	ItemFirstNonExisting
	// ItemNonExisting marks a gap slot after at least one decoded
	// frame; the previous slot's output should be reused.
	ItemNonExisting
)

func (k RealignItemKind) String() string {
	switch k {
	case ItemExisting:
		return "Existing"
	case ItemFirstNonExisting:
		return "FirstNonExisting"
	case ItemNonExisting:
		return "NonExisting"
	}
	return fmt.Sprintf("RealignItemKind(%d)", int(k))
}

// RealignItem is one slot of the realigned sequence. RelIndex is the
// slot's index relative to the start of the requested range. For
// ItemNonExisting, PrevRelIndex is the slot of the last decoded
// frame, so callers can link to or reuse its output. Frame is set
// for ItemExisting only.
type RealignItem struct {
	Kind         RealignItemKind
	RelIndex     uint32
	PrevRelIndex uint32
	Frame        *Frame
}

func (it RealignItem) String() string {
	switch it.Kind {
	case ItemExisting:
		return fmt.Sprintf("e%d(%d)", it.RelIndex, it.Frame.Index())
	case ItemFirstNonExisting:
		return "c0"
	default:
		return fmt.Sprintf("l%d:%d", it.RelIndex, it.PrevRelIndex)
	}
}

// RealignIter maps the sparse device clock frame indices of an
// ascending unique frame slice onto the fixed rate frame clock of a
// target video, producing exactly one item per target frame slot.
//
// The iterator can be split at a frame offset into two halves whose
// concatenated output is identical to the unsplit sequence, enabling
// order preserving parallel fan-out. SplitAt must be called before
// Next.
type RealignIter struct {
	frames          []Frame
	frameIndex      int
	prevIndex       uint32
	videoFrameIndex uint32
	indexShift      int32
	// endIter marks the rightmost descendant of a chain of splits:
	// the only iterator allowed to apply the end of frames action.
	endIter        bool
	eofAction      EOFAction
	hasLast        bool
	lastVideoFrame uint32
}

// newRealignIter builds an iterator over frames whose shifted
// indices (index + indexShift) are all non negative. lastVideoFrame
// is relative to the same clock as indexShift's target and is
// shifted here; a negative value means unbounded.
func newRealignIter(frames []Frame, indexShift int32, eofAction EOFAction, lastVideoFrame int64) *RealignIter {
	it := &RealignIter{
		frames:     frames,
		indexShift: indexShift,
		endIter:    true,
		eofAction:  eofAction,
	}
	if lastVideoFrame >= 0 {
		it.hasLast = true
		if shifted := lastVideoFrame + int64(indexShift); shifted > 0 {
			it.lastVideoFrame = uint32(shifted)
		}
	}
	return it
}

// Len returns the exact number of items the unsplit iterator
// produces.
func (it *RealignIter) Len() int {
	if it.eofAction == ContinueToLastVideoFrame && it.hasLast {
		return int(it.lastVideoFrame) + 1
	}
	if len(it.frames) == 0 {
		return 0
	}
	last := int64(it.frames[len(it.frames)-1].Index()) + int64(it.indexShift) + 1
	if last < 0 {
		return 0
	}
	return int(last)
}

// Next produces the next slot item. ok is false once the sequence is
// exhausted.
func (it *RealignIter) Next() (item RealignItem, ok bool) {
	if it.frameIndex >= len(it.frames) {
		if it.endIter && it.eofAction == ContinueToLastVideoFrame &&
			it.hasLast && it.videoFrameIndex <= it.lastVideoFrame {
			item = RealignItem{
				Kind:         ItemNonExisting,
				RelIndex:     it.videoFrameIndex,
				PrevRelIndex: it.prevIndex,
			}
			it.videoFrameIndex++
			return item, true
		}
		return RealignItem{}, false
	}

	frame := &it.frames[it.frameIndex]
	actual := uint32(int64(frame.Index()) + int64(it.indexShift))

	switch {
	case it.videoFrameIndex == 0 && actual > 0:
		it.prevIndex = 0
		item = RealignItem{Kind: ItemFirstNonExisting}
	case it.videoFrameIndex < actual:
		item = RealignItem{
			Kind:         ItemNonExisting,
			RelIndex:     it.videoFrameIndex,
			PrevRelIndex: it.prevIndex,
		}
	case it.videoFrameIndex == actual:
		it.frameIndex++
		it.prevIndex = it.videoFrameIndex
		item = RealignItem{
			Kind:     ItemExisting,
			RelIndex: it.videoFrameIndex,
			Frame:    frame,
		}
	default:
		// reachable only if the frames were not ascending and unique
		panic("osd: realign iterator over unsorted or non-unique frames")
	}

	it.videoFrameIndex++
	return item, true
}

// SplitAt splits the iterator at frame offset n into two iterators
// whose concatenated output equals the remaining unsplit sequence.
// Only the right half keeps the end of frames responsibility, so tail
// gap items are never emitted twice.
func (it *RealignIter) SplitAt(n int) (left, right *RealignIter) {
	if n > it.frameIndex {
		left = &RealignIter{
			frames:          it.frames[:n],
			frameIndex:      it.frameIndex,
			prevIndex:       it.prevIndex,
			videoFrameIndex: it.videoFrameIndex,
			indexShift:      it.indexShift,
			endIter:         false,
			eofAction:       it.eofAction,
			hasLast:         it.hasLast,
			lastVideoFrame:  it.lastVideoFrame,
		}
		lastLeft := uint32(int64(it.frames[n-1].Index()) + int64(it.indexShift))
		right = &RealignIter{
			frames:          it.frames[n:],
			prevIndex:       lastLeft,
			videoFrameIndex: lastLeft + 1,
			indexShift:      it.indexShift,
			endIter:         it.endIter,
			eofAction:       it.eofAction,
			hasLast:         it.hasLast,
			lastVideoFrame:  it.lastVideoFrame,
		}
		return left, right
	}

	// split point before any remaining frame: the left half is a null
	// iterator and the right half continues from the current state
	left = &RealignIter{
		indexShift:     it.indexShift,
		endIter:        false,
		eofAction:      it.eofAction,
		hasLast:        it.hasLast,
		lastVideoFrame: it.lastVideoFrame,
	}
	right = &RealignIter{
		frames:          it.frames[n:],
		prevIndex:       it.prevIndex,
		videoFrameIndex: it.videoFrameIndex,
		indexShift:      it.indexShift,
		endIter:         it.endIter,
		eofAction:       it.eofAction,
		hasLast:         it.hasLast,
		lastVideoFrame:  it.lastVideoFrame,
	}
	return left, right
}

// Collect drains the iterator into a slice.
func (it *RealignIter) Collect() []RealignItem {
	var items []RealignItem
	for {
		item, ok := it.Next()
		if !ok {
			return items
		}
		items = append(items, item)
	}
}
