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

import "sort"

// NoLastFrame marks an unbounded upper video frame limit. Any
// negative value is treated the same way.
const NoLastFrame int64 = -1

// FrameSource is implemented by every view over an ascending,
// index-unique frame sequence.
type FrameSource interface {
	Frames() []Frame
}

// HighestFrameIndex returns the device clock index of the last frame
// of the source. ok is false when the source is empty.
func HighestFrameIndex(src FrameSource) (index uint32, ok bool) {
	frames := src.Frames()
	if len(frames) == 0 {
		return 0, false
	}
	return frames[len(frames)-1].Index(), true
}

// MaxUsedTileIndex returns the highest non zero tile index used by
// any frame of the source. ok is false when no frame uses any tile.
func MaxUsedTileIndex(src FrameSource) (index TileIndex, ok bool) {
	var max TileIndex
	for _, frame := range src.Frames() {
		if v := frame.Grid().MaxIndex(); v > max {
			max = v
		}
	}
	return max, max > 0
}

// SortedFrames owns the decoded frames of one OSD file, sorted
// ascending by device clock index with duplicate indices removed.
// It is read only after construction and safe for concurrent reads.
type SortedFrames struct {
	kind        Kind
	fontVariant FontVariant
	frames      []Frame
}

// NewSortedFrames sorts the raw decode stream (stable) and removes
// duplicate indices keeping the first occurrence in sort order.
func NewSortedFrames(kind Kind, fontVariant FontVariant, frames []Frame) *SortedFrames {
	sorted := make([]Frame, len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index() < sorted[j].Index()
	})
	uniq := sorted[:0]
	for _, frame := range sorted {
		if len(uniq) > 0 && uniq[len(uniq)-1].Index() == frame.Index() {
			continue
		}
		uniq = append(uniq, frame)
	}
	return &SortedFrames{kind: kind, fontVariant: fontVariant, frames: uniq}
}

func (s *SortedFrames) Kind() Kind               { return s.kind }
func (s *SortedFrames) FontVariant() FontVariant { return s.fontVariant }
func (s *SortedFrames) Len() int                 { return len(s.frames) }

// Frames returns the underlying ascending unique frame slice. It
// must not be mutated.
func (s *SortedFrames) Frames() []Frame {
	return s.frames
}

// SelectSlice restricts the collection to the frames whose shifted
// index (stored index + shift) falls within [first, last]; last is
// unbounded when negative. An empty result is valid.
func (s *SortedFrames) SelectSlice(first uint32, last int64, shift int32) *FrameSlice {
	firstTarget := int64(first) - int64(shift)
	firstIndex := -1
	for i, frame := range s.frames {
		if int64(frame.Index()) >= firstTarget {
			firstIndex = i
			break
		}
	}

	var frames []Frame
	switch {
	case firstIndex < 0:
		// no frame at or after the start of the range
	case last >= 0:
		lastTarget := last - int64(shift)
		for i := len(s.frames) - 1; i >= firstIndex; i-- {
			if int64(s.frames[i].Index()) <= lastTarget {
				frames = s.frames[firstIndex : i+1]
				break
			}
		}
	default:
		frames = s.frames[firstIndex:]
	}

	return &FrameSlice{
		kind:            s.kind,
		fontVariant:     s.fontVariant,
		frames:          frames,
		firstVideoFrame: first,
		lastVideoFrame:  last,
		shift:           shift,
	}
}

// AsSlice returns the whole collection as an unrestricted slice view.
func (s *SortedFrames) AsSlice() *FrameSlice {
	return &FrameSlice{
		kind:           s.kind,
		fontVariant:    s.fontVariant,
		frames:         s.frames,
		lastVideoFrame: NoLastFrame,
	}
}

// FrameSlice is a range restricted view over a SortedFrames. It
// borrows the frame data without copying it.
type FrameSlice struct {
	kind            Kind
	fontVariant     FontVariant
	frames          []Frame
	firstVideoFrame uint32
	lastVideoFrame  int64
	shift           int32
}

func (s *FrameSlice) Kind() Kind               { return s.kind }
func (s *FrameSlice) FontVariant() FontVariant { return s.fontVariant }
func (s *FrameSlice) Len() int                 { return len(s.frames) }
func (s *FrameSlice) FirstVideoFrame() uint32  { return s.firstVideoFrame }
func (s *FrameSlice) LastVideoFrame() int64    { return s.lastVideoFrame }
func (s *FrameSlice) Shift() int32             { return s.shift }

// Frames returns the borrowed frame slice. It must not be mutated.
func (s *FrameSlice) Frames() []Frame {
	return s.frames
}

// Realign returns an iterator producing one item per target video
// frame of the slice's range, starting at the slice's first video
// frame.
func (s *FrameSlice) Realign(eofAction EOFAction) *RealignIter {
	indexShift := s.shift - int32(s.firstVideoFrame)
	return newRealignIter(s.frames, indexShift, eofAction, s.lastVideoFrame)
}
