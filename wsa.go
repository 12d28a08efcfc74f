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
	"encoding/binary"
	"fmt"
	"io"
	"regexp"

	"github.com/spf13/afero"
)

// Format B: Walksnail Avatar ".osd" recordings.
//
// Layout: a 40 byte header (4 ASCII firmware tag bytes, 32 reserved
// bytes, then u16 width and u16 height, little endian) followed by
// fixed size frame records. Each record is a u32 little endian
// timestamp in 100 microsecond units plus 1060 u16 tile indices for
// the 53x20 grid. The device does not store frame indices; they are
// derived from the timestamps at the fixed 60fps video rate.

const (
	wsaHeaderLen     = 40
	wsaFrameCells    = 1060
	wsaFrameLen      = 4 + 2*wsaFrameCells
	wsaFirstFramePos = int64(wsaHeaderLen)

	// Timestamp unit is 100us; at 60fps one video frame is
	// 10000000/60 of those units.
	wsaTimestampHz = 10000
	wsaVideoFPS    = 60
)

// wsaVideoFileRe matches the stem of Walksnail Avatar video files,
// capturing the recording number shared with the OSD file.
var wsaVideoFileRe = regexp.MustCompile(`\AAvatar[GS](\d{4})\z`)

// WSAInvalidHeaderError reports a header whose grid dimensions do not
// match the only layout the firmware writes.
type WSAInvalidHeaderError struct {
	Path       string
	Dimensions Dimensions
}

func (e *WSAInvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid OSD dimensions %v: %s", e.Dimensions, e.Path)
}

// WSAInvalidSizeError reports a file whose size is not a whole number
// of frame records.
type WSAInvalidSizeError struct {
	Path string
	Size int64
}

func (e *WSAInvalidSizeError) Error() string {
	return fmt.Sprintf("invalid OSD file size %d: %s", e.Size, e.Path)
}

// WSAHeader is the decoded fixed header of a Format B file.
type WSAHeader struct {
	FirmwareTag    string
	GridDimensions Dimensions
}

// WSAReader reads Format B recordings.
type WSAReader struct {
	f      afero.File
	path   string
	header WSAHeader
}

// OpenWSA opens a Format B file on the OS filesystem and validates
// its header and size.
func OpenWSA(path string) (*WSAReader, error) {
	return OpenWSAFs(afero.NewOsFs(), path)
}

// OpenWSAFs is OpenWSA over an arbitrary filesystem.
func OpenWSAFs(fsys afero.Fs, path string) (*WSAReader, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if (info.Size()-wsaHeaderLen)%wsaFrameLen != 0 {
		f.Close()
		return nil, &WSAInvalidSizeError{Path: path, Size: info.Size()}
	}

	raw := make([]byte, wsaHeaderLen)
	if _, err := io.ReadFull(f, raw); err != nil {
		f.Close()
		return nil, &UnexpectedEOFError{Path: path}
	}
	header := WSAHeader{
		FirmwareTag: string(raw[0:4]),
		GridDimensions: Dimensions{
			Width:  int(binary.LittleEndian.Uint16(raw[36:38])),
			Height: int(binary.LittleEndian.Uint16(raw[38:40])),
		},
	}
	if header.GridDimensions != dimensionsWSA {
		f.Close()
		return nil, &WSAInvalidHeaderError{Path: path, Dimensions: header.GridDimensions}
	}

	return &WSAReader{f: f, path: path, header: header}, nil
}

// Header returns the decoded file header.
func (r *WSAReader) Header() WSAHeader {
	return r.header
}

func (r *WSAReader) Kind() Kind {
	return KindWSA
}

func (r *WSAReader) FontVariant() FontVariant {
	return fontVariantFromWSATag(r.header.FirmwareTag)
}

// ReadFrame reads the next frame record, converting its timestamp to
// a 60fps video frame index.
func (r *WSAReader) ReadFrame() (Frame, error) {
	raw := make([]byte, wsaFrameLen)
	if _, err := io.ReadFull(r.f, raw); err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return Frame{}, &UnexpectedEOFError{Path: r.path}
		}
		return Frame{}, err
	}
	timestamp := binary.LittleEndian.Uint32(raw[0:4])
	index := uint32((uint64(timestamp)*wsaVideoFPS + wsaTimestampHz/2) / wsaTimestampHz)

	cells := make([]TileIndex, wsaFrameCells)
	for i := range cells {
		cells[i] = TileIndex(binary.LittleEndian.Uint16(raw[4+2*i:]))
	}
	return NewFrame(index, NewTileGridFromCells(dimensionsWSA, cells)), nil
}

func (r *WSAReader) rewind() error {
	_, err := r.f.Seek(wsaFirstFramePos, io.SeekStart)
	return err
}

// Frames decodes the whole file into a sorted, duplicate free
// collection.
func (r *WSAReader) Frames() (*SortedFrames, error) {
	if err := r.rewind(); err != nil {
		return nil, err
	}
	frames, err := decodeAll(r)
	if err != nil {
		return nil, err
	}
	return NewSortedFrames(KindWSA, r.FontVariant(), frames), nil
}

func (r *WSAReader) LastFrameIndex() (uint32, error) {
	var index uint32
	err := keepPosition(r.f, func() error {
		frames, err := r.Frames()
		if err != nil {
			return err
		}
		last, ok := HighestFrameIndex(frames)
		if !ok {
			return ErrNoFrames
		}
		index = last
		return nil
	})
	return index, err
}

func (r *WSAReader) MaxUsedTileIndex() (TileIndex, error) {
	var index TileIndex
	err := keepPosition(r.f, func() error {
		frames, err := r.Frames()
		if err != nil {
			return err
		}
		max, ok := MaxUsedTileIndex(frames)
		if !ok {
			return ErrNoFrames
		}
		index = max
		return nil
	})
	return index, err
}

func (r *WSAReader) Close() error {
	return r.f.Close()
}
