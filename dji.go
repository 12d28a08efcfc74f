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
	"log"

	"github.com/spf13/afero"
)

// Format A: DJI goggles / air unit "MSPOSD" recordings.
//
// Layout: 7 byte signature, an 11 byte little endian header, then a
// stream of variable length frame records. Frame payloads are always
// sized for the FakeHD 60x22 grid; the header declared dimensions
// only determine the kind, and with it the visible sub-rectangle.

const (
	djiSignature      = "MSPOSD\x00"
	djiHeaderLen      = 11
	djiFrameHeaderLen = 8
	djiFirstFramePos  = int64(len(djiSignature) + djiHeaderLen)

	// DJIMinFileVersion and DJIMaxFileVersion bound the supported
	// header version range.
	DJIMinFileVersion = 1
	DJIMaxFileVersion = 3
)

// InvalidSignatureError reports a file that does not start with the
// DJI OSD signature.
type InvalidSignatureError struct {
	Path string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid OSD file signature: %s", e.Path)
}

// UnsupportedVersionError reports a header version outside the
// supported range.
type UnsupportedVersionError struct {
	Path    string
	Version uint16
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported OSD file version %d: %s", e.Version, e.Path)
}

// InvalidDimensionsError reports header grid dimensions that do not
// match any known kind.
type InvalidDimensionsError struct {
	Path       string
	Dimensions Dimensions
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("invalid OSD dimensions %v: %s", e.Dimensions, e.Path)
}

// DJIHeader is the decoded fixed header of a Format A file.
type DJIHeader struct {
	FileVersion    uint16
	GridDimensions Dimensions
	TileDimensions Dimensions
	OffsetX        uint16
	OffsetY        uint16
	FontVariantID  byte
}

func decodeDJIHeader(b []byte) DJIHeader {
	return DJIHeader{
		FileVersion:    binary.LittleEndian.Uint16(b[0:2]),
		GridDimensions: Dimensions{Width: int(b[2]), Height: int(b[3])},
		TileDimensions: Dimensions{Width: int(b[4]), Height: int(b[5])},
		OffsetX:        binary.LittleEndian.Uint16(b[6:8]),
		OffsetY:        binary.LittleEndian.Uint16(b[8:10]),
		FontVariantID:  b[10],
	}
}

// DJIReader reads Format A recordings.
type DJIReader struct {
	f      afero.File
	path   string
	header DJIHeader
	kind   Kind

	warnedOutsideGrid bool
}

// OpenDJI opens a Format A file on the OS filesystem and validates
// its header.
func OpenDJI(path string) (*DJIReader, error) {
	return OpenDJIFs(afero.NewOsFs(), path)
}

// OpenDJIFs is OpenDJI over an arbitrary filesystem.
func OpenDJIFs(fsys afero.Fs, path string) (*DJIReader, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}

	sig := make([]byte, len(djiSignature))
	if _, err := io.ReadFull(f, sig); err != nil {
		f.Close()
		return nil, &InvalidSignatureError{Path: path}
	}
	if string(sig) != djiSignature {
		f.Close()
		return nil, &InvalidSignatureError{Path: path}
	}

	raw := make([]byte, djiHeaderLen)
	if _, err := io.ReadFull(f, raw); err != nil {
		f.Close()
		return nil, &UnexpectedEOFError{Path: path}
	}
	header := decodeDJIHeader(raw)

	if header.FileVersion < DJIMinFileVersion || header.FileVersion > DJIMaxFileVersion {
		f.Close()
		return nil, &UnsupportedVersionError{Path: path, Version: header.FileVersion}
	}
	kind, err := KindForDimensions(header.GridDimensions)
	if err != nil {
		f.Close()
		return nil, &InvalidDimensionsError{Path: path, Dimensions: header.GridDimensions}
	}

	log.Printf("detected OSD file with %s tile layout", kind)
	return &DJIReader{f: f, path: path, header: header, kind: kind}, nil
}

// Header returns the decoded file header.
func (r *DJIReader) Header() DJIHeader {
	return r.header
}

func (r *DJIReader) Kind() Kind {
	return r.kind
}

func (r *DJIReader) FontVariant() FontVariant {
	return fontVariantFromDJIID(r.header.FontVariantID)
}

// ReadFrame reads the next frame record. The returned frame's grid
// is always FakeHD sized, whatever the declared kind.
func (r *DJIReader) ReadFrame() (Frame, error) {
	hdr := make([]byte, djiFrameHeaderLen)
	if _, err := io.ReadFull(r.f, hdr); err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return Frame{}, &UnexpectedEOFError{Path: r.path}
		}
		return Frame{}, err
	}
	index := binary.LittleEndian.Uint32(hdr[0:4])
	dataLen := binary.LittleEndian.Uint32(hdr[4:8])

	payload := make([]byte, int(dataLen)*2)
	if _, err := io.ReadFull(r.f, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Frame{}, &UnexpectedEOFError{Path: r.path}
		}
		return Frame{}, err
	}
	cells := make([]TileIndex, dataLen)
	for i := range cells {
		cells[i] = TileIndex(binary.LittleEndian.Uint16(payload[2*i:]))
	}
	return NewFrame(index, NewTileGridFromCells(dimensionsFakeHD, cells)), nil
}

func (r *DJIReader) rewind() error {
	_, err := r.f.Seek(djiFirstFramePos, io.SeekStart)
	return err
}

// Frames decodes the whole file into a sorted, duplicate free
// collection. A frame using tiles outside the header declared
// visible rectangle triggers a single warning; the file may be
// mismatched or corrupted but still renders.
func (r *DJIReader) Frames() (*SortedFrames, error) {
	if err := r.rewind(); err != nil {
		return nil, err
	}
	frames, err := decodeAll(r)
	if err != nil {
		return nil, err
	}
	r.checkVisibleRect(frames)
	return NewSortedFrames(r.kind, r.FontVariant(), frames), nil
}

// checkVisibleRect scans frames in file order and stops at the first
// frame using a tile outside the declared visible rectangle.
func (r *DJIReader) checkVisibleRect(frames []Frame) {
	if r.warnedOutsideGrid {
		return
	}
	visible := r.header.GridDimensions
	for _, frame := range frames {
		outside := 0
		frame.Grid().VisitUsed(func(x, y int, index TileIndex) {
			if x >= visible.Width || y >= visible.Height {
				outside++
			}
		})
		if outside > 0 {
			r.warnedOutsideGrid = true
			log.Printf("warning: %s: frame %d uses %d tiles outside the declared %v grid, file may be corrupted or mismatched",
				r.path, frame.Index(), outside, visible)
			return
		}
	}
}

func (r *DJIReader) LastFrameIndex() (uint32, error) {
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

func (r *DJIReader) MaxUsedTileIndex() (TileIndex, error) {
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

func (r *DJIReader) Close() error {
	return r.f.Close()
}
