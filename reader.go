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
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNoFrames is returned by whole-file queries on files that contain
// no frame records.
var ErrNoFrames = errors.New("OSD file contains no frames")

// UnexpectedEOFError reports a truncated frame record.
type UnexpectedEOFError struct {
	Path string
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of file: %s", e.Path)
}

// Reader reads one OSD recording. Implementations are not safe for
// concurrent use; decode once into a SortedFrames for concurrent
// consumption.
type Reader interface {
	// Kind returns the grid kind declared by the file header.
	Kind() Kind
	// FontVariant returns the font variant declared by the file
	// header.
	FontVariant() FontVariant
	// ReadFrame reads the next frame record. It returns io.EOF at
	// the end of the recording.
	ReadFrame() (Frame, error)
	// Frames rewinds to the first record and decodes the whole file
	// into a sorted, duplicate free collection.
	Frames() (*SortedFrames, error)
	// LastFrameIndex decodes the whole file and returns the highest
	// device clock frame index. The read position is restored, so
	// repeated calls are safe.
	LastFrameIndex() (uint32, error)
	// MaxUsedTileIndex decodes the whole file and returns the
	// highest tile index used by any frame. The read position is
	// restored.
	MaxUsedTileIndex() (TileIndex, error)

	Close() error
}

// Open opens either supported OSD file format on the OS filesystem,
// sniffing the DJI signature to pick the decoder.
func Open(path string) (Reader, error) {
	return OpenFs(afero.NewOsFs(), path)
}

// OpenFs is Open over an arbitrary filesystem.
func OpenFs(fsys afero.Fs, path string) (Reader, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	sig := make([]byte, len(djiSignature))
	_, err = io.ReadFull(f, sig)
	f.Close()
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	if string(sig) == djiSignature {
		return OpenDJIFs(fsys, path)
	}
	return OpenWSAFs(fsys, path)
}

// FindAssociatedOSDFile looks for the OSD file recorded alongside a
// Walksnail Avatar video file: AvatarG0005.mp4 and AvatarS0005.mp4
// are both paired with AvatarG0005.osd in the same directory. It
// returns "" when no such file exists.
func FindAssociatedOSDFile(videoPath string) string {
	return FindAssociatedOSDFileFs(afero.NewOsFs(), videoPath)
}

// FindAssociatedOSDFileFs is FindAssociatedOSDFile over an arbitrary
// filesystem.
func FindAssociatedOSDFileFs(fsys afero.Fs, videoPath string) string {
	stem := filepath.Base(videoPath)
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	m := wsaVideoFileRe.FindStringSubmatch(stem)
	if m == nil {
		return ""
	}
	osdPath := filepath.Join(filepath.Dir(videoPath), "AvatarG"+m[1]+".osd")
	if info, err := fsys.Stat(osdPath); err == nil && info.Mode().IsRegular() {
		return osdPath
	}
	return ""
}

// decodeAll drains a reader from its current position.
func decodeAll(r Reader) ([]Frame, error) {
	var frames []Frame
	for {
		frame, err := r.ReadFrame()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
}

// keepPosition runs fn and restores the file read position afterward.
func keepPosition(f afero.File, fn func() error) error {
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	fnErr := fn()
	if _, err := f.Seek(pos, io.SeekStart); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}
