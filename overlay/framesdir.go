// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	osd "github.com/openfpv/go-osd"
)

// TargetExistsError reports an output path that already exists;
// nothing is ever overwritten.
type TargetExistsError struct {
	Path string
}

func (e *TargetExistsError) Error() string {
	return fmt.Sprintf("target already exists: %s", e.Path)
}

// FrameFilePath returns the path of one overlay frame PNG inside a
// frames directory. Files are named so that ffmpeg's image2 demuxer
// picks them up in order with -i %010d.png.
func FrameFilePath(dir string, videoFrameIndex uint32) string {
	return filepath.Join(dir, fmt.Sprintf("%010d.png", videoFrameIndex))
}

// gapFrame records a slot to fill after rendering: the slot links to
// the last rendered slot before it.
type gapFrame struct {
	relIndex     uint32
	prevRelIndex uint32
	first        bool
}

// splitIter cuts the iterator into at most n chunks of roughly equal
// frame counts. Chunk boundaries fall between frames so each chunk
// can render independently.
func splitIter(iter *osd.RealignIter, frameCount, n int) []*osd.RealignIter {
	if n < 1 {
		n = 1
	}
	chunkSize := (frameCount + n - 1) / n
	var chunks []*osd.RealignIter
	rest := iter
	for chunkSize > 0 && frameCount > chunkSize {
		var left *osd.RealignIter
		left, rest = rest.SplitAt(chunkSize)
		chunks = append(chunks, left)
		frameCount -= chunkSize
	}
	return append(chunks, rest)
}

// SaveFramesToDir renders the slice's realigned frame sequence into
// a directory of PNG files, one per target video frame. Gap slots are
// hard linked to the previous rendered slot, falling back to copying
// on filesystems without hard link support. The directory must not
// exist yet.
func (g *Generator) SaveFramesToDir(ctx context.Context, slice *osd.FrameSlice, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return &TargetExistsError{Path: dir}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	log.Printf("generating overlay frames and saving into directory: %s", dir)

	eofAction := osd.StopAtLastFrame
	if slice.LastVideoFrame() != osd.NoLastFrame {
		eofAction = osd.ContinueToLastVideoFrame
	}

	workers := runtime.NumCPU()
	chunks := splitIter(slice.Realign(eofAction), slice.Len(), workers)

	// render existing frames in parallel; gap slots are collected per
	// chunk and filled in afterwards so links always have a target
	gaps := make([][]gapFrame, len(chunks))
	eg, ctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		eg.Go(func() error {
			for {
				item, ok := chunk.Next()
				if !ok {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				switch item.Kind {
				case osd.ItemExisting:
					if err := g.writePNG(FrameFilePath(dir, item.RelIndex), item.Frame); err != nil {
						return err
					}
				case osd.ItemFirstNonExisting:
					gaps[i] = append(gaps[i], gapFrame{first: true})
				case osd.ItemNonExisting:
					gaps[i] = append(gaps[i], gapFrame{relIndex: item.RelIndex, prevRelIndex: item.PrevRelIndex})
				}
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	log.Printf("linking missing overlay frames")
	for _, chunkGaps := range gaps {
		for _, gap := range chunkGaps {
			if err := g.fillGap(dir, gap); err != nil {
				return err
			}
		}
	}
	log.Printf("overlay frames generation completed")
	return nil
}

func (g *Generator) writePNG(path string, frame *osd.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, g.DrawFrame(*frame)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fillGap materializes one gap slot. The first slot of an entirely
// empty range gets a blank frame; any other gap links to the slot it
// repeats.
func (g *Generator) fillGap(dir string, gap gapFrame) error {
	if gap.first || gap.relIndex == gap.prevRelIndex {
		return g.writeBlankPNG(FrameFilePath(dir, gap.relIndex))
	}
	src := FrameFilePath(dir, gap.prevRelIndex)
	dst := FrameFilePath(dir, gap.relIndex)
	if _, err := os.Stat(src); err != nil {
		// the previous slot was itself a gap that has not been
		// materialized yet; only possible when the whole range is
		// empty, so a blank frame is correct
		return g.writeBlankPNG(dst)
	}
	if err := os.Link(src, dst); err != nil {
		return copyFile(src, dst)
	}
	return nil
}

func (g *Generator) writeBlankPNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, g.BlankFrame()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
