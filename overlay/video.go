// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/sync/errgroup"

	osd "github.com/openfpv/go-osd"
)

// EncoderError reports an ffmpeg process that exited with an error.
type EncoderError struct {
	ExitCode int
	Stderr   string
}

func (e *EncoderError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg exited with code %d", e.ExitCode)
}

// stderrTail keeps the last part of a process's stderr output for
// error reporting without holding the whole stream.
type stderrTail struct {
	buf []byte
	max int
}

func (t *stderrTail) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *stderrTail) String() string {
	return string(t.buf)
}

// GenerateOverlayVideo renders the slice's realigned frame sequence
// into a VP9 webm video with an alpha channel, piping raw RGBA
// frames into ffmpeg. The output file must not exist yet.
func (g *Generator) GenerateOverlayVideo(ctx context.Context, slice *osd.FrameSlice, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return &TargetExistsError{Path: outputPath}
	}
	log.Printf("generating overlay video: %s", outputPath)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", g.resolution.String(),
		"-r", "60",
		"-i", "pipe:0",
		"-c:v", "libvpx-vp9",
		"-crf", "40",
		"-b:v", "0",
		"-pix_fmt", "yuva420p",
		outputPath,
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	tail := &stderrTail{max: 4096}
	cmd.Stderr = tail

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed spawning ffmpeg process: %w", err)
	}

	eofAction := osd.StopAtLastFrame
	if slice.LastVideoFrame() != osd.NoLastFrame {
		eofAction = osd.ContinueToLastVideoFrame
	}
	writeErr := g.writeRawFrames(ctx, slice.Realign(eofAction), stdin, runtime.NumCPU())
	stdin.Close()

	waitErr := cmd.Wait()
	if writeErr != nil {
		return fmt.Errorf("failed talking to ffmpeg process: %w", writeErr)
	}
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return &EncoderError{ExitCode: exitErr.ExitCode(), Stderr: tail.String()}
		}
		return waitErr
	}
	log.Printf("overlay video generation completed")
	return nil
}

// writeRawFrames streams the realigned sequence as raw RGBA frames.
// Frames are rendered by a bounded worker pool while a single writer
// preserves the sequence order; gap slots repeat the previous frame's
// bytes without re-rendering.
func (g *Generator) writeRawFrames(ctx context.Context, iter *osd.RealignIter, w io.Writer, workers int) error {
	if workers < 1 {
		workers = 1
	}

	// px carries the rendered frame for existing slots; nil marks a
	// slot repeating the previous one
	type slot struct {
		px chan []byte
	}
	slots := make(chan slot, 2*workers)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(slots)
		sem := make(chan struct{}, workers)
		for {
			item, ok := iter.Next()
			if !ok {
				return nil
			}
			var s slot
			if item.Kind == osd.ItemExisting {
				s.px = make(chan []byte, 1)
				frame := *item.Frame
				px := s.px
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					return ctx.Err()
				}
				go func() {
					defer func() { <-sem }()
					px <- g.DrawFrame(frame).Pix
				}()
			}
			select {
			case slots <- s:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	eg.Go(func() error {
		var last []byte
		for s := range slots {
			if s.px != nil {
				last = <-s.px
			} else if last == nil {
				last = g.BlankFrame().Pix
			}
			if _, err := w.Write(last); err != nil {
				return err
			}
		}
		return nil
	})

	return eg.Wait()
}
