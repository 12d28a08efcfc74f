// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// ProbeError reports a video file that ffprobe could not inspect.
type ProbeError struct {
	Path   string
	Reason string
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("failed to probe video file %s: %s", e.Path, e.Reason)
}

// ProbeInfo is what overlay generation needs to know about a target
// video file.
type ProbeInfo struct {
	Resolution Resolution
	CodecName  string
	FrameRate  Rational
	FrameCount uint64
	// HasAudio distinguishes air unit recordings from goggles DVR
	// files; only air unit recordings carry an audio stream.
	HasAudio bool
}

// Probe inspects a video file with ffprobe.
func Probe(ctx context.Context, path string) (*ProbeInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, &ProbeError{Path: path, Reason: err.Error()}
	}
	info, err := parseProbeOutput(out)
	if err != nil {
		return nil, &ProbeError{Path: path, Reason: err.Error()}
	}
	return info, nil
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	NbFrames   string `json:"nb_frames"`
}

func parseProbeOutput(out []byte) (*ProbeInfo, error) {
	var doc struct {
		Streams []probeStream `json:"streams"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, fmt.Errorf("unparseable ffprobe output: %w", err)
	}

	var info ProbeInfo
	var video *probeStream
	for i, stream := range doc.Streams {
		switch stream.CodecType {
		case "audio":
			info.HasAudio = true
		case "video":
			if video == nil {
				video = &doc.Streams[i]
			}
		}
	}
	if video == nil {
		return nil, fmt.Errorf("cannot find video stream")
	}

	info.Resolution = Resolution{Width: video.Width, Height: video.Height}
	info.CodecName = video.CodecName

	rate, err := ParseRational(video.RFrameRate)
	if err != nil {
		return nil, fmt.Errorf("cannot parse video frame rate: %w", err)
	}
	info.FrameRate = rate

	// some containers do not record the frame count
	if video.NbFrames != "" {
		count, err := strconv.ParseUint(video.NbFrames, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse video frame count: %w", err)
		}
		info.FrameCount = count
	}

	return &info, nil
}
