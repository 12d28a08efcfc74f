// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package video

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Rational is an exact frame rate as reported by ffprobe, for example
// 60000/1001 for NTSC rates.
type Rational struct {
	Num int
	Den int
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float returns the rate as a floating point value, 0 when the
// rational is unset.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

var rationalRe = regexp.MustCompile(`\A(\d+)/(\d+)\z`)

// ParseRational parses ffprobe's "num/den" rate notation.
func ParseRational(s string) (Rational, error) {
	m := rationalRe.FindStringSubmatch(s)
	if m == nil {
		return Rational{}, fmt.Errorf("invalid rational value: %q", s)
	}
	num, _ := strconv.Atoi(m[1])
	den, _ := strconv.Atoi(m[2])
	return Rational{Num: num, Den: den}, nil
}

// Timestamp is a video position with second granularity, parsed from
// "[hours:]minutes:seconds" notation.
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
}

var timestampRe = regexp.MustCompile(`\A(?:(\d{1,3}):)?(\d{1,2}):(\d{1,2})\z`)

// ParseTimestamp parses a "[HH:]MM:SS" string.
func ParseTimestamp(s string) (Timestamp, error) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp: %q", s)
	}
	var hours int
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return Timestamp{Hours: hours, Minutes: minutes, Seconds: seconds}, nil
}

func (t Timestamp) String() string {
	if t.Hours > 0 {
		return fmt.Sprintf("%d:%d:%d", t.Hours, t.Minutes, t.Seconds)
	}
	return fmt.Sprintf("%d:%d", t.Minutes, t.Seconds)
}

// FFmpegPosition returns the timestamp in the form ffmpeg's -ss and
// -to options accept.
func (t Timestamp) FFmpegPosition() string {
	return fmt.Sprintf("%d:%d:%d", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the position in seconds from the start of the
// video.
func (t Timestamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// FrameIndex returns the video frame index of the timestamp at the
// given frame rate.
func (t Timestamp) FrameIndex(fps Rational) uint64 {
	return uint64(math.Round(float64(t.TotalSeconds()) * fps.Float()))
}

// IntervalFrames returns the number of video frames between two
// timestamps, 0 when end is before start.
func IntervalFrames(start, end Timestamp, fps Rational) uint64 {
	seconds := end.TotalSeconds() - start.TotalSeconds()
	if seconds < 0 {
		return 0
	}
	return uint64(math.Round(float64(seconds) * fps.Float()))
}
