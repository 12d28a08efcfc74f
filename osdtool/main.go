package main

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

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	osd "github.com/openfpv/go-osd"
	"github.com/openfpv/go-osd/internal/config"
	"github.com/openfpv/go-osd/overlay"
	"github.com/openfpv/go-osd/video"
)

const usage = `usage: osdtool <command> [options] <file.osd>

commands:
  info    print information about an OSD file
  frames  render the OSD into a directory of PNG overlay frames
  video   render the OSD into a transparent webm overlay video

run osdtool <command> -h for command options`

func main() {
	err := runMain()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMain() error {
	if len(os.Args) < 2 {
		return errors.New(usage)
	}
	switch os.Args[1] {
	case "info":
		return runInfo(os.Args[2:])
	case "frames":
		return runFrames(os.Args[2:])
	case "video":
		return runVideo(os.Args[2:])
	default:
		return fmt.Errorf("unknown command %q\n\n%s", os.Args[1], usage)
	}
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: osdtool info <file.osd>")
	}

	reader, err := osd.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer reader.Close()

	switch r := reader.(type) {
	case *osd.DJIReader:
		header := r.Header()
		fmt.Println("OSD file type:     DJI FPV")
		fmt.Println("Format version:   ", header.FileVersion)
		fmt.Println("OSD size:         ", header.GridDimensions, "tiles")
		fmt.Println("OSD tile size:    ", header.TileDimensions, "px")
		fmt.Printf("OSD video offset:  %dx%d px\n", header.OffsetX, header.OffsetY)
		fmt.Printf("OSD font variant:  %d (%s)\n", header.FontVariantID, r.FontVariant())
	case *osd.WSAReader:
		header := r.Header()
		fmt.Println("OSD file type:     Walksnail Avatar")
		fmt.Printf("OSD font variant:  %s (%s)\n", strings.TrimRight(header.FirmwareTag, "\x00"), r.FontVariant())
	}

	frames, err := reader.Frames()
	if err != nil {
		return err
	}
	fmt.Println("Number of frames: ", frames.Len())

	lastIndex, ok := osd.HighestFrameIndex(frames)
	if !ok {
		return nil
	}
	fmt.Println("Last frame index: ", lastIndex)
	if lastIndex > 0 {
		interval := float64(lastIndex) / float64(frames.Len())
		fmt.Printf("OSD update rate:   %.1fHz (approximately every %.0f video frames)\n",
			60.0/interval, interval)
	}
	return nil
}

// renderOptions holds the flags shared by the frames and video
// commands plus everything derived from them.
type renderOptions struct {
	configPath  string
	fontDir     string
	fontIdent   string
	targetVideo string
	resolution  string
	scalingMode string
	minMargins  string
	minCoverage int
	start       string
	end         string
	frameShift  int
	hideRegions regionList
	hideItems   stringList
	output      string
}

// regionList collects repeated -hide-region flags.
type regionList []osd.Region

func (l *regionList) String() string {
	parts := make([]string, len(*l))
	for i, r := range *l {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

func (l *regionList) Set(s string) error {
	region, err := osd.ParseRegion(s)
	if err != nil {
		return err
	}
	*l = append(*l, region)
	return nil
}

// stringList collects repeated -hide-item flags.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, " ") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func (o *renderOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to a TOML configuration file")
	fs.StringVar(&o.fontDir, "font-dir", "", "directory containing font tile sets")
	fs.StringVar(&o.fontIdent, "font-ident", "", "force this font identifier, empty forces the generic set")
	fs.StringVar(&o.targetVideo, "target-video", "", "video file the overlay is intended for")
	fs.StringVar(&o.resolution, "resolution", "", "target video resolution ("+video.ValidTargetResolutions()+" or <width>x<height>)")
	fs.StringVar(&o.scalingMode, "scaling", "auto", "tile scaling mode: auto, yes or no")
	fs.StringVar(&o.minMargins, "min-margins", "", "minimum margins around the overlay as <horizontal>:<vertical> px")
	fs.IntVar(&o.minCoverage, "min-coverage", 0, "minimum percentage of the target video the overlay must cover")
	fs.StringVar(&o.start, "start", "", "start timestamp ([HH:]MM:SS)")
	fs.StringVar(&o.end, "end", "", "end timestamp ([HH:]MM:SS)")
	fs.IntVar(&o.frameShift, "frame-shift", 0, "OSD frame shift relative to the video, default is automatic")
	fs.Var(&o.hideRegions, "hide-region", "grid region (<x>,<y>[:<width>x<height>]) to erase, repeatable")
	fs.Var(&o.hideItems, "hide-item", "OSD item name to erase, repeatable")
	fs.StringVar(&o.output, "o", "", "output path")
}

// renderJob is a fully resolved render request.
type renderJob struct {
	generator *overlay.Generator
	slice     *osd.FrameSlice
	output    string
}

func prepareRenderJob(fs *flag.FlagSet, opts *renderOptions, outputSuffix string) (*renderJob, error) {
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("exactly one OSD file argument expected")
	}
	osdPath := fs.Arg(0)

	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.fontDir == "" {
		opts.fontDir = cfg.Fonts.Dir
	}

	flagSet := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { flagSet[f.Name] = true })

	var fontIdent *string
	switch {
	case flagSet["font-ident"]:
		fontIdent = &opts.fontIdent
	case cfg.Fonts.Ident != "":
		fontIdent = &cfg.Fonts.Ident
	}

	minMargins := cfg.Overlay.MinMargins()
	if opts.minMargins != "" {
		minMargins, err = overlay.ParseMargins(opts.minMargins)
		if err != nil {
			return nil, err
		}
	}
	minCoverage := cfg.Overlay.MinCoveragePercent
	if opts.minCoverage > 0 {
		minCoverage = opts.minCoverage
	}

	// probe the target video when given: it provides the target
	// resolution, the video length and the air unit clock shift
	var probe *video.ProbeInfo
	if opts.targetVideo != "" {
		probe, err = video.Probe(context.Background(), opts.targetVideo)
		if err != nil {
			return nil, err
		}
	}

	var targetResolution video.Resolution
	switch {
	case opts.resolution != "":
		targetResolution, err = video.ParseTargetResolution(opts.resolution)
		if err != nil {
			return nil, err
		}
	case probe != nil:
		targetResolution = probe.Resolution
	}

	var scaling overlay.Scaling
	switch opts.scalingMode {
	case "no":
		scaling = overlay.NoScaling(targetResolution)
	case "yes", "auto":
		if targetResolution == (video.Resolution{}) {
			return nil, fmt.Errorf("%s scaling needs a target resolution, pass -resolution or -target-video", opts.scalingMode)
		}
		if opts.scalingMode == "yes" {
			scaling = overlay.ForcedScaling(targetResolution, minMargins)
		} else {
			scaling = overlay.AutoScaling(targetResolution, minMargins, minCoverage)
		}
	default:
		return nil, fmt.Errorf("invalid scaling mode %q", opts.scalingMode)
	}

	reader, err := osd.Open(osdPath)
	if err != nil {
		return nil, err
	}
	frames, err := reader.Frames()
	reader.Close()
	if err != nil {
		return nil, err
	}

	slice, err := selectRange(frames, opts, probe, flagSet["frame-shift"])
	if err != nil {
		return nil, err
	}

	generator, err := overlay.NewGenerator(frames, overlay.NewFontDir(opts.fontDir), fontIdent, scaling,
		opts.hideRegions, opts.hideItems)
	if err != nil {
		return nil, err
	}

	output := opts.output
	if output == "" {
		output = defaultOutputPath(osdPath, opts.targetVideo, outputSuffix)
	}

	return &renderJob{generator: generator, slice: slice, output: output}, nil
}

// selectRange turns the start/end/frame-shift options into a frame
// slice. The overlay clock runs at 60 fps.
func selectRange(frames *osd.SortedFrames, opts *renderOptions, probe *video.ProbeInfo, shiftGiven bool) (*osd.FrameSlice, error) {
	overlayFPS := video.Rational{Num: 60, Den: 1}

	var first uint32
	if opts.start != "" {
		start, err := video.ParseTimestamp(opts.start)
		if err != nil {
			return nil, err
		}
		first = uint32(start.FrameIndex(overlayFPS))
	}

	last := osd.NoLastFrame
	switch {
	case opts.end != "":
		end, err := video.ParseTimestamp(opts.end)
		if err != nil {
			return nil, err
		}
		last = int64(end.FrameIndex(overlayFPS))
		if last <= int64(first) {
			return nil, fmt.Errorf("-end timestamp is not after -start")
		}
	case probe != nil && probe.FrameCount > 0:
		last = int64(probe.FrameCount) - 1
	}

	shift := int32(opts.frameShift)
	if !shiftGiven && probe != nil && probe.HasAudio {
		// audio marks a DJI air unit recording with a shifted OSD clock
		shift = osd.AirUnitFrameShift
	}

	return frames.SelectSlice(first, last, shift), nil
}

// defaultOutputPath derives the output path from the target video file
// when given, else from the OSD file.
func defaultOutputPath(osdPath, targetVideo, suffix string) string {
	base := osdPath
	if targetVideo != "" {
		base = targetVideo
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + suffix
}

func runFrames(args []string) error {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	opts := &renderOptions{}
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	job, err := prepareRenderJob(fs, opts, "_osd_frames")
	if err != nil {
		return err
	}
	return job.generator.SaveFramesToDir(context.Background(), job.slice, job.output)
}

func runVideo(args []string) error {
	fs := flag.NewFlagSet("video", flag.ExitOnError)
	opts := &renderOptions{}
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	job, err := prepareRenderJob(fs, opts, "_osd.webm")
	if err != nil {
		return err
	}
	return job.generator.GenerateOverlayVideo(context.Background(), job.slice, job.output)
}
