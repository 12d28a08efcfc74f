// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package overlay

import (
	"image"
	"runtime"
	"sync"

	"golang.org/x/image/draw"

	osd "github.com/openfpv/go-osd"
)

// resizeTiles rescales every tile to the given size. Catmull-Rom
// keeps the thin glyph outlines readable at the small factors used
// here.
func resizeTiles(tiles []*image.RGBA, dims osd.Dimensions) []*image.RGBA {
	resized := make([]*image.RGBA, len(tiles))

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	work := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				dst := image.NewRGBA(image.Rect(0, 0, dims.Width, dims.Height))
				draw.CatmullRom.Scale(dst, dst.Bounds(), tiles[i], tiles[i].Bounds(), draw.Src, nil)
				resized[i] = dst
			}
		}()
	}
	for i := range tiles {
		work <- i
	}
	close(work)
	wg.Wait()

	return resized
}
