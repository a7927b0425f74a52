// Package render draws simulation frames as PNG images, one file per
// frame. It is an offline output worker, not an interactive display.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	barneshut "github.com/milcsu09/Barnes-Hut"
	"github.com/milcsu09/Barnes-Hut/record"
)

// Options maps a world-space viewport onto a square image.
type Options struct {
	Size     int             // image width and height in pixels
	Viewport barneshut.Bound // world region drawn
	Dir      string          // output directory

	// bodies at or above TailMass are drawn as filled discs with a short
	// velocity tail; everything else is a single pixel.
	TailMass float64

	// MassStep sets the color ramp: one color band per MassStep of mass.
	// zero means everything draws white.
	MassStep float64
}

// Screen converts a world position to pixel coordinates.
func (o Options) Screen(p mgl64.Vec2) (x, y int) {
	half := o.Viewport.Width / 2
	sx := (p.X() - (o.Viewport.Center.X() - half)) / o.Viewport.Width
	sy := (p.Y() - (o.Viewport.Center.Y() - half)) / o.Viewport.Width
	return int(sx * float64(o.Size)), int(sy * float64(o.Size))
}

// Frames consumes frame jobs and writes Dir/<step>.png for each.
func Frames(opt Options, wg *sync.WaitGroup, ch <-chan *record.Frame) {
	defer wg.Done()

	bg := image.NewUniform(color.RGBA{10, 10, 10, 255})

	for job := range ch {
		film := image.NewRGBA(image.Rect(0, 0, opt.Size, opt.Size))
		draw.Draw(film, film.Bounds(), bg, image.Point{}, draw.Src)

		for i := range job.Bodies {
			b := &job.Bodies[i]
			x, y := opt.Screen(b.Pos)
			col := opt.massColor(b.Mass)

			if opt.TailMass > 0 && b.Mass >= opt.TailMass {
				// tail points opposite the velocity, a few steps long
				tx, ty := opt.Screen(b.Pos.Sub(b.Vel.Mul(4)))
				plotline(film, col, x, y, tx, ty)
				plotcirclefilled(film, col, x, y, 2)
			} else {
				film.Set(x, y, col)
			}
		}

		file, err := os.Create(filepath.Join(opt.Dir, fmt.Sprintf("%010d.png", job.Step)))
		if err != nil {
			panic(err)
		}
		png.Encode(file, film)
		file.Close()
	}
}

var (
	red    = color.RGBA{255, 0, 0, 255}
	green  = color.RGBA{0, 255, 0, 255}
	blue   = color.RGBA{0, 0, 255, 255}
	yellow = color.RGBA{255, 255, 0, 255}
	purple = color.RGBA{255, 0, 255, 255}
	cyan   = color.RGBA{0, 255, 255, 255}
)

func (o Options) massColor(m float64) color.Color {
	if o.MassStep <= 0 {
		return color.White
	}
	switch {
	case m > 6*o.MassStep:
		return red
	case m > 5*o.MassStep:
		return purple
	case m > 4*o.MassStep:
		return yellow
	case m > 3*o.MassStep:
		return green
	case m > 2*o.MassStep:
		return blue
	case m > 1*o.MassStep:
		return cyan
	default:
		return color.White
	}
}

// plotline draws a simple line on img from (x0,y0) to (x1,y1).
//
// This is basically a copy of a version of Bresenham's line algorithm
// from https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm.
func plotline(img draw.Image, c color.Color, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// abs cuz no integer abs function in the Go standard library.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// plotcirclefilled draws a filled circle at (x0,y0) of radius r.
func plotcirclefilled(img draw.Image, c color.Color, x0, y0, r int) {
	rsqr := float64(r * r)
	for y := r; y >= 0; y-- {
		xright := int(math.Sqrt(rsqr - float64(y*y)))
		for x := -xright; x <= xright; x++ {
			img.Set(x0+x, y0+y, c)
			img.Set(x0+x, y0-y, c)
		}
	}
}
