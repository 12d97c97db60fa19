// Package imaging holds the raster operations the renderer needs: integer
// upscaling, quarter-turn rotation, quiet-zone padding and physical-size
// resampling. All of them use nearest-neighbour sampling so module edges stay
// hard.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	// DPI is the print resolution physical sizes are converted at.
	DPI = 300
	// PixelsPerMeter is DPI expressed in the unit PNG's pHYs chunk uses.
	PixelsPerMeter = 11811

	cmPerInch = 2.54
)

// CMToDots is the unrounded pixel length of cm at DPI.
func CMToDots(cm float64) float64 {
	return cm / cmPerInch * DPI
}

// CMToPixels converts a length in centimetres to pixels at DPI.
func CMToPixels(cm float64) int {
	return int(math.Round(CMToDots(cm)))
}

// ToGray copies img into a grayscale image anchored at the origin.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Pad surrounds img with white margins: marginX pixels left and right,
// marginY pixels top and bottom.
func Pad(img *image.Gray, marginX, marginY int) *image.Gray {
	if marginX <= 0 && marginY <= 0 {
		return img
	}
	marginX, marginY = max(marginX, 0), max(marginY, 0)

	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()+2*marginX, b.Dy()+2*marginY))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(marginX, marginY, marginX+b.Dx(), marginY+b.Dy()), img, b.Min, draw.Src)
	return dst
}

// ScaleInt enlarges img by an integer factor.
func ScaleInt(img *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return Resize(img, b.Dx()*factor, b.Dy()*factor)
}

// Resize resamples img to width x height with nearest-neighbour
// interpolation.
func Resize(img *image.Gray, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Rotate turns img clockwise by degrees, which must be a multiple of 90.
func Rotate(img *image.Gray, degrees int) (*image.Gray, error) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	var (
		s2d  f64.Aff3
		size image.Rectangle
	)
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return img, nil
	case 90:
		s2d = f64.Aff3{0, -1, h, 1, 0, 0}
		size = image.Rect(0, 0, b.Dy(), b.Dx())
	case 180:
		s2d = f64.Aff3{-1, 0, w, 0, -1, h}
		size = image.Rect(0, 0, b.Dx(), b.Dy())
	case 270:
		s2d = f64.Aff3{0, 1, 0, -1, 0, w}
		size = image.Rect(0, 0, b.Dy(), b.Dx())
	default:
		return nil, fmt.Errorf("unsupported rotation %d", degrees)
	}

	if b.Min != (image.Point{}) {
		img = ToGray(img)
	}
	dst := image.NewGray(size)
	draw.NearestNeighbor.Transform(dst, s2d, img, img.Bounds(), draw.Src, nil)
	return dst, nil
}
