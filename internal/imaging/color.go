package imaging

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

// markerPalette lists the candidate crosshair colours in order of preference.
var markerPalette = []color.RGBA{
	{R: 255, G: 0, B: 0, A: 255},   // red
	{R: 0, G: 255, B: 255, A: 255}, // cyan
	{R: 255, G: 255, B: 0, A: 255}, // yellow
	{R: 255, G: 0, B: 255, A: 255}, // magenta
	{R: 0, G: 255, B: 0, A: 255},   // lime
}

// minMarkerDistance is the CIEDE2000 distance above which red is always kept.
const minMarkerDistance = 25.0

// AverageColor returns the mean colour of region (image pixels, cut to the
// image). An empty overlap yields opaque black.
func AverageColor(img image.Image, region geometry.Rect) color.RGBA {
	w, h := Size(img)
	region = region.Intersect(geometry.Rect{Width: w, Height: h})
	if region.Empty() {
		return color.RGBA{A: 255}
	}

	origin := img.Bounds().Min
	var rSum, gSum, bSum, n uint64
	for y := region.Y; y < region.Y+region.Height; y++ {
		for x := region.X; x < region.X+region.Width; x++ {
			r, g, b, _ := img.At(origin.X+x, origin.Y+y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(b >> 8)
			n++
		}
	}

	return color.RGBA{
		R: uint8(rSum / n),
		G: uint8(gSum / n),
		B: uint8(bSum / n),
		A: 255,
	}
}

// ContrastColor picks a marker colour for drawing over background. Red is
// used whenever it is perceptually far enough from the background; otherwise
// the palette entry with the largest CIEDE2000 distance wins.
func ContrastColor(background color.Color) color.RGBA {
	bg, _ := colorful.MakeColor(opaque(background))

	best := markerPalette[0]
	bestDist := -1.0
	for i, candidate := range markerPalette {
		c, _ := colorful.MakeColor(candidate)
		d := bg.DistanceCIEDE2000(c)
		if i == 0 && d >= minMarkerDistance {
			return candidate
		}
		if d > bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// ColorDistance returns the CIEDE2000 distance between two colours.
func ColorDistance(a, b color.Color) float64 {
	ca, _ := colorful.MakeColor(opaque(a))
	cb, _ := colorful.MakeColor(opaque(b))
	return ca.DistanceCIEDE2000(cb)
}

// opaque drops alpha so fully transparent pixels still convert.
func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}
