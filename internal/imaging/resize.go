package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FitWidth shrinks img so that it is at most maxWidth pixels wide, keeping the
// aspect ratio. Images that already fit (or a non-positive maxWidth) are
// returned unchanged. The returned image always starts at (0,0).
//
// Vision requests carry whole screenshots, so they are downscaled before
// encoding; callers convert answers back with the returned image's size.
func FitWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || width <= maxWidth || width == 0 {
		return img
	}

	newWidth := maxWidth
	newHeight := height * maxWidth / width
	if newHeight < 1 {
		newHeight = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, xdraw.Over, nil)
	return resized
}
