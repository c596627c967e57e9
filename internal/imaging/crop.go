package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

// Crop extracts region from img. The region is given in image pixels relative
// to the image's top-left corner and is cut to the image bounds; a region with
// no overlap is an error.
func Crop(img image.Image, region geometry.Rect) (*image.NRGBA, error) {
	if region.Empty() {
		return nil, fmt.Errorf("invalid crop region %dx%d: width and height must be positive",
			region.Width, region.Height)
	}

	w, h := Size(img)
	clipped := region.Intersect(geometry.Rect{Width: w, Height: h})
	if clipped.Empty() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			region.X, region.Y, region.X+region.Width, region.Y+region.Height, w, h)
	}

	origin := img.Bounds().Min
	return imaging.Crop(img, clipped.Image().Add(origin)), nil
}

// Resize scales img to exactly width x height with a Lanczos filter. It is
// used to bring a screenshot crop back to physical pixel size.
func Resize(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}
