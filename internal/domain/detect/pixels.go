package detect

import (
	"image"
	"image/color"

	"github.com/forPelevin/furycut/internal/types"
)

// crop returns the sub-image for r, or an *ExtractionError when r does not lie
// fully inside the frame. A bad crop means the wrong profile was selected for
// this capture, so it must surface instead of silently producing garbage.
func crop(img image.Image, r types.Region) (image.Image, error) {
	b := img.Bounds()
	want := image.Rect(b.Min.X+r.X, b.Min.Y+r.Y, b.Min.X+r.X+r.Width, b.Min.Y+r.Y+r.Height)
	if r.Width <= 0 || r.Height <= 0 || !want.In(b) {
		return nil, &ExtractionError{Rect: r, Frame: b}
	}
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(want), nil
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			out.Set(x, y, img.At(want.Min.X+x, want.Min.Y+y))
		}
	}
	return out, nil
}

// grayValues flattens the image into 8-bit luma intensities.
func grayValues(img image.Image) []uint8 {
	b := img.Bounds()
	out := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			out = append(out, g.Y)
		}
	}
	return out
}

func meanIntensity(vals []uint8) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range vals {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(vals))
}

// percentile returns the smallest intensity at or below which at least
// pct percent of the pixels fall.
func percentile(vals []uint8, pct float64) uint8 {
	if len(vals) == 0 {
		return 0
	}
	var hist [256]int
	for _, v := range vals {
		hist[v]++
	}
	target := int(pct / 100 * float64(len(vals)))
	if target < 1 {
		target = 1
	}
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if cum >= target {
			return uint8(v)
		}
	}
	return 255
}

// binarizeInverted maps pixels at or below threshold to black and the rest to
// white, producing dark text on a light background for the recognizer.
func binarizeInverted(img image.Image, threshold uint8) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			v := uint8(255)
			if g.Y <= threshold {
				v = 0
			}
			out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: v})
		}
	}
	return out
}
