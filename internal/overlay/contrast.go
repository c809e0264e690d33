package overlay

import (
	"image"
	"image/color"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// MeanColor averages the RGB channels of img inside r, ignoring alpha. The
// channel means are truncated to integers. An empty intersection yields black.
func MeanColor(img *image.NRGBA, r image.Rectangle) color.NRGBA {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return black
	}
	var sr, sg, sb, n uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		row := img.Pix[off : off+r.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			sr += uint64(row[i])
			sg += uint64(row[i+1])
			sb += uint64(row[i+2])
			n++
		}
	}
	return color.NRGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 255}
}

// Luminance returns the perceived brightness of c in [0,1] using the
// 0.299/0.587/0.114 channel weights.
func Luminance(c color.NRGBA) float64 {
	return float64(weightedSum(c)) / 255000
}

// ContrastColor picks white text for dark backgrounds and black text for
// light ones. The comparison runs on the integer weighted sum, so a
// luminance of exactly 0.5 always selects black.
func ContrastColor(bg color.NRGBA) color.NRGBA {
	if weightedSum(bg) < 127500 {
		return white
	}
	return black
}

func weightedSum(c color.NRGBA) int {
	return 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
}
