package vectorize

import (
	imgcolor "image/color"

	"vectrace/pkg/cfg"
	"vectrace/pkg/color"
)

type borderVote struct {
	count int
	color imgcolor.NRGBA
}

// Background picks the most common color along the image border, ignoring
// alpha. Ties go to the brighter color, then to the lower packed RGB
// value. An empty image yields cfg.BackgroundColor.
func Background(img *color.Image) imgcolor.NRGBA {
	w, h := img.Width, img.Height
	if w == 0 || h == 0 {
		return cfg.BackgroundColor
	}

	votes := map[uint32]*borderVote{}
	sample := func(x, y int) {
		p := img.Pix[y*w+x]
		key := color.RGBKey(p)
		v, ok := votes[key]
		if !ok {
			v = &borderVote{color: p}
			votes[key] = v
		}
		v.count++
	}
	// A one-row image samples its row twice.
	for x := 0; x < w; x++ {
		sample(x, 0)
		sample(x, h-1)
	}
	for y := 1; y < h-1; y++ {
		sample(0, y)
		sample(w-1, y)
	}

	var best *borderVote
	for _, v := range votes {
		if best == nil || betterBackground(v, best) {
			best = v
		}
	}
	return best.color
}

func betterBackground(a, b *borderVote) bool {
	if a.count != b.count {
		return a.count > b.count
	}
	la, lb := color.LuminanceKey(a.color), color.LuminanceKey(b.color)
	if la != lb {
		return la > lb
	}
	return color.RGBKey(a.color) < color.RGBKey(b.color)
}
