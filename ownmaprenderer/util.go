package ownmaprenderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

func NewImageWithBackground(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)

	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	return img
}

// drawWithOpacity draws src over dst, with src's alpha scaled by opacity (0-1)
func drawWithOpacity(dst draw.Image, src image.Image, opacity float64) {
	if opacity >= 1 {
		draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Over)
		return
	}

	if opacity <= 0 {
		return
	}

	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 0xff))})
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
}
