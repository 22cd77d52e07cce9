package helper

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"englishku_backend/internals/configs"
)

type WebPOptions struct {
	MaxW    int // resize bound, keeps aspect
	MaxH    int
	Square  bool    // center-crop to a square first (avatars)
	Quality float32 // lossy quality 0..100
}

func AvatarWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:    configs.GetEnvInt("IMAGE_AVATAR_MAX", 512),
		MaxH:    configs.GetEnvInt("IMAGE_AVATAR_MAX", 512),
		Square:  true,
		Quality: float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
	}
}

// ConvertToWebP decodes jpeg/png/gif/webp (honouring EXIF orientation from
// phone cameras), optionally crops, downscales and re-encodes as WebP.
func ConvertToWebP(data []byte, opts WebPOptions) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unsupported image: %w", err)
	}

	if opts.Square {
		b := img.Bounds()
		side := b.Dx()
		if b.Dy() < side {
			side = b.Dy()
		}
		img = imaging.CropCenter(img, side, side)
	}
	img = downscaleIfNeeded(img, opts.MaxW, opts.MaxH)

	q := opts.Quality
	if q <= 0 || q > 100 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// downscaleIfNeeded keeps aspect ratio; CatmullRom gives the best quality
// for photos.
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
