package helper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebPSquareAvatar(t *testing.T) {
	out, err := ConvertToWebP(pngBytes(t, 800, 600), WebPOptions{MaxW: 512, MaxH: 512, Square: true, Quality: 75})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 512, cfg.Height)
}

func TestConvertToWebPKeepsSmallImages(t *testing.T) {
	out, err := ConvertToWebP(pngBytes(t, 120, 80), WebPOptions{MaxW: 512, MaxH: 512})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
}

func TestConvertToWebPRejectsGarbage(t *testing.T) {
	_, err := ConvertToWebP([]byte("definitely not an image"), AvatarWebPOptions())
	assert.Error(t, err)

	_, err = ConvertToWebP(nil, AvatarWebPOptions())
	assert.Error(t, err)
}

func TestMemoryStorageOverwritesStableKey(t *testing.T) {
	s := NewMemoryStorage("https://cdn.test")
	url, err := s.Put(context.Background(), "profileImages/u1", []byte("a"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/profileImages/u1", url)

	_, err = s.Put(context.Background(), "profileImages/u1", []byte("b"), "image/webp")
	require.NoError(t, err)
	got, ok := s.Get("profileImages/u1")
	require.True(t, ok)
	assert.Equal(t, []byte("b"), got)
}
