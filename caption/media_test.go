package caption

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	data := pngBytes(t, 8, 8)

	ct, err := ValidateImage(Image{Name: "a.png", ContentType: "image/png", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, err = ValidateImage(Image{Name: "a.bin", ContentType: "application/octet-stream", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
}

func TestValidateImage_TrustsDeclaredImageType(t *testing.T) {
	cases := []struct {
		img  Image
		want string
	}{
		{Image{Name: "a.heic", ContentType: "image/heic", Data: []byte("\x00\x00\x00\x18ftypheic")}, "image/heic"},
		{Image{Name: "a.svg", ContentType: "image/svg+xml", Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)}, "image/svg+xml"},
		{Image{Name: "a.png", ContentType: "image/jpeg", Data: pngBytes(t, 2, 2)}, "image/png"},
	}
	for _, c := range cases {
		ct, err := ValidateImage(c.img)
		require.NoError(t, err, c.img.Name)
		assert.Equal(t, c.want, ct, c.img.Name)
	}
}

func TestValidateImage_Rejects(t *testing.T) {
	cases := []Image{
		{Name: "empty.png", ContentType: "image/png"},
		{Name: "notes.txt", ContentType: "text/plain; charset=utf-8", Data: []byte("hello")},
		{Name: "junk", Data: []byte("definitely not pixels")},
	}
	for _, img := range cases {
		_, err := ValidateImage(img)
		assert.ErrorIs(t, err, ErrInvalidInput, img.Name)
	}
}

func TestThumbnail(t *testing.T) {
	out, err := Thumbnail(pngBytes(t, 40, 20), 16)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
}

func TestThumbnail_NotAnImage(t *testing.T) {
	_, err := Thumbnail([]byte("nope"), 16)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
