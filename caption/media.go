package caption

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

// ValidateImage rejects payloads that are not images. A declared image/* type
// is trusted, even for formats Go cannot decode; any other declared type is
// rejected. Undeclared payloads are sniffed and then probed with the
// registered decoders. It returns the media type to send upstream.
func ValidateImage(img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", invalidInput("empty image %q", img.Name)
	}
	declared := mediaType(img.ContentType)
	undeclared := declared == "" || declared == "application/octet-stream"
	if !undeclared && !strings.HasPrefix(declared, "image/") {
		return "", invalidInput("%q has media type %s", img.Name, declared)
	}
	if sniffed := mediaType(http.DetectContentType(img.Data)); strings.HasPrefix(sniffed, "image/") {
		return sniffed, nil
	}
	if !undeclared {
		return declared, nil
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return "", invalidInput("%q is not a decodable image", img.Name)
	}
	return "image/" + format, nil
}

func mediaType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// Thumbnail renders data as a square JPEG preview of size px, padded white.
func Thumbnail(data []byte, size int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, invalidInput("cannot decode preview: %v", err)
	}
	img = imaging.Fit(img, size, size, imaging.Lanczos)
	b := img.Bounds()
	canvas := imaging.New(size, size, color.White)
	out := imaging.Paste(canvas, img, image.Pt((size-b.Dx())/2, (size-b.Dy())/2))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
