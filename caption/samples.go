package caption

import (
	"errors"
	"io/fs"
	"mime"
	"path"
	"strings"
)

// loadSelection turns a Selection into image bytes. Samples are read from the
// sample filesystem; a stem is first expanded through the catalog.
func loadSelection(samples fs.FS, catalog *Catalog, sel Selection) (Image, error) {
	if sel.Image != nil {
		return *sel.Image, nil
	}
	return ReadSample(samples, catalog, sel.Sample)
}

// ReadSample reads the sample id from samples.
func ReadSample(samples fs.FS, catalog *Catalog, id string) (Image, error) {
	name := id
	if catalog != nil {
		if full, ok := catalog.Resolve(id); ok {
			name = full
		}
	}
	name = strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "/")
	if samples == nil || !fs.ValidPath(name) {
		return Image{}, sampleNotFound(id)
	}
	data, err := fs.ReadFile(samples, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return Image{}, sampleNotFound(id)
		}
		return Image{}, &Error{Kind: KindSampleNotFound, Message: id, Err: err}
	}
	return Image{
		Name:        path.Base(name),
		ContentType: mime.TypeByExtension(path.Ext(name)),
		Data:        data,
	}, nil
}
