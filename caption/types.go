package caption

import (
	"context"
)

// PredictionResult is the normalized output of every strategy.
type PredictionResult struct {
	Caption string  `json:"caption" toml:"caption"`
	Action  *string `json:"action" toml:"action"`
}

// ActionOr returns the action label or def when the backend gave none.
func (r PredictionResult) ActionOr(def string) string {
	if r.Action == nil {
		return def
	}
	return *r.Action
}

// Image is an uploaded image payload.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Selection is either an uploaded image or a reference to a sample.
// Exactly one of Image and Sample is set.
type Selection struct {
	Image  *Image
	Sample string
}

func ImageSelection(img Image) Selection {
	return Selection{Image: &img}
}

func SampleSelection(id string) Selection {
	return Selection{Sample: id}
}

func (s Selection) IsEmpty() bool {
	return s.Image == nil && s.Sample == ""
}

func (s Selection) String() string {
	switch {
	case s.Image != nil:
		return "image:" + s.Image.Name
	case s.Sample != "":
		return "sample:" + s.Sample
	default:
		return "none"
	}
}

// Predictor turns a Selection into a PredictionResult.
type Predictor interface {
	Predict(ctx context.Context, sel Selection) (PredictionResult, error)
}

func strPtr(s string) *string {
	return &s
}
