package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/go-resty/resty/v2"
	"github.com/krau/konacaption/config"
)

const localPredictPath = "/predict"

type localResponse struct {
	Caption *string `json:"caption"`
	Action  *string `json:"action"`
	Error   *string `json:"error"`
}

// localStrategy uploads the image as multipart field "image" to a backend
// that answers {caption, action?} or {error}.
type localStrategy struct {
	client  *resty.Client
	samples fs.FS
	catalog *Catalog
}

func (s *localStrategy) mode() config.Mode { return config.ModeLocal }

func (s *localStrategy) predict(ctx context.Context, reqID string, sel Selection) (PredictionResult, error) {
	img, err := loadSelection(s.samples, s.catalog, sel)
	if err != nil {
		return PredictionResult{}, err
	}
	ct, err := ValidateImage(img)
	if err != nil {
		return PredictionResult{}, err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, reqID).
		SetMultipartField("image", img.Name, ct, bytes.NewReader(img.Data)).
		Post(localPredictPath)
	if err != nil {
		return PredictionResult{}, networkFailure(err)
	}

	var body localResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		if resp.IsSuccess() {
			return PredictionResult{}, malformed("undecodable body: %v", err)
		}
		return PredictionResult{}, networkFailure(fmt.Errorf("status %d", resp.StatusCode()))
	}
	// The backend signals failure in-band; honour it whatever the status code.
	if body.Error != nil && *body.Error != "" {
		return PredictionResult{}, backendError(*body.Error)
	}
	if !resp.IsSuccess() {
		return PredictionResult{}, networkFailure(fmt.Errorf("status %d", resp.StatusCode()))
	}
	if body.Caption == nil {
		return PredictionResult{}, malformed("response has no caption")
	}
	return PredictionResult{Caption: *body.Caption, Action: body.Action}, nil
}
