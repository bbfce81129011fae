package caption

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/go-resty/resty/v2"
	"github.com/krau/konacaption/config"
)

const remotePredictPath = "/api/predict"

type remoteRequest struct {
	Data []string `json:"data"`
}

type remoteResponse struct {
	Data  []json.RawMessage `json:"data"`
	Error *string           `json:"error"`
}

// remoteStrategy posts a base64 data URL to a hosted endpoint whose answer is
// positional: data[0] is the caption, data[1] the action.
type remoteStrategy struct {
	client  *resty.Client
	samples fs.FS
	catalog *Catalog
}

func (s *remoteStrategy) mode() config.Mode { return config.ModeRemote }

func (s *remoteStrategy) predict(ctx context.Context, reqID string, sel Selection) (PredictionResult, error) {
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
		SetHeader("Content-Type", "application/json").
		SetBody(remoteRequest{Data: []string{DataURL(ct, img.Data)}}).
		Post(remotePredictPath)
	if err != nil {
		return PredictionResult{}, networkFailure(err)
	}

	var body remoteResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		if resp.IsSuccess() {
			return PredictionResult{}, malformed("undecodable body: %v", err)
		}
		return PredictionResult{}, networkFailure(fmt.Errorf("status %d", resp.StatusCode()))
	}
	if body.Error != nil && *body.Error != "" {
		return PredictionResult{}, backendError(*body.Error)
	}
	if !resp.IsSuccess() {
		return PredictionResult{}, networkFailure(fmt.Errorf("status %d", resp.StatusCode()))
	}
	return decodePositional(body.Data)
}

// decodePositional trusts nothing beyond [caption string, action string|null];
// trailing elements are ignored.
func decodePositional(data []json.RawMessage) (PredictionResult, error) {
	if len(data) < 2 {
		return PredictionResult{}, malformed("data has %d elements, want 2", len(data))
	}
	var caption *string
	if err := json.Unmarshal(data[0], &caption); err != nil || caption == nil {
		return PredictionResult{}, malformed("data[0] is not a string")
	}
	var action *string
	if err := json.Unmarshal(data[1], &action); err != nil {
		return PredictionResult{}, malformed("data[1] is not a string")
	}
	return PredictionResult{Caption: *caption, Action: action}, nil
}

func DataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
