package caption

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type predictorFunc func(ctx context.Context, sel Selection) (PredictionResult, error)

func (f predictorFunc) Predict(ctx context.Context, sel Selection) (PredictionResult, error) {
	return f(ctx, sel)
}

func TestSession_NoSelectionNeverDispatches(t *testing.T) {
	called := false
	s := NewSession(predictorFunc(func(context.Context, Selection) (PredictionResult, error) {
		called = true
		return PredictionResult{}, nil
	}))

	_, err := s.Predict(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.False(t, called)
}

func TestSession_SelectReplaces(t *testing.T) {
	var got Selection
	s := NewSession(predictorFunc(func(_ context.Context, sel Selection) (PredictionResult, error) {
		got = sel
		return PredictionResult{Caption: "ok"}, nil
	}))

	s.Select(SampleSelection("running_dog"))
	s.Select(SampleSelection("sample1"))
	out, err := s.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sample1", got.Sample)
	assert.Equal(t, "ok", out.Result.Caption)
	assert.False(t, out.Stale)

	s.Clear()
	assert.True(t, s.Selection().IsEmpty())
	_, err = s.Predict(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSession_RejectsOverlap(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	s := NewSession(predictorFunc(func(context.Context, Selection) (PredictionResult, error) {
		close(entered)
		<-release
		return PredictionResult{Caption: "first"}, nil
	}))
	s.Select(SampleSelection("sample1"))

	done := make(chan error, 1)
	go func() {
		_, err := s.Predict(context.Background())
		done <- err
	}()
	<-entered

	assert.True(t, s.Busy())
	_, err := s.Predict(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
}

func TestSession_StaleResult(t *testing.T) {
	var s *Session
	s = NewSession(predictorFunc(func(context.Context, Selection) (PredictionResult, error) {
		s.Select(SampleSelection("running_dog"))
		return PredictionResult{Caption: "for the old selection"}, nil
	}))
	s.Select(SampleSelection("sample1"))

	out, err := s.Predict(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Stale)
}

func TestSession_ReleasesAfterFailure(t *testing.T) {
	calls := 0
	s := NewSession(predictorFunc(func(context.Context, Selection) (PredictionResult, error) {
		calls++
		if calls == 1 {
			return PredictionResult{}, networkFailure(errors.New("refused"))
		}
		return PredictionResult{Caption: "second try"}, nil
	}))
	s.Select(SampleSelection("sample1"))

	_, err := s.Predict(context.Background())
	require.ErrorIs(t, err, ErrNetworkFailure)
	assert.False(t, s.Busy())

	out, err := s.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second try", out.Result.Caption)
	assert.Equal(t, 2, calls)
}
