package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"401 status", errors.New("request failed, status code: 401"), domain.ErrAuthFailed},
		{"invalid key", errors.New("Invalid API Key provided"), domain.ErrAuthFailed},
		{"invalid_api_key code", errors.New("error code invalid_api_key"), domain.ErrAuthFailed},
		{"unauthorized", errors.New("Unauthorized"), domain.ErrAuthFailed},
		{"429 status", errors.New("request failed, status code: 429"), domain.ErrRateLimited},
		{"rate limit text", errors.New("Rate limit reached for requests"), domain.ErrRateLimited},
		{"quota", errors.New("You exceeded your current quota"), domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyPassthrough(t *testing.T) {
	orig := errors.New("connection refused")
	got := Classify(orig)

	assert.Equal(t, orig, got)
	assert.NotErrorIs(t, got, domain.ErrAuthFailed)
	assert.NotErrorIs(t, got, domain.ErrRateLimited)
}

func TestClassifyKeepsCause(t *testing.T) {
	got := Classify(fmt.Errorf("embed request failed, status code: 401"))

	assert.ErrorIs(t, got, domain.ErrAuthFailed)
	assert.Contains(t, got.Error(), "status code: 401")
}
