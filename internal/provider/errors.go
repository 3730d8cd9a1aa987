package provider

import (
	"fmt"
	"strings"

	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

// Classify maps a raw provider error to a domain error kind so callers can
// dispatch with errors.Is instead of inspecting provider types. The OpenAI
// wire protocol reports both failure classes through the HTTP status embedded
// in the error text.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "status code: 401") ||
		strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "invalid_api_key") ||
		strings.Contains(msg, "incorrect api key") ||
		strings.Contains(msg, "unauthorized"):
		return fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
	case strings.Contains(msg, "status code: 429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	default:
		return err
	}
}
