package ideas

import (
	"errors"
	"net/url"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401}, ReasonAuth},
		{"forbidden", &openai.APIError{HTTPStatusCode: 403}, ReasonAuth},
		{"quota", &openai.APIError{HTTPStatusCode: 429, Type: "insufficient_quota"}, ReasonQuota},
		{"rate limited", &openai.APIError{HTTPStatusCode: 429}, ReasonRateLimit},
		{"missing model", &openai.APIError{HTTPStatusCode: 404}, ReasonModelUnavailable},
		{"server error", &openai.APIError{HTTPStatusCode: 503}, ReasonNetwork},
		{"odd status", &openai.APIError{HTTPStatusCode: 418}, ReasonUnknown},
		{"request error", &openai.RequestError{HTTPStatusCode: 0, Err: errors.New("eof")}, ReasonNetwork},
		{"dial failure", &url.Error{Op: "Post", URL: "https://api", Err: errors.New("refused")}, ReasonNetwork},
		{"plain error", errors.New("boom"), ReasonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("test-model", tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Reason)
			assert.Equal(t, "test-model", got.Model)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestErrorMessageText(t *testing.T) {
	e := &Error{Reason: ReasonQuota, Model: "m"}
	assert.Contains(t, e.Error(), "quota")
	assert.Contains(t, e.Error(), "m")
	assert.NotEmpty(t, ReasonQuota.Message())
}
