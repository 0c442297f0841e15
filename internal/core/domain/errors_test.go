package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ProcessingError
		want string
	}{
		{
			name: "connection failure",
			err:  &ProcessingError{Kind: ConnectionError},
			want: "failed to connect, please retry",
		},
		{
			name: "server failure",
			err:  &ProcessingError{Kind: ServerError},
			want: "server error, please retry",
		},
		{
			name: "timeout",
			err:  &ProcessingError{Kind: TimeoutError},
			want: "request timed out, please retry",
		},
		{
			name: "payload too large",
			err:  &ProcessingError{Kind: PayloadTooLarge},
			want: "image too large, use a smaller image",
		},
		{
			name: "unknown status carries status text",
			err:  &ProcessingError{Kind: UnknownHTTPError, StatusText: "418 I'm a teapot"},
			want: "unexpected response from the enlargement service: 418 I'm a teapot",
		},
		{
			name: "validation uses wrapped error",
			err:  &ProcessingError{Kind: ValidationError, Err: ErrAssetTooLarge},
			want: ErrAssetTooLarge.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.UserMessage())
		})
	}
}

func TestProcessingErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &ProcessingError{Kind: ConnectionError, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection_error")
}
