package generate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", failure(KindAuth, cause))

	assert.True(t, IsKind(err, KindAuth))
	assert.False(t, IsKind(err, KindTransport))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsKind(cause, KindAuth))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"auth", failure(KindAuth, nil), "Could not generate story: the API key was rejected."},
		{"malformed", failure(KindMalformed, ErrEmptyResponse), "Could not generate story: the service returned no text."},
		{"transport", failure(KindTransport, errors.New("dial")), "Could not generate story: the service could not be reached."},
		{"foreign", errors.New("other"), "Could not generate story."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "generation failed (malformed): empty response", failure(KindMalformed, ErrEmptyResponse).Error())
	assert.Equal(t, "generation failed (auth)", (&Error{Kind: KindAuth}).Error())
	assert.Equal(t, "kind(7)", Kind(7).String())
}
