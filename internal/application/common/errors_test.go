package common

import (
	"context"
	"errors"
	"testing"

	"phpcsutils/internal/domain/errors/domain"

	"github.com/stretchr/testify/assert"
)

func TestWrapServiceError(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		path      string
		cause     error
		want      string
	}{
		{
			name:      "with path",
			operation: OpTokenize,
			path:      "src/a.php",
			cause:     domain.ErrInvalidInput,
			want:      "failed to tokenize src/a.php: invalid input",
		},
		{
			name:      "without path",
			operation: OpLoadRules,
			cause:     domain.ErrMalformedRules,
			want:      "failed to load compensation rules: malformed compensation rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapServiceError(tt.operation, tt.path, tt.cause)
			assert.EqualError(t, err, tt.want)
			assert.ErrorIs(t, err, tt.cause)

			var serviceErr ServiceError
			assert.True(t, errors.As(err, &serviceErr))
			assert.Equal(t, tt.operation, serviceErr.Operation)
		})
	}
}

func TestWrapServiceError_Nil(t *testing.T) {
	assert.NoError(t, WrapServiceError(OpTokenize, "a.php", nil))
}

func TestServiceError_UnwrapsContextErrors(t *testing.T) {
	err := WrapServiceError(OpReadFile, "a.php", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
}
