package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError(t *testing.T) {
	err := NewQueryExecutionFailedError("sum_by_range", errors.New("connection reset"))

	assert.Equal(t, ErrCodeQueryExecutionFailed, err.Code)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "QUERY_EXECUTION_FAILED")
	assert.Contains(t, err.Details, "connection reset")
}

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeAIGenerationFailed, 3},
		{ErrCodeAITimeout, 2},
		{ErrCodeQueryTimeout, 2},
		{ErrCodePromptNotFound, 0},
		{ErrCodeEntityValidationFailed, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeAIResponseMalformed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeEntityValidationFailed))
}
