package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_Error(t *testing.T) {
	err := NewRankingFailedError(stderrors.New("listing 0: name is required"))
	assert.Equal(t, "StandardError[RANKING_FAILED]: Ranking failed", err.Error())
	assert.False(t, err.Retryable)
	assert.False(t, err.Timestamp.IsZero())
}

func TestConstructors_Retryability(t *testing.T) {
	cause := stderrors.New("cause")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"query parsing", NewQueryParsingFailedError(cause), ErrCodeQueryParsingFailed, true},
		{"genai timeout", NewGenAIAPITimeoutError("parse-query"), ErrCodeGenAIAPITimeout, true},
		{"translation", NewTranslationFailedError(cause), ErrCodeTranslationFailed, true},
		{"search", NewListingSearchFailedError(cause), ErrCodeListingSearchFailed, true},
		{"validation", NewListingValidationFailedError([]string{"a", "b"}), ErrCodeListingValidationFailed, false},
		{"ranking", NewRankingFailedError(cause), ErrCodeRankingFailed, false},
		{"recommendation", NewRecommendationFailedError(cause), ErrCodeRecommendationFailed, true},
		{"db connection", NewDatabaseConnectionFailedError(cause), ErrCodeDatabaseConnectionFailed, true},
		{"query execution", NewQueryExecutionFailedError("search", cause), ErrCodeQueryExecutionFailed, true},
		{"es query", NewSearchQueryFailedError("listings", cause), ErrCodeSearchQueryFailed, true},
		{"index", NewIndexNotFoundError("listings"), ErrCodeIndexNotFound, false},
		{"cache", NewCacheUnavailableError(cause), ErrCodeCacheUnavailable, true},
		{"notification", NewNotificationSendFailedError("email", cause), ErrCodeNotificationSendFailed, true},
		{"input", NewInvalidInputError("query is required"), ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
		})
	}
}

func TestListingValidationDetails(t *testing.T) {
	err := NewListingValidationFailedError([]string{"listings.0: name is required", "listings.2: price must be >= 0"})
	assert.Equal(t, "listings.0: name is required; listings.2: price must be >= 0", err.Details)
}

func TestAsStandardError(t *testing.T) {
	original := NewCacheUnavailableError(stderrors.New("dial tcp"))
	wrapped := fmt.Errorf("lookup: %w", original)

	assert.Same(t, original, AsStandardError(wrapped))

	unknown := AsStandardError(stderrors.New("kaboom"))
	assert.Equal(t, ErrCodeInternalError, unknown.Code)
	assert.Equal(t, "kaboom", unknown.Details)
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable code keeps retry budget", func(t *testing.T) {
		stdErr := NewQueryExecutionFailedError("search", stderrors.New("conn reset")).
			WithMetadata("query", "iphone")

		bpmn := ConvertToBPMNError(stdErr)
		assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
		assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["originalErrorCode"])
		assert.Equal(t, "iphone", vars["query"])
		assert.Contains(t, vars, "timestamp")
	})

	t.Run("non-retryable error gets no retries", func(t *testing.T) {
		stdErr := NewListingSearchFailedError(stderrors.New("x"))
		stdErr.Retryable = false
		assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
	})

	t.Run("unmapped code passes through", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewInternalError(stderrors.New("x")))
		assert.Equal(t, "INTERNAL_ERROR", bpmn.Code)
		assert.Equal(t, 0, bpmn.Retries)
	})
}

func TestRetryPolicy(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeGenAIAPITimeout))
	assert.Equal(t, 0, GetRetryCount(ErrCodeListingValidationFailed))

	assert.True(t, IsRetryableErrorCode(ErrCodeCacheUnavailable))
	assert.False(t, IsRetryableErrorCode(ErrCodeRankingFailed))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{ErrCodeDatabaseConnectionFailed, "DATABASE"},
		{ErrCodeQueryExecutionFailed, "DATABASE"},
		{ErrCodeSearchQueryFailed, "SEARCH"},
		{ErrCodeIndexNotFound, "SEARCH"},
		{ErrCodeListingSearchFailed, "SEARCH"},
		{ErrCodeCacheUnavailable, "CACHE"},
		{ErrCodeNotificationSendFailed, "NOTIFICATION"},
		{ErrCodeGenAIAPITimeout, "AI"},
		{ErrCodeQueryParsingFailed, "AI"},
		{ErrCodeTranslationFailed, "AI"},
		{ErrCodeRecommendationFailed, "AI"},
		{ErrCodeRankingFailed, "RANKING"},
		{ErrCodeListingValidationFailed, "VALIDATION"},
		{ErrCodeInvalidInput, "VALIDATION"},
		{ErrCodeInternalError, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCategory(tt.code))
		})
	}
}

func TestRemainingRetries(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}

	assert.Equal(t, int32(2), remainingRetries(job(3), 3))
	assert.Equal(t, int32(0), remainingRetries(job(1), 3))
	assert.Equal(t, int32(2), remainingRetries(job(10), 2))
	assert.Equal(t, int32(3), remainingRetries(job(0), 3))
}

type recordingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func TestErrorHandler_LogsNormalizedError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7, Type: "rank-listings", Retries: 0}}
	stdErr := AsStandardError(stderrors.New("unexpected"))
	h.logError(job, stdErr, ConvertToBPMNError(stdErr))

	require.Len(t, log.messages, 1)
	assert.Equal(t, "job failed", log.messages[0])
	assert.Equal(t, int64(7), log.fields[0]["jobKey"])
	assert.Equal(t, "INTERNAL_ERROR", log.fields[0]["errorCode"])
	assert.Equal(t, "OTHER", log.fields[0]["errorCategory"])
}
