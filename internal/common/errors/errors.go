// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeQueryParsingFailed ErrorCode = "QUERY_PARSING_FAILED"
	ErrCodeGenAIAPITimeout    ErrorCode = "GENAI_API_TIMEOUT"
	ErrCodeTranslationFailed  ErrorCode = "TRANSLATION_FAILED"

	ErrCodeListingSearchFailed     ErrorCode = "LISTING_SEARCH_FAILED"
	ErrCodeListingValidationFailed ErrorCode = "LISTING_VALIDATION_FAILED"
	ErrCodeRankingFailed           ErrorCode = "RANKING_FAILED"
	ErrCodeRecommendationFailed    ErrorCode = "RECOMMENDATION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"

	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryParsingFailedError reports an unusable GenAI parse response.
func NewQueryParsingFailedError(err error) *StandardError {
	return newError(ErrCodeQueryParsingFailed, "Query parsing API error", err.Error(), true)
}

// NewGenAIAPITimeoutError reports a GenAI call that exceeded its deadline.
func NewGenAIAPITimeoutError(operation string) *StandardError {
	return newError(ErrCodeGenAIAPITimeout, "GenAI API timeout",
		fmt.Sprintf("operation: %s", operation), true)
}

// NewTranslationFailedError is retryable; callers usually keep the original text instead.
func NewTranslationFailedError(err error) *StandardError {
	return newError(ErrCodeTranslationFailed, "Translation failed", err.Error(), true)
}

func NewListingSearchFailedError(err error) *StandardError {
	return newError(ErrCodeListingSearchFailed, "Listing search failed", err.Error(), true)
}

// NewListingValidationFailedError carries every validation message in Details.
func NewListingValidationFailedError(messages []string) *StandardError {
	return newError(ErrCodeListingValidationFailed, "Listing validation failed",
		strings.Join(messages, "; "), false)
}

func NewRankingFailedError(err error) *StandardError {
	return newError(ErrCodeRankingFailed, "Ranking failed", err.Error(), false)
}

func NewRecommendationFailedError(err error) *StandardError {
	return newError(ErrCodeRecommendationFailed, "Recommendation generation failed", err.Error(), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found",
		fmt.Sprintf("index: %s", index), false)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Search cache unavailable", err.Error(), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// NewInvalidInputError creates a non-retryable input error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false)
}

// NewExternalServiceError wraps a transient failure of a dependency such as the Zeebe gateway.
func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternalError, "Unexpected error", err.Error(), false)
}

// AsStandardError unwraps err to a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// ==========================
// 4. Mapping & Retry Policy
// ==========================

// BPMNErrorMapping maps internal codes to the error codes modeled in BPMN
// boundary events. Codes not listed are passed through unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeQueryParsingFailed:       "QUERY_PARSING_FAILED",
	ErrCodeGenAIAPITimeout:          "GENAI_API_TIMEOUT",
	ErrCodeTranslationFailed:        "TRANSLATION_FAILED",
	ErrCodeListingSearchFailed:      "LISTING_SEARCH_FAILED",
	ErrCodeListingValidationFailed:  "LISTING_VALIDATION_FAILED",
	ErrCodeRankingFailed:            "RANKING_FAILED",
	ErrCodeRecommendationFailed:     "RECOMMENDATION_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeSearchQueryFailed:        "SEARCH_QUERY_FAILED",
	ErrCodeIndexNotFound:            "INDEX_NOT_FOUND",
	ErrCodeCacheUnavailable:         "CACHE_UNAVAILABLE",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeInvalidInput:             "INVALID_INPUT",
}

// GetRetryCount returns how many retries a failed job gets for the code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeListingSearchFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeQueryParsingFailed,
		ErrCodeRecommendationFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeGenAIAPITimeout,
		ErrCodeTimeout,
		ErrCodeTranslationFailed,
		ErrCodeCacheUnavailable:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError maps a StandardError to the BPMN representation.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for dashboards and logs.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY_EXECUTION"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "GENAI") || strings.Contains(codeStr, "PARSING") ||
		strings.Contains(codeStr, "TRANSLATION") || strings.Contains(codeStr, "RECOMMENDATION"):
		return "AI"
	case strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "EXTERNAL"
	case strings.Contains(codeStr, "RANKING"):
		return "RANKING"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
