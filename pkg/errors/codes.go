package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
)

// Detection module error codes
const (
	ErrCodeCatalogInvalid   ErrorCode = "DET_001"
	ErrCodePatternInvalid   ErrorCode = "DET_002"
	ErrCodeUnknownAspect    ErrorCode = "DET_003"
)

// Semantic scoring error codes
const (
	ErrCodeEmbeddingFailed   ErrorCode = "SEM_001"
	ErrCodeEmbeddingEmpty    ErrorCode = "SEM_002"
	ErrCodeAnchorSetInvalid  ErrorCode = "SEM_003"
)

// Classifier error codes
const (
	ErrCodeModelUnavailable  ErrorCode = "CLS_001"
	ErrCodeModelTimeout      ErrorCode = "CLS_002"
	ErrCodeVerdictMalformed  ErrorCode = "CLS_003"
	ErrCodeVerdictLabelUnknown ErrorCode = "CLS_004"
)

// Pipeline error codes
const (
	ErrCodePipelineCancelled ErrorCode = "PIPE_001"
	ErrCodeBatchEmpty        ErrorCode = "PIPE_002"
)

// Data source (search / scrape) error codes
const (
	ErrCodeSearchFailed      ErrorCode = "SRC_001"
	ErrCodeScrapeFailed      ErrorCode = "SRC_002"
	ErrCodeSourceRateLimited ErrorCode = "SRC_003"
	ErrCodeSourceParseError  ErrorCode = "SRC_004"
)

// Storage error codes
const (
	ErrCodeDatabaseError  ErrorCode = "STORE_001"
	ErrCodeCacheError     ErrorCode = "STORE_002"
	ErrCodeMigrationError ErrorCode = "STORE_003"
	ErrCodeRunNotFound    ErrorCode = "STORE_004"
)

// Sentinel for unclassified errors extracted from non-AppError chains.
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the API layer.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,

	ErrCodeCatalogInvalid:      http.StatusInternalServerError,
	ErrCodePatternInvalid:      http.StatusInternalServerError,
	ErrCodeUnknownAspect:       http.StatusBadRequest,
	ErrCodeEmbeddingFailed:     http.StatusBadGateway,
	ErrCodeEmbeddingEmpty:      http.StatusBadGateway,
	ErrCodeAnchorSetInvalid:    http.StatusInternalServerError,
	ErrCodeModelUnavailable:    http.StatusBadGateway,
	ErrCodeModelTimeout:        http.StatusGatewayTimeout,
	ErrCodeVerdictMalformed:    http.StatusBadGateway,
	ErrCodeVerdictLabelUnknown: http.StatusBadGateway,
	ErrCodePipelineCancelled:   http.StatusRequestTimeout,
	ErrCodeBatchEmpty:          http.StatusBadRequest,
	ErrCodeSearchFailed:        http.StatusBadGateway,
	ErrCodeScrapeFailed:        http.StatusBadGateway,
	ErrCodeSourceRateLimited:   http.StatusTooManyRequests,
	ErrCodeSourceParseError:    http.StatusBadGateway,
	ErrCodeDatabaseError:       http.StatusInternalServerError,
	ErrCodeCacheError:          http.StatusInternalServerError,
	ErrCodeMigrationError:      http.StatusInternalServerError,
	ErrCodeRunNotFound:         http.StatusNotFound,
}

// HTTPStatus returns the HTTP status mapped to the code, defaulting to 500
// for unmapped codes so the API layer never leaks a zero status.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := ErrorCodeHTTPStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}
