package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeRateLimited        ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeStorageError       ErrorCode = "COMMON_014"
	ErrCodeDatabaseError      ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Hydropathy Module Error Codes
const (
	ErrCodeUnknownResidueType  ErrorCode = "HYD_001"
	ErrCodeEmptyNeighborhood   ErrorCode = "HYD_002"
	ErrCodeInvalidRadius       ErrorCode = "HYD_003"
	ErrCodeUnknownScale        ErrorCode = "HYD_004"
	ErrCodeInvalidCoordinates  ErrorCode = "HYD_005"
	ErrCodeInvalidThreshold    ErrorCode = "HYD_006"
	ErrCodeInvalidDistanceMode ErrorCode = "HYD_007"
	ErrCodeReportNotFound      ErrorCode = "HYD_008"
	ErrCodeRunNotFound         ErrorCode = "HYD_009"
)

// Aliases used at call sites that predate the module-prefixed names.
const (
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeCacheError   = ErrCodeCacheError
	CodeStorageError = ErrCodeStorageError
	CodeDBError      = ErrCodeDatabaseError
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeUnknownResidueType:  http.StatusUnprocessableEntity,
	ErrCodeEmptyNeighborhood:   http.StatusUnprocessableEntity,
	ErrCodeInvalidRadius:       http.StatusBadRequest,
	ErrCodeUnknownScale:        http.StatusBadRequest,
	ErrCodeInvalidCoordinates:  http.StatusBadRequest,
	ErrCodeInvalidThreshold:    http.StatusBadRequest,
	ErrCodeInvalidDistanceMode: http.StatusBadRequest,
	ErrCodeReportNotFound:      http.StatusNotFound,
	ErrCodeRunNotFound:         http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeRateLimited:        "rate limit exceeded",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeDatabaseError:      "database error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeUnknownResidueType:  "unknown residue type",
	ErrCodeEmptyNeighborhood:   "empty neighborhood",
	ErrCodeInvalidRadius:       "invalid sphere radius",
	ErrCodeUnknownScale:        "unknown hydrophobicity scale",
	ErrCodeInvalidCoordinates:  "invalid residue coordinates",
	ErrCodeInvalidThreshold:    "invalid accessibility threshold",
	ErrCodeInvalidDistanceMode: "invalid distance mode",
	ErrCodeReportNotFound:      "moment report not found",
	ErrCodeRunNotFound:         "run not found",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
