package database

import (
	"errors"
)

var ErrConditionFailed = errors.New("condition failed")

// ErrorCode extracts the service error code from an AWS error chain.
func ErrorCode(err error) string {
	var apiErr interface{ ErrorCode() string }
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func IsConditionFailed(err error) bool {
	if errors.Is(err, ErrConditionFailed) {
		return true
	}
	return ErrorCode(err) == "ConditionalCheckFailedException"
}
