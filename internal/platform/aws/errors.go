package aws

import (
	"errors"
	"strings"

	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

const invocationDoesNotExistCode = "InvocationDoesNotExist"

// IsInvocationPending reports whether err means the command invocation is
// not registered yet. SSM returns InvocationDoesNotExist for a short while
// after SendCommand, so pollers should retry on it.
//
// The typed SDK error is checked first, then the API error code. Only errors
// carrying no API error at all fall back to matching the message.
func IsInvocationPending(err error) bool {
	if err == nil {
		return false
	}

	var notExist *ssmtypes.InvocationDoesNotExist
	if errors.As(err, &notExist) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == invocationDoesNotExistCode
	}

	return strings.Contains(err.Error(), invocationDoesNotExistCode)
}
