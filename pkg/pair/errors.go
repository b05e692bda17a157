package pair

import (
	"net/http"

	"github.com/greatexpectationslabs/cooper-pair/internal/common/apperrors"
	"github.com/greatexpectationslabs/cooper-pair/internal/common/gqlclient"
)

// Client-side errors
var (
	// ErrConfig reports invalid client configuration.
	ErrConfig apperrors.Error = gqlclient.ErrClient.New("invalid configuration").SetStatusCode(http.StatusBadRequest)
	// ErrInvalidArgument reports a precondition failure before any network activity.
	ErrInvalidArgument apperrors.Error = gqlclient.ErrClient.New("invalid argument").SetStatusCode(http.StatusBadRequest)
	// ErrInvalidKwargs reports expectation kwargs that fail to parse as JSON.
	ErrInvalidKwargs apperrors.Error = gqlclient.ErrClient.New("expectation kwargs must be valid JSON").SetStatusCode(http.StatusBadRequest)
	// ErrUploadFailed reports a rejected object-storage upload.
	ErrUploadFailed apperrors.Error = gqlclient.ErrClient.New("upload failed").SetStatusCode(http.StatusBadGateway)
)

// Connection-manager kinds re-exported for callers; match with errors.Is.
var (
	ErrNoEndpoint          = gqlclient.ErrNoEndpoint
	ErrMissingCredentials  = gqlclient.ErrMissingCredentials
	ErrSyntax              = gqlclient.ErrSyntax
	ErrTransportFailure    = gqlclient.ErrTransportFailure
	ErrConnectionExhausted = gqlclient.ErrConnectionExhausted
	ErrUnauthorized        = gqlclient.ErrUnauthorized
	ErrRemote              = gqlclient.ErrRemote
)
