package gqlclient

import (
	"net/http"

	"github.com/greatexpectationslabs/cooper-pair/internal/common/apperrors"
)

// Base client error
var (
	ErrClient apperrors.Error = apperrors.New("dqm client error")
)

// Configuration errors
var (
	ErrNoEndpoint         apperrors.Error = ErrClient.New("no graphql endpoint configured").SetStatusCode(http.StatusBadRequest)
	ErrMissingCredentials apperrors.Error = ErrClient.New("missing credentials").SetStatusCode(http.StatusUnauthorized)
)

// Request errors
var (
	ErrSyntax apperrors.Error = ErrClient.New("query is not valid graphql").SetStatusCode(http.StatusBadRequest)
)

// Channel errors
var (
	ErrTransportFailure    apperrors.Error = ErrClient.New("transport failure").SetStatusCode(http.StatusBadGateway)
	ErrConnectionExhausted apperrors.Error = ErrClient.New("connection attempts exhausted").SetStatusCode(http.StatusBadGateway)
)

// Server-reported errors
var (
	ErrUnauthorized apperrors.Error = ErrClient.New("not authorized").SetStatusCode(http.StatusUnauthorized)
	ErrRemote       apperrors.Error = ErrClient.New("server reported an error").SetStatusCode(http.StatusBadGateway)
)
