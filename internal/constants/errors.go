package constants

import "errors"

// Configuration errors.
var (
	ErrInvalidPort       = errors.New("invalid port")
	ErrInvalidCacheType  = errors.New("invalid cache type, expected memory or nats")
	ErrNATSURLRequired   = errors.New("cache.nats.url is required when cache.type is nats")
	ErrServerNotStarted  = errors.New("server not started")
	ErrRunnerShutDown    = errors.New("task runner is shut down")
	ErrTaskPanicked      = errors.New("task panicked")
	ErrNoResultsReturned = errors.New("no results returned")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrUnknownResource   = errors.New("unknown resource")
	ErrInvalidID         = errors.New("id must be a positive integer")
)
