package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrAuthFailed indicates the provider rejected the credential
	ErrAuthFailed = errors.New("provider authentication failed")
	// ErrRateLimited indicates the provider rate limit was exceeded
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrNoCorpus indicates no corpus file could be loaded at all
	ErrNoCorpus = errors.New("no corpus documents could be loaded")
	// ErrNoChunks indicates the corpus produced no extractable text
	ErrNoChunks = errors.New("no extractable text in corpus")
)
