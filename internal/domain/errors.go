package domain

import "errors"

var (
	ErrInvalidRole        = errors.New("invalid conversation role")
	ErrNoMedia            = errors.New("no media available")
	ErrProbeFailed        = errors.New("media probe failed")
	ErrUnsupportedFormat  = errors.New("unsupported media format")
	ErrEmptyResponse      = errors.New("model returned empty response")
	ErrDownloadFailed     = errors.New("attachment download failed")
	ErrUnknownStore       = errors.New("unknown store backend")
	ErrNoOutput           = errors.New("media tool wrote no output")
	ErrKnowledgeBaseEmpty = errors.New("knowledge base is empty")
)
