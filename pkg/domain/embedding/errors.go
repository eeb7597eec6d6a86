package embedding

import "errors"

var (
	ErrProviderNonOKResponse = errors.New("embedding provider returned non-OK response")
	ErrEmptyEmbedding        = errors.New("empty embedding received from provider")
	ErrSnapshotNotFound      = errors.New("embedding snapshot not found")
	ErrUnsupportedProvider   = errors.New("unsupported embedding provider")
)
