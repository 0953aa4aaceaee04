package storage

import "errors"

// ErrUnavailable reports that the backing store rejected a read or write
var ErrUnavailable = errors.New("storage unavailable")

// KeyValueBlobStore is the persistence primitive the session repository
// writes its document through. Read returns (nil, nil) for an absent key.
// Write must replace the value atomically from the caller's perspective.
type KeyValueBlobStore interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Remove(key string) error
}
