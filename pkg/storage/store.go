package stores

import "context"

// Store is the object storage used for uploaded documents, voice samples
// and assembled audiobooks. Keys are namespaced by the owning user id.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
