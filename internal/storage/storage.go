package storage

import "context"

// Gateway abstracts the durable object store used for chart images and
// exported data files.
type Gateway interface {
	// Upload stores the local file under its base name and returns a
	// public URL for it.
	Upload(ctx context.Context, localPath string) (string, error)

	// Download fetches the named blob into destDir and returns the
	// local path.
	Download(ctx context.Context, name, destDir string) (string, error)

	// Delete removes the named blob.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored blobs.
	List(ctx context.Context) ([]string, error)

	// Clear removes every stored blob.
	Clear(ctx context.Context) error
}
