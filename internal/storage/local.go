package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStore is the development Gateway: files land in a directory
// under the static file root and are served by the web app itself.
type LocalStore struct {
	dir     string
	urlBase string
}

// NewLocalStore creates the directory if needed. urlBase is the public
// path prefix the stored files are served under.
func NewLocalStore(dir, urlBase string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, urlBase: urlBase}, nil
}

func (s *LocalStore) Upload(_ context.Context, localPath string) (string, error) {
	name := filepath.Base(localPath)
	if err := copyFile(localPath, filepath.Join(s.dir, name)); err != nil {
		return "", err
	}
	return s.urlBase + "/" + name, nil
}

func (s *LocalStore) Download(_ context.Context, name, destDir string) (string, error) {
	dest := filepath.Join(destDir, name)
	if err := copyFile(filepath.Join(s.dir, name), dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	return os.Remove(filepath.Join(s.dir, name))
}

func (s *LocalStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *LocalStore) Clear(ctx context.Context) error {
	names, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
