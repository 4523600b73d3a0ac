package blob

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"linkup/internal/config"
)

// Store writes attachments under a base directory through an afero
// filesystem, so tests can run against an in-memory fs.
type Store struct {
	fs   afero.Fs
	base string
}

func New(cfg config.BlobConfig) (*Store, error) {
	return NewWithFs(afero.NewOsFs(), cfg.Dir)
}

func NewWithFs(fs afero.Fs, base string) (*Store, error) {
	if err := fs.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &Store{fs: fs, base: base}, nil
}

func (s *Store) Save(ctx context.Context, path string, r io.Reader) (int64, error) {
	full := filepath.Join(s.base, filepath.Clean("/"+path))
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(full)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, r)
}

func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.fs.Open(filepath.Join(s.base, filepath.Clean("/"+path)))
}

func (s *Store) Delete(ctx context.Context, path string) error {
	return s.fs.Remove(filepath.Join(s.base, filepath.Clean("/"+path)))
}
