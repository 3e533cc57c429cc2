package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"lanchat/internal/pkg/logx"
)

// localStore keeps uploads as plain files in one directory.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

func newLocalStore(dir string) (*localStore, error) {
	if dir == "" {
		return nil, errors.New("local storage directory is not configured")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &localStore{
		dir:    dir,
		logger: logx.Component("storage.local").With().Str("dir", dir).Logger(),
	}, nil
}

// Put writes to a temporary file first so readers never see partial uploads.
func (s *localStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	written, copyErr := io.Copy(tmp, readerWithContext(ctx, body))
	closeErr := tmp.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if copyErr != nil {
			return fmt.Errorf("failed to write upload %s: %w", key, copyErr)
		}
		return fmt.Errorf("failed to close upload %s: %w", key, closeErr)
	}

	if size >= 0 && written != size {
		_ = os.Remove(tmpName)
		return fmt.Errorf("upload %s truncated: wrote %d of %d bytes", key, written, size)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to store upload %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int64("size", written).Msg("Stored upload.")
	return nil
}

func (s *localStore) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("failed to open upload %s: %w", key, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat upload %s: %w", key, err)
	}
	if stat.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, ErrObjectNotFound
	}

	return f, ObjectInfo{
		Key:         key,
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
		Size:        stat.Size(),
	}, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete upload %s: %w", key, err)
	}
	return nil
}

// ctxReader stops a copy once the request context is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
