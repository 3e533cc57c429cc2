/*
Package storage stores uploaded files for the chat room.

Two drivers implement StorageService: a local directory and an S3-compatible
bucket. Objects are addressed by a flat key; the chat core only ever sees the
public URL derived from that key.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrObjectNotFound is returned by Get when no object is stored under the key.
	ErrObjectNotFound = errors.New("storage: object not found")

	// ErrInvalidKey is returned for keys that are empty or not a single path element.
	ErrInvalidKey = errors.New("storage: invalid object key")
)

// ServiceConfig holds the configuration required to build a storage driver.
type ServiceConfig struct {
	// Driver selects the implementation: "local" or "s3".
	Driver string

	// LocalDir is the directory used by the local driver.
	LocalDir string

	S3BucketName      string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	ContentType string
	Size        int64
}

// StorageService defines the public interface for the file storage service.
type StorageService interface {
	// Put stores body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Get opens the object stored under key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object stored under key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// NewStorageService is the factory function for StorageService.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	switch cfg.Driver {
	case "", "local":
		return newLocalStore(cfg.LocalDir)
	case "s3":
		return newS3Client(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ValidateKey checks that key is a single, non-special path element.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, "/\\\x00") {
		return ErrInvalidKey
	}
	return nil
}
