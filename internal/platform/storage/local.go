// Package storage persists payment receipt files on local disk or S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
)

// LocalStore writes receipts under a directory that the router serves at baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

var _ ports.ReceiptStore = (*LocalStore)(nil)

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory to expose as static files.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create receipt %q: %w", key, err)
	}
	// One byte past the cap is enough to detect an oversized stream.
	n, err := io.Copy(f, io.LimitReader(body, domain.MaxReceiptBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > domain.MaxReceiptBytes {
		err = fmt.Errorf("receipt exceeds %d bytes", domain.MaxReceiptBytes)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write receipt %q: %w", key, err)
	}
	return s.baseURL + "/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(ref, s.baseURL), "/")
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete receipt %q: %w", key, err)
	}
	return nil
}

// pathFor resolves key inside dir and refuses anything that escapes it.
func (s *LocalStore) pathFor(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty receipt key")
	}
	return filepath.Join(s.dir, clean), nil
}
