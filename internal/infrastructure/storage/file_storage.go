package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haenin/hr-eapproval/internal/application/port"
	"go.uber.org/zap"
)

// LocalFileStore implements port.FileStore on the local filesystem. Storage
// keys are relative paths under the base directory. Presigned URLs carry an
// HMAC signature verified by the download handler.
type LocalFileStore struct {
	baseDir string
	baseURL string
	secret  []byte
	logger  *zap.Logger
}

// NewLocalFileStore creates a new LocalFileStore
func NewLocalFileStore(baseDir, baseURL, secret string, logger *zap.Logger) *LocalFileStore {
	return &LocalFileStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		logger:  logger,
	}
}

// Put stores content under the given directory and returns the storage key
func (s *LocalFileStore) Put(ctx context.Context, content []byte, directory string) (string, error) {
	key := filepath.ToSlash(filepath.Join(directory, time.Now().Format("2006/01"), uuid.NewString()))

	fullPath, err := s.fullPath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create storage directories",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File stored",
		zap.String("storage_key", key),
		zap.Int("size", len(content)))
	return key, nil
}

// Delete releases the stored object for the given key. Deleting an absent
// object is not an error.
func (s *LocalFileStore) Delete(ctx context.Context, storageKey string) error {
	fullPath, err := s.fullPath(storageKey)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete file",
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PresignedURL returns a time-limited signed download URL for the key
func (s *LocalFileStore) PresignedURL(ctx context.Context, storageKey string, ttl time.Duration) (string, error) {
	if _, err := s.fullPath(storageKey); err != nil {
		return "", err
	}

	expires := time.Now().Add(ttl).Unix()
	sig := s.sign(storageKey, expires)
	return fmt.Sprintf("%s/files/%s?expires=%d&sig=%s", s.baseURL, storageKey, expires, sig), nil
}

// Verify checks the signature and expiry of a download request
func (s *LocalFileStore) Verify(storageKey string, expires int64, sig string) bool {
	if time.Now().Unix() > expires {
		return false
	}
	expected := s.sign(storageKey, expires)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// Open returns the absolute path of a stored object for serving
func (s *LocalFileStore) Open(storageKey string) (string, error) {
	fullPath, err := s.fullPath(storageKey)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(fullPath); err != nil {
		return "", fmt.Errorf("stored object missing: %w", err)
	}
	return fullPath, nil
}

func (s *LocalFileStore) sign(storageKey string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(storageKey))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// fullPath resolves a storage key under the base directory and rejects
// traversal outside it.
func (s *LocalFileStore) fullPath(storageKey string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(s.baseDir, filepath.FromSlash(storageKey)))
	base := filepath.Clean(s.baseDir)
	if cleaned != base && !strings.HasPrefix(cleaned, base+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key escapes base directory: %s", storageKey)
	}
	return cleaned, nil
}

// Verify interface compliance
var _ port.FileStore = (*LocalFileStore)(nil)
