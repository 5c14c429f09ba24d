// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/grantguru/grantguru-backend/internal/config"
)

// BlobStore is the storage backend for document content. The document
// service depends on this interface so tests can inject a failing store.
type BlobStore interface {
	Put(key string, r io.Reader) (int64, error)
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// StorageService stores blobs in S3 when AWS credentials are configured,
// and on the local filesystem otherwise.
type StorageService struct {
	s3Client *s3.S3
	bucket   string
	localDir string
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		if err := os.MkdirAll(cfg.Storage.LocalDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create local storage dir: %w", err)
		}
		return &StorageService{localDir: cfg.Storage.LocalDir}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		bucket:   cfg.AWS.S3Bucket,
	}, nil
}

// GenerateKey builds a unique storage key for an uploaded document,
// scoped by application so orphaned blobs are traceable.
func GenerateKey(applicationID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	stamp := time.Now().Format("20060102")
	return fmt.Sprintf("documents/%s/%s_%s%s", applicationID, stamp, uuid.New().String()[:8], ext)
}

func (s *StorageService) Put(key string, r io.Reader) (int64, error) {
	if s.s3Client != nil {
		return s.putS3(key, r)
	}
	return s.putLocal(key, r)
}

func (s *StorageService) putS3(key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read upload: %w", err)
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return int64(len(data)), nil
}

func (s *StorageService) putLocal(key string, r io.Reader) (int64, error) {
	path, err := s.localPath(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create storage dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return n, nil
}

func (s *StorageService) Get(key string) (io.ReadCloser, error) {
	if s.s3Client != nil {
		out, err := s.s3Client.GetObject(&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch from S3: %w", err)
		}
		return out.Body, nil
	}

	path, err := s.localPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *StorageService) Delete(key string) error {
	if s.s3Client != nil {
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to delete from S3: %w", err)
		}
		return nil
	}

	path, err := s.localPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// localPath resolves a storage key under the local directory, rejecting
// keys that would escape it.
func (s *StorageService) localPath(key string) (string, error) {
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.localDir, clean), nil
}
