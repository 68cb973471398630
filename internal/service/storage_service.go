package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxPhotoSize     = 5 * 1024 * 1024 // 5 MB
	photoURLTTL      = 15 * time.Minute
	staffPhotoPrefix = "staff-photos"
)

var (
	ErrFileTooBig        = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType   = errors.New("only JPEG and PNG images are allowed")
	ErrBucketUnavailable = errors.New("storage bucket unavailable")
	ErrUploadFailed      = errors.New("failed to upload file")
	ErrDeleteFailed      = errors.New("failed to delete file")
	ErrURLFailed         = errors.New("failed to generate photo URL")
	ErrForeignObjectKey  = errors.New("object key belongs to another staff record")

	allowedPhotoTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
	}
)

// StorageService holds staff photos in object storage. Keys are namespaced
// per staff id; a delete for a key outside the record's namespace is refused.
type StorageService interface {
	UploadStaffPhoto(ctx context.Context, staffID uint, file io.Reader, fileSize int64) (string, error)
	DeleteStaffPhoto(ctx context.Context, staffID uint, objectKey string) error
	StaffPhotoURL(ctx context.Context, objectKey string) (string, error)
}

type MinIOStorageService struct {
	client     *minio.Client
	bucketName string
	initOnce   sync.Once
	initErr    error
}

// NewMinIOStorageService builds the client without touching the bucket;
// bucket creation is deferred to the first operation.
func NewMinIOStorageService(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOStorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOStorageService{client: client, bucketName: bucketName}, nil
}

func (s *MinIOStorageService) lazyInit(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.ensureBucketExists(ctx)
	})
	return s.initErr
}

func (s *MinIOStorageService) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("%w: check bucket existence: %v", ErrBucketUnavailable, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: create bucket: %v", ErrBucketUnavailable, err)
		}
	}
	return nil
}

// UploadStaffPhoto stores a photo and returns its object key. The content
// type is sniffed from the bytes, never taken from the request header.
func (s *MinIOStorageService) UploadStaffPhoto(ctx context.Context, staffID uint, file io.Reader, fileSize int64) (string, error) {
	if fileSize > maxPhotoSize {
		return "", ErrFileTooBig
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("%w: read file for content detection: %v", ErrUploadFailed, err)
	}
	buf = buf[:n]

	detected := strings.ToLower(strings.TrimSpace(http.DetectContentType(buf)))
	if _, allowed := allowedPhotoTypes[detected]; !allowed {
		return "", ErrInvalidFileType
	}

	if err := s.lazyInit(ctx); err != nil {
		return "", err
	}

	fullFile := io.MultiReader(bytes.NewReader(buf), file)
	objectKey := fmt.Sprintf("%s/staff-%d/%s%s", staffPhotoPrefix, staffID, uuid.NewString(), photoExtension(detected))

	_, err = s.client.PutObject(ctx, s.bucketName, objectKey, fullFile, fileSize, minio.PutObjectOptions{
		ContentType: detected,
		UserMetadata: map[string]string{
			"Staff-ID":    fmt.Sprintf("%d", staffID),
			"Uploaded-At": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return objectKey, nil
}

func (s *MinIOStorageService) DeleteStaffPhoto(ctx context.Context, staffID uint, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}
	if strings.Contains(objectKey, "..") {
		return ErrForeignObjectKey
	}
	expectedPrefix := fmt.Sprintf("%s/staff-%d/", staffPhotoPrefix, staffID)
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		return ErrForeignObjectKey
	}

	if err := s.lazyInit(ctx); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *MinIOStorageService) StaffPhotoURL(ctx context.Context, objectKey string) (string, error) {
	if strings.TrimSpace(objectKey) == "" {
		return "", fmt.Errorf("%w: empty object key", ErrURLFailed)
	}
	if err := s.lazyInit(ctx); err != nil {
		return "", err
	}
	presigned, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, photoURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURLFailed, err)
	}
	return presigned.String(), nil
}

func photoExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}
