package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"learning_pathway_backend/internal/config"
)

// StorageService 头像等文件存储，支持local和minio两种后端
type StorageService struct {
	cfg         *config.Config
	minioClient *minio.Client
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{cfg: cfg}

	if cfg.Storage.Type == "minio" {
		client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
			Secure: false,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init minio client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		exists, err := client.BucketExists(ctx, cfg.Storage.MinioBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check minio bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.Storage.MinioBucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create minio bucket: %w", err)
			}
		}
		s.minioClient = client
	}

	return s, nil
}

// SaveAvatar 保存上传的头像，返回可访问路径
func (s *StorageService) SaveAvatar(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image format: %s", ext)
	}

	objectName := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if s.cfg.Storage.Type == "minio" && s.minioClient != nil {
		_, err := s.minioClient.PutObject(ctx, s.cfg.Storage.MinioBucket, objectName, src, file.Size, minio.PutObjectOptions{
			ContentType: file.Header.Get("Content-Type"),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("/%s/%s", s.cfg.Storage.MinioBucket, objectName), nil
	}

	localPath := filepath.Join(s.cfg.Storage.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/" + filepath.ToSlash(localPath), nil
}
