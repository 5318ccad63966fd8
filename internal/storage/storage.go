package storage

import (
	"fmt"
	"mime/multipart"

	"blogging-backend/config"
)

// FileStorage 文件存储接口
// SignedUploadURL 返回客户端可直传的预签名地址
type FileStorage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
	SignedUploadURL(key string) (string, error)
}

// NewFileStorage 根据配置选择存储后端
func NewFileStorage(cfg *config.Config) (FileStorage, error) {
	switch cfg.StorageBackend {
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket, cfg.S3URLExpiry)
	case "gcs":
		return NewGCSClient(cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	case "local":
		return NewLocalStorage(cfg.LocalStoragePath, cfg.BackendURL)
	default:
		return nil, fmt.Errorf("不支持的存储后端: %s", cfg.StorageBackend)
	}
}
