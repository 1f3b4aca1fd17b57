package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sphereview_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	SourceLocal = "local"
	SourceMinio = "minio"
)

// Source 目录构建产物的来源
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s FileSource) Name() string {
	return "file:" + s.Path
}

// MinioSource 从对象存储读取，适合多实例部署共享同一份产物
type MinioSource struct {
	Client *minio.Client
	Bucket string
	Object string
}

func (s MinioSource) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject 是惰性的，Stat 触发请求以尽早暴露不存在等错误
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (s MinioSource) Name() string {
	return fmt.Sprintf("minio:%s/%s", s.Bucket, s.Object)
}

func NewSource(cfg *config.Config) (Source, error) {
	switch cfg.Catalog.Source {
	case SourceLocal, "":
		return FileSource{Path: cfg.Catalog.Path}, nil
	case SourceMinio:
		client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
			Secure: cfg.Storage.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return MinioSource{Client: client, Bucket: cfg.Storage.MinioBucket, Object: cfg.Catalog.Object}, nil
	default:
		return nil, fmt.Errorf("unsupported catalog source %q", cfg.Catalog.Source)
	}
}
