package services

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"housemanagement/config"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Upload categories, one per kind of file the portal accepts.
const (
	CategoryDesignCovers     = "designs/covers"
	CategoryDesignFloorPlans = "designs/floor_plans"
	CategoryCatalogCovers    = "catalog/covers"
	CategoryCatalogPlans     = "catalog/floor_plans"
	CategoryCatalogGallery   = "catalog/gallery"
	CategorySiteUpdates      = "construction/updates"
)

// FileStore persists an upload and returns its stored path, which is what
// models keep in their image fields.
type FileStore interface {
	Save(
		ctx context.Context,
		category string,
		filename string,
		reader io.Reader,
		size int64,
		contentType string,
	) (string, error)
	URL(storedPath string) string
}

func NewFileStore(cfg config.Config) (FileStore, error) {
	if cfg.MinioEndpoint != "" {
		return NewMinioFileStore(cfg)
	}
	return NewLocalFileStore(cfg.MediaRoot, cfg.MediaURL), nil
}

// objectName keeps only the extension of the client's file name.
func objectName(category, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(category, uuid.NewString()+ext)
}

type MinioFileStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     logger.Logger
}

func NewMinioFileStore(cfg config.Config) (*MinioFileStore, error) {
	log := logger.New("MinioFileStore").Function("NewMinioFileStore")

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, log.Err("failed to create minio client", err, "endpoint", cfg.MinioEndpoint)
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}

	return &MinioFileStore{
		client:  client,
		bucket:  cfg.MinioBucket,
		baseURL: scheme + "://" + cfg.MinioEndpoint + "/" + cfg.MinioBucket,
		log:     logger.New("MinioFileStore"),
	}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *MinioFileStore) EnsureBucket(ctx context.Context) error {
	log := s.log.Function("EnsureBucket")

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return log.Err("failed to check bucket", err, "bucket", s.bucket)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return log.Err("failed to create bucket", err, "bucket", s.bucket)
	}
	log.Info("bucket created", "bucket", s.bucket)
	return nil
}

func (s *MinioFileStore) Save(
	ctx context.Context,
	category string,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	name := objectName(category, filename)

	_, err := s.client.PutObject(ctx, s.bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", s.log.TraceFromContext(ctx).Function("Save").
			Err("failed to upload object", err, "object", name)
	}
	return name, nil
}

func (s *MinioFileStore) URL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return s.baseURL + "/" + storedPath
}

// LocalFileStore writes under MEDIA_ROOT, used when no object store is configured.
type LocalFileStore struct {
	root    string
	baseURL string
	log     logger.Logger
}

func NewLocalFileStore(root, baseURL string) *LocalFileStore {
	return &LocalFileStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     logger.New("LocalFileStore"),
	}
}

func (s *LocalFileStore) Save(
	ctx context.Context,
	category string,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	log := s.log.TraceFromContext(ctx).Function("Save")

	name := objectName(category, filename)
	target := filepath.Join(s.root, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", log.Err("failed to create media directory", err, "path", target)
	}

	file, err := os.Create(target)
	if err != nil {
		return "", log.Err("failed to create media file", err, "path", target)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", log.Err("failed to write media file", err, "path", target)
	}
	return name, nil
}

func (s *LocalFileStore) URL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return s.baseURL + "/" + storedPath
}

// SaveUpload stores upload under category. A nil upload stores nothing and
// returns an empty path.
func SaveUpload(ctx context.Context, store FileStore, category string, upload *types.Upload) (string, error) {
	if upload == nil || upload.Body == nil {
		return "", nil
	}
	return store.Save(ctx, category, upload.Filename, upload.Body, upload.Size, upload.ContentType)
}
