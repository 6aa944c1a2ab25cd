package storage

import (
	"bytes"
	"context"
	"formbridge-service/internal/app/contracts"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioStorage struct {
	MinioClient *minio.Client
	BucketName  string
	Logger      *zap.Logger
}

func NewMinioStorage(minioClient *minio.Client, bucketName string, logger *zap.Logger) contracts.StorageService {
	return &minioStorage{
		MinioClient: minioClient,
		BucketName:  bucketName,
		Logger:      logger,
	}
}

// ArchiveRawPayload stores the submission body exactly as received so a
// rejected or mangled conversion can always be replayed later.
func (m *minioStorage) ArchiveRawPayload(ctx context.Context, objectName string, payload []byte) error {
	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	m.Logger.Info("archived raw submission payload",
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	return nil
}
