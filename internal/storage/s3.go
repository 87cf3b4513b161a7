package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"stride/config"
	"stride/internal/domain"
)

type S3Archive struct {
	client *minio.Client
	cfg    config.S3Config
	logger *zap.Logger
}

func NewS3Archive(cfg config.S3Config, logger *zap.Logger) (*S3Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &S3Archive{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

type snapshot struct {
	InstructorID int64                `json:"instructor_id"`
	Version      int64                `json:"version"`
	CommittedAt  time.Time            `json:"committed_at"`
	Days         []domain.DaySchedule `json:"days"`
}

func (s *S3Archive) StoreSnapshot(ctx context.Context, instructorID int64, version int64, days []domain.DaySchedule) (string, error) {
	payload, err := json.Marshal(snapshot{
		InstructorID: instructorID,
		Version:      version,
		CommittedAt:  time.Now().UTC(),
		Days:         days,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal schedule snapshot: %w", err)
	}

	objectName := fmt.Sprintf("schedules/%d/v%d-%s.json", instructorID, version, uuid.New().String())
	reader := bytes.NewReader(payload)

	_, err = s.client.PutObject(ctx, s.cfg.Bucket, objectName, reader, int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload schedule snapshot: %w", err)
	}

	return objectName, nil
}
