package storage

import (
	"context"

	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	"github.com/SscSPs/cancha_booking_app/internal/platform/config"
)

// New picks the receipt backend named by RECEIPT_STORAGE.
func New(ctx context.Context, cfg *config.Config) (ports.ReceiptStore, error) {
	if cfg.ReceiptStorage == "s3" {
		return NewS3Store(ctx, S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	return NewLocalStore(cfg.ReceiptDir, cfg.ReceiptBaseURL)
}
