package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/runtime/terminal/export"
	"github.com/de-tools/weekalloc/pkg/services/config"
	"github.com/de-tools/weekalloc/pkg/store/s3"
)

type uploader interface {
	Upload(ctx context.Context, body []byte, contentType string) error
}

// objectSink exports the table as a CSV object.
type objectSink struct {
	uploader uploader
}

func (s *objectSink) Write(ctx context.Context, rows []domain.OutputRow) error {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		return fmt.Errorf("encode allocations: %w", err)
	}
	return s.uploader.Upload(ctx, buf.Bytes(), "text/csv")
}

func (s *objectSink) Close() error {
	return nil
}

func S3Factory(ctx context.Context, cfg config.SinkConfig) (Sink, error) {
	client, err := s3.NewClient(ctx, cfg.S3.Region)
	if err != nil {
		return nil, err
	}
	up, err := s3.NewUploader(client, cfg.S3.Bucket, cfg.S3.Key)
	if err != nil {
		return nil, err
	}
	return &objectSink{uploader: up}, nil
}
