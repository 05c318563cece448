// Package cloudwriter buffers objects in memory and uploads them to cloud
// object storage when closed.
package cloudwriter

import (
	"context"
	"fmt"
	"io"

	"github.com/chrisdamba/regionrank/internal/models"
)

// CloudWriter receives the bytes of one object. Nothing is visible in the
// bucket until Close returns.
type CloudWriter interface {
	io.Writer
	io.Closer
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// NewFactory returns the writer factory for a storage provider.
func NewFactory(ctx context.Context, provider, region string) (CloudWriterFactory, error) {
	switch provider {
	case models.CloudProviderS3:
		f, err := NewS3WriterFactory(ctx, region)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %q", provider)
	}
}
