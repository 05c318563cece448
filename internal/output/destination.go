// Package output writes recommendation records to files, message brokers,
// databases and object storage.
package output

import (
	"context"
	"fmt"

	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/output/producers"
)

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// NewDestination builds the destination selected by cfg.Output.Format.
func NewDestination(ctx context.Context, cfg *models.Config, log logger.Logger) (Destination, error) {
	out := cfg.Output
	switch out.Format {
	case models.OutputFormatConsole, "":
		return NewConsoleOutput(nil), nil
	case models.OutputFormatJSON:
		return NewJSONOutput(out.Path, out.Folder), nil
	case models.OutputFormatCSV:
		return NewCSVOutput(out.Path, out.Folder), nil
	case models.OutputFormatParquet:
		return NewParquetOutput(ctx, cfg, log)
	case models.OutputFormatKafka:
		return producers.NewSaramaProducer(cfg.Kafka, log)
	case models.OutputFormatPostgres:
		return NewPostgresOutput(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", out.Format)
	}
}
