package output

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/regionrank/internal/cloudwriter"
	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/models"
)

type parquetRecord struct {
	Timestamp        int64   `parquet:"name=timestamp, type=INT64"`
	RequestID        string  `parquet:"name=request_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserID           string  `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Rank             int32   `parquet:"name=rank, type=INT32"`
	RegionID         string  `parquet:"name=region_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Region           string  `parquet:"name=region, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	QualityScore     float64 `parquet:"name=quality_score, type=DOUBLE"`
	MatchingScore    float64 `parquet:"name=matching_score, type=DOUBLE"`
	FinalScore       float64 `parquet:"name=final_score, type=DOUBLE"`
	Tier             string  `parquet:"name=tier, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TierDescription  string  `parquet:"name=tier_description, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DemographicScore float64 `parquet:"name=demographic_score, type=DOUBLE"`
	ConsumptionScore float64 `parquet:"name=consumption_score, type=DOUBLE"`
	IncomeScore      float64 `parquet:"name=income_score, type=DOUBLE"`
	IndustryScore    float64 `parquet:"name=industry_score, type=DOUBLE"`
	NeutralDefaults  string  `parquet:"name=neutral_defaults, type=BYTE_ARRAY, convertedtype=UTF8"`
	Reasons          string  `parquet:"name=reasons, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func toParquet(r RecommendationRecord) parquetRecord {
	return parquetRecord{
		Timestamp:        r.Timestamp,
		RequestID:        r.RequestID,
		UserID:           r.UserID,
		Rank:             int32(r.Rank),
		RegionID:         r.RegionID,
		Region:           r.Region,
		QualityScore:     r.QualityScore,
		MatchingScore:    r.MatchingScore,
		FinalScore:       r.FinalScore,
		Tier:             r.Tier,
		TierDescription:  r.TierDescription,
		DemographicScore: r.DemographicScore,
		ConsumptionScore: r.ConsumptionScore,
		IncomeScore:      r.IncomeScore,
		IndustryScore:    r.IndustryScore,
		NeutralDefaults:  r.NeutralDefaults,
		Reasons:          strings.Join(r.Reasons, reasonSeparator),
	}
}

// ParquetOutput keeps one parquet writer per topic and hourly partition. Files
// are finalized on Close, locally or by uploading through a cloud writer.
type ParquetOutput struct {
	basePath           string
	folder             string
	log                logger.Logger
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string

	mu      sync.Mutex
	writers map[string]*writer.ParquetWriter
	files   map[string]source.ParquetFile
}

func NewParquetOutput(ctx context.Context, cfg *models.Config, log logger.Logger) (*ParquetOutput, error) {
	p := newParquetOutput(cfg.Output.Path, cfg.Output.Folder, log)

	if cfg.Output.Destination != "" && cfg.Output.Destination != models.OutputDestinationLocal {
		storage := cfg.Output.CloudStorage
		factory, err := cloudwriter.NewFactory(ctx, storage.Provider, storage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		p.WithCloudWriter(factory, storage.BucketName)
	}
	return p, nil
}

func newParquetOutput(basePath, folder string, log logger.Logger) *ParquetOutput {
	return &ParquetOutput{
		basePath: basePath,
		folder:   folder,
		log:      log,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}
}

// WithCloudWriter switches the output to object storage.
func (p *ParquetOutput) WithCloudWriter(factory cloudwriter.CloudWriterFactory, bucket string) *ParquetOutput {
	p.cloudWriterFactory = factory
	p.cloudBucketName = bucket
	return p
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	rec, err := decodeRecord(msg)
	if err != nil {
		return err
	}

	partition := partitionPath(rec.eventTime())
	writerKey := topic + "/" + partition

	p.mu.Lock()
	defer p.mu.Unlock()

	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partition)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(toParquet(rec)); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partition, "data.parquet")
		cw, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cw)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := mkdirAll(fullPath); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(parquetRecord), 4)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			p.log.Error("failed to finalize parquet writer", logger.String("key", key), logger.Error(err))
		}
		if err := p.files[key].Close(); err != nil {
			lastErr = err
			p.log.Error("failed to close parquet file", logger.String("key", key), logger.Error(err))
		}
		delete(p.writers, key)
		delete(p.files, key)
	}
	return lastErr
}

// CloudParquetFile adapts a write-only CloudWriter to source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

var _ source.ParquetFile = (*CloudParquetFile)(nil)

func NewCloudParquetFile(cw cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cw}
}

// Open and Create return the receiver: the object is created implicitly by
// the first write.
func (c *CloudParquetFile) Open(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
