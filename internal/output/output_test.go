package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/chrisdamba/regionrank/internal/cloudwriter"
	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/recommender"
)

var generatedAt = time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

const testPartition = "year=2024/month=03/day=01/hour=14"

func sampleResponse() *recommender.Response {
	return &recommender.Response{
		RequestID:   "req-1",
		UserID:      "user-1",
		GeneratedAt: generatedAt,
		Candidates:  3,
		Results: []models.RecommendationResult{
			{
				Rank: 1, Region: "Gangnam", RegionID: "r1",
				QualityScore: 82.5, MatchingScore: 80, FinalScore: 66,
				Tier:    models.Tier1,
				Reasons: []string{"specializes in fashion", "popular with 20s female"},
				Breakdown: models.MatchResult{
					DemographicScore: 58, ConsumptionScore: 97.8, IncomeScore: 100, IndustryScore: 100,
					MatchingScore: 80,
				},
			},
			{
				Rank: 2, Region: "Mapo", RegionID: "r2",
				QualityScore: 55, MatchingScore: 50, FinalScore: 27.5,
				Tier: models.Tier4,
				Breakdown: models.MatchResult{
					DemographicScore: 50, ConsumptionScore: 50, IncomeScore: 50, IndustryScore: 50,
					MatchingScore: 50, Defaults: models.DefaultIncome | models.DefaultIndustry,
				},
			},
		},
	}
}

func sampleRecords() []RecommendationRecord {
	return NewRecords(sampleResponse(), func(q float64) string {
		if q >= 80 {
			return "prime commercial area"
		}
		return "basic commercial area"
	})
}

type memoryDestination struct {
	topics   []string
	messages [][]byte
	failAt   int
}

func (m *memoryDestination) WriteMessage(topic string, msg []byte) error {
	if m.failAt > 0 && len(m.messages)+1 == m.failAt {
		return errors.New("boom")
	}
	m.topics = append(m.topics, topic)
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memoryDestination) Close() error { return nil }

func publishAll(t *testing.T, dest Destination) {
	t.Helper()
	require.NoError(t, Publish(dest, models.RecommendationTopic, sampleRecords()))
	require.NoError(t, dest.Close())
}

func TestNewRecords(t *testing.T) {
	records := sampleRecords()
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, generatedAt.Unix(), first.Timestamp)
	assert.Equal(t, "req-1", first.RequestID)
	assert.Equal(t, "user-1", first.UserID)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Tier1", first.Tier)
	assert.Equal(t, "prime commercial area", first.TierDescription)
	assert.Equal(t, "none", first.NeutralDefaults)
	assert.Equal(t, []string{"specializes in fashion", "popular with 20s female"}, first.Reasons)

	assert.Equal(t, "income|industry", records[1].NeutralDefaults)
	assert.Equal(t, "basic commercial area", records[1].TierDescription)

	noDescribe := NewRecords(sampleResponse(), nil)
	assert.Empty(t, noDescribe[0].TierDescription)

	empty := NewRecords(&recommender.Response{RequestID: "x"}, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPublish(t *testing.T) {
	dest := &memoryDestination{}
	require.NoError(t, Publish(dest, "recs", sampleRecords()))
	require.Len(t, dest.messages, 2)
	assert.Equal(t, []string{"recs", "recs"}, dest.topics)

	rec, err := decodeRecord(dest.messages[1])
	require.NoError(t, err)
	assert.Equal(t, "Mapo", rec.Region)
	assert.Equal(t, 2, rec.Rank)
}

func TestPublish_StopsOnError(t *testing.T) {
	dest := &memoryDestination{failAt: 2}
	err := Publish(dest, "recs", sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "req-1/2")
	assert.Len(t, dest.messages, 1)
}

func TestDecodeRecord_Invalid(t *testing.T) {
	_, err := decodeRecord([]byte("not json"))
	assert.Error(t, err)
}

func TestPartitionPath(t *testing.T) {
	assert.Equal(t, testPartition, partitionPath(generatedAt))
	assert.Equal(t, "year=2023/month=12/day=31/hour=00", partitionPath(time.Date(2023, 12, 31, 0, 5, 0, 0, time.UTC)))
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	publishAll(t, NewConsoleOutput(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[recommendations] {"))
	assert.Contains(t, lines[0], `"region":"Gangnam"`)
}

func TestJSONOutput(t *testing.T) {
	dir := t.TempDir()
	publishAll(t, NewJSONOutput(dir, "out"))

	data, err := os.ReadFile(filepath.Join(dir, "out", models.RecommendationTopic, testPartition, "data.json"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec RecommendationRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "Gangnam", rec.Region)
	assert.InDelta(t, 66.0, rec.FinalScore, 1e-9)
}

func TestCSVOutput(t *testing.T) {
	dir := t.TempDir()
	publishAll(t, NewCSVOutput(dir, "out"))

	f, err := os.Open(filepath.Join(dir, "out", models.RecommendationTopic, testPartition, "data.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeaders, rows[0])
	assert.Equal(t, "Gangnam", rows[1][5])
	assert.Equal(t, "66.0000", rows[1][8])
	assert.Equal(t, "specializes in fashion; popular with 20s female", rows[1][16])
	assert.Equal(t, "income|industry", rows[2][15])
}

func TestParquetOutput_Local(t *testing.T) {
	dir := t.TempDir()
	publishAll(t, newParquetOutput(dir, "out", logger.NewNop()))

	fr, err := local.NewLocalFileReader(filepath.Join(dir, "out", models.RecommendationTopic, testPartition, "data.parquet"))
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetRecord), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	require.Equal(t, 2, n)

	rows := make([]parquetRecord, n)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, "Gangnam", rows[0].Region)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "specializes in fashion; popular with 20s female", rows[0].Reasons)
	assert.Equal(t, "Mapo", rows[1].Region)
	assert.Equal(t, "income|industry", rows[1].NeutralDefaults)
}

type memoryCloudWriter struct {
	buf    bytes.Buffer
	closed bool
}

func (w *memoryCloudWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memoryCloudWriter) Close() error {
	w.closed = true
	return nil
}

type memoryCloudFactory struct {
	objects map[string]*memoryCloudWriter
}

func (f *memoryCloudFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	w := &memoryCloudWriter{}
	f.objects[bucket+"/"+objectPath] = w
	return w, nil
}

func TestParquetOutput_Cloud(t *testing.T) {
	factory := &memoryCloudFactory{objects: map[string]*memoryCloudWriter{}}
	out := newParquetOutput("", "out", logger.NewNop()).WithCloudWriter(factory, "bucket")
	publishAll(t, out)

	key := "bucket/out/" + models.RecommendationTopic + "/" + testPartition + "/data.parquet"
	require.Contains(t, factory.objects, key)

	obj := factory.objects[key]
	assert.True(t, obj.closed)
	data := obj.buf.Bytes()
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))
}

func TestCloudParquetFile_Seek(t *testing.T) {
	f := NewCloudParquetFile(&memoryCloudWriter{})
	n, err := f.Write([]byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	_, err = f.Seek(0, io.SeekEnd)
	assert.Error(t, err)

	_, err = f.Read(make([]byte, 1))
	assert.Error(t, err)
}

type recordingExecer struct {
	sql  []string
	args [][]any
	err  error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), r.err
}

func TestPostgresOutput(t *testing.T) {
	db := &recordingExecer{}
	out := &PostgresOutput{ctx: context.Background(), db: db}
	publishAll(t, out)

	require.Len(t, db.sql, 2)
	assert.Contains(t, db.sql[0], `INSERT INTO "recommendations"`)
	assert.Equal(t, "req-1", db.args[0][0])
	assert.Equal(t, 1, db.args[0][2])
	assert.Equal(t, "Tier1", db.args[0][8])
	assert.Equal(t, []string{}, db.args[1][9])
	createdAt, ok := db.args[0][10].(time.Time)
	require.True(t, ok)
	assert.True(t, generatedAt.Equal(createdAt))
}

func TestPostgresOutput_Error(t *testing.T) {
	out := &PostgresOutput{ctx: context.Background(), db: &recordingExecer{err: errors.New("down")}}
	err := out.WriteMessage("recs", []byte(`{"rank":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recs")
}

func TestTopicToTable(t *testing.T) {
	assert.Equal(t, "region_recs_v1", topicToTable("Region-Recs.v1"))
}

func TestNewDestination(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	dest, err := NewDestination(ctx, &models.Config{Output: models.OutputConfig{Format: models.OutputFormatConsole}}, log)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleOutput{}, dest)

	dir := t.TempDir()
	dest, err = NewDestination(ctx, &models.Config{Output: models.OutputConfig{Format: models.OutputFormatCSV, Path: dir}}, log)
	require.NoError(t, err)
	assert.IsType(t, &CSVOutput{}, dest)

	dest, err = NewDestination(ctx, &models.Config{Output: models.OutputConfig{
		Format: models.OutputFormatParquet, Path: dir, Destination: models.OutputDestinationLocal,
	}}, log)
	require.NoError(t, err)
	assert.IsType(t, &ParquetOutput{}, dest)

	_, err = NewDestination(ctx, &models.Config{Output: models.OutputConfig{Format: "xml"}}, log)
	assert.Error(t, err)

	_, err = NewDestination(ctx, &models.Config{Output: models.OutputConfig{
		Format: models.OutputFormatParquet, Destination: "cloud",
		CloudStorage: models.CloudStorageConfig{Provider: "gcs"},
	}}, log)
	assert.Error(t, err)
}
