package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONOutput appends newline-delimited records to
// <base>/<folder>/<topic>/<partition>/data.json.
type JSONOutput struct {
	basePath string
	folder   string

	mu    sync.Mutex
	files map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	rec, err := decodeRecord(msg)
	if err != nil {
		return err
	}

	partition := partitionPath(rec.eventTime())
	fullPath := filepath.Join(j.basePath, j.folder, topic, partition)
	fileKey := topic + "/" + partition

	j.mu.Lock()
	defer j.mu.Unlock()

	file, ok := j.files[fileKey]
	if !ok {
		if err := mkdirAll(fullPath); err != nil {
			return err
		}
		file, err = os.OpenFile(filepath.Join(fullPath, "data.json"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write %s: %w", file.Name(), err)
	}
	return nil
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var firstErr error
	for key, file := range j.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(j.files, key)
	}
	return firstErr
}

// CSVOutput writes one data.csv per topic and hourly partition, with a header
// row on creation.
type CSVOutput struct {
	basePath string
	folder   string

	mu      sync.Mutex
	files   map[string]*os.File
	writers map[string]*csv.Writer
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	rec, err := decodeRecord(msg)
	if err != nil {
		return err
	}

	partition := partitionPath(rec.eventTime())
	fullPath := filepath.Join(c.basePath, c.folder, topic, partition)
	fileKey := topic + "/" + partition

	c.mu.Lock()
	defer c.mu.Unlock()

	csvWriter, ok := c.writers[fileKey]
	if !ok {
		if err := mkdirAll(fullPath); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		if err := csvWriter.Write(csvHeaders); err != nil {
			file.Close()
			return err
		}
		c.files[fileKey] = file
		c.writers[fileKey] = csvWriter
	}

	if err := csvWriter.Write(rec.csvRow()); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := c.files[key].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.writers, key)
		delete(c.files, key)
	}
	return firstErr
}

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
