package publisher

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sjsage522/mpcontacts/internal/contact"
	apperrors "sjsage522/mpcontacts/pkg/errors"
)

// Format is an output file encoding
type Format string

const (
	FormatJSONLines Format = "jsonl"
	FormatJSON      Format = "json"
	FormatCSV       Format = "csv"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); Format(ext) {
	case FormatJSONLines, FormatJSON, FormatCSV:
		return Format(ext), nil
	default:
		return "", apperrors.NewConfiguration(fmt.Sprintf("unsupported output file %q", path), nil)
	}
}

// FilePublisher writes records to a local file. JSON lines and CSV are
// streamed; a JSON array is buffered and written on Close.
type FilePublisher struct {
	mu      sync.Mutex
	path    string
	format  Format
	file    *os.File
	buf     *bufio.Writer
	csv     *csv.Writer
	records []contact.Record
	closed  bool
}

// NewFilePublisher truncates or creates path. The format follows the
// extension.
func NewFilePublisher(path string) (*FilePublisher, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewSink("", "create output file", err)
	}

	p := &FilePublisher{
		path:   path,
		format: format,
		file:   f,
		buf:    bufio.NewWriter(f),
	}

	if format == FormatCSV {
		p.csv = csv.NewWriter(p.buf)
		if err := p.csv.Write(contact.Fields); err != nil {
			f.Close()
			return nil, apperrors.NewSink("", "write csv header", err)
		}
	}

	return p, nil
}

// Path returns the output file path
func (p *FilePublisher) Path() string {
	return p.path
}

// Publish appends rec to the output
func (p *FilePublisher) Publish(_ context.Context, jurisdiction string, rec contact.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return apperrors.NewSink(jurisdiction, "publish to closed file", os.ErrClosed)
	}

	var err error
	switch p.format {
	case FormatJSONLines:
		var line []byte
		if line, err = json.Marshal(rec); err == nil {
			line = append(line, '\n')
			_, err = p.buf.Write(line)
		}
	case FormatCSV:
		if err = p.csv.Write(rec.Values()); err == nil {
			// keep the file readable while a long crawl is running
			p.csv.Flush()
			err = p.csv.Error()
		}
	case FormatJSON:
		p.records = append(p.records, rec)
	}
	if err != nil {
		return apperrors.NewSink(jurisdiction, "write "+string(p.format)+" record", err)
	}
	return nil
}

// Close writes any buffered records and closes the file
func (p *FilePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	if p.format == FormatJSON {
		records := p.records
		if records == nil {
			records = []contact.Record{}
		}
		enc := json.NewEncoder(p.buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	}
	if ferr := p.buf.Flush(); err == nil {
		err = ferr
	}
	if cerr := p.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return apperrors.NewSink("", "close output file", err)
	}
	return nil
}
