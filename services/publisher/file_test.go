package publisher

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"sjsage522/mpcontacts/internal/contact"
	apperrors "sjsage522/mpcontacts/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRecords = []contact.Record{
	{
		Name:                 "Jane Doe",
		PoliticalAffiliation: "Independent",
		Constituency:         "Ottawa Centre",
		ProvinceTerritory:    "Ontario",
		PreferredLanguage:    "English",
		Contact:              "jane.doe@ola.org",
		Telephone:            "613-555-0100",
		Url:                  "https://www.ola.org/en/members/all/jane-doe",
	},
	{
		Name:              "Pierre Tremblay",
		Govt:              "Member of Parliament",
		ProvinceTerritory: "Québec",
		Url:               "https://www.ourcommons.ca/members/en/pierre-tremblay(1)",
	},
}

func publishAll(t *testing.T, p Publisher) {
	t.Helper()
	for _, rec := range testRecords {
		require.NoError(t, p.Publish(context.Background(), "Test", rec))
	}
	require.NoError(t, p.Close())
}

func TestFilePublisherJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	p, err := NewFilePublisher(path)
	require.NoError(t, err)
	assert.Equal(t, path, p.Path())
	publishAll(t, p)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []contact.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec contact.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		got = append(got, rec)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, testRecords, got)
}

func TestFilePublisherJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	p, err := NewFilePublisher(path)
	require.NoError(t, err)
	publishAll(t, p)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []contact.Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, testRecords, got)
}

func TestFilePublisherEmptyJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	p, err := NewFilePublisher(path)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestFilePublisherCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	p, err := NewFilePublisher(path)
	require.NoError(t, err)
	publishAll(t, p)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, contact.Fields, rows[0])
	assert.Equal(t, testRecords[0].Values(), rows[1])
	assert.Equal(t, "Québec", rows[2][4])
}

func TestFilePublisherConcurrentPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	p, err := NewFilePublisher(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Publish(context.Background(), "Test", testRecords[0]))
		}()
	}
	wg.Wait()
	require.NoError(t, p.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec contact.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		lines++
	}
	assert.Equal(t, 50, lines)
}

func TestFilePublisherAfterClose(t *testing.T) {
	p, err := NewFilePublisher(filepath.Join(t.TempDir(), "out.csv"))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err = p.Publish(context.Background(), "BC", testRecords[0])
	assert.ErrorIs(t, err, apperrors.ErrSink)
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"contacts.jsonl", FormatJSONLines, false},
		{"out/Contacts.JSON", FormatJSON, false},
		{"contacts.csv", FormatCSV, false},
		{"contacts.xlsx", "", true},
		{"contacts", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFilePublisherMissingDirectory(t *testing.T) {
	_, err := NewFilePublisher(filepath.Join(t.TempDir(), "missing", "out.jsonl"))
	assert.ErrorIs(t, err, apperrors.ErrSink)
}
