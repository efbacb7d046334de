// Package store owns the persisted digest records and their rolling index:
// one JSON file per date plus a single index.json, all under one directory.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const indexFile = "index.json"

type Store struct {
	dir string
	log *slog.Logger
}

func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// RecordPath returns where the record for a date lives on disk.
func (s *Store) RecordPath(date string) string {
	return filepath.Join(s.dir, date+".json")
}

// Write persists a record, replacing any existing record for the same date.
// The write goes through a temp file and rename so a crash never leaves a
// half-written record for the index rebuild to trip over.
func (s *Store) Write(rec Record) error {
	if _, err := time.Parse("2006-01-02", rec.Date); err != nil {
		return fmt.Errorf("invalid record date %q: %w", rec.Date, err)
	}
	return s.writeJSON(s.RecordPath(rec.Date), rec)
}

func (s *Store) Load(date string) (Record, error) {
	data, err := os.ReadFile(s.RecordPath(date))
	if err != nil {
		return Record{}, fmt.Errorf("reading record %s: %w", date, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parsing record %s: %w", date, err)
	}
	return rec, nil
}

// Dates lists every persisted record date, newest first. Files that are not
// dated records (index.json, strays) are ignored.
func (s *Store) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == indexFile || !strings.HasSuffix(name, ".json") {
			continue
		}
		date := strings.TrimSuffix(name, ".json")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}
		dates = append(dates, date)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// RebuildIndex rescans every record and writes a fresh index. A record that
// cannot be read or parsed contributes an empty trending list instead of
// aborting the rebuild.
func (s *Store) RebuildIndex() (Index, error) {
	dates, err := s.Dates()
	if err != nil {
		return Index{}, err
	}

	idx := Index{Dates: dates, Meta: make(map[string][]string, len(dates))}
	for _, date := range dates {
		rec, err := s.Load(date)
		if err != nil {
			s.log.Warn("unreadable record, indexing with empty trending", "date", date, "err", err)
			idx.Meta[date] = []string{}
			continue
		}
		trending := rec.Trending
		if trending == nil {
			trending = []string{}
		}
		idx.Meta[date] = trending
	}

	if err := s.writeJSON(filepath.Join(s.dir, indexFile), idx); err != nil {
		return Index{}, err
	}
	return idx, nil
}

func (s *Store) LoadIndex() (Index, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		return Index{}, fmt.Errorf("reading index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{}, fmt.Errorf("parsing index: %w", err)
	}
	return idx, nil
}

// Stats returns the number of persisted records and their total size on disk.
func (s *Store) Stats() (int, int64, error) {
	dates, err := s.Dates()
	if err != nil {
		return 0, 0, err
	}
	var size int64
	for _, date := range dates {
		if info, err := os.Stat(s.RecordPath(date)); err == nil {
			size += info.Size()
		}
	}
	return len(dates), size, nil
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
