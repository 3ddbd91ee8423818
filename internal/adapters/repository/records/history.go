package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// AppendHistory writes entry to a new timestamped file. Existing history
// files are never opened for writing.
func (s *FileStore) AppendHistory(ctx context.Context, entry *models.UpgradeHistoryEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = s.now().UTC()
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", s.dir, err)
	}

	prefix := fmt.Sprintf(HistoryFilePrefix, models.ContractKey(entry.Contract), entry.Network)
	stamp := strconv.FormatInt(entry.RecordedAt.UnixMilli(), 10)

	for attempt := 0; attempt < 100; attempt++ {
		name := prefix + stamp
		if attempt > 0 {
			name += "-" + strconv.Itoa(attempt)
		}
		path := filepath.Join(s.dir, name+".json")

		f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return "", fmt.Errorf("failed to create history file: %w", err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to write history file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", err
		}

		entry.Path = path
		s.log.Debug("Appended upgrade history", "path", path)
		return path, nil
	}

	return "", fmt.Errorf("failed to allocate history file for %s at %s", entry.Contract, stamp)
}

// ListHistory returns history entries for a contract, oldest first
func (s *FileStore) ListHistory(ctx context.Context, network, contract string) ([]*models.UpgradeHistoryEntry, error) {
	files, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	prefix := fmt.Sprintf(HistoryFilePrefix, models.ContractKey(contract), network)

	var entries []*models.UpgradeHistoryEntry
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || isTempFile(name) || !isHistoryFile(name, prefix) {
			continue
		}

		path := filepath.Join(s.dir, name)
		var entry models.UpgradeHistoryEntry
		if err := s.loadFile(path, &entry); err != nil {
			return nil, err
		}
		entry.Path = path
		entries = append(entries, &entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
			return entries[i].RecordedAt.Before(entries[j].RecordedAt)
		}
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

// isHistoryFile matches "<prefix><millis>[-<n>].json" so that network names
// sharing a prefix (local, local-fork) don't leak into each other.
func isHistoryFile(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
		return false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
	parts := strings.Split(rest, "-")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 64); err != nil {
			return false
		}
	}
	return true
}
