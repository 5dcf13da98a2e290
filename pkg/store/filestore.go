package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/privamed/smpc/pkg/session"
)

// FileStore persists each session as a JSON file under a directory.
// Sessions are loaded into a cache on open; Save writes through to disk,
// so a COMPUTED result survives a process restart.
type FileStore struct {
	mu       sync.RWMutex
	dir      string
	sessions map[string]*session.Session
}

// NewFileStore opens (or creates) a file-backed store at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	fs := &FileStore{
		dir:      dir,
		sessions: make(map[string]*session.Session),
	}

	if err := fs.loadAll(); err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	return fs, nil
}

func (fs *FileStore) Save(s *session.Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}

	if err := os.WriteFile(fs.filename(s.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write session %s: %w", s.ID, err)
	}

	fs.sessions[s.ID] = s.Clone()
	return nil
}

func (fs *FileStore) Load(id string) (*session.Session, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	s, ok := fs.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (fs *FileStore) List(filter Filter) ([]*session.Session, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var result []*session.Session
	for _, s := range fs.sessions {
		if filter.matches(s) {
			result = append(result, s.Clone())
		}
	}

	sortNewestFirst(result)
	return result, nil
}

func (fs *FileStore) loadAll() error {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(fs.dir, entry.Name()))
		if err != nil {
			return err
		}

		var s session.Session
		if err := json.Unmarshal(data, &s); err != nil {
			// Skip unreadable files rather than refusing to open the store.
			continue
		}

		fs.sessions[s.ID] = &s
	}

	return nil
}

func (fs *FileStore) filename(id string) string {
	safe := strings.ReplaceAll(id, string(filepath.Separator), "_")
	return filepath.Join(fs.dir, safe+".json")
}
