package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record kinds persisted by the pipeline.
type Kind string

const (
	KindViewModel    Kind = "viewmodel"
	KindDominance    Kind = "dominance"
	KindCuratedMedia Kind = "curated_media"
	KindActorStance  Kind = "actor_stance"
)

// Record is the append-only envelope around one persisted payload.
type Record struct {
	ID         string          `json:"id"`
	SubjectID  string          `json:"subject_id"`
	Kind       Kind            `json:"kind"`
	AppendedAt time.Time       `json:"appended_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Store is the persistence collaborator contract. Append-only: records are
// never edited or removed, and "latest" means last in persisted array order.
type Store interface {
	Append(kind Kind, subjectID string, payload any) (string, error)
	GetLatest(kind Kind, subjectID string) (json.RawMessage, error)
	GetAll(kind Kind, subjectID string) ([]json.RawMessage, error)
}

// FileStore keeps one JSON array file per (subject, kind) under a data dir.
// The read-all/append-one/write-all pattern is not safe under concurrent
// writers, so appends are serialized per subject.
type FileStore struct {
	dir string
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("[FileStore] cannot create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FileStore) subjectLock(subjectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locks[subjectID]; !ok {
		s.locks[subjectID] = &sync.Mutex{}
	}
	return s.locks[subjectID]
}

func (s *FileStore) path(kind Kind, subjectID string) string {
	return filepath.Join(s.dir, subjectID, string(kind)+".json")
}

func (s *FileStore) read(kind Kind, subjectID string) ([]Record, error) {
	raw, err := os.ReadFile(s.path(kind, subjectID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[FileStore] cannot read %s: %w", s.path(kind, subjectID), err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("[FileStore] corrupt record file %s: %w", s.path(kind, subjectID), err)
	}
	return records, nil
}

// Append reads the whole array, appends one record and rewrites the file
// through a temp file rename. Returns the stored record id.
func (s *FileStore) Append(kind Kind, subjectID string, payload any) (string, error) {
	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.read(kind, subjectID)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("[FileStore] cannot encode %s payload: %w", kind, err)
	}

	record := Record{
		ID:         fmt.Sprintf("%s-%s-%06d", kind, subjectID, len(records)+1),
		SubjectID:  subjectID,
		Kind:       kind,
		AppendedAt: s.now(),
		Payload:    encoded,
	}
	records = append(records, record)

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("[FileStore] cannot encode record file: %w", err)
	}

	path := s.path(kind, subjectID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("[FileStore] cannot create subject dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return "", fmt.Errorf("[FileStore] cannot write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("[FileStore] cannot replace %s: %w", path, err)
	}
	return record.ID, nil
}

// GetLatest returns the payload of the last record with a matching subject
// id, or nil when none exists.
func (s *FileStore) GetLatest(kind Kind, subjectID string) (json.RawMessage, error) {
	records, err := s.read(kind, subjectID)
	if err != nil {
		return nil, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].SubjectID == subjectID {
			return records[i].Payload, nil
		}
	}
	return nil, nil
}

// GetAll returns every payload for the subject in persisted order.
func (s *FileStore) GetAll(kind Kind, subjectID string) ([]json.RawMessage, error) {
	records, err := s.read(kind, subjectID)
	if err != nil {
		return nil, err
	}
	var payloads []json.RawMessage
	for _, r := range records {
		if r.SubjectID == subjectID {
			payloads = append(payloads, r.Payload)
		}
	}
	return payloads, nil
}
