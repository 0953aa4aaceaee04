package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/equilog/ride-telemetry-go/internal/models"
	"github.com/equilog/ride-telemetry-go/internal/storage"
)

// DefaultKey is the blob key holding the session document
const DefaultKey = "training_sessions"

// Repository errors
var (
	ErrNotFound           = errors.New("session not found")
	ErrStorageUnavailable = storage.ErrUnavailable
)

// SessionRepository persists finalized training sessions as a single JSON
// document in a KeyValueBlobStore. Put and Delete read the whole document,
// mutate it, and write it back; a mutex makes them linearizable with
// respect to each other and to Get/List.
type SessionRepository struct {
	blobs storage.KeyValueBlobStore
	key   string

	mu            sync.Mutex
	lastKnown     []models.TrainingSession
	corruptWarned bool
}

// NewSessionRepository creates a repository over the given blob store.
// An empty key selects DefaultKey.
func NewSessionRepository(blobs storage.KeyValueBlobStore, key string) *SessionRepository {
	if key == "" {
		key = DefaultKey
	}
	return &SessionRepository{blobs: blobs, key: key}
}

// Put inserts or replaces a session by id. The old document is retained
// when the write fails.
func (r *SessionRepository) Put(session models.TrainingSession) error {
	if session.ID == "" {
		return fmt.Errorf("failed to put session: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load()
	if err != nil {
		return fmt.Errorf("failed to put session %s: %w", session.ID, err)
	}

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}

	if err := r.save(sessions); err != nil {
		return fmt.Errorf("failed to put session %s: %w", session.ID, err)
	}
	return nil
}

// Get returns the session with the given id, or ErrNotFound
func (r *SessionRepository) Get(id string) (*models.TrainingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	for i := range sessions {
		if sessions[i].ID == id {
			s := sessions[i]
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

// List returns all sessions ordered by start time descending. When the
// backing store is unavailable it falls back to the last list successfully
// read in this process.
func (r *SessionRepository) List() ([]models.TrainingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load()
	if err != nil {
		log.Printf("[SessionRepository] List falling back to last known state: %v", err)
		sessions = append([]models.TrainingSession(nil), r.lastKnown...)
	}
	sortSessions(sessions)
	return sessions, nil
}

// ListForUser returns the user's sessions ordered by start time descending
func (r *SessionRepository) ListForUser(userID string) ([]models.TrainingSession, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.TrainingSession, 0, len(all))
	for _, s := range all {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// Delete removes a session by id; removing an unknown id is a no-op
func (r *SessionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	kept := sessions[:0]
	found := false
	for _, s := range sessions {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return nil
	}

	if err := r.save(kept); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// load reads and validates the document. A document that cannot be parsed
// is treated as empty after a single warning, so the next save overwrites
// it. Individual records failing validation are quarantined the same way.
func (r *SessionRepository) load() ([]models.TrainingSession, error) {
	raw, err := r.blobs.Read(r.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		r.lastKnown = nil
		return nil, nil
	}

	var doc struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		r.warnCorrupt(fmt.Sprintf("unparsable document: %v", err))
		r.lastKnown = nil
		return nil, nil
	}

	sessions := make([]models.TrainingSession, 0, len(doc.Sessions))
	quarantined := 0
	for _, rec := range doc.Sessions {
		var s models.TrainingSession
		if err := json.Unmarshal(rec, &s); err != nil || !validRecord(s) {
			quarantined++
			continue
		}
		sessions = append(sessions, s)
	}
	if quarantined > 0 {
		r.warnCorrupt(fmt.Sprintf("%d invalid records quarantined", quarantined))
	}

	r.lastKnown = append([]models.TrainingSession(nil), sessions...)
	return sessions, nil
}

func (r *SessionRepository) save(sessions []models.TrainingSession) error {
	doc := models.SessionDocument{Sessions: sessions}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode session document: %w", err)
	}
	if err := r.blobs.Write(r.key, raw); err != nil {
		return err
	}
	r.lastKnown = append([]models.TrainingSession(nil), sessions...)
	r.corruptWarned = false
	return nil
}

func (r *SessionRepository) warnCorrupt(detail string) {
	if r.corruptWarned {
		return
	}
	r.corruptWarned = true
	log.Printf("[SessionRepository] Corrupt session document (%s); treating as empty, next write overwrites", detail)
}

func validRecord(s models.TrainingSession) bool {
	return s.ID != "" && s.EndTime >= s.StartTime
}

func sortSessions(sessions []models.TrainingSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].StartTime != sessions[j].StartTime {
			return sessions[i].StartTime > sessions[j].StartTime
		}
		return sessions[i].ID < sessions[j].ID
	})
}
