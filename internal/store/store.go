// Package store holds the per-owner slam-book documents and the owner
// accounts. It is an in-memory document store with snapshot persistence;
// one document per owner key, answers appended in place under the store
// lock so concurrent submissions never overwrite each other.
package store

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when an operation targets a missing document.
var ErrNotFound = errors.New("document not found")

// ConfigRecord is the stored form of a slam-book config.
type ConfigRecord struct {
	ID           string    `msgpack:"id"`
	CreatorEmail string    `msgpack:"creator_email"`
	Title        string    `msgpack:"title"`
	ThemeColor   string    `msgpack:"theme_color"`
	Questions    []string  `msgpack:"questions"`
	CreatedAt    time.Time `msgpack:"created_at"`
}

// AnswerRecord is the stored form of one respondent submission.
// Records are append-only: nothing updates or deletes them.
type AnswerRecord struct {
	ID          string            `msgpack:"id"`
	FriendName  string            `msgpack:"friend_name"`
	Answers     map[string]string `msgpack:"answers"`
	SubmittedAt time.Time         `msgpack:"submitted_at"`
}

// SlamDocument is the full per-owner document.
type SlamDocument struct {
	Config  *ConfigRecord  `msgpack:"config"`
	Answers []AnswerRecord `msgpack:"answers"`
}

// UserRecord is an owner account, keyed by email.
type UserRecord struct {
	ID        string    `msgpack:"id"`
	Email     string    `msgpack:"email"`
	PassHash  []byte    `msgpack:"pass_hash"`
	CreatedAt time.Time `msgpack:"created_at"`
}

// Store is safe for concurrent use. All accessors copy on the way in
// and out, so callers can never mutate stored state behind the lock.
type Store struct {
	mu    sync.RWMutex
	slams map[string]*SlamDocument
	users map[string]*UserRecord
	dirty bool
}

func New() *Store {
	return &Store{
		slams: map[string]*SlamDocument{},
		users: map[string]*UserRecord{},
	}
}

// GetSlam returns a copy of the owner's document, or nil when absent.
func (s *Store) GetSlam(ownerKey string) *SlamDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDocument(s.slams[ownerKey])
}

// SetSlam replaces the owner's document wholesale, creating it when
// absent. Callers that need to preserve answers read them first; the
// store does not merge.
func (s *Store) SetSlam(ownerKey string, doc *SlamDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slams[ownerKey] = cloneDocument(doc)
	s.dirty = true
}

// AppendAnswer adds one answer to the owner's document. The append
// happens in place under the write lock, so interleaved calls all land;
// there is no read-modify-write window for a submission to vanish in.
func (s *Store) AppendAnswer(ownerKey string, ans AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.slams[ownerKey]
	if !ok {
		return ErrNotFound
	}
	doc.Answers = append(doc.Answers, cloneAnswer(ans))
	s.dirty = true
	return nil
}

// FindUserByEmail returns a copy of the account, or nil when unknown.
func (s *Store) FindUserByEmail(email string) *UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil
	}
	cp := *u
	cp.PassHash = append([]byte(nil), u.PassHash...)
	return &cp
}

// AddUser stores an account. Duplicate-email checks belong to the auth
// service; a second add for the same email overwrites.
func (s *Store) AddUser(u *UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	cp.PassHash = append([]byte(nil), u.PassHash...)
	s.users[u.Email] = &cp
	s.dirty = true
}

func cloneDocument(doc *SlamDocument) *SlamDocument {
	if doc == nil {
		return nil
	}
	out := &SlamDocument{}
	if doc.Config != nil {
		cfg := *doc.Config
		cfg.Questions = append([]string(nil), doc.Config.Questions...)
		out.Config = &cfg
	}
	if doc.Answers != nil {
		out.Answers = make([]AnswerRecord, 0, len(doc.Answers))
		for _, a := range doc.Answers {
			out.Answers = append(out.Answers, cloneAnswer(a))
		}
	}
	return out
}

func cloneAnswer(a AnswerRecord) AnswerRecord {
	cp := a
	cp.Answers = make(map[string]string, len(a.Answers))
	for k, v := range a.Answers {
		cp.Answers[k] = v
	}
	return cp
}
