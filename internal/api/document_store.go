package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// uploadedDocument 已上传的 XML 原文
type uploadedDocument struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FieldCount int       `json:"fieldCount"`
	ExpiresAt  time.Time `json:"expiresAt"`
	text       string
}

// documentStore 上传文档的临时缓存（按 TTL 过期，不落盘）
type documentStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]uploadedDocument
	now   func() time.Time
}

func newDocumentStore(ttl time.Duration) *documentStore {
	return &documentStore{
		ttl:   ttl,
		items: make(map[string]uploadedDocument),
		now:   time.Now,
	}
}

func (s *documentStore) put(filename, text string, fieldCount int) uploadedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	doc := uploadedDocument{
		ID:         uuid.New().String(),
		Filename:   filename,
		FieldCount: fieldCount,
		ExpiresAt:  now.Add(s.ttl),
		text:       text,
	}
	s.items[doc.ID] = doc
	return doc
}

func (s *documentStore) get(id string) (uploadedDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	doc, ok := s.items[id]
	return doc, ok
}

func (s *documentStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

func (s *documentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())
	return len(s.items)
}

func (s *documentStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.ExpiresAt) {
			delete(s.items, k)
		}
	}
}
