package repo

import (
	"context"
	"sync"

	"hifi-account-api/internal/domain"
)

// MemoryStore 进程内存储；保存编码后的文档，Load 每次得到独立副本。
// LoadErr / SaveErr 用于测试注入错误。
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte

	LoadErr error
	SaveErr error
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.doc == nil {
		return []domain.User{}, nil
	}
	return decodeDocument(s.doc)
}

func (s *MemoryStore) Save(_ context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	b, err := encodeDocument(users)
	if err != nil {
		return err
	}
	s.doc = b
	return nil
}

// Raw 当前文档原文
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.doc...)
}
