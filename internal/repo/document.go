package repo

import (
	"encoding/json"
	"fmt"

	"hifi-account-api/internal/domain"
)

// encodeDocument 整个集合序列化为 {"users": [...]}（两空格缩进）
func encodeDocument(users []domain.User) ([]byte, error) {
	if users == nil {
		users = []domain.User{}
	}
	b, err := json.MarshalIndent(domain.Document{Users: users}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode users document: %w", err)
	}
	return b, nil
}

// decodeDocument 缺少 users 键时视为空集合；内容损坏直接报错
func decodeDocument(b []byte) ([]domain.User, error) {
	var doc domain.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode users document: %w", err)
	}
	if doc.Users == nil {
		return []domain.User{}, nil
	}
	return doc.Users, nil
}
