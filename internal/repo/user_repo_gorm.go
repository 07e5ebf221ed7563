package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hifi-account-api/internal/domain"
	"hifi-account-api/internal/feature/user"
)

// DocumentRepo 文档存在 documents 表的一行里（按 name 区分）
type DocumentRepo struct {
	db   *gorm.DB
	name string
}

func NewDocumentRepo(db *gorm.DB, name string) *DocumentRepo {
	if name == "" {
		name = "users"
	}
	return &DocumentRepo{db: db, name: name}
}

func (r *DocumentRepo) Migrate() error { return r.db.AutoMigrate(&user.DocumentModel{}) }

func (r *DocumentRepo) Load(ctx context.Context) ([]domain.User, error) {
	var m user.DocumentModel
	err := r.db.WithContext(ctx).First(&m, "name = ?", r.name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []domain.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", r.name, err)
	}
	return decodeDocument([]byte(m.Body))
}

func (r *DocumentRepo) Save(ctx context.Context, users []domain.User) error {
	b, err := encodeDocument(users)
	if err != nil {
		return err
	}
	m := user.DocumentModel{Name: r.name, Body: string(b)}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("save document %s: %w", r.name, err)
	}
	return nil
}
