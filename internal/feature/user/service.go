package user

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"hifi-account-api/internal/domain"
)

type Hasher interface {
	Hash(pw string) (string, error)
	Check(pw, hashed string) bool
}

// Service 所有写操作（load→修改→save）串行化，避免并发丢更新
type Service struct {
	store  domain.UserStore
	hasher Hasher
	log    *zap.Logger
	mu     sync.Mutex
}

func NewService(store domain.UserStore, hasher Hasher, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{store: store, hasher: hasher, log: l}
}

type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Fullname string  `json:"fullname"`
	Phone    *string `json:"phone"`
	Address1 *string `json:"address1"`
	Address2 *string `json:"address2"`
	City     *string `json:"city"`
	Zipcode  *string `json:"zipcode"`
	Country  *string `json:"country"`
}

// Register 先查重再哈希，重复注册不付 bcrypt 的代价
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.Profile, error) {
	if in.Email == "" || in.Password == "" || in.Fullname == "" {
		return domain.Profile{}, domain.ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	if domain.IndexByEmail(users, in.Email) >= 0 {
		return domain.Profile{}, domain.ErrUserExists
	}
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		Email:    in.Email,
		Password: hashed,
		Fullname: in.Fullname,
		Phone:    in.Phone,
		Address1: in.Address1,
		Address2: in.Address2,
		City:     in.City,
		Zipcode:  in.Zipcode,
		Country:  in.Country,
	}
	if err := s.store.Save(ctx, append(users, u)); err != nil {
		return domain.Profile{}, err
	}
	s.log.Info("user registered", zap.String("email", u.Email))
	return u.Profile(), nil
}

// Login 用户不存在与密码错误返回同一个错误
func (s *Service) Login(ctx context.Context, email, password string) (domain.Profile, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	i := domain.IndexByEmail(users, email)
	if i < 0 || !s.hasher.Check(password, users[i].Password) {
		return domain.Profile{}, domain.ErrInvalidCredentials
	}
	return users[i].Profile(), nil
}

func (s *Service) Get(ctx context.Context, email string) (domain.Profile, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	i := domain.IndexByEmail(users, email)
	if i < 0 {
		return domain.Profile{}, domain.ErrUserNotFound
	}
	return users[i].Profile(), nil
}

func (s *Service) Delete(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	i := domain.IndexByEmail(users, email)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	users = append(users[:i], users[i+1:]...)
	if err := s.store.Save(ctx, users); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("email", email))
	return nil
}

// 可更新字段白名单（email 是查找键，password 不走这里）
var optionalFields = map[string]func(u *domain.User) **string{
	"phone":    func(u *domain.User) **string { return &u.Phone },
	"address1": func(u *domain.User) **string { return &u.Address1 },
	"address2": func(u *domain.User) **string { return &u.Address2 },
	"city":     func(u *domain.User) **string { return &u.City },
	"zipcode":  func(u *domain.User) **string { return &u.Zipcode },
	"country":  func(u *domain.User) **string { return &u.Country },
}

type patch func(u *domain.User)

// compilePatch 校验 body 中除 email 外的每个键；按键名排序保证报错稳定
func compilePatch(fields map[string]any) ([]patch, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "email" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]patch, 0, len(keys))
	for _, k := range keys {
		v := fields[k]
		if k == "fullname" {
			name, ok := v.(string)
			if !ok {
				return nil, domain.Validation("Field fullname must be a string")
			}
			out = append(out, func(u *domain.User) { u.Fullname = name })
			continue
		}
		field, ok := optionalFields[k]
		if !ok {
			return nil, domain.Validation("Unsupported field: " + k)
		}
		switch val := v.(type) {
		case nil:
			out = append(out, func(u *domain.User) { *field(u) = nil })
		case string:
			out = append(out, func(u *domain.User) { *field(u) = &val })
		default:
			return nil, domain.Validation("Field " + k + " must be a string")
		}
	}
	return out, nil
}

// Update 只覆盖 body 中出现的字段
func (s *Service) Update(ctx context.Context, email string, fields map[string]any) error {
	if email == "" {
		return domain.ErrEmailRequired
	}
	patches, err := compilePatch(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	i := domain.IndexByEmail(users, email)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	for _, p := range patches {
		p(&users[i])
	}
	if err := s.store.Save(ctx, users); err != nil {
		return err
	}
	s.log.Info("profile updated", zap.String("email", email), zap.Int("fields", len(patches)))
	return nil
}
