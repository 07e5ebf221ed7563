package domain

import "context"

// User 用户记录（整个集合作为一个 JSON 文档持久化）
type User struct {
	Email    string  `json:"email"`
	Password string  `json:"password"` // bcrypt 哈希
	Fullname string  `json:"fullname"`
	Phone    *string `json:"phone,omitempty"`
	Address1 *string `json:"address1,omitempty"`
	Address2 *string `json:"address2,omitempty"`
	City     *string `json:"city,omitempty"`
	Zipcode  *string `json:"zipcode,omitempty"`
	Country  *string `json:"country,omitempty"`
}

// Profile 对外返回的用户视图（不含密码）
type Profile struct {
	Email    string  `json:"email"`
	Fullname string  `json:"fullname"`
	Phone    *string `json:"phone,omitempty"`
	Address1 *string `json:"address1,omitempty"`
	Address2 *string `json:"address2,omitempty"`
	City     *string `json:"city,omitempty"`
	Zipcode  *string `json:"zipcode,omitempty"`
	Country  *string `json:"country,omitempty"`
}

func (u User) Profile() Profile {
	return Profile{
		Email:    u.Email,
		Fullname: u.Fullname,
		Phone:    u.Phone,
		Address1: u.Address1,
		Address2: u.Address2,
		City:     u.City,
		Zipcode:  u.Zipcode,
		Country:  u.Country,
	}
}

// Document 持久化文档：{"users": [...]}
type Document struct {
	Users []User `json:"users"`
}

// UserStore 整体读写用户集合，无索引、无局部写
type UserStore interface {
	Load(ctx context.Context) ([]User, error)
	Save(ctx context.Context, users []User) error
}

// IndexByEmail 线性查找，返回第一个匹配下标；没有返回 -1
func IndexByEmail(users []User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}
