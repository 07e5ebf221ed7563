package domain

import "errors"

type Kind uint8

const (
	KindInternal   Kind = iota // 500
	KindValidation             // 400
	KindConflict               // 409
	KindNotFound               // 404
	KindAuth                   // 401
	KindExternal               // 500，细节不返回给调用方
)

// Error 统一业务错误（Msg 直接返回给客户端，Err 只进日志）
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

func External(msg string, err error) error { return &Error{Kind: KindExternal, Msg: msg, Err: err} }

var (
	ErrMissingFields      = &Error{Kind: KindValidation, Msg: "Missing required fields"}
	ErrEmailRequired      = &Error{Kind: KindValidation, Msg: "Email is required"}
	ErrInvalidBody        = &Error{Kind: KindValidation, Msg: "Invalid request body"}
	ErrUserExists         = &Error{Kind: KindConflict, Msg: "User already exists"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Msg: "User not found"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Msg: "Invalid email or password"} // 与 NotFound 不区分，避免枚举账号
)

// KindOf 非 *Error 一律按 Internal 处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
