package response

import (
	"net/http"

	"hifi-account-api/internal/domain"
)

// KindStatus 错误类别 → HTTP 状态码
var KindStatus = map[domain.Kind]int{
	domain.KindValidation: http.StatusBadRequest,
	domain.KindConflict:   http.StatusConflict,
	domain.KindNotFound:   http.StatusNotFound,
	domain.KindAuth:       http.StatusUnauthorized,
	domain.KindExternal:   http.StatusInternalServerError,
	domain.KindInternal:   http.StatusInternalServerError,
}

const MsgInternal = "Internal server error"
