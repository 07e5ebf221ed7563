package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"hifi-account-api/internal/domain"
	resp "hifi-account-api/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // JSON body；空 body 或非 JSON Content-Type 视为 {}
	BindQuery Binder = "query" // URL ?a=b
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.Query 取
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // 默认 POST
	Path    string
	Binder  Binder
	Status  int // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 绑定 → 执行 → 统一错误映射
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Message("Request body too large"))
				return
			}
			resp.Fail(c, e.log, domain.ErrInvalidBody)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, e.log, err)
			return
		}
		c.JSON(status, out)
	}

	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodPost
	}
	e.g.Handle(method, a.Path, h)
}

func bind(c *gin.Context, b Binder, obj any) error {
	switch b {
	case BindJSON:
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			return nil
		}
		// 非 JSON 的 Content-Type 不解析 body，按 {} 处理
		if c.ContentType() != binding.MIMEJSON {
			return nil
		}
		err := c.ShouldBindJSON(obj)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	case BindQuery:
		return c.ShouldBindQuery(obj)
	default:
		return nil
	}
}
