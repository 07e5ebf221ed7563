package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hifi-account-api/internal/domain"
	"hifi-account-api/internal/feature/user"
	httpez "hifi-account-api/internal/transport/http/ez"
	resp "hifi-account-api/internal/transport/http/response"
)

type UserHandler struct {
	svc *user.Service
	log *zap.Logger
}

func NewUserHandler(svc *user.Service, l *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: l}
}

func (h *UserHandler) Priority() int { return 10 }

type registerOut struct {
	Message string `json:"message"`
	User    struct {
		Email    string `json:"email"`
		Fullname string `json:"fullname"`
	} `json:"user"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileQ struct {
	Email string `form:"email"`
}

type deleteIn struct {
	Email string `json:"email"`
}

// MountAPI /register /login /profile
func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.log)

	httpez.RegisterAction(ez, httpez.Action[user.RegisterInput, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *user.RegisterInput) (registerOut, error) {
			p, err := h.svc.Register(c.Request.Context(), *in)
			if err != nil {
				return registerOut{}, err
			}
			var out registerOut
			out.Message = "User registered"
			out.User.Email = p.Email
			out.User.Fullname = p.Fullname
			return out, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[loginIn, domain.Profile]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (domain.Profile, error) {
			return h.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[profileQ, domain.Profile]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *profileQ) (domain.Profile, error) {
			return h.svc.Get(c.Request.Context(), in.Email)
		},
	})

	// 先取 body 里的 email，没有再看 ?email=
	httpez.RegisterAction(ez, httpez.Action[deleteIn, gin.H]{
		Method: http.MethodDelete,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *deleteIn) (gin.H, error) {
			email := in.Email
			if email == "" {
				email = c.Query("email")
			}
			if err := h.svc.Delete(c.Request.Context(), email); err != nil {
				return nil, err
			}
			return resp.Message("User deleted"), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[map[string]any, gin.H]{
		Method: http.MethodPatch,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *map[string]any) (gin.H, error) {
			fields := *in
			email, ok := fields["email"].(string)
			if v, present := fields["email"]; present && v != nil && !ok {
				return nil, domain.Validation("Field email must be a string")
			}
			if err := h.svc.Update(c.Request.Context(), email, fields); err != nil {
				return nil, err
			}
			return resp.Message("Profile updated"), nil
		},
	})
}
