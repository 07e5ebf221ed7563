package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hifi-account-api/internal/core/mailer"
	"hifi-account-api/internal/feature/contact"
	"hifi-account-api/internal/feature/user"
	"hifi-account-api/internal/repo"
	"hifi-account-api/pkg/utils"
)

const allowed = "http://localhost:5173"

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m mailer.Message) error {
	f.sent = append(f.sent, m)
	return f.err
}

type testAPI struct {
	h     http.Handler
	store *repo.MemoryStore
	mail  *fakeMailer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repo.NewMemoryStore()
	m := &fakeMailer{}
	l := zap.NewNop()
	h := NewAPIEngine(l, Deps{
		Users:          user.NewService(store, utils.PasswordHasher{Cost: bcrypt.MinCost}, l),
		Contact:        contact.NewService(m, l),
		CORSOrigins:    []string{allowed},
		RequestTimeout: 5 * time.Second,
		MaxInflight:    10,
		MaxBodyBytes:   1 << 20,
	})
	return &testAPI{h: h, store: store, mail: m}
}

func (a *testAPI) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(t *testing.T, body string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestRegisterFlow(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/register", `{"email":"a@x.com","password":"p","fullname":"A"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User registered","user":{"email":"a@x.com","fullname":"A"}}`, w.Body.String())

	raw := string(a.store.Raw())
	assert.Contains(t, raw, `"email": "a@x.com"`)
	assert.NotContains(t, raw, `"password": "p"`)

	w = a.do(t, http.MethodPost, "/api/register", `{"email":"a@x.com","password":"q","fullname":"B"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, w.Body.String())
}

func TestRegister_BadInput(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A"}`)
	before := a.store.Raw()

	cases := []struct {
		name, body, want string
	}{
		{"missing fullname", `{"email":"b@x.com","password":"p"}`, `{"message":"Missing required fields"}`},
		{"empty body", ``, `{"message":"Missing required fields"}`},
		{"malformed", `{"email":`, `{"message":"Invalid request body"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := a.do(t, http.MethodPost, "/api/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
	assert.Equal(t, before, a.store.Raw())
}

func TestRegister_LongPassword(t *testing.T) {
	a := newTestAPI(t)
	long := strings.Repeat("x", 80)

	a.register(t, `{"email":"a@x.com","password":"`+long+`","fullname":"A"}`)
	w := a.do(t, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"`+long+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// 已存在的 email 用超长密码注册仍是 409
	w = a.do(t, http.MethodPost, "/api/register", `{"email":"a@x.com","password":"`+strings.Repeat("y", 100)+`","fullname":"B"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A","city":"Oslo"}`)

	w := a.do(t, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"p"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@x.com","fullname":"A","city":"Oslo"}`, w.Body.String())
	assert.NotContains(t, decode(t, w), "password")

	wrong := a.do(t, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"nope"}`)
	unknown := a.do(t, http.MethodPost, "/api/login", `{"email":"ghost@x.com","password":"p"}`)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, `{"message":"Invalid email or password"}`, wrong.Body.String())
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestProfileGet(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A"}`)

	w := a.do(t, http.MethodGet, "/api/profile?email=a@x.com", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@x.com","fullname":"A"}`, w.Body.String())

	for _, target := range []string{"/api/profile?email=ghost@x.com", "/api/profile"} {
		w = a.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
	}
}

func TestProfileUpdate(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A","phone":"123"}`)

	w := a.do(t, http.MethodPatch, "/api/profile", `{"email":"a@x.com","city":"X"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Profile updated"}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/profile?email=a@x.com", "")
	assert.JSONEq(t, `{"email":"a@x.com","fullname":"A","phone":"123","city":"X"}`, w.Body.String())

	// 密码不受影响
	w = a.do(t, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"p"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileUpdate_Errors(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A"}`)

	cases := []struct {
		name, body string
		code       int
		want       string
	}{
		{"no email", `{"city":"X"}`, http.StatusBadRequest, `{"message":"Email is required"}`},
		{"unknown field", `{"email":"a@x.com","password":"new"}`, http.StatusBadRequest, `{"message":"Unsupported field: password"}`},
		{"non-string", `{"email":"a@x.com","zipcode":123}`, http.StatusBadRequest, `{"message":"Field zipcode must be a string"}`},
		{"non-string email", `{"email":123,"city":"X"}`, http.StatusBadRequest, `{"message":"Field email must be a string"}`},
		{"null email", `{"email":null,"city":"X"}`, http.StatusBadRequest, `{"message":"Email is required"}`},
		{"not found", `{"email":"ghost@x.com","city":"X"}`, http.StatusNotFound, `{"message":"User not found"}`},
		{"not an object", `[1,2]`, http.StatusBadRequest, `{"message":"Invalid request body"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := a.do(t, http.MethodPatch, "/api/profile", tc.body)
			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
}

func TestProfileDelete(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A"}`)
	a.register(t, `{"email":"b@x.com","password":"p","fullname":"B"}`)

	w := a.do(t, http.MethodDelete, "/api/profile", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Email is required"}`, w.Body.String())

	w = a.do(t, http.MethodDelete, "/api/profile", `{"email":"ghost@x.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodDelete, "/api/profile", `{"email":"a@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User deleted"}`, w.Body.String())

	// body 为空时从 query 取
	w = a.do(t, http.MethodDelete, "/api/profile?email=b@x.com", "")
	require.Equal(t, http.StatusOK, w.Code)

	for _, e := range []string{"a@x.com", "b@x.com"} {
		w = a.do(t, http.MethodGet, "/api/profile?email="+e, "")
		assert.Equal(t, http.StatusNotFound, w.Code, e)
	}
}

func TestProfileDelete_BodyWinsOverQuery(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A"}`)
	a.register(t, `{"email":"b@x.com","password":"p","fullname":"B"}`)

	w := a.do(t, http.MethodDelete, "/api/profile?email=b@x.com", `{"email":"a@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/profile?email=a@x.com", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(t, http.MethodGet, "/api/profile?email=b@x.com", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileDelete_NonJSONBodyFallsBackToQuery(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, `{"email":"a@x.com","password":"p","fullname":"A"}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/profile?email=a@x.com", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"User deleted"}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/profile?email=a@x.com", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContact(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/contact", `{"name":"Bo","email":"bo@x.com","message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Email sent successfully!"}`, w.Body.String())
	require.Len(t, a.mail.sent, 1)
	assert.Equal(t, "Contact Form Message from Bo", a.mail.sent[0].Subject)
	assert.Equal(t, "bo@x.com", a.mail.sent[0].ReplyTo)

	a.mail.err = errors.New("smtp: 535 bad credentials")
	w = a.do(t, http.MethodPost, "/api/contact", `{"name":"Bo","email":"bo@x.com","message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to send email. Please try again later."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "535")
}

func TestStoreFailureIs500(t *testing.T) {
	a := newTestAPI(t)
	a.store.LoadErr = errors.New("corrupt document")

	w := a.do(t, http.MethodGet, "/api/profile?email=a@x.com", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
}

func TestPlainEndpoints(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, World!", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	w = a.do(t, http.MethodGet, "/test-cors", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"CORS is working!"}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = a.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCORS(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/test-cors", nil)
	req.Header.Set("Origin", allowed)
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, allowed, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/register", nil)
	req.Header.Set("Origin", allowed)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/test-cors", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
