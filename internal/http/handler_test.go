package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gamestore/internal/auth"
	"gamestore/internal/domain"
	"gamestore/internal/repository"
	"gamestore/internal/repository/sqlite"
	"gamestore/internal/service"
	"gamestore/internal/storage"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	router  *gin.Engine
	handler *Handler
	codec   *auth.JWTCodec

	users  repository.UserRepository
	games  repository.GameRepository
	carts  repository.CartRepository
	orders repository.OrderRepository

	catalog service.CatalogService
}

type envOption func(*HandlerConfig)

func withProduction() envOption {
	return func(cfg *HandlerConfig) { cfg.Production = true }
}

func withCodec(codec auth.TokenCodec) envOption {
	return func(cfg *HandlerConfig) { cfg.Codec = codec }
}

func withStorage(svc storage.Service, bucket string) envOption {
	return func(cfg *HandlerConfig) {
		cfg.Storage = svc
		cfg.Bucket = bucket
		cfg.MediaPrefix = "covers"
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	env := &testEnv{
		users:  sqlite.NewUserRepository(db),
		games:  sqlite.NewGameRepository(db),
		carts:  sqlite.NewCartRepository(db),
		orders: sqlite.NewOrderRepository(db),
	}
	require.NoError(t, env.users.Init(ctx))
	require.NoError(t, env.games.Init(ctx))
	require.NoError(t, env.carts.Init(ctx))
	require.NoError(t, env.orders.Init(ctx))

	env.codec, err = auth.NewJWTCodec(testSecret, "gamestore-test", time.Hour)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env.catalog = service.NewCatalogService(env.games)
	cfg := HandlerConfig{
		Users:      service.NewUserService(env.users),
		Catalog:    env.catalog,
		Carts:      service.NewCartService(env.carts, env.games),
		Orders:     service.NewOrderService(env.orders, env.carts, env.games, env.users),
		Codec:      env.codec,
		CookieName: "gamestore_session",
		TokenTTL:   time.Hour,
		Logger:     logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	env.handler = NewHandler(cfg)
	env.router = gin.New()
	env.handler.RegisterRoutes(env.router)
	return env
}

func (e *testEnv) createUser(t *testing.T, email, password string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Name: "Test User", Role: role}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hashStr := string(hash)
		user.PasswordHash = &hashStr
	}
	_, err := e.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func (e *testEnv) seedGame(t *testing.T, title string, priceCents int64, published bool) *domain.Game {
	t.Helper()
	game, err := e.catalog.Create(context.Background(), &domain.Game{
		Title:      title,
		PriceCents: priceCents,
		Published:  published,
	})
	require.NoError(t, err)
	return game
}

func (e *testEnv) sessionToken(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := e.codec.Issue(auth.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role})
	require.NoError(t, err)
	return token
}

type reqOption func(*http.Request)

func withSession(token string) reqOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "gamestore_session", Value: token})
	}
}

func withCookie(name, value string) reqOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, opts ...reqOption) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie from a response, if set.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "gamestore_session" {
			return c
		}
	}
	return nil
}

func cartCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cartCookieName {
			return c
		}
	}
	return nil
}
