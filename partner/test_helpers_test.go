package partner

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	gateway "github.com/medico-app/medico/apigateway"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/store"
)

type testEnv struct {
	Router  *fiber.App
	Service *Service
	Auth    *gateway.JWTAuth
	Store   *store.Store
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.OpenFromConfig("", dbPath, store.DriverSQLite)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	storeSvc := newTestStore(t)

	cfg := fields.Config{
		JWTKey:    "test-secret",
		UploadDir: filepath.Join(t.TempDir(), "uploads"),
	}
	cfg.Defaults()

	auth := &gateway.JWTAuth{Config: cfg}
	auth.Init()

	logger := logrus.New()
	logger.Out = io.Discard

	service := &Service{
		Store:  storeSvc,
		Config: cfg,
		Logger: logger,
		Auth:   auth,
	}

	r := fiber.New()
	r.Post("/register", service.Register)
	r.Post("/login", service.Login)
	r.Get("/", service.ListPartners)
	r.Post("/verify", auth.AuthMiddleware(), gateway.RequireRole(gateway.RolePartner), service.VerifyMembership)
	r.Post("/visit", auth.AuthMiddleware(), gateway.RequireRole(gateway.RolePartner), service.RecordVisit)
	r.Get("/partner-stats", auth.AuthMiddleware(), gateway.RequireRole(gateway.RolePartner), service.PartnerStats)
	r.Get("/partner-visits", auth.AuthMiddleware(), gateway.RequireRole(gateway.RolePartner), service.PartnerVisits)
	r.Get("/my-visits", auth.AuthMiddleware(), gateway.RequireRole(gateway.RoleMember), service.MyVisits)

	return &testEnv{Router: r, Service: service, Auth: auth, Store: storeSvc}
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	body := map[string]any{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func decodeList(t *testing.T, res *http.Response) []map[string]any {
	t.Helper()
	defer res.Body.Close()
	var body []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// seedPartner inserts a partner directly through the store, bypassing the
// registration endpoint.
func seedPartner(t *testing.T, env *testEnv, status, password string, mutate func(*fields.Partner)) *fields.Partner {
	t.Helper()
	p := &fields.Partner{
		ID:           uuid.NewString(),
		Name:         "City Clinic",
		Type:         "partner",
		ClinicName:   "City Clinic",
		Email:        uuid.NewString() + "@clinic.test",
		ContactEmail: "front@clinic.test",
		Password:     password,
		State:        "Kerala",
		District:     "Ernakulam",
		Responsible:  &fields.Responsible{Name: "Dr. Asha"},
		Status:       status,
	}
	if mutate != nil {
		mutate(p)
	}
	if err := p.HashPassword(); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := env.Store.CreatePartner(context.Background(), p); err != nil {
		t.Fatalf("seed partner: %v", err)
	}
	return p
}

func seedMember(t *testing.T, env *testEnv, mutate func(*fields.Member)) *fields.Member {
	t.Helper()
	m := &fields.Member{
		ID:           uuid.NewString(),
		MembershipID: "MED-" + uuid.NewString()[:8],
		Name:         "Ravi Kumar",
		Email:        "ravi@example.test",
		Phone:        "9999999999",
		Plan:         "Gold",
		Status:       "active",
	}
	if mutate != nil {
		mutate(m)
	}
	if err := env.Store.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func bearerToken(t *testing.T, env *testEnv, id, email, role string) string {
	t.Helper()
	token, err := env.Auth.GenerateJWT(id, email, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}
