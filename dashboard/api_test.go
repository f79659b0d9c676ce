package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	gateway "github.com/medico-app/medico/apigateway"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/store"
)

const testAdminKey = "test-admin-key"

type testEnv struct {
	Router  *fiber.App
	Service *Service
	Store   *store.Store
	Config  fields.Config
}

func newTestEnv(t *testing.T) *testEnv {
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
	storeSvc := store.New(db)

	cfg := fields.Config{
		AdminKey:  testAdminKey,
		UploadDir: filepath.Join(t.TempDir(), "uploads"),
	}
	cfg.Defaults()

	logger := logrus.New()
	logger.Out = io.Discard
	service := &Service{Store: storeSvc, Config: cfg, Logger: logger}

	requireAdmin := gateway.RequireAdmin(cfg)
	r := fiber.New()
	r.Get("/applications", requireAdmin, service.ListApplications)
	r.Post("/applications/:id/approve", requireAdmin, service.Approve)
	r.Post("/applications/:id/reject", requireAdmin, service.Reject)
	r.Get("/stats", requireAdmin, service.Stats)
	r.Get("/recent-members", requireAdmin, service.RecentMembers)
	r.Get("/recent-partners", requireAdmin, service.RecentPartners)
	r.Get("/users", requireAdmin, service.GetAllUsers)
	r.Get("/all-partners", requireAdmin, service.GetAllPartners)
	r.Delete("/users/:id", requireAdmin, service.DeleteUser)
	r.Delete("/:id", requireAdmin, service.DeletePartner)

	return &testEnv{Router: r, Service: service, Store: storeSvc, Config: cfg}
}

func adminRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", testAdminKey)
	return req
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

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	body := map[string]any{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func seedApplication(t *testing.T, env *testEnv, mutate func(*fields.Partner)) *fields.Partner {
	t.Helper()
	p := &fields.Partner{
		ID:          uuid.NewString(),
		Name:        "New Clinic",
		Type:        "partner",
		Email:       uuid.NewString() + "@clinic.test",
		Password:    "hashed-elsewhere",
		Responsible: &fields.Responsible{Name: "Dr. Rao"},
		Status:      fields.StatusPending,
	}
	if mutate != nil {
		mutate(p)
	}
	if err := env.Store.CreatePartner(context.Background(), p); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return p
}

func writeUpload(t *testing.T, env *testEnv, partnerID, name, content string) string {
	t.Helper()
	dir := filepath.Join(env.Config.UploadDir, "partners", partnerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir upload dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	return "uploads/partners/" + partnerID + "/" + name
}

func TestListApplications(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.NewString()
	rel := writeUpload(t, env, id, "passport_1_photo.png", "png-bytes")
	seedApplication(t, env, func(p *fields.Partner) {
		p.ID = id
		p.PassportPhoto = rel
	})

	res, err := env.Router.Test(adminRequest(http.MethodGet, "/applications", nil), -1)
	if err != nil {
		t.Fatalf("applications request: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	apps := decodeList(t, res)
	if len(apps) != 1 {
		t.Fatalf("applications length = %d, want 1", len(apps))
	}
	app := apps[0]
	photo, _ := app["passportPhoto"].(string)
	if !strings.HasPrefix(photo, "data:image/png;base64,") {
		t.Errorf("passportPhoto = %.40q, want inline data uri", photo)
	}
	if app["certificateFile"] != nil {
		t.Errorf("missing file should render null, got %v", app["certificateFile"])
	}
}

func TestApplicationsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	res, err := env.Router.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
}

func TestApproveApplication(t *testing.T) {
	env := newTestEnv(t)
	p := seedApplication(t, env, nil)

	res, err := env.Router.Test(adminRequest(http.MethodPost, "/applications/"+p.ID+"/approve", nil), -1)
	if err != nil {
		t.Fatalf("approve request: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	if got := decodeBody(t, res); got["message"] != "Application approved successfully" {
		t.Errorf("message = %v", got["message"])
	}

	stored, err := env.Store.GetPartner(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get partner: %v", err)
	}
	if stored.Status != fields.StatusActive {
		t.Errorf("status = %v, want Active", stored.Status)
	}

	t.Run("unknown id", func(t *testing.T) {
		res, err := env.Router.Test(adminRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/approve", nil), -1)
		if err != nil {
			t.Fatalf("approve request: %v", err)
		}
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", res.StatusCode)
		}
	})
}

func TestRejectApplication(t *testing.T) {
	env := newTestEnv(t)
	p := seedApplication(t, env, nil)
	writeUpload(t, env, p.ID, "certificate_1_doc.pdf", "pdf-bytes")

	res, err := env.Router.Test(adminRequest(http.MethodPost, "/applications/"+p.ID+"/reject", map[string]string{"reason": "incomplete documents"}), -1)
	if err != nil {
		t.Fatalf("reject request: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	if got := decodeBody(t, res); got["message"] != "Application rejected and removed" {
		t.Errorf("message = %v", got["message"])
	}

	if _, err := env.Store.GetPartner(context.Background(), p.ID); !store.IsNotFound(err) {
		t.Errorf("rejected partner still readable, err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.Config.UploadDir, "partners", p.ID)); !os.IsNotExist(err) {
		t.Errorf("upload dir survived rejection, err = %v", err)
	}
}

func TestStatsAndRecents(t *testing.T) {
	env := newTestEnv(t)
	seedApplication(t, env, func(p *fields.Partner) { p.Status = fields.StatusActive; p.Name = "Approved One" })
	seedApplication(t, env, nil)
	if err := env.Store.CreateMember(context.Background(), &fields.Member{
		ID:            uuid.NewString(),
		MembershipID:  "MED-0001",
		Name:          "Ravi",
		Plan:          "Gold",
		FamilyMembers: 2,
	}); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	res, err := env.Router.Test(adminRequest(http.MethodGet, "/stats", nil), -1)
	if err != nil {
		t.Fatalf("stats request: %v", err)
	}
	got := decodeBody(t, res)
	if got["approvedPartners"] != float64(1) {
		t.Errorf("approvedPartners = %v, want 1", got["approvedPartners"])
	}
	if got["totalUsers"] != float64(1) {
		t.Errorf("totalUsers = %v, want 1", got["totalUsers"])
	}

	res, err = env.Router.Test(adminRequest(http.MethodGet, "/recent-members", nil), -1)
	if err != nil {
		t.Fatalf("recent-members request: %v", err)
	}
	members, _ := decodeBody(t, res)["members"].([]any)
	if len(members) != 1 {
		t.Fatalf("members length = %d, want 1", len(members))
	}
	if m, _ := members[0].(map[string]any); m["plan"] != "Gold (2 family)" {
		t.Errorf("plan = %v, want family annotation", m["plan"])
	}

	res, err = env.Router.Test(adminRequest(http.MethodGet, "/recent-partners", nil), -1)
	if err != nil {
		t.Fatalf("recent-partners request: %v", err)
	}
	partners, _ := decodeBody(t, res)["partners"].([]any)
	if len(partners) != 1 {
		t.Fatalf("recent partners length = %d, want only Active", len(partners))
	}
}

func TestAdminListings(t *testing.T) {
	env := newTestEnv(t)
	seedApplication(t, env, func(p *fields.Partner) { p.Status = fields.StatusActive })
	m := &fields.Member{ID: uuid.NewString(), MembershipID: "MED-0003", Name: "Ravi", Plan: "Gold"}
	if err := env.Store.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	tests := []struct {
		name     string
		target   string
		listKey  string
		totalKey string
	}{
		{"users", "/users", "users", "totalUsers"},
		{"partners", "/all-partners", "partners", "totalPartners"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.Router.Test(adminRequest(http.MethodGet, tt.target, nil), -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if res.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", res.StatusCode)
			}
			got := decodeBody(t, res)
			if list, _ := got[tt.listKey].([]any); len(list) != 1 {
				t.Errorf("%s length = %d, want 1", tt.listKey, len(list))
			}
			pagination, _ := got["pagination"].(map[string]any)
			if pagination[tt.totalKey] != float64(1) {
				t.Errorf("pagination.%s = %v, want 1", tt.totalKey, pagination[tt.totalKey])
			}
			if pagination["currentPage"] != float64(1) {
				t.Errorf("pagination.currentPage = %v, want 1", pagination["currentPage"])
			}
		})
	}
}

func TestAdminDeletes(t *testing.T) {
	env := newTestEnv(t)
	p := seedApplication(t, env, func(p *fields.Partner) { p.Status = fields.StatusActive })
	m := &fields.Member{ID: uuid.NewString(), MembershipID: "MED-0002", Name: "Anu", Plan: "Silver"}
	if err := env.Store.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	res, err := env.Router.Test(adminRequest(http.MethodDelete, "/"+p.ID, nil), -1)
	if err != nil {
		t.Fatalf("delete partner request: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete partner status = %d, want 200", res.StatusCode)
	}
	if _, err := env.Store.GetPartner(context.Background(), p.ID); !store.IsNotFound(err) {
		t.Errorf("partner still readable after delete, err = %v", err)
	}

	res, err = env.Router.Test(adminRequest(http.MethodDelete, "/users/"+m.ID, nil), -1)
	if err != nil {
		t.Fatalf("delete user request: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete user status = %d, want 200", res.StatusCode)
	}

	t.Run("unknown ids", func(t *testing.T) {
		res, err := env.Router.Test(adminRequest(http.MethodDelete, "/users/"+uuid.NewString(), nil), -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("delete unknown user status = %d, want 404", res.StatusCode)
		}
		res, err = env.Router.Test(adminRequest(http.MethodDelete, "/"+uuid.NewString(), nil), -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("delete unknown partner status = %d, want 404", res.StatusCode)
		}
	})
}
