package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/http/handler"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/service"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newClientRouter wires a client handler against a real in-memory database,
// with requests running as a salon manager.
func newClientRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clientService := service.NewClientService(
		repository.NewClientRepository(db),
		repository.NewVisitRepository(db),
		repository.NewSegmentRepository(db),
		zap.NewNop(),
	)
	h := handler.NewClientHandler(clientService, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
				UserID:      "manager-1",
				DisplayName: "Ana Ruiz",
				Email:       "ana@solemia.mx",
				Roles:       []domain.UserRoleType{domain.RoleManager},
				TenantID:    domain.TenantSalon,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/clients", h.Directory)
	r.Get("/clients/export", h.ExportCSV)
	r.Post("/clients", h.Create)
	r.Get("/clients/{id}", h.GetByID)
	r.Put("/clients/{id}", h.Update)
	r.Delete("/clients/{id}", h.Delete)

	return r, db
}

func postJSON(t *testing.T, router http.Handler, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestClientHandler_Create(t *testing.T) {
	router, _ := newClientRouter(t)

	rec := postJSON(t, router, "/clients?tenant=salon", domain.CreateClientRequest{
		Name:  "Laura Esquivel",
		Phone: "555-0101",
		Email: "laura@example.com",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/api/v1/clients/")

	var dto domain.ClientDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "Laura Esquivel", dto.Name)
	assert.Equal(t, "555-0101", dto.Phone)
	assert.NotEmpty(t, dto.ID)
}

func TestClientHandler_CreateValidationError(t *testing.T) {
	router, _ := newClientRouter(t)

	rec := postJSON(t, router, "/clients?tenant=salon", domain.CreateClientRequest{
		Phone: "555-0101",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Errors, "name")
}

func TestClientHandler_CreateDuplicatePhone(t *testing.T) {
	router, _ := newClientRouter(t)

	req := domain.CreateClientRequest{Name: "Laura Esquivel", Phone: "555-0101"}
	rec := postJSON(t, router, "/clients?tenant=salon", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req.Name = "Laura E."
	rec = postJSON(t, router, "/clients?tenant=salon", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClientHandler_GetByID(t *testing.T) {
	router, db := newClientRouter(t)
	client := testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")

	req := httptest.NewRequest("GET", "/clients/"+client.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto domain.ClientDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, client.ID, dto.ID)
}

func TestClientHandler_GetByIDNotFound(t *testing.T) {
	router, _ := newClientRouter(t)

	req := httptest.NewRequest("GET", "/clients/6f1e1cba-66d1-4bb5-a7af-5d2f24a6c801", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientHandler_GetByIDInvalidUUID(t *testing.T) {
	router, _ := newClientRouter(t)

	req := httptest.NewRequest("GET", "/clients/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientHandler_Directory(t *testing.T) {
	router, db := newClientRouter(t)
	testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana",
		domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("GET", "/clients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.DirectoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "Laura Esquivel", resp.Clients[0].Name)
	assert.Equal(t, 1, resp.Summary.ClientCount)
}

func TestClientHandler_DirectoryRejectsBadDate(t *testing.T) {
	router, _ := newClientRouter(t)

	req := httptest.NewRequest("GET", "/clients?dateStart=01-06-2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientHandler_ExportCSV(t *testing.T) {
	router, db := newClientRouter(t)
	testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")

	req := httptest.NewRequest("GET", "/clients/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "clients.csv")
	assert.Contains(t, rec.Body.String(), "Laura Esquivel")
}

func TestClientHandler_Delete(t *testing.T) {
	router, db := newClientRouter(t)
	client := testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")

	req := httptest.NewRequest("DELETE", "/clients/"+client.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest("GET", "/clients/"+client.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
