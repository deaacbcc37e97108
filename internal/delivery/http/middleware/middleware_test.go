package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-dental-clinic/config"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
}

// echoClinic writes the clinic and role the middleware put in the context.
func echoClinic(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := GetClinicIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-Clinic", clinicID.String())
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate_PopulatesContext(t *testing.T) {
	jwtService := newJWTService()
	clinicID, userID := uuid.New(), uuid.New()
	token, _, err := jwtService.GenerateAccessToken(userID, clinicID, entity.RoleIDReceptionist)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(jwtService, nil).Authenticate(http.HandlerFunc(echoClinic)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clinicID.String(), rec.Header().Get("X-Clinic"))
}

func TestAuthenticate_RejectsBadHeaders(t *testing.T) {
	headers := []string{"", "Token abc", "Bearer", "Bearer not-a-jwt"}

	for _, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		NewAuthMiddleware(newJWTService(), nil).Authenticate(http.HandlerFunc(echoClinic)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := newJWTService()
	token, tokenID, err := jwtService.GenerateAccessToken(uuid.New(), uuid.New(), entity.RoleIDAdmin)
	require.NoError(t, err)
	require.NoError(t, mr.Set(RevokedTokenKeyPrefix+tokenID, "1"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(jwtService, client).Authenticate(http.HandlerFunc(echoClinic)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	jwtService := newJWTService()
	token, _, err := jwtService.GenerateAccessToken(uuid.New(), uuid.New(), entity.RoleIDAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(jwtService, client).Authenticate(http.HandlerFunc(echoClinic)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		roleID     int
		want       int
	}{
		{"admin on admin route", RequireAdmin, entity.RoleIDAdmin, http.StatusOK},
		{"dentist on admin route", RequireAdmin, entity.RoleIDDentist, http.StatusForbidden},
		{"receptionist on staff route", RequireStaff, entity.RoleIDReceptionist, http.StatusOK},
		{"dentist on clinic route", RequireClinicUser, entity.RoleIDDentist, http.StatusOK},
		{"receptionist on report route", RequireAdminOrDentist, entity.RoleIDReceptionist, http.StatusForbidden},
		{"unknown role", RequireClinicUser, 99, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(httptest.NewRequest(http.MethodGet, "/", nil).Context(), &jwt.Claims{
				UserID:   uuid.New(),
				ClinicID: uuid.New(),
				RoleID:   tt.roleID,
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
			rec := httptest.NewRecorder()

			tt.middleware(http.HandlerFunc(echoClinic)).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(echoClinic)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCORSMiddleware([]string{"*"}).Handle(http.HandlerFunc(echoClinic)).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestCORS_AllowedOrigins(t *testing.T) {
	cors := NewCORSMiddleware([]string{"https://agenda.clinic.example"})

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"listed origin is echoed", "https://agenda.clinic.example", "https://agenda.clinic.example"},
		{"other origin gets no grant", "https://evil.example", ""},
		{"no origin header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			cors.Handle(http.HandlerFunc(echoClinic)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Origin", rec.Header().Get("Vary"))
		})
	}
}
