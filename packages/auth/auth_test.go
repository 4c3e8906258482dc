package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tournament-api/packages/auth"
	"tournament-api/packages/auth/models"
	"tournament-api/packages/auth/utils"
	"tournament-api/packages/core"
	coreModels "tournament-api/packages/core/models"
	"tournament-api/packages/platform/testdb"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/gorm"
)

type harness struct {
	db     *gorm.DB
	clock  *clockwork.FakeClock
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	gin.SetMode(gin.TestMode)
	db := testdb.New(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	issuer := utils.NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour, clock)

	authModule := auth.NewModule(db, issuer)
	coreModule := core.NewModule(db, nil, clock, core.Guards{
		Authenticate: authModule.Authenticate(),
		RequireAdmin: authModule.RequireAdmin(),
	})

	router := gin.New()
	authModule.SetupRoutes(router)
	coreModule.SetupRoutes(router)

	return &harness{db: db, clock: clock, router: router}
}

func (h *harness) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (h *harness) register(name, email string) models.AuthResponse {
	w := h.do(http.MethodPost, "/auth/register", map[string]string{
		"name": name, "email": email, "password": "secret123",
	}, nil)
	So(w.Code, ShouldEqual, http.StatusCreated)
	var resp models.AuthResponse
	So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
	return resp
}

func TestRegistrationAndLogin(t *testing.T) {
	Convey("Given a fresh registration", t, func() {
		h := newHarness(t)
		resp := h.register("Alice", "Alice@Club.test")

		Convey("Then the user, a player profile and tokens are created together", func() {
			So(resp.User.Email, ShouldEqual, "alice@club.test")
			So(resp.User.Roles, ShouldResemble, models.Roles{models.RoleUser})
			So(resp.APIKey, ShouldHaveLength, utils.APIKeyLength)
			So(resp.Tokens.AccessToken, ShouldNotBeBlank)

			var player coreModels.Player
			So(h.db.First(&player, resp.User.ID).Error, ShouldBeNil)
			So(player.Name, ShouldEqual, "Alice")
			So(player.TeamID, ShouldBeNil)
		})

		Convey("Then the same email cannot register twice", func() {
			w := h.do(http.MethodPost, "/auth/register", map[string]string{
				"name": "Other", "email": "alice@club.test", "password": "secret123",
			}, nil)
			So(w.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("Then a short password is a bad request", func() {
			w := h.do(http.MethodPost, "/auth/register", map[string]string{
				"name": "Bob", "email": "bob@club.test", "password": "123",
			}, nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then login checks the password", func() {
			w := h.do(http.MethodPost, "/auth/login", map[string]string{"email": "alice@club.test", "password": "nope"}, nil)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)

			w = h.do(http.MethodPost, "/auth/login", map[string]string{"email": "alice@club.test", "password": "secret123"}, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then a disabled account cannot log in", func() {
			So(h.db.Model(&models.User{}).Where("id = ?", resp.User.ID).Update("enabled", false).Error, ShouldBeNil)
			w := h.do(http.MethodPost, "/auth/login", map[string]string{"email": "alice@club.test", "password": "secret123"}, nil)
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("Then the access token reaches the profile until it expires", func() {
			w := h.do(http.MethodGet, "/users/me", nil, bearer(resp.Tokens.AccessToken))
			So(w.Code, ShouldEqual, http.StatusOK)

			h.clock.Advance(16 * time.Minute)
			w = h.do(http.MethodGet, "/users/me", nil, bearer(resp.Tokens.AccessToken))
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("Then the refresh token rotates and logout revokes it", func() {
			w := h.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": resp.Tokens.RefreshToken}, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var rotated models.TokenResponse
			So(json.Unmarshal(w.Body.Bytes(), &rotated), ShouldBeNil)

			w = h.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": resp.Tokens.RefreshToken}, nil)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)

			w = h.do(http.MethodPost, "/auth/logout", map[string]string{"refresh_token": rotated.RefreshToken}, nil)
			So(w.Code, ShouldEqual, http.StatusOK)

			w = h.do(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": rotated.RefreshToken}, nil)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("Then logout-all needs an identity", func() {
			So(h.do(http.MethodPost, "/auth/logout-all", nil, nil).Code, ShouldEqual, http.StatusUnauthorized)
			So(h.do(http.MethodPost, "/auth/logout-all", nil, bearer(resp.Tokens.AccessToken)).Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestClientAPIKey(t *testing.T) {
	Convey("Given a client that registered through the api", t, func() {
		h := newHarness(t)
		w := h.do(http.MethodPost, "/api/register", map[string]string{
			"name": "Client", "email": "client@club.test", "password": "secret123",
		}, nil)
		So(w.Code, ShouldEqual, http.StatusCreated)
		var registered models.APIAuthResponse
		So(json.Unmarshal(w.Body.Bytes(), &registered), ShouldBeNil)
		So(registered.Success, ShouldBeTrue)
		So(registered.Player.Admin, ShouldBeFalse)
		key := registered.Player.APIKey

		Convey("Then login returns the same key", func() {
			w := h.do(http.MethodPost, "/api/login", map[string]string{"email": "client@club.test", "password": "secret123"}, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var login models.APIAuthResponse
			So(json.Unmarshal(w.Body.Bytes(), &login), ShouldBeNil)
			So(login.Player.APIKey, ShouldEqual, key)
		})

		Convey("Then snapshots accept the key as header or query", func() {
			So(h.do(http.MethodGet, "/api/standings", nil, map[string]string{"X-API-KEY": key}).Code, ShouldEqual, http.StatusOK)
			So(h.do(http.MethodGet, "/api/teams?api_key="+key, nil, nil).Code, ShouldEqual, http.StatusOK)
			So(h.do(http.MethodGet, "/api/matches", nil, map[string]string{"X-API-KEY": "bogus"}).Code, ShouldEqual, http.StatusUnauthorized)
			So(h.do(http.MethodGet, "/api/matches", nil, nil).Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("Then admin routes check the stored roles", func() {
			headers := map[string]string{"X-API-KEY": key}
			w := h.do(http.MethodPost, "/matches/generate", map[string]any{
				"fields": 1, "match_duration": 10, "break_between": 0, "start_time": "2026-06-01T09:00:00Z",
			}, headers)
			So(w.Code, ShouldEqual, http.StatusForbidden)

			So(h.db.Model(&models.User{}).Where("id = ?", registered.Player.ID).
				Update("roles", models.Roles{models.RoleUser, models.RoleAdmin}).Error, ShouldBeNil)

			w = h.do(http.MethodPost, "/matches/generate", map[string]any{
				"fields": 1, "match_duration": 10, "break_between": 0, "start_time": "2026-06-01T09:00:00Z",
			}, headers)
			So(w.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("Then a disabled client key stops working", func() {
			So(h.db.Model(&models.User{}).Where("id = ?", registered.Player.ID).Update("enabled", false).Error, ShouldBeNil)
			So(h.do(http.MethodGet, "/api/standings", nil, map[string]string{"X-API-KEY": key}).Code, ShouldEqual, http.StatusUnauthorized)
		})
	})
}
