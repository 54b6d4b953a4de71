package projectctx

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/harune/workspace-management-api/internal/constants"
)

func newProjectCtxRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	return r
}

func TestNewWriter_RefusesReadOnlyRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(method, "/", nil)

		_, err := NewWriter(c)
		require.ErrorIs(t, err, ErrReadOnlyPhase, "method %s must not grant write capability", method)
	}
}

func TestNewWriter_AllowsMutationRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(method, "/", nil)

		_, err := NewWriter(c)
		require.NoError(t, err, "method %s should grant write capability", method)
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	r := newProjectCtxRouter(t)

	r.PUT("/select", func(c *gin.Context) {
		writer, err := NewWriter(c)
		require.NoError(t, err)
		require.NoError(t, writer.SetActiveProject(5, 77))
		c.Status(http.StatusOK)
	})
	r.GET("/active", func(c *gin.Context) {
		id, found := NewReader(c).ActiveProjectID(5)
		if !found {
			c.JSON(http.StatusOK, gin.H{"active": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": strconv.FormatUint(id, 10)})
	})
	r.DELETE("/select", func(c *gin.Context) {
		writer, err := NewWriter(c)
		require.NoError(t, err)
		require.NoError(t, writer.ClearActiveProject(5))
		c.Status(http.StatusOK)
	})

	// Select project 77 in org 5.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/select", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The pointer is visible on the next request carrying the session.
	req := httptest.NewRequest(http.MethodGet, "/active", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "77")

	// Clear it.
	req = httptest.NewRequest(http.MethodDelete, "/select", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()

	req = httptest.NewRequest(http.MethodGet, "/active", nil)
	for _, c := range cleared {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "null")
}

func TestSessionStore_PointerIsPerOrganization(t *testing.T) {
	r := newProjectCtxRouter(t)

	r.PUT("/select", func(c *gin.Context) {
		writer, err := NewWriter(c)
		require.NoError(t, err)
		require.NoError(t, writer.SetActiveProject(1, 10))
		c.Status(http.StatusOK)
	})
	r.GET("/check", func(c *gin.Context) {
		reader := NewReader(c)
		_, foundOrg1 := reader.ActiveProjectID(1)
		_, foundOrg2 := reader.ActiveProjectID(2)
		c.JSON(http.StatusOK, gin.H{"org1": foundOrg1, "org2": foundOrg2})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/select", nil))
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Contains(t, w.Body.String(), `"org1":true`)
	require.Contains(t, w.Body.String(), `"org2":false`)
}
