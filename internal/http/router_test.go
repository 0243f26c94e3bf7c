package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lourensdv/boekrak/internal/entities"
)

func TestRouter_CSRFProtection(t *testing.T) {
	secret := []byte("01234567890123456789012345678901")

	t.Run("mutation without a token is rejected and does not run", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		router := NewRouter(RouterConfig{
			Library:    svc,
			CSRFSecret: secret,
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books",
			jsonBody(t, entities.Book{Title: "Dune", Author: "Frank Herbert"}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "CSRF token invalid or missing")
		assert.Empty(t, svc.ListBooks(""), "rejected mutation must not change the collection")
	})

	t.Run("safe methods pass through unchecked", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		router := NewRouter(RouterConfig{
			Library:    svc,
			CSRFSecret: secret,
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mutation with the issued token succeeds", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(CSRFMiddleware(secret, false))

		var issued string
		router.GET("/token", func(c *gin.Context) {
			issued = c.GetString("csrf_token")
			c.Status(http.StatusOK)
		})
		controller := NewBooksController(svc, nil)
		router.POST("/api/books", controller.AddBook)

		getRec := httptest.NewRecorder()
		getReq, _ := http.NewRequest("GET", "/token", nil)
		router.ServeHTTP(getRec, getReq)
		require.Equal(t, http.StatusOK, getRec.Code)
		require.NotEmpty(t, issued)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books",
			jsonBody(t, entities.Book{Title: "Dune", Author: "Frank Herbert"}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(CSRFTokenHeader, issued)
		for _, cookie := range getRec.Result().Cookies() {
			req.AddCookie(cookie)
		}
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, svc.ListBooks(""), 1)
	})
}
