package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lourensdv/boekrak/internal/entities"
)

func TestPreferencesController_GetPreferences(t *testing.T) {
	t.Run("returns documented defaults for a fresh store", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.GET("/api/preferences", controller.GetPreferences)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/preferences", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		response := decodeListResponse(t, w)
		assert.Equal(t, "author", response["sort_option"])
		assert.Equal(t, 1.3, response["font_scale"])
		assert.Equal(t, true, response["show_read"])
		assert.Equal(t, true, response["show_unread"])
		assert.Equal(t, "English", response["last_selected_language"])
	})
}

func TestPreferencesController_SetFilter(t *testing.T) {
	t.Run("toggles filter and returns recomputed view", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		_, err := svc.AddBook(entities.Book{Title: "Dune", Author: "Frank Herbert", Read: true}, "")
		require.NoError(t, err)
		_, err = svc.AddBook(entities.Book{Title: "Emma", Author: "Jane Austen"}, "")
		require.NoError(t, err)

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/filters", controller.SetFilter)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/preferences/filters",
			jsonBody(t, setFilterRequest{Kind: entities.FilterShowRead, Value: false}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		response := decodeListResponse(t, w)
		assert.Equal(t, float64(1), response["count"])
		assert.Contains(t, w.Body.String(), "Emma")
		assert.NotContains(t, w.Body.String(), "Dune")
	})

	t.Run("returns 400 for unknown filter kind", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/filters", controller.SetFilter)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/preferences/filters",
			jsonBody(t, setFilterRequest{Kind: "sideways", Value: true}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rapid toggling earns a hint", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/filters", controller.SetFilter)

		var lastBody string
		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/preferences/filters",
				jsonBody(t, setFilterRequest{Kind: entities.FilterYouth, Value: i%2 == 0}))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
			lastBody = w.Body.String()
		}

		assert.Contains(t, lastBody, "Tags combine")
	})
}

func TestPreferencesController_SetLanguage(t *testing.T) {
	t.Run("deselecting a language hides its books", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		_, err := svc.AddBook(entities.Book{Title: "Dune", Author: "Frank Herbert", Language: "English"}, "")
		require.NoError(t, err)
		_, err = svc.AddBook(entities.Book{Title: "Kringe in 'n Bos", Author: "Dalene Matthee", Language: "Afrikaans"}, "")
		require.NoError(t, err)
		_, err = svc.SetLanguageSelected("Afrikaans", true, "")
		require.NoError(t, err)

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/languages", controller.SetLanguage)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/preferences/languages",
			jsonBody(t, setLanguageRequest{Language: "English", Selected: false}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		response := decodeListResponse(t, w)
		assert.Equal(t, float64(1), response["count"])
		assert.Contains(t, w.Body.String(), "Dalene Matthee")
	})
}

func TestPreferencesController_SetSort(t *testing.T) {
	t.Run("changes ordering of the returned view", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		_, err := svc.AddBook(entities.Book{Title: "Zen", Author: "Alan Watts"}, "")
		require.NoError(t, err)
		_, err = svc.AddBook(entities.Book{Title: "Amber", Author: "Roger Zelazny"}, "")
		require.NoError(t, err)

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/sort", controller.SetSort)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/preferences/sort",
			jsonBody(t, setSortRequest{SortOption: entities.SortByTitle}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Less(t, strings.Index(body, "Amber"), strings.Index(body, "Zen"))
	})

	t.Run("returns 400 for unknown sort option", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/sort", controller.SetSort)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/preferences/sort",
			jsonBody(t, setSortRequest{SortOption: "upside_down"}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPreferencesController_SetFontScale(t *testing.T) {
	t.Run("persists the new scale", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/font-scale", controller.SetFontScale)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/preferences/font-scale",
			jsonBody(t, setFontScaleRequest{FontScale: 1.6}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1.6, svc.Preferences().FontScale)
	})

	t.Run("rejects non-positive scale", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.POST("/api/preferences/font-scale", controller.SetFontScale)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/preferences/font-scale",
			jsonBody(t, setFontScaleRequest{FontScale: -1}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPreferencesController_GetLanguages(t *testing.T) {
	t.Run("separates standard and custom languages", func(t *testing.T) {
		svc, cleanup := setupBooksTest(t)
		defer cleanup()

		_, err := svc.AddBook(entities.Book{Title: "Dune", Author: "Frank Herbert", Language: "zulu"}, "")
		require.NoError(t, err)

		controller := NewPreferencesController(svc, nil)

		router := gin.New()
		router.GET("/api/languages", controller.GetLanguages)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/languages", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response LanguagesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []string{"English", "Afrikaans"}, response.Standard)
		assert.Equal(t, []string{"Zulu"}, response.Custom)
		assert.Contains(t, response.Selected, "Zulu")
	})
}
