package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lourensdv/boekrak/internal/entities"
	"github.com/lourensdv/boekrak/internal/library"
)

type PreferencesController struct {
	library  *library.Service
	sessions *SessionManager
	hinter   *tapHinter
}

func NewPreferencesController(svc *library.Service, sessions *SessionManager) *PreferencesController {
	return &PreferencesController{
		library:  svc,
		sessions: sessions,
		hinter: newTapHinter(5, 2*time.Second,
			"Tags combine: a book matching any active tag filter is shown"),
	}
}

func (controller *PreferencesController) search(c *gin.Context) string {
	if controller.sessions == nil {
		return ""
	}
	return controller.sessions.SearchText(c.Request)
}

// GetPreferences returns the persisted preferences, including the last-used
// creation values for prefilling the next "add book" form.
func (controller *PreferencesController) GetPreferences(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, controller.library.Preferences())
}

type setFilterRequest struct {
	Kind  entities.FilterKind `json:"kind"`
	Value bool                `json:"value"`
}

// SetFilter toggles a status or tag filter and returns the recomputed view.
// Rapid repeated toggling earns a hint about how tag filters combine.
func (controller *PreferencesController) SetFilter(c *gin.Context) {
	var req setFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid filter payload: "+err.Error())
		return
	}

	books, err := controller.library.SetFilter(req.Kind, req.Value, controller.search(c))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	c.IndentedJSON(http.StatusOK, BookListResponse{
		Books: books,
		Count: len(books),
		Hint:  controller.hinter.Tap(),
	})
}

type setLanguageRequest struct {
	Language string `json:"language"`
	Selected bool   `json:"selected"`
}

// SetLanguage adds or removes a language from the visible set.
func (controller *PreferencesController) SetLanguage(c *gin.Context) {
	var req setLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid language payload: "+err.Error())
		return
	}

	books, err := controller.library.SetLanguageSelected(req.Language, req.Selected, controller.search(c))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	c.IndentedJSON(http.StatusOK, BookListResponse{Books: books, Count: len(books)})
}

type setSortRequest struct {
	SortOption entities.SortOption `json:"sort_option"`
}

// SetSort changes the view ordering.
func (controller *PreferencesController) SetSort(c *gin.Context) {
	var req setSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid sort payload: "+err.Error())
		return
	}

	books, err := controller.library.SetSort(req.SortOption, controller.search(c))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	c.IndentedJSON(http.StatusOK, BookListResponse{Books: books, Count: len(books)})
}

type setFontScaleRequest struct {
	FontScale float64 `json:"font_scale"`
}

// SetFontScale persists the display font multiplier.
func (controller *PreferencesController) SetFontScale(c *gin.Context) {
	var req setFontScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid font scale payload: "+err.Error())
		return
	}

	prefs, err := controller.library.SetFontScale(req.FontScale)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	c.IndentedJSON(http.StatusOK, prefs)
}

// LanguagesResponse lists the language sets the filter sheet offers.
type LanguagesResponse struct {
	Standard []string `json:"standard"`
	Custom   []string `json:"custom"`
	Selected []string `json:"selected"`
}

// GetLanguages returns the standard, custom and selected language sets.
func (controller *PreferencesController) GetLanguages(c *gin.Context) {
	prefs := controller.library.Preferences()
	c.IndentedJSON(http.StatusOK, LanguagesResponse{
		Standard: controller.library.StandardLanguages(),
		Custom:   prefs.CustomLanguages,
		Selected: prefs.SelectedLanguages,
	})
}
