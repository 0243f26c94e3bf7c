package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lourensdv/boekrak/internal/database"
	"github.com/lourensdv/boekrak/internal/entities"
)

// HealthController reports whether the process can serve its one real
// dependency: the settings database holding the collection.
type HealthController struct {
	db      *database.Database
	version string
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status runs the dependency checks and answers 200 or 503. The database
// check pings the connection and verifies the settings table exists, since
// every read and write goes through it.
func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{
		"database": h.checkDatabase(),
	}

	status := "healthy"
	for _, result := range checks {
		if result != "ok" && result != "not configured" {
			status = "unhealthy"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.IndentedJSON(code, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) checkDatabase() string {
	if h.db == nil {
		return "not configured"
	}
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error()
	}
	if !h.db.DB.Migrator().HasTable(&entities.Setting{}) {
		return "error: settings table missing"
	}
	return "ok"
}
