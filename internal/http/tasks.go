package http

import (
	"github.com/gin-gonic/gin"

	"github.com/lourensdv/boekrak/internal/tasks"
)

type TasksController struct {
	client *tasks.Client
}

func NewTasksController(client *tasks.Client) *TasksController {
	return &TasksController{client: client}
}

// RunExport enqueues a background export of the shelf listing.
func (tc *TasksController) RunExport(c *gin.Context) {
	ids, err := tc.client.Add(tasks.ExportLibraryTask{}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue export")
		return
	}
	respondAccepted(c, "export task enqueued", gin.H{"task_ids": ids})
}
