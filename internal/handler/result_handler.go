package handler

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/resultsync"
	"ingestdesk/internal/service"
)

// ResultHandler handles analysis result endpoints.
type ResultHandler struct {
	resultService service.ResultService
	locale        string
}

// NewResultHandler creates a new ResultHandler. locale controls how boolean
// cells are rendered in the table view.
func NewResultHandler(resultService service.ResultService, locale string) *ResultHandler {
	return &ResultHandler{resultService: resultService, locale: locale}
}

// resultView is the wire form of a result window.
type resultView struct {
	Columns []string                `json:"columns"`
	Rows    [][]string              `json:"rows"`
	Results []domain.AnalysisResult `json:"results"`
	Loading bool                    `json:"loading"`
	Version uint64                  `json:"version"`
}

func (h *ResultHandler) view(w *service.ResultWindow) resultView {
	results := w.Results
	if results == nil {
		results = []domain.AnalysisResult{}
	}
	return resultView{
		Columns: w.Table.Columns,
		Rows:    w.Table.Cells(h.locale),
		Results: results,
		Loading: w.Loading,
		Version: w.Version,
	}
}

// parseScope reads the optional project_id query parameter. Absent means all
// projects.
func parseScope(c *gin.Context) (resultsync.Scope, bool) {
	raw := c.Query("project_id")
	if raw == "" {
		return resultsync.AllProjects(), true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid project ID")
		return resultsync.Scope{}, false
	}
	return resultsync.ProjectScope(id), true
}

// Recent handles GET /api/v1/results?project_id=
func (h *ResultHandler) Recent(c *gin.Context) {
	scope, ok := parseScope(c)
	if !ok {
		return
	}

	window, err := h.resultService.Recent(c.Request.Context(), scope)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.view(window))
}

// Stream handles GET /api/v1/results/stream?project_id=
// It sends a "snapshot" event right away and another after every effective
// change, until the client goes away or the server stops synchronizing.
func (h *ResultHandler) Stream(c *gin.Context) {
	scope, ok := parseScope(c)
	if !ok {
		return
	}

	watcher := h.resultService.Watch(scope)
	defer watcher.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	var lastVersion uint64
	sent := false

	c.Stream(func(w io.Writer) bool {
		snap := watcher.Snapshot()
		if !sent || snap.Version != lastVersion {
			c.SSEvent("snapshot", h.view(h.resultService.Window(snap)))
			lastVersion = snap.Version
			sent = true
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-watcher.Done():
			return false
		case <-watcher.C:
			return true
		}
	})
	log.Printf("ResultHandler.Stream: %s stream closed", scope.Key())
}

// Export handles GET /api/v1/projects/:id/results/export?format=csv|xlsx
func (h *ResultHandler) Export(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))
	export, err := h.resultService.Export(c.Request.Context(), projectID, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendExport(c, export)
}
