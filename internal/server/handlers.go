package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/Nutripedia/internal/formatter"
	"github.com/yildizm/Nutripedia/internal/loader"
	"github.com/yildizm/Nutripedia/internal/logger"
	"github.com/yildizm/Nutripedia/internal/monitor"
)

// loadingMessage is returned while the first load has not finished
const loadingMessage = "Data is still loading. Please try again shortly."

// RegisterRoutes registers the API routes
func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", s.GetStatus)
	router.GET("/columns", s.ListColumns)
	router.GET("/metrics", s.GetMetrics)

	router.GET("/foods", s.ListFoods)
	router.GET("/summary", s.GetSummary)
	router.GET("/export", s.Export)
}

// StatusResponse reports the state of the last load
type StatusResponse struct {
	Status   string     `json:"status"` // ok|error|loading
	Foods    int        `json:"foods"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// ColumnResponse describes one table column
type ColumnResponse struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
}

// GetStatus reports whether data is available
// GET /api/status
func (s *Server) GetStatus(c *gin.Context) {
	st := s.snapshot()
	resp := StatusResponse{Status: "ok"}
	if !st.loadedAt.IsZero() {
		loadedAt := st.loadedAt
		resp.LoadedAt = &loadedAt
	}

	switch {
	case st.pending():
		resp.Status = "loading"
		resp.Message = loadingMessage
	case st.err != nil:
		resp.Status = "error"
		resp.Message = loader.UserMessage
	case st.dataset != nil:
		resp.Foods = len(st.dataset.Records)
	}

	c.JSON(http.StatusOK, resp)
}

// ListColumns lists the table columns and which accept a sort
// GET /api/columns
func (s *Server) ListColumns(c *gin.Context) {
	columns := make([]ColumnResponse, 0, len(s.cfg.View.Columns))
	for _, col := range s.columns() {
		columns = append(columns, ColumnResponse{Key: col.Key, Label: col.Label, Sortable: col.Sortable()})
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// ListFoods returns the filtered and sorted catalogue
// GET /api/foods?q=&sort=&dir=&limit=
func (s *Server) ListFoods(c *gin.Context) {
	s.render(c, "json", formatter.TableOnly, false)
}

// GetSummary returns the summary panels
// GET /api/summary
func (s *Server) GetSummary(c *gin.Context) {
	s.render(c, "json", formatter.SummaryOnly, false)
}

// Export returns the full report in any output format as a download
// GET /api/export?format=&q=&sort=&dir=&limit=
func (s *Server) Export(c *gin.Context) {
	start := time.Now()
	s.render(c, c.DefaultQuery("format", "json"), formatter.All, true)
	s.metrics.Observe(monitor.OperationExport, time.Since(start), c.Writer.Status() != http.StatusOK)
}

// GetMetrics reports load, request and export timings
// GET /api/metrics
func (s *Server) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// render builds a report for the request and writes it in format,
// optionally as a file download
func (s *Server) render(c *gin.Context, format string, sections formatter.Sections, download bool) {
	state, limit, err := s.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := formatter.New(format, false, sections)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := s.snapshot()
	if st.dataset == nil {
		s.unavailable(c, st)
		return
	}

	report := food.NewReport(st.dataset, state, s.columns()).Limit(limit)
	data, err := f.Format(report)
	if err != nil {
		s.log.ErrorWithFields("format failed", []logger.Field{logger.F("format", format), logger.Error(err)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}

	if download {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"nutripedia%s\"", formatter.Extension(format)))
	}
	c.Data(http.StatusOK, formatter.ContentType(format), data)
}

// unavailable answers 503 with the single user-facing message
func (s *Server) unavailable(c *gin.Context, st dataState) {
	message := loader.UserMessage
	if st.pending() {
		message = loadingMessage
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": message})
}

// parseQuery reads q, sort, dir and limit
func (s *Server) parseQuery(c *gin.Context) (food.ViewState, int, error) {
	state := food.ViewState{Filter: c.Query("q")}

	key, err := food.ResolveSortKey(s.columns(), c.Query("sort"))
	if err != nil {
		return state, 0, err
	}
	state.SortKey = key

	if dir := c.Query("dir"); dir != "" {
		d, err := food.ParseDirection(dir)
		if err != nil {
			return state, 0, err
		}
		state.Direction = d
	} else if key != "" {
		state.Direction = food.Descending
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return state, 0, fmt.Errorf("invalid limit: %q", raw)
		}
	}

	return state, limit, nil
}

func (s *Server) columns() []food.Column {
	if len(s.cfg.View.Columns) == 0 {
		return food.DefaultColumns()
	}
	return s.cfg.View.Columns
}
