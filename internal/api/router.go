// Package api serves the job store and the last run report over HTTP.
package api

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"go-jobradar/internal/database"
	"go-jobradar/internal/filter"
	"go-jobradar/internal/models"
	"go-jobradar/internal/reporter"
	"go-jobradar/internal/store"

	"github.com/gin-gonic/gin"
)

const defaultLimit = 100

type jobsQuery struct {
	Platform string `form:"platform"`
	Q        string `form:"q"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type mirrorQuery struct {
	Platform string `form:"platform"`
	Title    string `form:"title"`
	Since    string `form:"since" binding:"omitempty,datetime=2006-01-02"`
	Limit    uint64 `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type reportQuery struct {
	Bucket string `form:"bucket" binding:"omitempty,oneof=included excluded_explicit excluded_implicit duplicate"`
}

// JobLister reads postings mirrored to the database.
type JobLister interface {
	ListJobs(ctx context.Context, q database.JobQuery) ([]models.JobRecord, error)
}

type handler struct {
	store      *store.Store
	reportPath string
	mirror     JobLister
	log        *slog.Logger
}

type Option func(*handler)

// WithJobLister serves GET /db/jobs from the database mirror.
func WithJobLister(l JobLister) Option {
	return func(h *handler) { h.mirror = l }
}

// NewRouter returns a read-only API over st and the report at reportPath.
func NewRouter(st *store.Store, reportPath string, log *slog.Logger, opts ...Option) *gin.Engine {
	h := &handler{store: st, reportPath: reportPath, log: log}
	for _, opt := range opts {
		opt(h)
	}

	r := gin.New()
	r.Use(gin.Recovery(), h.logRequests)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "jobradar API is running!",
			"status":  "healthy",
		})
	})
	r.GET("/jobs", h.listJobs)
	r.GET("/report", h.lastReport)
	if h.mirror != nil {
		r.GET("/db/jobs", h.listMirrored)
	}
	return r
}

func (h *handler) logRequests(c *gin.Context) {
	c.Next()
	h.log.Debug("🌐 request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status())
}

func (h *handler) listJobs(c *gin.Context) {
	var q jobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var platform models.Platform
	if q.Platform != "" {
		p, err := models.ParsePlatform(q.Platform)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		platform = p
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	match := filter.Lists{Include: filter.NormalizeWords(strings.Fields(q.Q))}

	hist := h.store.Load()
	if hist.Warning != "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": hist.Warning})
		return
	}

	jobs := make([]models.Row, 0, min(q.Limit, len(hist.Rows)))
	for _, row := range hist.Rows {
		if platform != "" && row[models.ColPlatform] != string(platform) {
			continue
		}
		if match.Classify(row[models.ColTitle]).Outcome != filter.Included {
			continue
		}
		jobs = append(jobs, row)
	}
	// newest first; the timestamp layout sorts lexically
	slices.SortStableFunc(jobs, func(a, b models.Row) int {
		return strings.Compare(b[models.ColTimestampFound], a[models.ColTimestampFound])
	})
	total := len(jobs)
	if len(jobs) > q.Limit {
		jobs = jobs[:q.Limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"count": len(jobs),
		"jobs":  jobs,
	})
}

func (h *handler) listMirrored(c *gin.Context) {
	var q mirrorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dq := database.JobQuery{Title: strings.TrimSpace(q.Title), Limit: q.Limit}
	if q.Platform != "" {
		p, err := models.ParsePlatform(q.Platform)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dq.Platform = p
	}
	if q.Since != "" {
		// format already checked by the binding
		dq.Since, _ = time.ParseInLocation("2006-01-02", q.Since, time.Local)
	}
	if dq.Limit == 0 {
		dq.Limit = defaultLimit
	}

	records, err := h.mirror.ListJobs(c.Request.Context(), dq)
	if err != nil {
		h.log.Error("❌ Failed to query database", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "database unavailable"})
		return
	}
	jobs := make([]models.Row, len(records))
	for i, rec := range records {
		jobs[i] = rec.Row()
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

func (h *handler) lastReport(c *gin.Context) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := reporter.ReadJSON(h.reportPath)
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run report yet"})
		return
	}
	if err != nil {
		h.log.Error("❌ Failed to read report", "path", h.reportPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report unreadable"})
		return
	}

	if q.Bucket != "" {
		c.JSON(http.StatusOK, gin.H{"run_id": r.RunID, "bucket": q.Bucket, "titles": reporter.Bucket(r, q.Bucket)})
		return
	}
	c.JSON(http.StatusOK, r)
}
