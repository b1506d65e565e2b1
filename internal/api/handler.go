package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/waterwatch/go-water-watch/internal/aggregate"
	"github.com/waterwatch/go-water-watch/internal/models"
	"github.com/waterwatch/go-water-watch/internal/points"
	"github.com/waterwatch/go-water-watch/internal/repository"
	"github.com/waterwatch/go-water-watch/internal/stream"
	"github.com/waterwatch/go-water-watch/internal/symptoms"
	"github.com/waterwatch/go-water-watch/internal/verify"
)

// Point awards for user actions.
const (
	reportAward      = 10
	healthCheckAward = 15
	sensorAward      = 20
)

type Handler struct {
	reports       repository.ReportRepository
	areas         repository.AreaRepository
	notifications repository.NotificationRepository
	aggregator    *aggregate.Service
	gate          *verify.Gate
	engine        *points.Engine
	assessor      *symptoms.Service
	events        *stream.Broadcaster
	notifyLimit   int
}

func NewHandler(
	reports repository.ReportRepository,
	areas repository.AreaRepository,
	notifications repository.NotificationRepository,
	aggregator *aggregate.Service,
	gate *verify.Gate,
	engine *points.Engine,
	assessor *symptoms.Service,
	events *stream.Broadcaster,
	notifyLimit int,
) *Handler {
	return &Handler{
		reports:       reports,
		areas:         areas,
		notifications: notifications,
		aggregator:    aggregator,
		gate:          gate,
		engine:        engine,
		assessor:      assessor,
		events:        events,
		notifyLimit:   notifyLimit,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	r.POST("/api/reports", h.submitReport)
	r.GET("/api/reports", h.getReports)
	r.POST("/api/reports/:id/vote", h.voteReport)

	r.GET("/api/areas", h.getAreas)
	r.GET("/api/areas/geojson", h.getAreasGeoJSON)
	r.POST("/api/areas/:id/verify", h.verifyArea)

	r.GET("/api/users/:id/stats", h.getStats)
	r.POST("/api/users/:id/streak", h.updateStreak)
	r.POST("/api/users/:id/health-check", h.healthCheck)
	r.POST("/api/users/:id/sensors", h.connectSensor)
	r.POST("/api/users/:id/rewards/:rewardID/claim", h.claimReward)

	r.GET("/api/rewards", h.getRewards)
	r.GET("/api/achievements", h.getAchievements)

	r.POST("/api/assess", h.assess)
	r.GET("/api/assess/history", h.getAssessHistory)

	r.GET("/api/notifications", h.getNotifications)
	r.POST("/api/notifications/:id/read", h.markNotificationRead)

	if h.events != nil {
		r.GET("/api/events", h.getEvents)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type submitReportRequest struct {
	ReporterID  string            `json:"reporterId" binding:"required"`
	Type        models.ReportType `json:"type" binding:"required"`
	Severity    models.Severity   `json:"severity" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Location    *models.Location  `json:"location" binding:"required"`
	Photos      []string          `json:"photos"`
}

func (h *Handler) submitReport(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload: " + err.Error()})
		return
	}
	if !models.ValidReportType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report type"})
		return
	}
	if !models.ValidSeverity(req.Severity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown severity"})
		return
	}

	ctx := c.Request.Context()

	report := models.Report{
		ID:             uuid.NewString(),
		ReporterID:     req.ReporterID,
		Type:           req.Type,
		Severity:       req.Severity,
		Title:          req.Title,
		Description:    req.Description,
		Location:       *req.Location,
		Photos:         req.Photos,
		Timestamp:      time.Now().UTC(),
		Status:         models.ReportStatusPending,
		ReporterPoints: reportAward,
	}

	all, err := h.reports.Reports(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
		return
	}
	if err := h.reports.SaveReports(ctx, append(all, report)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
		return
	}

	// Points first, then the achievement sweep; failures past this point do
	// not roll the stored report back.
	if _, err := h.engine.AddPoints(ctx, req.ReporterID, reportAward); err != nil {
		slog.Error("report point award failed", "user", req.ReporterID, "error", err)
	}
	if _, err := h.engine.IncrementReports(ctx, req.ReporterID); err != nil {
		slog.Error("report counter update failed", "user", req.ReporterID, "error", err)
	}
	fired, err := h.engine.UnlockEligible(ctx, req.ReporterID)
	if err != nil {
		slog.Error("achievement sweep failed", "user", req.ReporterID, "error", err)
	}

	if _, err := h.aggregator.Recompute(ctx); err != nil {
		slog.Error("aggregation after report failed", "report", report.ID, "error", err)
	}

	h.notify(c, models.Notification{
		ID:        uuid.NewString(),
		Type:      models.NotificationReport,
		Title:     "New water report",
		Message:   report.Title,
		Timestamp: time.Now().UTC(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"report":       report,
		"achievements": fired,
	})
}

func (h *Handler) getReports(c *gin.Context) {
	reports, err := h.reports.Reports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}

	if t := c.Query("type"); t != "" {
		reports = filterReports(reports, func(r models.Report) bool { return string(r.Type) == t })
	}
	if s := c.Query("severity"); s != "" {
		reports = filterReports(reports, func(r models.Report) bool { return string(r.Severity) == s })
	}
	if st := c.Query("status"); st != "" {
		reports = filterReports(reports, func(r models.Report) bool { return string(r.Status) == st })
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim < len(reports) {
			reports = reports[:lim]
		}
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func filterReports(reports []models.Report, keep func(models.Report) bool) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

type voteRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

func (h *Handler) voteReport(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vote direction must be up or down"})
		return
	}

	ctx := c.Request.Context()
	reports, err := h.reports.Reports(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
		return
	}

	id := c.Param("id")
	for i := range reports {
		if reports[i].ID != id {
			continue
		}
		if req.Direction == "up" {
			reports[i].Upvotes++
		} else {
			reports[i].Downvotes++
		}
		if err := h.reports.SaveReports(ctx, reports); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save vote"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"report": reports[i]})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
}

func (h *Handler) getAreas(c *gin.Context) {
	areas, err := h.areas.Areas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch areas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

func (h *Handler) getAreasGeoJSON(c *gin.Context) {
	areas, err := h.areas.Areas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch areas"})
		return
	}

	fc := toGeoJSON(areas)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

type verifyAreaRequest struct {
	SecretKey    string `json:"secretKey"`
	OfficialName string `json:"officialName"`
	Department   string `json:"department"`
}

func (h *Handler) verifyArea(c *gin.Context) {
	var req verifyAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification payload"})
		return
	}

	res, err := h.gate.Verify(c.Request.Context(), verify.Request{
		AreaID:       c.Param("id"),
		SecretKey:    req.SecretKey,
		OfficialName: req.OfficialName,
		Department:   req.Department,
	})
	switch {
	case errors.Is(err, verify.ErrIncompleteForm):
		c.JSON(http.StatusBadRequest, gin.H{"error": "all verification fields are required"})
		return
	case errors.Is(err, verify.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
		return
	case errors.Is(err, verify.ErrAreaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}

	h.notify(c, models.Notification{
		ID:        uuid.NewString(),
		Type:      models.NotificationVerification,
		Title:     "Area officially verified",
		Message:   "Verified by " + res.OfficialName,
		Timestamp: time.Now().UTC(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":      "area verified",
		"areaId":       res.AreaID,
		"officialName": res.OfficialName,
		"verifiedAt":   res.VerifiedAt,
	})
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

type streakRequest struct {
	Streak *int `json:"streak" binding:"required"`
}

func (h *Handler) updateStreak(c *gin.Context) {
	var req streakRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Streak < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "streak must be a non-negative integer"})
		return
	}

	ctx := c.Request.Context()
	userID := c.Param("id")

	stats, err := h.engine.UpdateStreak(ctx, userID, *req.Streak)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update streak"})
		return
	}

	fired, err := h.engine.UnlockEligible(ctx, userID)
	if err != nil {
		slog.Error("achievement sweep failed", "user", userID, "error", err)
	}
	if len(fired) > 0 {
		stats, _ = h.engine.Get(ctx, userID)
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "achievements": fired})
}

func (h *Handler) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	if _, err := h.engine.IncrementHealthChecks(ctx, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record health check"})
		return
	}
	stats, err := h.engine.AddPoints(ctx, userID, healthCheckAward)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to award points"})
		return
	}

	fired, err := h.engine.UnlockEligible(ctx, userID)
	if err != nil {
		slog.Error("achievement sweep failed", "user", userID, "error", err)
	}
	if len(fired) > 0 {
		stats, _ = h.engine.Get(ctx, userID)
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "achievements": fired})
}

type sensorRequest struct {
	SensorID string `json:"sensorId" binding:"required"`
}

func (h *Handler) connectSensor(c *gin.Context) {
	var req sensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sensorId is required"})
		return
	}

	ctx := c.Request.Context()
	userID := c.Param("id")

	added, stats, err := h.engine.AddSensor(ctx, userID, req.SensorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record sensor"})
		return
	}
	if added {
		if stats, err = h.engine.AddPoints(ctx, userID, sensorAward); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to award points"})
			return
		}
	}

	fired, err := h.engine.UnlockEligible(ctx, userID)
	if err != nil {
		slog.Error("achievement sweep failed", "user", userID, "error", err)
	}
	if len(fired) > 0 {
		stats, _ = h.engine.Get(ctx, userID)
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "achievements": fired, "added": added})
}

func (h *Handler) claimReward(c *gin.Context) {
	redemption, err := h.engine.ClaimReward(c.Request.Context(), c.Param("id"), c.Param("rewardID"))
	switch {
	case errors.Is(err, points.ErrUnknownReward):
		c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		return
	case errors.Is(err, points.ErrInsufficientPoints):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient points"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim reward"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemption": redemption})
}

func (h *Handler) getRewards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rewards": points.Rewards})
}

func (h *Handler) getAchievements(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"achievements": points.Achievements})
}

type assessRequest struct {
	UserID   string   `json:"userId"`
	Symptoms []string `json:"symptoms" binding:"required,min=1"`
}

func (h *Handler) assess(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one symptom is required"})
		return
	}

	assessment, err := h.assessor.Assess(c.Request.Context(), req.UserID, req.Symptoms)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assessment failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}

func (h *Handler) getAssessHistory(c *gin.Context) {
	history, err := h.assessor.History(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": history})
}

func (h *Handler) getNotifications(c *gin.Context) {
	ns, err := h.notifications.Notifications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	// A user sees broadcasts plus their own.
	if user := c.Query("user"); user != "" {
		filtered := make([]models.Notification, 0, len(ns))
		for _, n := range ns {
			if n.UserID == "" || n.UserID == user {
				filtered = append(filtered, n)
			}
		}
		ns = filtered
	}

	c.JSON(http.StatusOK, gin.H{"notifications": ns})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	ctx := c.Request.Context()
	ns, err := h.notifications.Notifications(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	id := c.Param("id")
	for i := range ns {
		if ns[i].ID != id {
			continue
		}
		ns[i].Read = true
		if err := h.notifications.SaveNotifications(ctx, ns); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save notification"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"notification": ns[i]})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
}

func (h *Handler) notify(c *gin.Context, n models.Notification) {
	if err := h.notifications.AppendNotification(c.Request.Context(), n, h.notifyLimit); err != nil {
		slog.Error("notification append failed", "type", n.Type, "error", err)
	}
}
