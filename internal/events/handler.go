package events

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eventsort/internal/auth"
	"eventsort/pkg/models"
)

type Handler struct {
	Repo *Repo
	// Now lets tests pin the clock; defaults to wall time in Loc.
	Now func() time.Time
	Loc *time.Location
}

func NewHandler(repo *Repo, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.FixedZone("SGT", 8*60*60)
	}
	h := &Handler{Repo: repo, Loc: loc}
	h.Now = func() time.Time { return time.Now().In(h.Loc) }
	return h
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", h.list)
	rg.GET("/events/interested/all", h.listInterested)
	rg.GET("/events/:id", h.getOne)
	rg.POST("/events/:id/swipe", h.swipe)
	rg.GET("/stats", h.stats)
}

// list returns the caller's pending (not-yet-swiped) events, newest
// first, narrowed by the requested recency window.
func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		auth.AbortUnauthorized(c, "not authenticated", "UNAUTHORIZED")
		return
	}

	window, ok := ParseWindow(c.Query("filter"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filter must be all, upcoming or urgent"})
		return
	}

	recs, err := h.Repo.ListPending(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	recs = FilterByWindow(recs, window, h.Now())
	c.JSON(http.StatusOK, presentAll(recs, includeRaw(c, false)))
}

func (h *Handler) listInterested(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		auth.AbortUnauthorized(c, "not authenticated", "UNAUTHORIZED")
		return
	}

	recs, err := h.Repo.ListInterested(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, presentAll(recs, includeRaw(c, false)))
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		auth.AbortUnauthorized(c, "not authenticated", "UNAUTHORIZED")
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	rec, err := h.Repo.GetByID(c.Request.Context(), id, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if rec == nil {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, present(*rec, includeRaw(c, true)))
}

type swipeReq struct {
	Interested *bool `json:"interested"`
}

// swipe records the user's verdict: true = swipe right (interested),
// false = swipe left.
func (h *Handler) swipe(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		auth.AbortUnauthorized(c, "not authenticated", "UNAUTHORIZED")
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req swipeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Interested == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interested (bool) required"})
		return
	}

	ok, err := h.Repo.UpdateInterest(c.Request.Context(), id, claims.UserID, *req.Interested)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "swipe failed"})
		return
	}
	if !ok {
		notFound(c)
		return
	}

	direction := "left"
	if *req.Interested {
		direction = "right"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"event_id":   id,
		"interested": *req.Interested,
		"message":    "Swipe " + direction + " recorded",
	})
}

func (h *Handler) stats(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		auth.AbortUnauthorized(c, "not authenticated", "UNAUTHORIZED")
		return
	}

	s, err := h.Repo.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}

	pending, err := h.Repo.ListPending(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	urgent := len(FilterByWindow(pending, WindowUrgent, h.Now()))

	c.JSON(http.StatusOK, gin.H{
		"total_events":   s.TotalEvents,
		"interested":     s.Interested,
		"not_interested": s.NotInterested,
		"pending_swipes": s.PendingSwipes,
		"urgent_events":  urgent,
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":  "Event not found",
		"code":   "EVENT_NOT_FOUND",
		"status": http.StatusNotFound,
	})
}

func includeRaw(c *gin.Context, def bool) bool {
	v := strings.TrimSpace(c.Query("include_raw"))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// present hides raw_message unless the client asked for it; everything
// else serializes straight off the record.
func present(rec models.EventRecord, raw bool) models.EventRecord {
	if !raw {
		rec.RawMessage = ""
	}
	return rec
}

func presentAll(recs []models.EventRecord, raw bool) []models.EventRecord {
	out := make([]models.EventRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, present(rec, raw))
	}
	return out
}
