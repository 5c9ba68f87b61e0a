package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindfolk/internal/matching"
	"mindfolk/internal/service"
)

// DiscoverHandler expone el feed Discover y utilidades de formato de estilos.
type DiscoverHandler struct {
	logger   *zap.Logger
	discover *service.DiscoverService
}

func NewDiscoverHandler(logger *zap.Logger, discover *service.DiscoverService) *DiscoverHandler {
	return &DiscoverHandler{logger: logger, discover: discover}
}

// Feed maneja GET /discover.
func (h *DiscoverHandler) Feed(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 0 and 100"})
			return
		}
		limit = n
	}
	claims := sessionClaims(c)
	cards, err := h.discover.Feed(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentRequired) {
			c.JSON(http.StatusConflict, gin.H{"error": "complete the assessment first"})
			return
		}
		h.logger.Error("discover feed failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": cards})
}

type normalizedStyle struct {
	Input   string                 `json:"input"`
	DB      string                 `json:"db"`
	Display string                 `json:"display"`
	Parsed  *matching.StyleDisplay `json:"parsed"`
}

// NormalizeStyles maneja POST /styles/normalize.
func (h *DiscoverHandler) NormalizeStyles(c *gin.Context) {
	var req struct {
		Labels []string `json:"labels" binding:"required,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid normalize request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out := make([]normalizedStyle, 0, len(req.Labels))
	for _, l := range req.Labels {
		out = append(out, normalizedStyle{
			Input:   l,
			DB:      matching.ToDbFormat(l),
			Display: matching.ToDisplayFormat(l),
			Parsed:  matching.ParseStyleForDisplay(l),
		})
	}
	c.JSON(http.StatusOK, gin.H{"styles": out})
}

// Vocabulary maneja GET /styles/vocabulary.
func (h *DiscoverHandler) Vocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vocabulary": matching.Vocabulary()})
}

// Overlay maneja POST /styles/overlay; util para pruebas visuales del front.
func (h *DiscoverHandler) Overlay(c *gin.Context) {
	var req struct {
		ClientPrefs   []string `json:"client_prefs"`
		TherapistTags []string `json:"therapist_tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"overlay": matching.PickOverlay(req.ClientPrefs, req.TherapistTags)})
}
