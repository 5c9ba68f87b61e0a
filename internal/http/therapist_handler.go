package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindfolk/internal/domain"
	"mindfolk/internal/repository"
	"mindfolk/internal/service"
)

// TherapistHandler mantiene dependencias para perfiles y moderacion.
type TherapistHandler struct {
	logger     *zap.Logger
	therapists *service.TherapistService
}

func NewTherapistHandler(logger *zap.Logger, therapists *service.TherapistService) *TherapistHandler {
	return &TherapistHandler{logger: logger, therapists: therapists}
}

// GetMine maneja GET /therapists/me.
func (h *TherapistHandler) GetMine(c *gin.Context) {
	claims := sessionClaims(c)
	profile, err := h.therapists.GetMine(c.Request.Context(), claims.UserID)
	if err != nil {
		h.writeErr(c, "get therapist profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// PutMine maneja PUT /therapists/me.
func (h *TherapistHandler) PutMine(c *gin.Context) {
	var req struct {
		Name             string   `json:"name" binding:"required"`
		Bio              string   `json:"bio"`
		Approach         string   `json:"approach"`
		Personality      []string `json:"personality"`
		Specialties      []string `json:"specialties"`
		Modalities       []string `json:"modalities"`
		Languages        []string `json:"languages"`
		Identity         []string `json:"identity"`
		CulturalIdentity []string `json:"cultural_identity"`
		AgeGroups        []string `json:"age_groups"`
		Availability     []string `json:"availability"`
		HourlyRate       float64  `json:"hourly_rate" binding:"gte=0"`
		YearsExperience  int      `json:"years_experience" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid therapist profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims := sessionClaims(c)
	profile, err := h.therapists.UpsertMine(c.Request.Context(), claims.UserID, domain.TherapistProfile{
		Name:             req.Name,
		Bio:              req.Bio,
		Approach:         req.Approach,
		Personality:      req.Personality,
		Specialties:      req.Specialties,
		Modalities:       req.Modalities,
		Languages:        req.Languages,
		Identity:         req.Identity,
		CulturalIdentity: req.CulturalIdentity,
		AgeGroups:        req.AgeGroups,
		Availability:     req.Availability,
		HourlyRate:       req.HourlyRate,
		YearsExperience:  req.YearsExperience,
	})
	if err != nil {
		h.writeErr(c, "upsert therapist profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetByID maneja GET /therapists/:id.
func (h *TherapistHandler) GetByID(c *gin.Context) {
	claims := sessionClaims(c)
	profile, err := h.therapists.GetByID(c.Request.Context(), c.Param("id"), domain.Role(claims.Role))
	if err != nil {
		h.writeErr(c, "get therapist failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ListForModeration maneja GET /admin/therapists?status=pending.
func (h *TherapistHandler) ListForModeration(c *gin.Context) {
	status := c.DefaultQuery("status", domain.TherapistStatusPending)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	profiles, err := h.therapists.ListByStatus(c.Request.Context(), status, limit)
	if err != nil {
		h.writeErr(c, "list therapists failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// SetStatus maneja PUT /admin/therapists/:id/status.
func (h *TherapistHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid status request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.therapists.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.writeErr(c, "set therapist status failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// SetTags maneja PUT /admin/therapists/:id/tags.
func (h *TherapistHandler) SetTags(c *gin.Context) {
	var req repository.TherapistTags
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid tags request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.therapists.SetTags(c.Request.Context(), c.Param("id"), req); err != nil {
		h.writeErr(c, "set therapist tags failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TherapistHandler) writeErr(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrTherapistNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "therapist not found"})
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
