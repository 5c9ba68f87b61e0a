package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindfolk/internal/domain"
	"mindfolk/internal/service"
)

// AssessmentHandler expone las preferencias del cliente y su borrador.
type AssessmentHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, assessments *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, assessments: assessments}
}

type assessmentRequest struct {
	CommunicationStyle   []string `json:"communication_style"`
	Languages            []string `json:"languages"`
	LanguageRequired     bool     `json:"language_required"`
	Identity             []string `json:"identity"`
	TherapyGoals         []string `json:"therapy_goals"`
	Modalities           []string `json:"modalities"`
	BudgetRange          []string `json:"budget_range"`
	AgeGroup             string   `json:"age_group"`
	CulturalIdentity     []string `json:"cultural_identity"`
	Availability         []string `json:"availability"`
	PrefersExperienced   bool     `json:"prefers_experienced"`
	ExcludedTherapistIDs []string `json:"excluded_therapist_ids"`
}

func (r assessmentRequest) toDomain() domain.AssessmentPreferences {
	return domain.AssessmentPreferences{
		CommunicationStyle:   r.CommunicationStyle,
		Languages:            r.Languages,
		LanguageRequired:     r.LanguageRequired,
		Identity:             r.Identity,
		TherapyGoals:         r.TherapyGoals,
		Modalities:           r.Modalities,
		BudgetRange:          r.BudgetRange,
		AgeGroup:             r.AgeGroup,
		CulturalIdentity:     r.CulturalIdentity,
		Availability:         r.Availability,
		PrefersExperienced:   r.PrefersExperienced,
		ExcludedTherapistIDs: r.ExcludedTherapistIDs,
	}
}

// GetAssessment maneja GET /assessment.
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	claims := sessionClaims(c)
	prefs, err := h.assessments.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
			return
		}
		h.logger.Error("get assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch assessment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": prefs})
}

// PutAssessment maneja PUT /assessment.
func (h *AssessmentHandler) PutAssessment(c *gin.Context) {
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims := sessionClaims(c)
	prefs, err := h.assessments.Save(c.Request.Context(), claims.UserID, req.toDomain())
	if err != nil {
		h.logger.Error("save assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save assessment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": prefs})
}

// GetDraft maneja GET /assessment/draft.
func (h *AssessmentHandler) GetDraft(c *gin.Context) {
	claims := sessionClaims(c)
	draft, err := h.assessments.LoadDraft(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		h.logger.Error("load draft failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// PutDraft maneja PUT /assessment/draft.
func (h *AssessmentHandler) PutDraft(c *gin.Context) {
	var req struct {
		Step        int               `json:"step"`
		Completed   []int             `json:"completed_steps"`
		Preferences assessmentRequest `json:"preferences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid draft request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	claims := sessionClaims(c)
	draft, err := h.assessments.SaveDraft(c.Request.Context(), claims.UserID, domain.AssessmentDraft{
		Step:        req.Step,
		Completed:   req.Completed,
		Preferences: req.Preferences.toDomain(),
	})
	if err != nil {
		h.logger.Error("save draft failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// DeleteDraft maneja DELETE /assessment/draft.
func (h *AssessmentHandler) DeleteDraft(c *gin.Context) {
	claims := sessionClaims(c)
	if err := h.assessments.ClearDraft(c.Request.Context(), claims.UserID); err != nil {
		h.logger.Error("clear draft failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear draft"})
		return
	}
	c.Status(http.StatusNoContent)
}
