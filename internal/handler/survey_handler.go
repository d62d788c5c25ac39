package handler

import (
	"errors"
	"net/http"

	"opinai/internal/model"
	"opinai/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SurveyHandler handles survey listing, creation and completion
type SurveyHandler struct {
	surveys service.SurveyService
	rewards service.RewardService
}

// NewSurveyHandler creates a new SurveyHandler
func NewSurveyHandler(surveys service.SurveyService, rewards service.RewardService) *SurveyHandler {
	RegisterValidators()
	return &SurveyHandler{surveys: surveys, rewards: rewards}
}

func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.surveys.ListSurveys(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list surveys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve surveys"})
		return
	}
	c.JSON(http.StatusOK, surveys)
}

func (h *SurveyHandler) Create(c *gin.Context) {
	var req model.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	survey, err := h.surveys.CreateSurvey(c.Request.Context(), req)
	if err != nil {
		zap.L().Error("failed to create survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create survey"})
		return
	}
	c.JSON(http.StatusCreated, survey)
}

func (h *SurveyHandler) Complete(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CompleteSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	total, err := h.rewards.CompleteSurvey(c.Request.Context(), userID, req.SurveyID, req.Valor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedReward):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid reward value"})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		default:
			zap.L().Error("failed to credit points", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update points"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"novosPontos": total})
}

// RegisterSurveyRoutes registers survey routes. Listing is public, completion needs a
// token and creation an admin.
func (h *SurveyHandler) RegisterSurveyRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	surveyGroup := rg.Group("/surveys")
	{
		surveyGroup.GET("", h.List)
		surveyGroup.POST("", adminMW, h.Create)
		surveyGroup.POST("/complete", authMW, h.Complete)
	}
}
