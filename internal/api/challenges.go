package api

import (
	"net/http"

	"crew_loyalty/internal/model"
	"crew_loyalty/internal/service"
	"crew_loyalty/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type challengeRoutes struct {
	challenges service.ChallengeServiceI
	points     service.PointsServiceI
}

func NewChallengeRoutes(handler *gin.RouterGroup, challenges service.ChallengeServiceI, points service.PointsServiceI) {
	r := &challengeRoutes{challenges: challenges, points: points}
	h := handler.Group("/challenges")
	{
		h.GET("/:user_id/available", r.GetAvailable)
		h.GET("/:user_id/active", r.GetActive)
		h.GET("/:user_id/completed", r.GetCompleted)
		h.GET("/:user_id/progress/:challenge_id", r.GetProgress)
		h.POST("/:user_id/start", r.Start)
		h.POST("/:user_id/progress", r.UpdateProgress)
		h.POST("/:user_id/complete", r.Complete)
		h.POST("/:user_id/recompute", r.Recompute)
	}
}

func (r *challengeRoutes) GetAvailable(c *gin.Context) {
	log := logger.Logger()

	userID := c.Param("user_id")
	balance, err := r.points.Balance(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get balance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get available challenges"})
		return
	}
	tier := r.points.TierForPoints(balance.LifetimePoints, balance.EngagementPoints)

	templates, err := r.challenges.Available(c.Request.Context(), userID, tier)
	if err != nil {
		log.Error("failed to get available challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get available challenges"})
		return
	}

	var out []gin.H
	for _, tpl := range templates {
		out = append(out, gin.H{
			"id":          tpl.ID,
			"name":        tpl.Name,
			"description": tpl.Description,
			"type":        tpl.Type,
			"target_goal": tpl.TargetGoal,
			"unit":        tpl.Unit,
			"min_tier":    tpl.MinTier,
			"reward":      tpl.Reward,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (r *challengeRoutes) GetActive(c *gin.Context) {
	log := logger.Logger()

	active, err := r.challenges.Active(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to get active challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get active challenges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": active})
}

func (r *challengeRoutes) GetCompleted(c *gin.Context) {
	log := logger.Logger()

	ids, err := r.challenges.CompletedIDs(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to get completed challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get completed challenges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenge_ids": ids})
}

func (r *challengeRoutes) GetProgress(c *gin.Context) {
	log := logger.Logger()

	progress, err := r.challenges.Progress(c.Request.Context(), c.Param("user_id"), c.Param("challenge_id"))
	if err != nil {
		log.Error("failed to get challenge progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get challenge progress"})
		return
	}
	if progress == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge is not active"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current":   progress.Current,
		"target":    progress.Target,
		"percent":   progress.Percent,
		"remaining": progress.Remaining,
		"unit":      progress.Unit,
	})
}

type StartChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

func (r *challengeRoutes) Start(c *gin.Context) {
	log := logger.Logger()

	var req StartChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	challenge, err := r.challenges.Start(c.Request.Context(), c.Param("user_id"), req.ChallengeID)
	if err != nil {
		log.Error("failed to start challenge", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

type UpdateProgressRequest struct {
	ChallengeID string  `json:"challenge_id"`
	Value       float64 `json:"value"`
}

func (r *challengeRoutes) UpdateProgress(c *gin.Context) {
	log := logger.Logger()

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	challenge, err := r.challenges.UpdateProgress(c.Request.Context(), c.Param("user_id"), req.ChallengeID, req.Value)
	if err != nil {
		log.Error("failed to update challenge progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update challenge progress"})
		return
	}

	c.JSON(http.StatusOK, challengeResponse(challenge))
}

type CompleteChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

func (r *challengeRoutes) Complete(c *gin.Context) {
	log := logger.Logger()

	var req CompleteChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	challenge, err := r.challenges.Complete(c.Request.Context(), c.Param("user_id"), req.ChallengeID)
	if err != nil {
		log.Error("failed to complete challenge", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete challenge"})
		return
	}

	c.JSON(http.StatusOK, challengeResponse(challenge))
}

type RecomputeRequest struct {
	Metrics map[string]float64 `json:"metrics"`
}

func (r *challengeRoutes) Recompute(c *gin.Context) {
	log := logger.Logger()

	var req RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := r.challenges.RecomputeFromMetrics(c.Request.Context(), c.Param("user_id"), req.Metrics)
	if err != nil {
		log.Error("failed to recompute challenge progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recompute challenge progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": updated})
}

func challengeResponse(challenge *model.Challenge) gin.H {
	if challenge == nil {
		return gin.H{"challenge": nil}
	}
	return gin.H{
		"challenge": gin.H{
			"id":               challenge.ID,
			"current_progress": challenge.CurrentProgress,
			"started_at":       challenge.StartedAt,
			"completed_at":     challenge.CompletedAt,
			"completed":        challenge.Completed(),
		},
	}
}
