package api

import (
	"net/http"

	"crew_loyalty/internal/service"
	"crew_loyalty/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type sessionRoutes struct {
	session service.SessionServiceI
}

func NewSessionRoutes(handler *gin.RouterGroup, session service.SessionServiceI) {
	r := &sessionRoutes{session: session}
	h := handler.Group("/session")
	{
		h.GET("/:user_id", r.Export)
		h.POST("/:user_id/save", r.Save)
		h.GET("/:user_id/snapshot", r.Load)
		h.DELETE("/:user_id", r.Reset)
	}
}

func (r *sessionRoutes) Export(c *gin.Context) {
	log := logger.Logger()

	snapshot, err := r.session.Export(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to export session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export session"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (r *sessionRoutes) Save(c *gin.Context) {
	log := logger.Logger()

	snapshot, err := r.session.Save(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_at": snapshot.SavedAt})
}

func (r *sessionRoutes) Load(c *gin.Context) {
	log := logger.Logger()

	snapshot, err := r.session.Load(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to load session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (r *sessionRoutes) Reset(c *gin.Context) {
	log := logger.Logger()

	if err := r.session.Reset(c.Request.Context(), c.Param("user_id")); err != nil {
		log.Error("failed to reset session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
