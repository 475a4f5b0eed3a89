package api

import (
	"net/http"

	"crew_loyalty/internal/service"
	"crew_loyalty/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type stravaRoutes struct {
	activity service.ActivityServiceI
}

func NewStravaRoutes(handler *gin.RouterGroup, activity service.ActivityServiceI) {
	r := &stravaRoutes{activity: activity}
	h := handler.Group("/strava")
	{
		h.POST("/:user_id/connect", r.Connect)
		h.POST("/:user_id/disconnect", r.Disconnect)
		h.POST("/:user_id/sync", r.Sync)
		h.GET("/:user_id/stats", r.GetStats)
	}
}

func (r *stravaRoutes) Connect(c *gin.Context) {
	log := logger.Logger()

	athlete, err := r.activity.Connect(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to connect strava", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to connect"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"athlete_id": athlete.ID,
		"first_name": athlete.FirstName,
		"last_name":  athlete.LastName,
		"gear":       athlete.Gear,
	})
}

func (r *stravaRoutes) Disconnect(c *gin.Context) {
	log := logger.Logger()

	if err := r.activity.Disconnect(c.Request.Context(), c.Param("user_id")); err != nil {
		log.Error("failed to disconnect strava", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disconnect"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

func (r *stravaRoutes) Sync(c *gin.Context) {
	log := logger.Logger()

	activity, err := r.activity.Sync(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to sync strava", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync"})
		return
	}
	if activity == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "account is not connected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          activity.ID,
		"name":        activity.Name,
		"type":        activity.Type,
		"gear_id":     activity.GearID,
		"started_at":  activity.StartedAt,
		"distance":    activity.Distance,
		"elevation":   activity.Elevation,
		"moving_time": activity.MovingTime,
	})
}

func (r *stravaRoutes) GetStats(c *gin.Context) {
	log := logger.Logger()

	stats, err := r.activity.Stats(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to get strava stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       stats.Connected,
		"totals":          stats.Totals,
		"this_month":      stats.ThisMonth,
		"year_to_date":    stats.YearToDate,
		"per_gear":        stats.PerGear,
		"early_rides":     stats.EarlyRides,
		"rider_profile":   stats.RiderProfile,
		"recommendations": stats.Recommendations,
	})
}
