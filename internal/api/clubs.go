package api

import (
	"net/http"

	"crew_loyalty/internal/service"
	"crew_loyalty/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type clubRoutes struct {
	clubs service.ClubServiceI
}

func NewClubRoutes(handler *gin.RouterGroup, clubs service.ClubServiceI) {
	r := &clubRoutes{clubs: clubs}
	h := handler.Group("/clubs")
	{
		h.GET("/:user_id", r.GetClubs)
		h.GET("/:user_id/passport", r.GetPassport)
		h.GET("/:user_id/upcoming-rides", r.GetUpcomingRides)
		h.GET("/:user_id/rides/:club_id", r.GetClubRides)
		h.POST("/:user_id/join", r.Join)
		h.POST("/:user_id/leave", r.Leave)
		h.POST("/:user_id/rides", r.AttendRide)
	}
}

func (r *clubRoutes) GetClubs(c *gin.Context) {
	log := logger.Logger()

	joined, available, err := r.clubs.Clubs(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to get clubs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get clubs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"joined":    joined,
		"available": available,
	})
}

func (r *clubRoutes) GetPassport(c *gin.Context) {
	log := logger.Logger()

	passport, err := r.clubs.Passport(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to get passport", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get passport"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_rides":    passport.TotalRides,
		"stamps":         passport.Stamps,
		"unlocked":       passport.Unlocked,
		"next_milestone": passport.NextMilestone,
	})
}

func (r *clubRoutes) GetUpcomingRides(c *gin.Context) {
	log := logger.Logger()

	rides, err := r.clubs.UpcomingRides(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to get upcoming rides", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get upcoming rides"})
		return
	}

	var out []gin.H
	for _, ride := range rides {
		out = append(out, gin.H{
			"id":         ride.ID,
			"name":       ride.Name,
			"date":       ride.Date,
			"distance":   ride.Distance,
			"difficulty": ride.Difficulty,
			"club_id":    ride.ClubID,
			"club_name":  ride.ClubName,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (r *clubRoutes) GetClubRides(c *gin.Context) {
	log := logger.Logger()

	rides, err := r.clubs.RidesForClub(c.Request.Context(), c.Param("user_id"), c.Param("club_id"))
	if err != nil {
		log.Error("failed to get club rides", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get club rides"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ride_ids": rides})
}

type ClubRequest struct {
	ClubID string `json:"club_id"`
}

func (r *clubRoutes) Join(c *gin.Context) {
	log := logger.Logger()

	var req ClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	joined, err := r.clubs.Join(c.Request.Context(), c.Param("user_id"), req.ClubID)
	if err != nil {
		log.Error("failed to join club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join club"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"joined": joined})
}

func (r *clubRoutes) Leave(c *gin.Context) {
	log := logger.Logger()

	var req ClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	left, err := r.clubs.Leave(c.Request.Context(), c.Param("user_id"), req.ClubID)
	if err != nil {
		log.Error("failed to leave club", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave club"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"left": left})
}

type AttendRideRequest struct {
	ClubID   string `json:"club_id"`
	RideID   string `json:"ride_id"`
	RideName string `json:"ride_name"`
}

func (r *clubRoutes) AttendRide(c *gin.Context) {
	log := logger.Logger()

	var req AttendRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := r.clubs.AttendRide(c.Request.Context(), c.Param("user_id"), req.ClubID, req.RideID, req.RideName)
	if err != nil {
		log.Error("failed to attend ride", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attend ride"})
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"ride": nil})
		return
	}

	out := gin.H{"ride": result.Record}
	if result.Milestone != nil {
		out["milestone"] = result.Milestone
	}
	c.JSON(http.StatusOK, out)
}
