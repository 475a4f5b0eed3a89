package api

import (
	"errors"
	"net/http"

	"crew_loyalty/internal/catalog"
	"crew_loyalty/internal/model"
	"crew_loyalty/internal/service"
	"crew_loyalty/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type loyaltyRoutes struct {
	points service.PointsServiceI
}

func NewLoyaltyRoutes(handler *gin.RouterGroup, points service.PointsServiceI) {
	r := &loyaltyRoutes{points: points}
	h := handler.Group("/loyalty")
	{
		h.GET("/tiers", r.GetTiers)
		h.GET("/:user_id/balance", r.GetBalance)
		h.GET("/:user_id/history", r.GetHistory)
		h.GET("/:user_id/redemption-options", r.GetRedemptionOptions)
		h.POST("/:user_id/purchase", r.RecordPurchase)
		h.POST("/:user_id/redeem", r.Redeem)
		h.POST("/:user_id/bonus", r.AwardBonus)
		h.POST("/:user_id/engagement-score", r.EngagementScore)
		h.GET("/quote/discount", r.QuoteDiscount)
	}
}

func (r *loyaltyRoutes) GetTiers(c *gin.Context) {
	var out []gin.H
	for _, tier := range catalog.Tiers() {
		out = append(out, gin.H{
			"key":               tier.Key,
			"name":              tier.Name,
			"threshold":         tier.Threshold,
			"points_multiplier": tier.PointsMultiplier,
			"discount_rate":     tier.DiscountRate,
			"benefits":          tier.Benefits,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (r *loyaltyRoutes) GetBalance(c *gin.Context) {
	log := logger.Logger()

	userID := c.Param("user_id")
	balance, err := r.points.Balance(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get balance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get balance"})
		return
	}

	tierKey := r.points.TierForPoints(balance.LifetimePoints, balance.EngagementPoints)
	tier := r.points.TierData(tierKey)

	out := gin.H{
		"lifetime_points":   balance.LifetimePoints,
		"available_points":  balance.AvailablePoints,
		"redeemed_points":   balance.RedeemedPoints,
		"engagement_points": balance.EngagementPoints,
		"points_value_eur":  r.points.PointsValue(balance.AvailablePoints),
		"tier": gin.H{
			"key":               tier.Key,
			"name":              tier.Name,
			"points_multiplier": tier.PointsMultiplier,
			"discount_rate":     tier.DiscountRate,
			"benefits":          tier.Benefits,
		},
	}

	if next := r.points.NextTierInfo(balance.LifetimePoints, balance.EngagementPoints); next != nil {
		out["next_tier"] = gin.H{
			"key":          next.Tier.Key,
			"name":         next.Tier.Name,
			"remaining":    next.Remaining,
			"progress":     next.Progress,
			"new_benefits": next.NewBenefits,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *loyaltyRoutes) GetHistory(c *gin.Context) {
	log := logger.Logger()

	history, err := r.points.History(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to get history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": history})
}

func (r *loyaltyRoutes) GetRedemptionOptions(c *gin.Context) {
	log := logger.Logger()

	userID := c.Param("user_id")
	balance, err := r.points.Balance(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get balance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get redemption options"})
		return
	}

	tier := r.points.TierForPoints(balance.LifetimePoints, balance.EngagementPoints)
	options := r.points.RedemptionOptions(balance.AvailablePoints, tier)

	c.JSON(http.StatusOK, gin.H{
		"available_points": balance.AvailablePoints,
		"options":          options,
	})
}

type RecordPurchaseRequest struct {
	AmountEUR float64 `json:"amount_eur"`
	Kind      string  `json:"kind"`
	OrderID   string  `json:"order_id"`
}

func (r *loyaltyRoutes) RecordPurchase(c *gin.Context) {
	log := logger.Logger()

	var req RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	kind := model.PurchaseStandard
	if req.Kind == string(model.PurchaseService) {
		kind = model.PurchaseService
	}

	tx, err := r.points.EarnForPurchase(c.Request.Context(), c.Param("user_id"), req.AmountEUR, kind, req.OrderID)
	if err != nil {
		log.Error("failed to record purchase", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record purchase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

type RedeemRequest struct {
	OptionID string `json:"option_id"`
}

func (r *loyaltyRoutes) Redeem(c *gin.Context) {
	log := logger.Logger()

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tx, err := r.points.Redeem(c.Request.Context(), c.Param("user_id"), req.OptionID)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientPoints) {
			c.JSON(http.StatusConflict, gin.H{"error": "not enough points"})
			return
		}
		log.Error("failed to redeem", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to redeem"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

type AwardBonusRequest struct {
	EventKey string `json:"event_key"`
}

func (r *loyaltyRoutes) AwardBonus(c *gin.Context) {
	log := logger.Logger()

	var req AwardBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tx, err := r.points.AwardBonus(c.Request.Context(), c.Param("user_id"), req.EventKey)
	if err != nil {
		log.Error("failed to award bonus", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to award bonus"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

type EngagementScoreRequest struct {
	OrderCount          int `json:"order_count"`
	ReviewsWritten      int `json:"reviews_written"`
	WishlistItems       int `json:"wishlist_items"`
	PageViews           int `json:"page_views"`
	Referrals           int `json:"referrals"`
	SocialShares        int `json:"social_shares"`
	RidesAttended       int `json:"rides_attended"`
	ChallengesCompleted int `json:"challenges_completed"`
}

func (r *loyaltyRoutes) EngagementScore(c *gin.Context) {
	log := logger.Logger()

	var req EngagementScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	score := r.points.EngagementScore(model.EngagementMetrics{
		OrderCount:          req.OrderCount,
		ReviewsWritten:      req.ReviewsWritten,
		WishlistItems:       req.WishlistItems,
		PageViews:           req.PageViews,
		Referrals:           req.Referrals,
		SocialShares:        req.SocialShares,
		RidesAttended:       req.RidesAttended,
		ChallengesCompleted: req.ChallengesCompleted,
	})

	c.JSON(http.StatusOK, gin.H{
		"purchases":  score.Purchases,
		"activity":   score.Activity,
		"community":  score.Community,
		"challenges": score.Challenges,
		"total":      score.Total,
	})
}

func (r *loyaltyRoutes) QuoteDiscount(c *gin.Context) {
	log := logger.Logger()

	price, err := decimal.NewFromString(c.Query("price"))
	if err != nil {
		log.Error("failed to parse price", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}
	tier := model.TierKey(c.Query("tier"))

	c.JSON(http.StatusOK, gin.H{
		"price":            price,
		"tier":             tier,
		"discounted_price": r.points.DiscountedPrice(price, tier),
	})
}
