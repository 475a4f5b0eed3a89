package service

import (
	"context"
	"testing"

	"crew_loyalty/internal/model"
	"crew_loyalty/internal/service/mocks"
	"crew_loyalty/internal/telemetry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPointsService_TierForPoints(t *testing.T) {
	service := NewPointsService(&mocks.MockLedgerRepository{}, telemetry.Nop{})

	tests := []struct {
		name       string
		lifetime   int
		engagement int
		expected   model.TierKey
	}{
		{name: "Zero points", lifetime: 0, engagement: 0, expected: model.TierRider},
		{name: "Just below racer", lifetime: 999, engagement: 0, expected: model.TierRider},
		{name: "Exactly racer threshold", lifetime: 1000, engagement: 0, expected: model.TierRacer},
		{name: "Exactly legend threshold", lifetime: 5000, engagement: 0, expected: model.TierLegend},
		{name: "Far beyond legend", lifetime: 50000, engagement: 0, expected: model.TierLegend},
		{name: "Engagement qualifies alone", lifetime: 100, engagement: 1200, expected: model.TierRacer},
		{name: "Max of the two wins", lifetime: 5200, engagement: 1200, expected: model.TierLegend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.TierForPoints(tt.lifetime, tt.engagement))
		})
	}
}

func TestPointsService_PointsForPurchase(t *testing.T) {
	service := NewPointsService(&mocks.MockLedgerRepository{}, telemetry.Nop{})

	tests := []struct {
		name     string
		amount   float64
		tier     model.TierKey
		kind     model.PurchaseKind
		expected int
	}{
		{name: "Rider standard 100 EUR", amount: 100, tier: model.TierRider, kind: model.PurchaseStandard, expected: 50},
		{name: "Rider service 100 EUR", amount: 100, tier: model.TierRider, kind: model.PurchaseService, expected: 75},
		{name: "Racer standard 100 EUR", amount: 100, tier: model.TierRacer, kind: model.PurchaseStandard, expected: 75},
		{name: "Racer service 100 EUR", amount: 100, tier: model.TierRacer, kind: model.PurchaseService, expected: 112},
		{name: "Legend standard 100 EUR", amount: 100, tier: model.TierLegend, kind: model.PurchaseStandard, expected: 100},
		{name: "Legend service 100 EUR", amount: 100, tier: model.TierLegend, kind: model.PurchaseService, expected: 150},
		{name: "Fractional amount floors", amount: 9.99, tier: model.TierRider, kind: model.PurchaseStandard, expected: 4},
		{name: "Zero amount", amount: 0, tier: model.TierRider, kind: model.PurchaseStandard, expected: 0},
		{name: "Negative amount", amount: -50, tier: model.TierRacer, kind: model.PurchaseStandard, expected: 0},
		{name: "Unknown tier falls back to rider", amount: 100, tier: model.TierKey("platinum"), kind: model.PurchaseStandard, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.PointsForPurchase(tt.amount, tt.tier, tt.kind))
		})
	}
}

func TestPointsService_DiscountedPrice(t *testing.T) {
	service := NewPointsService(&mocks.MockLedgerRepository{}, telemetry.Nop{})

	tests := []struct {
		name     string
		price    decimal.Decimal
		tier     model.TierKey
		expected decimal.Decimal
	}{
		{name: "Rider has no discount", price: decimal.NewFromInt(100), tier: model.TierRider, expected: decimal.NewFromInt(100)},
		{name: "Racer 5 percent", price: decimal.NewFromInt(100), tier: model.TierRacer, expected: decimal.NewFromInt(95)},
		{name: "Legend 10 percent", price: decimal.NewFromInt(100), tier: model.TierLegend, expected: decimal.NewFromInt(90)},
		{name: "Legend on odd price", price: decimal.NewFromFloat(49.99), tier: model.TierLegend, expected: decimal.NewFromFloat(44.991)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.DiscountedPrice(tt.price, tt.tier)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestPointsService_PointsValue(t *testing.T) {
	service := NewPointsService(&mocks.MockLedgerRepository{}, telemetry.Nop{})

	assert.True(t, decimal.NewFromInt(5).Equal(service.PointsValue(100)))
	assert.True(t, decimal.NewFromInt(50).Equal(service.PointsValue(1000)))
	assert.True(t, decimal.Zero.Equal(service.PointsValue(-10)))
}

func TestPointsService_NextTierInfo(t *testing.T) {
	service := NewPointsService(&mocks.MockLedgerRepository{}, telemetry.Nop{})

	tests := []struct {
		name            string
		lifetime        int
		engagement      int
		expectNil       bool
		checkAdditional func(*testing.T, *model.NextTierInfo)
	}{
		{
			name:     "Fresh rider targets racer",
			lifetime: 0,
			checkAdditional: func(t *testing.T, info *model.NextTierInfo) {
				assert.Equal(t, model.TierRacer, info.Tier.Key)
				assert.Equal(t, 1000, info.Remaining)
				assert.Equal(t, float64(0), info.Progress)
				assert.NotEmpty(t, info.NewBenefits)
			},
		},
		{
			name:     "Halfway to racer",
			lifetime: 500,
			checkAdditional: func(t *testing.T, info *model.NextTierInfo) {
				assert.Equal(t, model.TierRacer, info.Tier.Key)
				assert.Equal(t, 500, info.Remaining)
				assert.InDelta(t, 50, info.Progress, 0.001)
			},
		},
		{
			name:     "Exactly on racer threshold starts at zero",
			lifetime: 1000,
			checkAdditional: func(t *testing.T, info *model.NextTierInfo) {
				assert.Equal(t, model.TierLegend, info.Tier.Key)
				assert.Equal(t, 4000, info.Remaining)
				assert.Equal(t, float64(0), info.Progress)
			},
		},
		{
			name:       "Engagement drives the progress",
			lifetime:   0,
			engagement: 3000,
			checkAdditional: func(t *testing.T, info *model.NextTierInfo) {
				assert.Equal(t, model.TierLegend, info.Tier.Key)
				assert.Equal(t, 2000, info.Remaining)
				assert.InDelta(t, 50, info.Progress, 0.001)
			},
		},
		{
			name:      "Legend has no next tier",
			lifetime:  6000,
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := service.NextTierInfo(tt.lifetime, tt.engagement)
			if tt.expectNil {
				assert.Nil(t, info)
				return
			}
			assert.NotNil(t, info)
			tt.checkAdditional(t, info)
		})
	}
}

func TestPointsService_RedemptionOptions(t *testing.T) {
	service := NewPointsService(&mocks.MockLedgerRepository{}, telemetry.Nop{})

	tests := []struct {
		name      string
		available int
		tier      model.TierKey
		expectIDs []string
	}{
		{
			name:      "Broke rider sees nothing",
			available: 50,
			tier:      model.TierRider,
			expectIDs: nil,
		},
		{
			name:      "Rider with 250 points",
			available: 250,
			tier:      model.TierRider,
			expectIDs: []string{"voucher-5", "voucher-12", "express-shipping", "surprise-gift"},
		},
		{
			name:      "Rich rider still locked out of gated options",
			available: 5000,
			tier:      model.TierRider,
			expectIDs: []string{"voucher-5", "voucher-12", "voucher-35", "express-shipping", "surprise-gift"},
		},
		{
			name:      "Legend with 5000 points sees everything",
			available: 5000,
			tier:      model.TierLegend,
			expectIDs: []string{"voucher-5", "voucher-12", "voucher-35", "voucher-80", "express-shipping", "surprise-gift", "factory-tour"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := service.RedemptionOptions(tt.available, tt.tier)
			var ids []string
			for _, o := range options {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.expectIDs, ids)
		})
	}
}

func TestPointsService_EngagementScore(t *testing.T) {
	service := NewPointsService(&mocks.MockLedgerRepository{}, telemetry.Nop{})

	tests := []struct {
		name     string
		metrics  model.EngagementMetrics
		expected model.EngagementScore
	}{
		{
			name:     "No activity",
			metrics:  model.EngagementMetrics{},
			expected: model.EngagementScore{},
		},
		{
			name: "Everything saturated",
			metrics: model.EngagementMetrics{
				OrderCount:          50,
				ReviewsWritten:      20,
				Referrals:           10,
				ChallengesCompleted: 20,
			},
			expected: model.EngagementScore{Purchases: 100, Activity: 100, Community: 100, Challenges: 100, Total: 100},
		},
		{
			name: "Half of each component",
			metrics: model.EngagementMetrics{
				OrderCount:          5,
				ReviewsWritten:      5,
				Referrals:           1,
				SocialShares:        2,
				ChallengesCompleted: 4,
			},
			expected: model.EngagementScore{Purchases: 50, Activity: 50, Community: 50, Challenges: 50, Total: 50},
		},
		{
			name: "One dimension cannot stand in for the rest",
			metrics: model.EngagementMetrics{
				OrderCount: 1000,
			},
			expected: model.EngagementScore{Purchases: 100, Total: 35},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.EngagementScore(tt.metrics))
		})
	}
}

func TestPointsService_Earn(t *testing.T) {
	tests := []struct {
		name            string
		points          int
		mockSetup       func(repo *mocks.MockLedgerRepository)
		expectNil       bool
		expectedError   error
		checkAdditional func(*testing.T, *model.PointsTransaction)
	}{
		{
			name:      "Zero points is a no-op",
			points:    0,
			mockSetup: func(repo *mocks.MockLedgerRepository) {},
			expectNil: true,
		},
		{
			name:      "Negative points is a no-op",
			points:    -25,
			mockSetup: func(repo *mocks.MockLedgerRepository) {},
			expectNil: true,
		},
		{
			name:   "Positive points append to the ledger",
			points: 120,
			mockSetup: func(repo *mocks.MockLedgerRepository) {
				repo.On("GetTransactions", mock.Anything, "user-1").Return([]model.PointsTransaction{}, nil)
				repo.On("GetEngagementPoints", mock.Anything, "user-1").Return(0, nil)
				repo.On("AppendTransaction", mock.Anything, mock.MatchedBy(func(tx *model.PointsTransaction) bool {
					return tx.UserID == "user-1" && tx.Type == model.TransactionEarn && tx.Points == 120
				})).Return(nil)
			},
			checkAdditional: func(t *testing.T, tx *model.PointsTransaction) {
				assert.Equal(t, 120, tx.Points)
				assert.Equal(t, model.TransactionEarn, tx.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockLedgerRepository{}
			tt.mockSetup(repo)
			service := NewPointsService(repo, telemetry.Nop{})

			tx, err := service.Earn(context.Background(), "user-1", tt.points, "test earn", "")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, tx)
			} else {
				assert.NotNil(t, tx)
				if tt.checkAdditional != nil {
					tt.checkAdditional(t, tx)
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPointsService_Redeem(t *testing.T) {
	ledgerWith := func(earned int) []model.PointsTransaction {
		return []model.PointsTransaction{
			{UserID: "user-1", Type: model.TransactionEarn, Points: earned},
		}
	}

	tests := []struct {
		name          string
		optionID      string
		mockSetup     func(repo *mocks.MockLedgerRepository)
		expectNil     bool
		expectedError error
	}{
		{
			name:      "Unknown option is a no-op",
			optionID:  "free-bike",
			mockSetup: func(repo *mocks.MockLedgerRepository) {},
			expectNil: true,
		},
		{
			name:     "Insufficient balance is refused",
			optionID: "voucher-5",
			mockSetup: func(repo *mocks.MockLedgerRepository) {
				repo.On("GetTransactions", mock.Anything, "user-1").Return(ledgerWith(40), nil)
				repo.On("GetEngagementPoints", mock.Anything, "user-1").Return(0, nil)
			},
			expectedError: ErrInsufficientPoints,
		},
		{
			name:     "Tier-gated option is a no-op below its tier",
			optionID: "factory-tour",
			mockSetup: func(repo *mocks.MockLedgerRepository) {
				repo.On("GetTransactions", mock.Anything, "user-1").Return(ledgerWith(2500), nil)
				repo.On("GetEngagementPoints", mock.Anything, "user-1").Return(0, nil)
			},
			expectNil: true,
		},
		{
			name:     "Successful redemption",
			optionID: "voucher-5",
			mockSetup: func(repo *mocks.MockLedgerRepository) {
				repo.On("GetTransactions", mock.Anything, "user-1").Return(ledgerWith(150), nil)
				repo.On("GetEngagementPoints", mock.Anything, "user-1").Return(0, nil)
				repo.On("AppendTransaction", mock.Anything, mock.MatchedBy(func(tx *model.PointsTransaction) bool {
					return tx.Type == model.TransactionRedeem && tx.Points == 100
				})).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockLedgerRepository{}
			tt.mockSetup(repo)
			service := NewPointsService(repo, telemetry.Nop{})

			tx, err := service.Redeem(context.Background(), "user-1", tt.optionID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, tx)
			} else {
				assert.NotNil(t, tx)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPointsService_AwardBonus(t *testing.T) {
	tests := []struct {
		name           string
		eventKey       string
		mockSetup      func(repo *mocks.MockLedgerRepository)
		expectNil      bool
		expectedPoints int
	}{
		{
			name:      "Unknown event is a no-op",
			eventKey:  "moon-landing",
			mockSetup: func(repo *mocks.MockLedgerRepository) {},
			expectNil: true,
		},
		{
			name:     "Flat bonus",
			eventKey: "review",
			mockSetup: func(repo *mocks.MockLedgerRepository) {
				repo.On("GetTransactions", mock.Anything, "user-1").Return([]model.PointsTransaction{}, nil)
				repo.On("GetEngagementPoints", mock.Anything, "user-1").Return(0, nil)
				repo.On("AppendTransaction", mock.Anything, mock.Anything).Return(nil)
				repo.On("AddEngagementPoints", mock.Anything, "user-1", 25).Return(nil)
			},
			expectedPoints: 25,
		},
		{
			name:     "Per-tier bonus scales with the multiplier",
			eventKey: "birthday",
			mockSetup: func(repo *mocks.MockLedgerRepository) {
				ledger := []model.PointsTransaction{
					{UserID: "user-1", Type: model.TransactionEarn, Points: 1500},
				}
				repo.On("GetTransactions", mock.Anything, "user-1").Return(ledger, nil)
				repo.On("GetEngagementPoints", mock.Anything, "user-1").Return(0, nil)
				repo.On("AppendTransaction", mock.Anything, mock.MatchedBy(func(tx *model.PointsTransaction) bool {
					return tx.Points == 75
				})).Return(nil)
				repo.On("AddEngagementPoints", mock.Anything, "user-1", 75).Return(nil)
			},
			expectedPoints: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockLedgerRepository{}
			tt.mockSetup(repo)
			service := NewPointsService(repo, telemetry.Nop{})

			tx, err := service.AwardBonus(context.Background(), "user-1", tt.eventKey)

			assert.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, tx)
				return
			}
			assert.NotNil(t, tx)
			assert.Equal(t, tt.expectedPoints, tx.Points)
			repo.AssertExpectations(t)
		})
	}
}

func TestPointsService_Balance(t *testing.T) {
	repo := &mocks.MockLedgerRepository{}
	ledger := []model.PointsTransaction{
		{Type: model.TransactionEarn, Points: 500},
		{Type: model.TransactionEarn, Points: 300},
		{Type: model.TransactionRedeem, Points: 100},
		{Type: model.TransactionEarn, Points: -50},
	}
	repo.On("GetTransactions", mock.Anything, "user-1").Return(ledger, nil)
	repo.On("GetEngagementPoints", mock.Anything, "user-1").Return(220, nil)

	service := NewPointsService(repo, telemetry.Nop{})
	balance, err := service.Balance(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 800, balance.LifetimePoints)
	assert.Equal(t, 700, balance.AvailablePoints)
	assert.Equal(t, 100, balance.RedeemedPoints)
	assert.Equal(t, 220, balance.EngagementPoints)
	repo.AssertExpectations(t)
}
