package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"crew_loyalty/internal/catalog"
	"crew_loyalty/internal/model"
	"crew_loyalty/internal/repository"
	"crew_loyalty/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChallengeService drives the per-user challenge state machine:
// not-started -> active -> completed. Completion is terminal; recurring
// challenge types are re-issued by an external scheduler, not modeled here.
type ChallengeService struct {
	repo    ChallengeRepository
	ledger  LedgerRepository
	emitter telemetry.Emitter
	log     *zap.Logger
	now     func() time.Time
}

func NewChallengeService(repo ChallengeRepository, ledger LedgerRepository, emitter telemetry.Emitter, log *zap.Logger) *ChallengeService {
	return &ChallengeService{
		repo:    repo,
		ledger:  ledger,
		emitter: emitter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Available lists templates the user can start: minimum tier covered, not
// already active, and for one-shot onboarding challenges, not already
// completed.
func (s *ChallengeService) Available(ctx context.Context, userID string, tier model.TierKey) ([]model.ChallengeTemplate, error) {
	userTier, ok := catalog.TierByKey(tier)
	if !ok {
		userTier = catalog.LowestTier()
	}

	active, err := s.repo.GetActiveChallenges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active challenges: %w", err)
	}
	activeIDs := make(map[string]struct{}, len(active))
	for _, c := range active {
		activeIDs[c.ID] = struct{}{}
	}

	completedIDs, err := s.repo.GetCompletedChallengeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed challenges: %w", err)
	}
	completed := make(map[string]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}

	var out []model.ChallengeTemplate
	for _, template := range catalog.Templates() {
		minTier, ok := catalog.TierByKey(template.MinTier)
		if !ok {
			minTier = catalog.LowestTier()
		}
		if userTier.Rank < minTier.Rank {
			continue
		}
		if _, isActive := activeIDs[template.ID]; isActive {
			continue
		}
		if template.Type == model.ChallengeOnboarding {
			if _, done := completed[template.ID]; done {
				continue
			}
		}
		out = append(out, template)
	}
	return out, nil
}

func (s *ChallengeService) Active(ctx context.Context, userID string) ([]model.Challenge, error) {
	return s.repo.GetActiveChallenges(ctx, userID)
}

func (s *ChallengeService) CompletedIDs(ctx context.Context, userID string) ([]string, error) {
	return s.repo.GetCompletedChallengeIDs(ctx, userID)
}

// Start creates an active instance from a template. Unknown templates,
// already-active ids and completed onboarding challenges are no-ops
// returning nil.
func (s *ChallengeService) Start(ctx context.Context, userID, templateID string) (*model.Challenge, error) {
	template, ok := catalog.TemplateByID(templateID)
	if !ok {
		return nil, nil
	}

	if template.Type == model.ChallengeOnboarding {
		completedIDs, err := s.repo.GetCompletedChallengeIDs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load completed challenges: %w", err)
		}
		for _, id := range completedIDs {
			if id == templateID {
				return nil, nil
			}
		}
	}

	challenge := &model.Challenge{
		ID:              template.ID,
		CurrentProgress: 0,
		StartedAt:       s.now(),
	}

	err := s.repo.CreateChallenge(ctx, userID, challenge)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventChallengeStarted, userID, map[string]any{
		"challenge_id": template.ID,
		"target":       template.TargetGoal,
		"unit":         template.Unit,
	}))

	return challenge, nil
}

// UpdateProgress sets an active instance's progress to min(newValue, target)
// and completes the instance when the target is reached. Updates against
// unknown or non-active ids are no-ops returning nil.
func (s *ChallengeService) UpdateProgress(ctx context.Context, userID, challengeID string, newValue float64) (*model.Challenge, error) {
	template, ok := catalog.TemplateByID(challengeID)
	if !ok {
		return nil, nil
	}

	challenge, err := s.repo.GetActiveChallenge(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	if math.IsNaN(newValue) || newValue < 0 {
		newValue = 0
	}
	progress := math.Min(newValue, template.TargetGoal)
	if progress < challenge.CurrentProgress {
		// The aggregator supplies monotonic readings; never regress.
		progress = challenge.CurrentProgress
	}

	if progress >= template.TargetGoal {
		return s.complete(ctx, userID, template, progress)
	}

	if err := s.repo.UpdateChallengeProgress(ctx, userID, challengeID, progress); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update challenge progress: %w", err)
	}
	challenge.CurrentProgress = progress

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventChallengeProgress, userID, map[string]any{
		"challenge_id": challengeID,
		"progress":     progress,
		"target":       template.TargetGoal,
	}))

	return challenge, nil
}

// Complete forces an active instance into the completed state. Already
// completed or never-started ids are no-ops returning nil.
func (s *ChallengeService) Complete(ctx context.Context, userID, challengeID string) (*model.Challenge, error) {
	template, ok := catalog.TemplateByID(challengeID)
	if !ok {
		return nil, nil
	}

	challenge, err := s.repo.GetActiveChallenge(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	return s.complete(ctx, userID, template, challenge.CurrentProgress)
}

func (s *ChallengeService) complete(ctx context.Context, userID string, template model.ChallengeTemplate, progress float64) (*model.Challenge, error) {
	completedAt := s.now()

	err := s.repo.CompleteChallenge(ctx, userID, template.ID, progress, completedAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to complete challenge: %w", err)
	}

	if err := s.awardReward(ctx, userID, template); err != nil {
		// The completion transition stands; the missing credit is logged,
		// not rolled back.
		s.log.Error("failed to award challenge reward",
			zap.String("user_id", userID),
			zap.String("challenge_id", template.ID),
			zap.Error(err),
		)
	}

	s.emitter.Emit(ctx, telemetry.NewEvent(telemetry.EventChallengeCompleted, userID, map[string]any{
		"challenge_id":  template.ID,
		"reward_points": template.Reward.Points,
		"reward":        template.Reward.Description,
	}))

	return &model.Challenge{
		ID:              template.ID,
		CurrentProgress: progress,
		CompletedAt:     &completedAt,
	}, nil
}

func (s *ChallengeService) awardReward(ctx context.Context, userID string, template model.ChallengeTemplate) error {
	if template.Reward.Points <= 0 {
		return nil
	}

	tx := &model.PointsTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        model.TransactionEarn,
		Points:      template.Reward.Points,
		Description: fmt.Sprintf("Challenge completed: %s", template.Name),
		CreatedAt:   s.now(),
	}
	if err := s.ledger.AppendTransaction(ctx, tx); err != nil {
		return err
	}

	// Challenge rewards are engagement-earned, so they also advance the
	// hybrid qualification counter.
	return s.ledger.AddEngagementPoints(ctx, userID, template.Reward.Points)
}

// RecomputeFromMetrics refreshes every active instance whose template links
// an activity metric. It is idempotent and best-effort: a nil metric set
// leaves everything untouched, and instances without a linked metric are
// never modified.
func (s *ChallengeService) RecomputeFromMetrics(ctx context.Context, userID string, metrics map[string]float64) ([]model.Challenge, error) {
	if len(metrics) == 0 {
		return nil, nil
	}

	active, err := s.repo.GetActiveChallenges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active challenges: %w", err)
	}

	var updated []model.Challenge
	for _, challenge := range active {
		template, ok := catalog.TemplateByID(challenge.ID)
		if !ok || template.Metric == "" {
			continue
		}
		value, ok := metrics[template.Metric]
		if !ok {
			continue
		}
		if math.Min(value, template.TargetGoal) <= challenge.CurrentProgress {
			continue
		}

		result, err := s.UpdateProgress(ctx, userID, challenge.ID, value)
		if err != nil {
			return updated, err
		}
		if result != nil {
			updated = append(updated, *result)
		}
	}
	return updated, nil
}

// Progress reports an active instance's progress, or nil when the id is not
// active.
func (s *ChallengeService) Progress(ctx context.Context, userID, challengeID string) (*model.ChallengeProgress, error) {
	template, ok := catalog.TemplateByID(challengeID)
	if !ok {
		return nil, nil
	}

	challenge, err := s.repo.GetActiveChallenge(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	percent := math.Min(challenge.CurrentProgress/template.TargetGoal*100, 100)
	remaining := math.Max(template.TargetGoal-challenge.CurrentProgress, 0)

	return &model.ChallengeProgress{
		Current:   challenge.CurrentProgress,
		Target:    template.TargetGoal,
		Percent:   percent,
		Remaining: remaining,
		Unit:      template.Unit,
	}, nil
}
