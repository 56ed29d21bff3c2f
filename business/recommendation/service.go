package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vagaMatch/domain"
	"vagaMatch/pkg/logger"

	"gorm.io/datatypes"
)

// ErrNotFound is returned when no active recommendation exists for a request.
var ErrNotFound = errors.New("recommendation not found")

// ErrUnknownStrategy is returned when a targeted recompute names a strategy
// that is not registered with the engine.
var ErrUnknownStrategy = errors.New("unknown strategy")

// RecommendationStore persists precomputed scores. Replace* methods must be
// atomic: either the full new row set lands or the prior active rows survive
// untouched. Read-committed isolation (or stronger) on the backing database
// is required so readers never observe a half-rebuilt user.
type RecommendationStore interface {
	ReplaceForUser(ctx context.Context, userID uint, recs []domain.Recommendation) error
	ReplaceStrategiesForUser(ctx context.Context, userID uint, strategies []string, recs []domain.Recommendation) error
	FindCombinedByUser(ctx context.Context, userID uint, limit int) ([]domain.Recommendation, error)
	FindActiveByUserAndOpportunity(ctx context.Context, userID, opportunityID uint) ([]domain.Recommendation, error)
	FindActiveStrategyRows(ctx context.Context, userID uint, exclude []string) ([]domain.Recommendation, error)
	DeactivateByOpportunity(ctx context.Context, opportunityID uint) (int64, error)
	DeactivateByUser(ctx context.Context, userID uint) (int64, error)
	CountFreshCombined(ctx context.Context, userID uint, since time.Time) (int64, error)
	PurgeInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context) (domain.RecommendationStats, error)
	SaveEvent(ctx context.Context, event domain.RecommendationEvent) error
}

// Options tunes serving and maintenance behavior.
type Options struct {
	DefaultLimit   int
	MaxAge         time.Duration
	InterUserDelay time.Duration
	Retention      time.Duration
}

func DefaultOptions() Options {
	return Options{
		DefaultLimit:   10,
		MaxAge:         48 * time.Hour,
		InterUserDelay: 2 * time.Second,
		Retention:      30 * 24 * time.Hour,
	}
}

// Service orchestrates recomputation, serving, invalidation and cleanup of
// stored recommendations. It is the only writer of recommendation rows.
type Service struct {
	engine        *Engine
	store         RecommendationStore
	users         UserDirectory
	opportunities OpportunityReader
	applications  ApplicationReader
	opts          Options
}

func NewService(
	engine *Engine,
	store RecommendationStore,
	users UserDirectory,
	opportunities OpportunityReader,
	applications ApplicationReader,
	opts Options,
) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultOptions().DefaultLimit
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultOptions().MaxAge
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultOptions().Retention
	}

	return &Service{
		engine:        engine,
		store:         store,
		users:         users,
		opportunities: opportunities,
		applications:  applications,
		opts:          opts,
	}
}

//  Recompute

// RecomputeAll rebuilds every strategy's rows plus the combined rows for one
// user as a single replace-set: prior rows are deleted and the new set
// inserted inside one transaction.
func (s *Service) RecomputeAll(ctx context.Context, userID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		RecomputeTotal.WithLabelValues("full", "failed").Inc()
		return fmt.Errorf("load user: %w", err)
	}

	results := s.engine.RunAll(ctx, user)
	combined := s.engine.Combine(results, 0)
	rows := buildRows(userID, combined)

	if err := s.store.ReplaceForUser(ctx, userID, rows); err != nil {
		RecomputeTotal.WithLabelValues("full", "failed").Inc()
		return fmt.Errorf("replace recommendations: %w", err)
	}

	s.logEvent(ctx, userID, "recompute_all", map[string]any{
		"recommendations": len(combined),
	})

	RecomputeTotal.WithLabelValues("full", "success").Inc()

	logger.Debug("recompute_all",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"recommendations", len(combined),
	)

	return nil
}

// RecomputeStrategy refreshes a single strategy's rows and recombines them
// with the other strategies' still-active rows. Weights apply globally, so
// the combined rows are always rebuilt even when only one strategy moved.
func (s *Service) RecomputeStrategy(ctx context.Context, userID uint, strategyName string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	strat, ok := s.engine.StrategyByName(strategyName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, strategyName)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		RecomputeTotal.WithLabelValues("targeted", "failed").Inc()
		return fmt.Errorf("load user: %w", err)
	}

	// Targeted recompute has nothing to fall back on if the one requested
	// strategy fails, so its error is not isolated here.
	fresh, err := strat.Recommend(ctx, user)
	if err != nil {
		RecomputeTotal.WithLabelValues("targeted", "failed").Inc()
		return fmt.Errorf("run strategy %s: %w", strategyName, err)
	}

	kept, err := s.store.FindActiveStrategyRows(ctx, userID, []string{strategyName, domain.StrategyCombined})
	if err != nil {
		RecomputeTotal.WithLabelValues("targeted", "failed").Inc()
		return fmt.Errorf("load retained strategy rows: %w", err)
	}

	results := s.replayResults(strategyName, fresh, kept)
	combined := s.engine.Combine(results, 0)
	rows := buildTargetedRows(userID, strategyName, combined)

	if err := s.store.ReplaceStrategiesForUser(ctx, userID, []string{strategyName, domain.StrategyCombined}, rows); err != nil {
		RecomputeTotal.WithLabelValues("targeted", "failed").Inc()
		return fmt.Errorf("replace strategy recommendations: %w", err)
	}

	s.logEvent(ctx, userID, "recompute_strategy", map[string]any{
		"strategy":        strategyName,
		"recommendations": len(combined),
	})

	RecomputeTotal.WithLabelValues("targeted", "success").Inc()

	return nil
}

// replayResults assembles engine input in registration order: the refreshed
// strategy uses its fresh entries, every other registered strategy replays
// its stored active rows. Stored rows for strategies no longer registered
// are dropped with a warning; they get cleaned up by the next full rebuild.
func (s *Service) replayResults(refreshed string, fresh []ScoredOpportunity, kept []domain.Recommendation) []StrategyResult {
	byStrategy := make(map[string][]ScoredOpportunity)
	for _, row := range kept {
		byStrategy[row.Strategy] = append(byStrategy[row.Strategy], ScoredOpportunity{
			OpportunityID: row.OpportunityID,
			Score:         row.Score,
			Explanation:   row.Explanation,
		})
	}

	known := make(map[string]bool)
	results := make([]StrategyResult, 0, len(s.engine.Strategies()))
	for _, strat := range s.engine.Strategies() {
		known[strat.Name()] = true

		entries := byStrategy[strat.Name()]
		if strat.Name() == refreshed {
			entries = fresh
		}

		results = append(results, StrategyResult{
			Name:    strat.Name(),
			Weight:  strat.Weight(),
			Entries: entries,
		})
	}

	for name := range byStrategy {
		if !known[name] {
			logger.Warn("dropping stored rows of unregistered strategy", "strategy", name)
		}
	}

	return results
}

//  Serving

// GetRecommendations serves the stored combined ranking. It never computes:
// it joins combined rows against live opportunity and application data,
// dropping entries whose opportunity has since left the open status or
// that the user has since applied to.
func (s *Service) GetRecommendations(ctx context.Context, userID uint, limit int) ([]domain.RecommendedOpportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}

	combined, err := s.store.FindCombinedByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load combined recommendations: %w", err)
	}

	applied, err := s.applications.AppliedOpportunityIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	out := make([]domain.RecommendedOpportunity, 0, len(combined))
	for _, rec := range combined {
		if applied[rec.OpportunityID] {
			// Stored rows can outlive an application until the next
			// full rebuild; an applied pair never serves.
			continue
		}

		opp, err := s.opportunities.FindByID(ctx, rec.OpportunityID)
		if err != nil || !opp.IsOpen() {
			// Stale combined row for a closed or deleted opportunity;
			// the next invalidation/recompute removes it.
			continue
		}

		rows, err := s.store.FindActiveByUserAndOpportunity(ctx, userID, rec.OpportunityID)
		if err != nil {
			return nil, fmt.Errorf("load strategy rows: %w", err)
		}

		out = append(out, domain.RecommendedOpportunity{
			OpportunityID: rec.OpportunityID,
			Opportunity: domain.OpportunitySummary{
				ID:       opp.ID,
				Title:    opp.Title,
				Deadline: opp.Deadline,
				Status:   opp.Status,
				AuthorID: opp.AuthorID,
			},
			TotalScore: rec.Score,
			Strategies: s.breakdown(rows),
			UpdatedAt:  rec.UpdatedAt,
		})
	}

	return out, nil
}

// GetExplanation returns the per-strategy breakdown and total for one stored
// recommendation, or ErrNotFound if no active rows exist for the pair.
func (s *Service) GetExplanation(ctx context.Context, userID, opportunityID uint) (domain.RecommendationExplanation, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationExplanation{}, fmt.Errorf("context error: %w", err)
	}

	rows, err := s.store.FindActiveByUserAndOpportunity(ctx, userID, opportunityID)
	if err != nil {
		return domain.RecommendationExplanation{}, fmt.Errorf("load recommendation rows: %w", err)
	}
	if len(rows) == 0 {
		return domain.RecommendationExplanation{}, ErrNotFound
	}

	explanation := domain.RecommendationExplanation{
		UserID:        userID,
		OpportunityID: opportunityID,
	}

	hasCombined := false
	for _, row := range rows {
		if row.Strategy == domain.StrategyCombined {
			explanation.TotalScore = row.Score
			hasCombined = true
		}
	}
	if !hasCombined {
		return domain.RecommendationExplanation{}, ErrNotFound
	}

	explanation.Strategies = s.breakdown(rows)

	return explanation, nil
}

func (s *Service) breakdown(rows []domain.Recommendation) []domain.StrategyScore {
	scores := make([]domain.StrategyScore, 0, len(rows))
	for _, row := range rows {
		if row.Strategy == domain.StrategyCombined {
			continue
		}

		description := "Estratégia personalizada"
		weight := 0.0
		if strat, ok := s.engine.StrategyByName(row.Strategy); ok {
			description = strat.Description()
			weight = strat.Weight()
		}

		scores = append(scores, domain.StrategyScore{
			Name:        row.Strategy,
			Description: description,
			Score:       row.Score,
			Weight:      weight,
			Explanation: row.Explanation,
		})
	}

	return scores
}

// ShouldRefresh reports whether the user has no active combined row younger
// than maxAge. Zero maxAge uses the configured default. Meant for the batch
// scheduler, not the request path.
func (s *Service) ShouldRefresh(ctx context.Context, userID uint, maxAge time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	if maxAge <= 0 {
		maxAge = s.opts.MaxAge
	}

	fresh, err := s.store.CountFreshCombined(ctx, userID, time.Now().Add(-maxAge))
	if err != nil {
		return false, fmt.Errorf("count fresh recommendations: %w", err)
	}

	return fresh == 0, nil
}

//  Invalidation

// InvalidateOpportunity deactivates every user's rows referencing the
// opportunity, e.g. when it is closed.
func (s *Service) InvalidateOpportunity(ctx context.Context, opportunityID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	n, err := s.store.DeactivateByOpportunity(ctx, opportunityID)
	if err != nil {
		return 0, fmt.Errorf("deactivate by opportunity: %w", err)
	}

	InvalidationsTotal.WithLabelValues("opportunity").Inc()
	s.logEvent(ctx, 0, "invalidate_opportunity", map[string]any{
		"vaga_id":     opportunityID,
		"deactivated": n,
	})

	logger.Info("invalidated recommendations for opportunity",
		"vaga_id", opportunityID,
		"deactivated", n,
	)

	return n, nil
}

// InvalidateUser deactivates all of a user's rows, e.g. on account changes.
func (s *Service) InvalidateUser(ctx context.Context, userID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	n, err := s.store.DeactivateByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("deactivate by user: %w", err)
	}

	InvalidationsTotal.WithLabelValues("user").Inc()
	s.logEvent(ctx, userID, "invalidate_user", map[string]any{
		"deactivated": n,
	})

	return n, nil
}

//  Maintenance

// PurgeInactive removes rows that have been inactive longer than the
// retention window.
func (s *Service) PurgeInactive(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	n, err := s.store.PurgeInactiveBefore(ctx, time.Now().Add(-s.opts.Retention))
	if err != nil {
		return 0, fmt.Errorf("purge inactive recommendations: %w", err)
	}

	PurgedRowsTotal.Add(float64(n))
	logger.Info("purged inactive recommendations", "rows", n)

	return n, nil
}

func (s *Service) Stats(ctx context.Context) (domain.RecommendationStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationStats{}, fmt.Errorf("context error: %w", err)
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return domain.RecommendationStats{}, fmt.Errorf("load recommendation stats: %w", err)
	}

	return stats, nil
}

//  Helpers

func (s *Service) logEvent(ctx context.Context, userID uint, trigger string, extra map[string]any) {
	event := domain.RecommendationEvent{
		UserID:  userID,
		Trigger: trigger,
		Context: datatypes.JSONMap{},
	}

	if tid := TraceIDFromContext(ctx); tid != "" {
		event.Context["trace_id"] = tid
	}
	for k, v := range extra {
		event.Context[k] = v
	}

	// Audit only; a failed event write never fails the operation itself.
	if err := s.store.SaveEvent(ctx, event); err != nil {
		logger.Error("failed to save recommendation event", err)
	}
}

// buildRows flattens combined results into persistable rows: one row per
// strategy contribution plus one combined row whose explanation joins the
// individual explanations.
func buildRows(userID uint, combined []CombinedRecommendation) []domain.Recommendation {
	rows := make([]domain.Recommendation, 0, len(combined)*3)
	for _, rec := range combined {
		explanations := make([]string, 0, len(rec.Strategies))
		for _, contrib := range rec.Strategies {
			rows = append(rows, domain.Recommendation{
				UserID:        userID,
				OpportunityID: rec.OpportunityID,
				Strategy:      contrib.Name,
				Score:         contrib.Score,
				Explanation:   contrib.Explanation,
				Active:        true,
			})
			explanations = append(explanations, "• "+contrib.Explanation)
		}

		rows = append(rows, domain.Recommendation{
			UserID:        userID,
			OpportunityID: rec.OpportunityID,
			Strategy:      domain.StrategyCombined,
			Score:         rec.TotalScore,
			Explanation:   strings.Join(explanations, "\n"),
			Active:        true,
		})
	}

	return rows
}

// buildTargetedRows keeps only the refreshed strategy's rows plus the
// combined rows; other strategies' rows stay in place in the store.
func buildTargetedRows(userID uint, refreshed string, combined []CombinedRecommendation) []domain.Recommendation {
	rows := make([]domain.Recommendation, 0, len(combined)*2)
	for _, rec := range combined {
		explanations := make([]string, 0, len(rec.Strategies))
		for _, contrib := range rec.Strategies {
			explanations = append(explanations, "• "+contrib.Explanation)
			if contrib.Name != refreshed {
				continue
			}
			rows = append(rows, domain.Recommendation{
				UserID:        userID,
				OpportunityID: rec.OpportunityID,
				Strategy:      contrib.Name,
				Score:         contrib.Score,
				Explanation:   contrib.Explanation,
				Active:        true,
			})
		}

		rows = append(rows, domain.Recommendation{
			UserID:        userID,
			OpportunityID: rec.OpportunityID,
			Strategy:      domain.StrategyCombined,
			Score:         rec.TotalScore,
			Explanation:   strings.Join(explanations, "\n"),
			Active:        true,
		})
	}

	return rows
}
