package domain

import (
	"time"

	"gorm.io/datatypes"
)

// StrategyCombined is the pseudo-strategy name of the weighted aggregate row.
const StrategyCombined = "combined"

// Recommendation is one precomputed score for a (user, opportunity, strategy)
// tuple. At most one active row exists per tuple; superseded rows are either
// deleted by a full rebuild or flipped to active=false by an invalidation.
type Recommendation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	OpportunityID uint      `gorm:"column:vaga_id;not null;index" json:"vaga_id"`
	Strategy      string    `gorm:"column:strategy;not null" json:"strategy"`
	Score         float64   `gorm:"column:score;not null" json:"score"`
	Explanation   string    `gorm:"column:explanation;type:text" json:"explanation"`
	Active        bool      `gorm:"column:active;default:true;index" json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Recommendation) TableName() string {
	return "recomendacoes"
}

// RecommendationEvent is an audit row recording what triggered a recompute or
// invalidation, with free-form context (trace id, affected row counts).
type RecommendationEvent struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"column:user_id" json:"user_id"`
	Trigger   string            `gorm:"column:trigger;not null" json:"trigger"`
	Context   datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecommendationEvent) TableName() string {
	return "recommendation_events"
}

// StrategyScore is one strategy's contribution to a served recommendation.
type StrategyScore struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Explanation string  `json:"explanation"`
}

// RecommendedOpportunity is a feed entry: live opportunity data joined with
// the stored combined score and per-strategy breakdown.
type RecommendedOpportunity struct {
	OpportunityID uint               `json:"vaga_id"`
	Opportunity   OpportunitySummary `json:"vaga"`
	TotalScore    float64            `json:"total_score"`
	Strategies    []StrategyScore    `json:"strategies"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type RecommendationExplanation struct {
	UserID        uint            `json:"user_id"`
	OpportunityID uint            `json:"vaga_id"`
	TotalScore    float64         `json:"total_score"`
	Strategies    []StrategyScore `json:"strategies"`
}

type RecommendationStats struct {
	TotalActiveRecommendations int64   `json:"total_active_recommendations"`
	UsersWithRecommendations   int64   `json:"users_with_recommendations"`
	AvgRecommendationsPerUser  float64 `json:"average_recommendations_per_user"`
}

// BatchResult aggregates a population-wide recompute run.
type BatchResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
