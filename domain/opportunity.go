package domain

import "time"

// Opportunity statuses follow the institutional workflow; only StatusOpen
// opportunities are eligible for recommendation.
const (
	StatusWaiting  = "aguardando"
	StatusInReview = "em_analise"
	StatusFinished = "finalizada"
	StatusClosed   = "encerrada"
	StatusOpen     = "em_andamento"
)

type Opportunity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Deadline    time.Time `gorm:"column:deadline" json:"deadline"`
	Status      string    `gorm:"column:status;not null;default:aguardando" json:"status"`
	AuthorID    uint      `gorm:"column:author_id;not null" json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Opportunity) TableName() string {
	return "vagas"
}

func (o Opportunity) IsOpen() bool {
	return o.Status == StatusOpen
}

// OpportunitySummary is the slice of opportunity data embedded in a served
// recommendation.
type OpportunitySummary struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Deadline time.Time `json:"deadline"`
	Status   string    `json:"status"`
	AuthorID uint      `json:"author_id"`
}

// OpportunityApplicationCount is a per-opportunity aggregate of application rows.
type OpportunityApplicationCount struct {
	OpportunityID uint `json:"opportunity_id"`
	Count         int  `json:"count"`
}
