package domain

import "time"

// Application is a student's candidacy for an opportunity. A (user, vaga)
// pair is unique and suppresses that opportunity from the user's feed.
type Application struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"column:user_id;not null;uniqueIndex:idx_user_vaga" json:"user_id"`
	OpportunityID uint      `gorm:"column:vaga_id;not null;uniqueIndex:idx_user_vaga" json:"vaga_id"`
	CoverLetter   string    `gorm:"column:cover_letter;type:text" json:"cover_letter,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Application) TableName() string {
	return "candidaturas"
}
