package domain

import "time"

// Interest is immutable reference data maintained by staff.
type Interest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Category  string    `gorm:"column:category" json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Interest) TableName() string {
	return "interesses"
}

type UserInterest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:idx_user_interest" json:"user_id"`
	InterestID uint      `gorm:"column:interest_id;not null;uniqueIndex:idx_user_interest" json:"interest_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (UserInterest) TableName() string {
	return "interesse_usuario"
}

type OpportunityInterest struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OpportunityID uint      `gorm:"column:vaga_id;not null;uniqueIndex:idx_vaga_interest" json:"vaga_id"`
	InterestID    uint      `gorm:"column:interest_id;not null;uniqueIndex:idx_vaga_interest" json:"interest_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (OpportunityInterest) TableName() string {
	return "interesse_vaga"
}
