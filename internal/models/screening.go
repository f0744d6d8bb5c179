package models

import (
	"time"

	"github.com/google/uuid"
)

type ScreeningStatus string

const (
	StatusProcessing ScreeningStatus = "processing"
	StatusCompleted  ScreeningStatus = "completed"
	StatusFailed     ScreeningStatus = "failed"
)

type Screening struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription string          `gorm:"type:text" json:"job_description"`
	TopK           int             `gorm:"not null" json:"top_k"`
	Status         ScreeningStatus `gorm:"not null;default:'processing'" json:"status"`
	ErrorMessage   *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Results []CandidateResult `gorm:"foreignKey:ScreeningID" json:"-"`
}

func (Screening) TableName() string {
	return "screenings"
}

// CandidateResult is one scored row of a screening run, ordered by rank.
// Matched and missing skills are stored comma-joined, matching the CSV export.
type CandidateResult struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ScreeningID   uuid.UUID `gorm:"type:uuid;not null;index" json:"screening_id"`
	CandidateID   string    `gorm:"type:text;not null" json:"candidate_id"`
	Rank          int       `gorm:"not null" json:"rank"`
	ATSScore      float64   `gorm:"type:decimal(5,1)" json:"ats_score"`
	SimilarityPct float64   `gorm:"type:decimal(5,1)" json:"similarity_pct"`
	MatchedSkills string    `gorm:"type:text" json:"matched_skills"`
	MissingSkills string    `gorm:"type:text" json:"missing_skills"`
	ResumeText    string    `gorm:"type:text" json:"-"`
	SnippetHTML   string    `gorm:"type:text" json:"snippet_html"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CandidateResult) TableName() string {
	return "candidate_results"
}
