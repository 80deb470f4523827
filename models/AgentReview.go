package models

import (
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// AgentReview is one user's review of one agent. The composite unique
// index enforces at most one review per reviewer per agent; the create
// path checks first so duplicates surface as a conflict, not a DB error.
type AgentReview struct {
	gorm.Model
	AgentID uint   `json:"agentID" gorm:"not null;index;uniqueIndex:idx_agent_reviewer"`
	UserID  uint   `json:"userID" gorm:"not null;index;uniqueIndex:idx_agent_reviewer"`
	User    User   `json:"user" gorm:"foreignKey:UserID"`
	Rating  int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string `json:"comment" gorm:"type:text"`
}

// HasReviewFrom reports whether the given user already reviewed within
// this review set. Check-then-insert over this predicate is a known race:
// two concurrent submissions can both observe false, and the composite
// unique index is the backstop that fails the second insert.
func HasReviewFrom(reviews []AgentReview, userID uint) bool {
	return slices.ContainsFunc(reviews, func(r AgentReview) bool {
		return r.UserID == userID
	})
}
