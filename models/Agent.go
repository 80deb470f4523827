package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Agent struct {
	gorm.Model
	UserID          uint           `json:"userID" gorm:"uniqueIndex;not null"`
	User            User           `json:"user" gorm:"foreignKey:UserID"`
	Bio             string         `json:"bio" gorm:"type:text"`
	Specialties     datatypes.JSON `json:"specialties"`
	Languages       datatypes.JSON `json:"languages"`
	ExperienceYears int            `json:"experienceYears"`
	Company         datatypes.JSON `json:"company"`     // {name, address, website, phone}
	SocialMedia     datatypes.JSON `json:"socialMedia"` // {facebook, instagram, linkedin, ...}
	RatingAverage   float64        `json:"ratingAverage"`
	RatingCount     int            `json:"ratingCount"`
	IsVerified      *bool          `json:"isVerified" gorm:"default:false"`
	IsActive        *bool          `json:"isActive" gorm:"default:false"`
	ResponseTime    string         `json:"responseTime" gorm:"type:varchar(20)"` // within_hour, within_day, within_week
	Reviews         []AgentReview  `json:"reviews"`
}

// ComputeRating derives the aggregate from the review collection. The
// stored average/count are never set directly; every persistence path for
// an agent re-derives them through this function.
func ComputeRating(reviews []AgentReview) (average float64, count int) {
	count = len(reviews)
	if count == 0 {
		return 0, 0
	}
	var total float64
	for _, r := range reviews {
		total += float64(r.Rating)
	}
	return total / float64(count), count
}

// SyncRating recomputes the stored aggregate from the given review set.
func (a *Agent) SyncRating(reviews []AgentReview) {
	a.RatingAverage, a.RatingCount = ComputeRating(reviews)
}

// MarshalJSON ensures the JSON set columns render as arrays/objects, not
// null, and drops the circular Reviews->Agent edge.
func (a *Agent) MarshalJSON() ([]byte, error) {
	type Alias Agent
	aux := &struct {
		Specialties []string          `json:"specialties"`
		Languages   []string          `json:"languages"`
		Company     map[string]string `json:"company"`
		SocialMedia map[string]string `json:"socialMedia"`
		*Alias
	}{
		Specialties: []string{},
		Languages:   []string{},
		Company:     map[string]string{},
		SocialMedia: map[string]string{},
		Alias:       (*Alias)(a),
	}

	if a.Specialties != nil {
		var specialties []string
		if err := json.Unmarshal(a.Specialties, &specialties); err == nil {
			aux.Specialties = specialties
		}
	}
	if a.Languages != nil {
		var languages []string
		if err := json.Unmarshal(a.Languages, &languages); err == nil {
			aux.Languages = languages
		}
	}
	if a.Company != nil {
		var company map[string]string
		if err := json.Unmarshal(a.Company, &company); err == nil {
			aux.Company = company
		}
	}
	if a.SocialMedia != nil {
		var social map[string]string
		if err := json.Unmarshal(a.SocialMedia, &social); err == nil {
			aux.SocialMedia = social
		}
	}

	return json.Marshal(aux)
}
