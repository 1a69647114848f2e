package models

import "time"

// SavedResult is an assessment stored together with the inputs that
// produced it.
type SavedResult struct {
	ID         string             `json:"id"`
	Label      string             `json:"label,omitempty"`
	Params     AsteroidParameters `json:"params"`
	Site       TargetSite         `json:"site"`
	Assessment ImpactAssessment   `json:"assessment"`
	CreatedAt  time.Time          `json:"created_at"`
}
