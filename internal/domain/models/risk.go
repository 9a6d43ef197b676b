package models

import (
	"fmt"
	"time"

	"github.com/turtacn/grc/pkg/constants"
)

// Risk represents an identified risk with a probability and impact rating.
// Risk 代表一项已识别的风险，带有概率和影响评级。
type Risk struct {
	ID       string `json:"id" gorm:"primaryKey;column:id"`
	TenantID string `json:"tenant_id" gorm:"column:tenant_id;index"`
	AssetID  string `json:"asset_id,omitempty" gorm:"column:asset_id;index"`
	Title    string `json:"title" gorm:"column:title"`

	// Status is the lifecycle status of the risk (active, closed, accepted).
	Status constants.RiskStatus `json:"status" gorm:"column:status"`

	// Probability is the likelihood rating, 1..5.
	// Probability 是可能性评级，1 到 5。
	Probability int `json:"probability" gorm:"column:probability"`

	// Impact is the impact rating, 1..5.
	Impact int `json:"impact" gorm:"column:impact"`

	// ReviewDate is the next scheduled review date, nil when never scheduled.
	// When scheduled it is always in the future relative to the scheduling
	// clock.
	ReviewDate *time.Time `json:"review_date,omitempty" gorm:"column:review_date"`

	// Notes is an append-only history of evaluation context.
	Notes string `json:"notes,omitempty" gorm:"column:notes"`
}

// TableName maps the model to its table.
func (Risk) TableName() string { return "risks" }

// IsActive reports whether the risk is currently active.
func (r *Risk) IsActive() bool {
	return r.Status == constants.RiskStatusActive
}

// InherentScore returns probability x impact, the input to review-tier
// classification. With ratings in 1..5 the score ranges 1..25.
func (r *Risk) InherentScore() int {
	return r.Probability * r.Impact
}

// RaiseProbability increases the likelihood rating by delta, capped at the
// rating maximum. It returns the applied increase, which may be smaller than
// delta when the cap is hit.
// RaiseProbability 按 delta 提高可能性评级，上限为评级最大值。返回实际应用的增量。
func (r *Risk) RaiseProbability(delta int) int {
	if delta <= 0 {
		return 0
	}
	before := r.Probability
	r.Probability += delta
	if r.Probability > constants.RatingMax {
		r.Probability = constants.RatingMax
	}
	return r.Probability - before
}

// AppendNote appends a timestamped line to the risk's note history.
func (r *Risk) AppendNote(at time.Time, note string) {
	line := fmt.Sprintf("[%s] %s", at.UTC().Format(time.RFC3339), note)
	if r.Notes == "" {
		r.Notes = line
		return
	}
	r.Notes += "\n" + line
}
