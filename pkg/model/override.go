package model

import (
	"time"
)

// Override is an absolute UTC interval [StartTime, EndTime) during which the
// business is unavailable regardless of recurring rules. Overrides are only
// created and deleted; a changed interval is a delete plus insert.
type Override struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Type      string    `json:"type" bson:"type" validate:"required,oneof=blocked"`
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Contains reports whether t falls inside the half-open interval [start, end).
func (o Override) Contains(t time.Time) bool {
	return !t.Before(o.StartTime) && t.Before(o.EndTime)
}

// OverrideReplace is the atomic batch update: the listed IDs are deleted and
// the new overrides inserted in a single transaction.
type OverrideReplace struct {
	DeleteIDs []string   `json:"delete_ids" validate:"omitempty,dive,mongodb"`
	Create    []Override `json:"create" validate:"omitempty,dive"`
}
