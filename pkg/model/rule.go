package model

import (
	"time"

	"slotsmith/pkg/config"
)

// RecurringRule is the weekly availability template for one weekday.
// Slots are local time-of-day labels in HH:MM:SS form, interpreted in the
// business operating timezone. Lexicographic order equals chronological order.
type RecurringRule struct {
	ID        string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Weekday   config.Weekday `json:"weekday" bson:"weekday" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Slots     []string       `json:"slots" bson:"slots" validate:"required,min=1,max=96,dive,slot_label"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RuleSet is the full weekly template, replaced atomically on every edit.
type RuleSet struct {
	Rules []RecurringRule `json:"rules" validate:"required,max=7,dive"`
}
