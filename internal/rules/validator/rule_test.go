package validator

import (
	"io"
	"testing"

	"slotsmith/pkg/config"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func TestValidateRule(t *testing.T) {
	v := NewRuleValidator(testLogger())

	tests := []struct {
		name    string
		rule    model.RecurringRule
		wantErr bool
	}{
		{
			name: "valid rule",
			rule: model.RecurringRule{
				Weekday: config.Monday,
				Slots:   []string{"09:00:00", "10:30:00", "15:00:00"},
			},
			wantErr: false,
		},
		{
			name: "valid midnight and last second",
			rule: model.RecurringRule{
				Weekday: config.Sunday,
				Slots:   []string{"00:00:00", "23:59:59"},
			},
			wantErr: false,
		},
		{
			name: "missing weekday",
			rule: model.RecurringRule{
				Slots: []string{"09:00:00"},
			},
			wantErr: true,
		},
		{
			name: "unknown weekday",
			rule: model.RecurringRule{
				Weekday: "Funday",
				Slots:   []string{"09:00:00"},
			},
			wantErr: true,
		},
		{
			name: "lowercase weekday rejected",
			rule: model.RecurringRule{
				Weekday: "monday",
				Slots:   []string{"09:00:00"},
			},
			wantErr: true,
		},
		{
			name: "empty slots",
			rule: model.RecurringRule{
				Weekday: config.Tuesday,
				Slots:   []string{},
			},
			wantErr: true,
		},
		{
			name: "hour out of range",
			rule: model.RecurringRule{
				Weekday: config.Wednesday,
				Slots:   []string{"24:00:00"},
			},
			wantErr: true,
		},
		{
			name: "minute out of range",
			rule: model.RecurringRule{
				Weekday: config.Wednesday,
				Slots:   []string{"09:60:00"},
			},
			wantErr: true,
		},
		{
			name: "missing seconds component",
			rule: model.RecurringRule{
				Weekday: config.Thursday,
				Slots:   []string{"09:00"},
			},
			wantErr: true,
		},
		{
			name: "single digit hour",
			rule: model.RecurringRule{
				Weekday: config.Friday,
				Slots:   []string{"9:00:00"},
			},
			wantErr: true,
		},
		{
			name: "garbage label",
			rule: model.RecurringRule{
				Weekday: config.Saturday,
				Slots:   []string{"morning"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.rule)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSet(t *testing.T) {
	v := NewRuleValidator(testLogger())

	tests := []struct {
		name    string
		rules   []*model.RecurringRule
		wantErr bool
	}{
		{
			name:    "empty template is valid",
			rules:   nil,
			wantErr: false,
		},
		{
			name: "one rule per weekday",
			rules: []*model.RecurringRule{
				{Weekday: config.Monday, Slots: []string{"09:00:00", "10:00:00"}},
				{Weekday: config.Tuesday, Slots: []string{"14:00:00"}},
			},
			wantErr: false,
		},
		{
			name: "duplicate weekday",
			rules: []*model.RecurringRule{
				{Weekday: config.Monday, Slots: []string{"09:00:00"}},
				{Weekday: config.Monday, Slots: []string{"10:00:00"}},
			},
			wantErr: true,
		},
		{
			name: "unsorted slots",
			rules: []*model.RecurringRule{
				{Weekday: config.Monday, Slots: []string{"10:00:00", "09:00:00"}},
			},
			wantErr: true,
		},
		{
			name: "invalid rule inside set",
			rules: []*model.RecurringRule{
				{Weekday: config.Monday, Slots: []string{"09:00:00"}},
				{Weekday: config.Tuesday, Slots: []string{"not-a-time"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSet(tt.rules)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSet() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
