package model

import (
	"time"
)

// Booking reserves one consultation instant. SlotTime is an absolute UTC
// instant; among non-cancelled bookings it is unique, enforced by a partial
// unique index at the storage layer.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SlotTime    time.Time `json:"slot_time" bson:"slot_time" validate:"required"`
	ClientName  string    `json:"client_name" bson:"client_name" validate:"required,min=2,max=100"`
	ClientEmail string    `json:"client_email" bson:"client_email" validate:"required,email,max=254"`
	ClientPhone string    `json:"client_phone,omitempty" bson:"client_phone,omitempty" validate:"omitempty,e164"`
	Note        string    `json:"note,omitempty" bson:"note,omitempty" validate:"omitempty,max=500"`
	Status      string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
}

// BookingStatusUpdate carries an admin confirm/cancel transition.
type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

// BookingReschedule moves a booking to a new slot instant. The new instant is
// re-validated against the resolver at commit time.
type BookingReschedule struct {
	SlotTime time.Time `json:"slot_time" validate:"required"`
}
