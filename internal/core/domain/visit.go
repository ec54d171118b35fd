package domain

import (
	"errors"
	"time"
)

// VisitDirection distinguishes check-in from check-out events.
type VisitDirection string

const (
	VisitIn  VisitDirection = "in"
	VisitOut VisitDirection = "out"
)

var ErrInvalidDirection = errors.New("invalid visit direction")

// VisitEvent records a single check-in or check-out against a zone. Events
// are persisted asynchronously as an audit trail; the zone's temporal
// fields remain the source of truth for last-known state.
type VisitEvent struct {
	ZoneID    string         `bson:"zoneid"`
	UserID    string         `bson:"userid"`
	Direction VisitDirection `bson:"direction"`
	At        time.Time      `bson:"at"`
}
