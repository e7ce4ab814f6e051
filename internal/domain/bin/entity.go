package bin

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Bin represents a physical waste bin identified by a unique
// human-readable code. Bins are created lazily on first ingest or
// explicitly by an operator.
type Bin struct {
	ID          uuid.UUID
	BinCode     string
	Location    string
	OwnerUserID *uuid.UUID
	CreatedAt   time.Time
}

// BinEvent is one immutable telemetry record. The bin code and location
// are denormalized at ingestion time; Payload carries the full accepted
// request body as an audit blob.
type BinEvent struct {
	ID              uuid.UUID
	BinID           uuid.UUID
	BinCode         string
	Location        string
	TimestampUTC    time.Time
	FillLevelPct    float64
	WeightKgTotal   float64
	WeightKgDelta   *float64
	BatteryPct      float64
	AIModelID       *string
	AIConfidenceAvg *float64
	HVCount         int
	LVCount         int
	OrgCount        int
	Payload         json.RawMessage
	CreatedAt       time.Time
}

// Role is the caller role derived once per request from the verified
// token.
type Role string

const (
	RoleDevice   Role = "device"
	RoleHost     Role = "host"
	RoleOperator Role = "operator"
)

// ParseRole maps a normalized role claim onto a known role. Unknown
// values are rejected rather than passed through.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleDevice, RoleHost, RoleOperator:
		return Role(s), true
	default:
		return "", false
	}
}

// Actor is the authenticated caller.
type Actor struct {
	SubjectID string
	Role      Role
}
