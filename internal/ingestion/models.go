package ingestion

import "encoding/json"

// BinEventPayload is the wire shape devices post to /ingest (and publish
// over MQTT). Required numeric fields are pointers so the validator can
// tell "absent" from a legitimate zero.
type BinEventPayload struct {
	BinID        *string    `json:"bin_id,omitempty"`
	BinCode      *string    `json:"bin_code,omitempty"`
	Location     string     `json:"location"`
	TimestampUTC string     `json:"timestamp_utc"`
	Metrics      Metrics    `json:"metrics"`
	AI           *AIBlock   `json:"ai,omitempty"`
	Ops          *OpsBlock  `json:"ops,omitempty"`
	Categories   Categories `json:"categories"`
}

type Metrics struct {
	FillLevelPct  *float64 `json:"fill_level_pct"`
	WeightKgTotal *float64 `json:"weight_kg_total"`
	WeightKgDelta *float64 `json:"weight_kg_delta,omitempty"`
	BatteryPct    *float64 `json:"battery_pct"`
}

type AIBlock struct {
	ModelID       string   `json:"model_id"`
	ConfidenceAvg *float64 `json:"confidence_avg"`
}

// OpsBlock carries operational flags the pipeline stores verbatim inside
// the audit blob but does not otherwise interpret.
type OpsBlock struct {
	SessionID *string `json:"session_id,omitempty"`
	DoorOpen  *bool   `json:"door_open,omitempty"`
	JamFlag   *bool   `json:"jam_flag,omitempty"`
}

// Categories holds the three fixed waste streams.
type Categories struct {
	HighValue     CategoryBucket `json:"high_value_recyclables"`
	LowValueMixed CategoryBucket `json:"low_value_mixed_recyclables"`
	Organics      CategoryBucket `json:"organics_residuals"`
}

type CategoryBucket struct {
	Items []CategoryItem `json:"items"`
}

type CategoryItem struct {
	ID       *int64  `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Quantity *int    `json:"quantity"`
}

// ParseBinEvent decodes a raw payload, used by the MQTT transport. The
// HTTP handler binds the same struct through gin.
func ParseBinEvent(payload []byte) (*BinEventPayload, error) {
	var msg BinEventPayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
