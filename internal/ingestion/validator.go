package ingestion

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// FieldError is one structured validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in one pass over the
// payload, never just the first.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Details))
}

// ValidateBinEvent checks a decoded payload against the ingest contract
// and returns nil or a ValidationError listing all violated fields.
func ValidateBinEvent(p *BinEventPayload) error {
	var details []FieldError

	add := func(field, message string) {
		details = append(details, FieldError{Field: field, Message: message})
	}

	if (p.BinID == nil || *p.BinID == "") && (p.BinCode == nil || *p.BinCode == "") {
		add("bin_id", "either bin_id or bin_code must be provided")
	}

	// Character count, not bytes: multi-byte locations are legitimate.
	if n := utf8.RuneCountInString(p.Location); n < 1 || n > 100 {
		add("location", "location must be between 1 and 100 characters")
	}

	if p.TimestampUTC == "" {
		add("timestamp_utc", "timestamp_utc is required")
	} else if _, err := time.Parse(time.RFC3339, p.TimestampUTC); err != nil {
		add("timestamp_utc", "timestamp_utc must be a valid ISO-8601 datetime")
	}

	if p.Metrics.FillLevelPct == nil {
		add("metrics.fill_level_pct", "fill_level_pct is required")
	} else if *p.Metrics.FillLevelPct < 0 || *p.Metrics.FillLevelPct > 100 {
		add("metrics.fill_level_pct", "fill_level_pct must be between 0 and 100")
	}

	if p.Metrics.WeightKgTotal == nil {
		add("metrics.weight_kg_total", "weight_kg_total is required")
	} else if *p.Metrics.WeightKgTotal < 0 || *p.Metrics.WeightKgTotal > 1000 {
		add("metrics.weight_kg_total", "weight_kg_total must be between 0 and 1000")
	}

	if p.Metrics.BatteryPct == nil {
		add("metrics.battery_pct", "battery_pct is required")
	} else if *p.Metrics.BatteryPct < 0 || *p.Metrics.BatteryPct > 100 {
		add("metrics.battery_pct", "battery_pct must be between 0 and 100")
	}

	if p.AI != nil {
		if p.AI.ModelID == "" {
			add("ai.model_id", "model_id is required when ai block is present")
		}
		if p.AI.ConfidenceAvg == nil {
			add("ai.confidence_avg", "confidence_avg is required when ai block is present")
		} else if *p.AI.ConfidenceAvg < 0 || *p.AI.ConfidenceAvg > 1 {
			add("ai.confidence_avg", "confidence_avg must be between 0 and 1")
		}
	}

	validateBucket(&details, "categories.high_value_recyclables", p.Categories.HighValue)
	validateBucket(&details, "categories.low_value_mixed_recyclables", p.Categories.LowValueMixed)
	validateBucket(&details, "categories.organics_residuals", p.Categories.Organics)

	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

func validateBucket(details *[]FieldError, path string, bucket CategoryBucket) {
	if bucket.Items == nil {
		*details = append(*details, FieldError{Field: path + ".items", Message: "items is required"})
		return
	}

	for i, item := range bucket.Items {
		if item.Quantity == nil {
			*details = append(*details, FieldError{
				Field:   fmt.Sprintf("%s.items[%d].quantity", path, i),
				Message: "quantity is required",
			})
			continue
		}
		if *item.Quantity < 0 {
			*details = append(*details, FieldError{
				Field:   fmt.Sprintf("%s.items[%d].quantity", path, i),
				Message: "quantity must be a non-negative integer",
			})
		}
	}
}
