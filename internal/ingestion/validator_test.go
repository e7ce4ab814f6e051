package ingestion

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func validPayload() *BinEventPayload {
	return &BinEventPayload{
		BinCode:      strPtr("BIN-001"),
		Location:     "Chandigarh",
		TimestampUTC: time.Now().UTC().Format(time.RFC3339),
		Metrics: Metrics{
			FillLevelPct:  floatPtr(75),
			WeightKgTotal: floatPtr(50),
			WeightKgDelta: floatPtr(2),
			BatteryPct:    floatPtr(85),
		},
		AI: &AIBlock{
			ModelID:       "v1.0",
			ConfidenceAvg: floatPtr(0.95),
		},
		Categories: Categories{
			HighValue:     CategoryBucket{Items: []CategoryItem{{Name: strPtr("PET"), Quantity: intPtr(5)}}},
			LowValueMixed: CategoryBucket{Items: []CategoryItem{{Name: strPtr("Mixed Plastic"), Quantity: intPtr(3)}}},
			Organics:      CategoryBucket{Items: []CategoryItem{{Name: strPtr("Food Waste"), Quantity: intPtr(2)}}},
		},
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := make([]string, len(vErr.Details))
	for i, d := range vErr.Details {
		fields[i] = d.Field
	}
	return fields
}

func TestValidateBinEvent_ValidPayload(t *testing.T) {
	assert.NoError(t, ValidateBinEvent(validPayload()))
}

func TestValidateBinEvent_BoundaryValuesAccepted(t *testing.T) {
	p := validPayload()
	p.Metrics.FillLevelPct = floatPtr(100)
	p.Metrics.BatteryPct = floatPtr(0)
	p.Metrics.WeightKgTotal = floatPtr(1000)

	assert.NoError(t, ValidateBinEvent(p))
}

func TestValidateBinEvent_RequiresBinIDOrCode(t *testing.T) {
	p := validPayload()
	p.BinCode = nil
	p.BinID = nil

	fields := fieldsOf(t, ValidateBinEvent(p))
	assert.Contains(t, fields, "bin_id")

	// bin_id alone is enough
	p.BinID = strPtr("some-id")
	assert.NoError(t, ValidateBinEvent(p))
}

func TestValidateBinEvent_MetricRanges(t *testing.T) {
	p := validPayload()
	p.Metrics.FillLevelPct = floatPtr(150)
	p.Metrics.BatteryPct = floatPtr(-10)

	fields := fieldsOf(t, ValidateBinEvent(p))
	assert.Contains(t, fields, "metrics.fill_level_pct")
	assert.Contains(t, fields, "metrics.battery_pct")
}

func TestValidateBinEvent_CollectsAllViolations(t *testing.T) {
	p := validPayload()
	p.BinCode = nil
	p.Location = ""
	p.TimestampUTC = "yesterday at noon"
	p.Metrics.FillLevelPct = floatPtr(101)
	p.Metrics.WeightKgTotal = nil
	p.AI.ConfidenceAvg = floatPtr(1.5)
	p.Categories.Organics.Items = nil

	fields := fieldsOf(t, ValidateBinEvent(p))
	assert.ElementsMatch(t, []string{
		"bin_id",
		"location",
		"timestamp_utc",
		"metrics.fill_level_pct",
		"metrics.weight_kg_total",
		"ai.confidence_avg",
		"categories.organics_residuals.items",
	}, fields)
}

func TestValidateBinEvent_Timestamp(t *testing.T) {
	p := validPayload()
	p.TimestampUTC = "2026-08-31T10:15:00Z"
	assert.NoError(t, ValidateBinEvent(p))

	p.TimestampUTC = "2026-08-31 10:15:00"
	fields := fieldsOf(t, ValidateBinEvent(p))
	assert.Contains(t, fields, "timestamp_utc")
}

func TestValidateBinEvent_LocationLength(t *testing.T) {
	p := validPayload()
	p.Location = strings.Repeat("x", 101)

	fields := fieldsOf(t, ValidateBinEvent(p))
	assert.Contains(t, fields, "location")
}

func TestValidateBinEvent_LocationLengthCountsCharacters(t *testing.T) {
	p := validPayload()
	// 100 Devanagari characters, 300 bytes.
	p.Location = strings.Repeat("च", 100)
	assert.NoError(t, ValidateBinEvent(p))

	p.Location = strings.Repeat("च", 101)
	fields := fieldsOf(t, ValidateBinEvent(p))
	assert.Contains(t, fields, "location")
}

func TestValidateBinEvent_NegativeQuantity(t *testing.T) {
	p := validPayload()
	p.Categories.HighValue.Items = []CategoryItem{
		{Quantity: intPtr(2)},
		{Quantity: intPtr(-1)},
	}

	fields := fieldsOf(t, ValidateBinEvent(p))
	assert.Contains(t, fields, "categories.high_value_recyclables.items[1].quantity")
}

func TestValidateBinEvent_OptionalBlocksMayBeAbsent(t *testing.T) {
	p := validPayload()
	p.AI = nil
	p.Metrics.WeightKgDelta = nil
	p.Ops = nil

	assert.NoError(t, ValidateBinEvent(p))
}

func TestValidateBinEvent_EmptyBucketsAreValid(t *testing.T) {
	p := validPayload()
	p.Categories.HighValue.Items = []CategoryItem{}
	p.Categories.LowValueMixed.Items = []CategoryItem{}
	p.Categories.Organics.Items = []CategoryItem{}

	assert.NoError(t, ValidateBinEvent(p))
}
