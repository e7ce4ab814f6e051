package ingestion

// Counts holds the per-stream item totals derived from one event.
type Counts struct {
	HVCount  int `json:"hv_count"`
	LVCount  int `json:"lv_count"`
	OrgCount int `json:"org_count"`
}

// CalculateCounts sums item quantities per stream. A missing quantity
// counts as zero; the validator has already rejected negatives.
func CalculateCounts(c *Categories) Counts {
	return Counts{
		HVCount:  sumQuantities(c.HighValue.Items),
		LVCount:  sumQuantities(c.LowValueMixed.Items),
		OrgCount: sumQuantities(c.Organics.Items),
	}
}

func sumQuantities(items []CategoryItem) int {
	total := 0
	for _, item := range items {
		if item.Quantity != nil {
			total += *item.Quantity
		}
	}
	return total
}
