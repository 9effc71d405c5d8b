package pipeline

import (
	"sort"

	"nbd-crr/internal/sheet"
)

// DefaultDropdownOptions отдаются, когда лист DROPDOWN недоступен.
func DefaultDropdownOptions() map[string][]string {
	return map[string][]string{
		"salesType":        {"new_sale", "renewal", "upsell", "cross_sell", "other"},
		"enquiryState":     {"Maharashtra", "Delhi", "Karnataka", "Tamil Nadu", "Gujarat", "Other"},
		"salesCoordinator": {"Default Coordinator"},
		"industryType": {
			"technology", "manufacturing", "healthcare", "retail", "finance",
			"education", "agriculture", "automotive", "construction", "other",
		},
		"enquirySource": {
			"website", "referral", "social_media", "email_campaign", "cold_call",
			"exhibition", "direct_marketing", "partner", "other",
		},
	}
}

// CollectDropdownOptions: уникальные отсортированные значения колонок списков.
// Строка 0 - заголовок.
func CollectDropdownOptions(t *sheet.Table) (map[string][]string, error) {
	m, err := DropdownOptionsSchema.Bind(t)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(DropdownOptionsSchema.Fields))
	for name := range DropdownOptionsSchema.Fields {
		seen := map[string]bool{}
		values := []string{}
		for i := 1; i < len(t.Rows); i++ {
			v := m.Cell(t.Rows[i], name).Text()
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		sort.Strings(values)
		out[name] = values
	}
	return out, nil
}
