package roadmap

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// candidate is a raw task object that passed the hard constraints.
type candidate struct {
	title       string
	description string
	category    Category
	hours       float64
	raw         map[string]any
}

var requiredFields = []string{"title", "description", "category", "estimated_hours"}

// admit checks one decoded candidate. Only the category is repaired; every other failure drops
// the candidate with the reason returned.
func admit(v any) (candidate, DropReason, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return candidate{}, DropNotObject, false
	}
	for _, f := range requiredFields {
		if _, ok := obj[f]; !ok {
			return candidate{}, DropMissingField, false
		}
	}

	title, ok := obj["title"].(string)
	if !ok || len([]rune(strings.TrimSpace(title))) < MinTitleLen {
		return candidate{}, DropShortTitle, false
	}
	desc, ok := obj["description"].(string)
	if !ok || len([]rune(strings.TrimSpace(desc))) < MinDescriptionLen {
		return candidate{}, DropShortDesc, false
	}

	hours, ok := parseHours(obj["estimated_hours"])
	if !ok {
		return candidate{}, DropHoursInvalid, false
	}
	if hours <= 0 || hours > MaxTaskHours {
		return candidate{}, DropHoursOutOfRange, false
	}

	cat, _ := obj["category"].(string)
	category := Category(strings.ToLower(strings.TrimSpace(cat)))
	if !category.Valid() {
		category = CategoryPractice
	}

	return candidate{
		title:       strings.TrimSpace(title),
		description: strings.TrimSpace(desc),
		category:    category,
		hours:       hours,
		raw:         obj,
	}, "", true
}

func parseHours(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case json.Number:
		f, err = x.Float64()
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
