package roadmap

import (
	"slices"
	"time"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

// minTasks is the size below which a model roadmap is topped up from the fallback list.
const minTasks = 6

// finalize orders and sizes an enhanced task list. An empty list is replaced by the fallback.
func finalize(tasks []Task, v view, cat *catalog.Catalog, now time.Time) []Task {
	if len(tasks) == 0 {
		return fallbackTasks(v, cat, now)
	}

	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return a.Priority.rank() - b.Priority.rank()
	})

	ideal := idealTaskCount(v.hours)
	if len(out) > ideal {
		return out[:ideal]
	}
	if len(out) >= minTasks {
		return out
	}

	seen := make(map[string]struct{}, len(out))
	for _, t := range out {
		seen[t.Title] = struct{}{}
	}
	for _, t := range fallbackTasks(v, cat, now) {
		if len(out) >= ideal {
			break
		}
		if _, ok := seen[t.Title]; ok {
			continue
		}
		seen[t.Title] = struct{}{}
		out = append(out, t)
	}
	return out
}
