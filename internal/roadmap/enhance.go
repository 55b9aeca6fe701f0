package roadmap

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

const (
	projectGuideURL  = "https://github.com/practical-tutorials/project-based-learning"
	learningPlatform = "https://www.freecodecamp.org/learn/"
	officialDocsMins = 60
	genericGuideMins = 45
)

// enhance turns an admitted candidate into a finished Task stamped as model generated.
func enhance(c candidate, v view, cat *catalog.Catalog, now time.Time) Task {
	t := Task{
		Title:          c.title,
		Description:    c.description,
		Category:       c.category,
		EstimatedHours: c.hours,
		Priority:       PriorityMedium,
		Dependencies:   stringList(c.raw["dependencies"]),
		AIGenerated:    true,
		CreatedAt:      now,
		Version:        SchemaVersion,
	}
	if p, ok := c.raw["priority"].(string); ok {
		if pr := Priority(strings.ToLower(strings.TrimSpace(p))); pr.Valid() {
			t.Priority = pr
		}
	}

	if list, ok := c.raw["resources"].([]any); ok && len(list) > 0 {
		t.Resources = cleanResources(list)
	}
	if len(t.Resources) == 0 {
		t.Resources = defaultResources(c.category, v, cat)
	}
	return t
}

func stringList(v any) []string {
	out := []string{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func cleanResources(list []any) []Resource {
	out := make([]Resource, 0, MaxResources)
	for _, item := range list {
		if len(out) == MaxResources {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, _ := obj["title"].(string)
		rawURL, _ := obj["url"].(string)
		title = strings.TrimSpace(title)
		if title == "" || strings.TrimSpace(rawURL) == "" {
			continue
		}
		cleaned, ok := cleanResourceURL(rawURL)
		if !ok {
			continue
		}

		r := Resource{Title: title, URL: cleaned, Type: ResourceFree, EstimatedTime: DefaultResourceMinutes}
		if s, ok := obj["type"].(string); ok {
			if rt := ResourceType(strings.ToLower(strings.TrimSpace(s))); rt == ResourceFree || rt == ResourcePaid {
				r.Type = rt
			}
		}
		if mins, ok := minutes(obj["estimated_time"]); ok {
			r.EstimatedTime = mins
		}
		out = append(out, r)
	}
	return out
}

func minutes(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if f < 1 || f > 1e6 {
		return 0, false
	}
	return int(f), true
}

// CleanResourceURL normalizes a resource link: https is assumed when no scheme is given,
// tracking parameters are removed and dangling separators are trimmed.
func CleanResourceURL(raw string) string {
	s, _ := cleanResourceURL(raw)
	return s
}

func cleanResourceURL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	default:
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}

	u.Host = strings.ToLower(u.Host)
	u.RawQuery = stripTracking(u.RawQuery)
	u.ForceQuery = false
	if u.RawQuery == "" && u.Fragment == "" && (u.Path == "/" || u.Path == "") {
		u.Path = ""
		u.RawPath = ""
	}
	return u.String(), true
}

// stripTracking drops utm_*, gclid and fbclid pairs and empty segments, keeping the order of
// the rest.
func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	parts := strings.Split(rawQuery, "&")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		key, _, _ := strings.Cut(p, "=")
		key = strings.ToLower(key)
		if strings.HasPrefix(key, "utm_") || key == "gclid" || key == "fbclid" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "&")
}

func defaultResources(c Category, v view, cat *catalog.Catalog) []Resource {
	switch {
	case c == CategoryLanguage && v.hasLanguage():
		return []Resource{{
			Title:         v.languageLabel + " Official Docs",
			URL:           cat.LanguageDocURL(v.language),
			Type:          ResourceFree,
			EstimatedTime: officialDocsMins,
		}}
	case c == CategoryFramework && v.hasFramework():
		return []Resource{{
			Title:         v.frameworkLabel + " Documentation",
			URL:           cat.FrameworkDocURL(v.framework),
			Type:          ResourceFree,
			EstimatedTime: officialDocsMins,
		}}
	case c == CategoryProject:
		return []Resource{{
			Title:         "Project Ideas & Best Practices",
			URL:           projectGuideURL,
			Type:          ResourceFree,
			EstimatedTime: genericGuideMins,
		}}
	}
	return []Resource{{
		Title:         "Interactive Learning Platform",
		URL:           learningPlatform,
		Type:          ResourceFree,
		EstimatedTime: genericGuideMins,
	}}
}
