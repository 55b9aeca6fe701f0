package roadmap

import "time"

type Category string

const (
	CategoryConcept    Category = "concept"
	CategoryLanguage   Category = "language"
	CategoryFramework  Category = "framework"
	CategoryTool       Category = "tool"
	CategoryProject    Category = "project"
	CategoryPractice   Category = "practice"
	CategoryAssessment Category = "assessment"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryConcept, CategoryLanguage, CategoryFramework, CategoryTool,
		CategoryProject, CategoryPractice, CategoryAssessment:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

type ResourceType string

const (
	ResourceFree ResourceType = "free"
	ResourcePaid ResourceType = "paid"
)

const (
	SchemaVersion = "1.0"

	MinTitleLen       = 5
	MinDescriptionLen = 10
	MaxTaskHours      = 100.0
	MaxResources      = 5

	DefaultResourceMinutes = 30
)

type Resource struct {
	Title         string       `json:"title"`
	URL           string       `json:"url"`
	Type          ResourceType `json:"type"`
	EstimatedTime int          `json:"estimated_time"`
}

// Task is one roadmap entry. Values are built once by the enhancer or the fallback generator
// and are not mutated afterwards.
type Task struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       Category   `json:"category"`
	EstimatedHours float64    `json:"estimated_hours"`
	Priority       Priority   `json:"priority"`
	Dependencies   []string   `json:"dependencies"`
	Resources      []Resource `json:"resources"`
	AIGenerated    bool       `json:"ai_generated"`
	CreatedAt      time.Time  `json:"created_at"`
	Version        string     `json:"version"`
}

func (t Task) clone() Task {
	out := t
	out.Dependencies = append([]string{}, t.Dependencies...)
	out.Resources = append([]Resource{}, t.Resources...)
	return out
}

func cloneTasks(in []Task) []Task {
	if in == nil {
		return nil
	}
	out := make([]Task, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}

// Summary aggregates a finished roadmap for display alongside the task list.
type Summary struct {
	TotalTasks          int     `json:"total_tasks"`
	TotalResources      int     `json:"total_resources"`
	EstimatedTotalHours float64 `json:"estimated_total_hours"`
}

func Summarize(tasks []Task) Summary {
	var s Summary
	for _, t := range tasks {
		s.TotalTasks++
		s.TotalResources += len(t.Resources)
		s.EstimatedTotalHours += t.EstimatedHours
	}
	return s
}
