package roadmap

import (
	"time"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

const (
	practiceTitle = "Hands-on Coding Practice"
	testingTitle  = "Testing and Deployment"

	exercismURL    = "https://exercism.org/"
	vscodeSetupURL = "https://code.visualstudio.com/docs/setup/setup-overview"
	tddGuideURL    = "https://www.freecodecamp.org/news/test-driven-development-tutorial/"
)

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

func idealTaskCount(hours int) int    { return clamp(hours/2, 6, 12) }
func fallbackTaskCount(hours int) int { return clamp(hours/3, 6, 10) }

// Fallback builds the rule-based roadmap for p without calling any model. The result depends
// only on the profile and now.
func Fallback(p Profile, now time.Time) ([]Task, error) {
	cat := catalog.Default()
	v, err := resolve(p, cat)
	if err != nil {
		return nil, err
	}
	return fallbackTasks(v, cat, now), nil
}

func fallbackTasks(v view, cat *catalog.Catalog, now time.Time) []Task {
	var tasks []Task
	tasks = append(tasks, foundationTasks(v)...)
	tasks = append(tasks, stackTasks(v, cat)...)
	tasks = append(tasks, practiceTasks(v)...)

	if n := fallbackTaskCount(v.hours); len(tasks) > n {
		tasks = tasks[:n]
	}
	for i := range tasks {
		tasks[i].AIGenerated = false
		tasks[i].CreatedAt = now
		tasks[i].Version = SchemaVersion
		if tasks[i].Dependencies == nil {
			tasks[i].Dependencies = []string{}
		}
	}
	return tasks
}

func foundationTasks(v view) []Task {
	domain := v.domainLabel
	switch v.skill {
	case SkillAbsoluteBeginner:
		return []Task{
			{
				Title:          "Understanding " + domain + " Fundamentals",
				Description:    "Learn the basic concepts and purpose of " + domain + " development",
				Category:       CategoryConcept,
				EstimatedHours: 8,
				Priority:       PriorityHigh,
				Resources:      categoryResources(CategoryConcept),
			},
			{
				Title:          "Development Environment Setup",
				Description:    "Install and configure essential development tools and IDE",
				Category:       CategoryTool,
				EstimatedHours: 4,
				Priority:       PriorityHigh,
				Resources:      categoryResources(CategoryTool),
			},
		}
	case SkillBeginner:
		return []Task{{
			Title:          domain + " Core Concepts Deep Dive",
			Description:    "Master the fundamental principles and patterns of " + domain,
			Category:       CategoryConcept,
			EstimatedHours: 12,
			Priority:       PriorityHigh,
			Resources:      categoryResources(CategoryConcept),
		}}
	default:
		return []Task{{
			Title:          "Advanced " + domain + " Architecture",
			Description:    "Explore advanced architectural patterns and best practices in " + domain,
			Category:       CategoryConcept,
			EstimatedHours: 15,
			Priority:       PriorityHigh,
			Resources:      categoryResources(CategoryConcept),
		}}
	}
}

func stackTasks(v view, cat *catalog.Catalog) []Task {
	var tasks []Task
	var langTitle string
	if v.hasLanguage() {
		hours := 18.0
		if v.skill == SkillAbsoluteBeginner {
			hours = 25
		}
		langTitle = "Master " + v.languageLabel + " Essentials"
		tasks = append(tasks, Task{
			Title:          langTitle,
			Description:    "Comprehensive coverage of " + v.languageLabel + " syntax, features, and best practices",
			Category:       CategoryLanguage,
			EstimatedHours: hours,
			Priority:       PriorityHigh,
			Resources: []Resource{{
				Title:         v.languageLabel + " Official Documentation",
				URL:           cat.LanguageDocURL(v.language),
				Type:          ResourceFree,
				EstimatedTime: 120,
			}},
		})
	}
	if v.hasFramework() {
		deps := []string{}
		if langTitle != "" {
			deps = append(deps, langTitle)
		}
		tasks = append(tasks, Task{
			Title:          v.frameworkLabel + " Framework Mastery",
			Description:    "Learn to build robust applications using " + v.frameworkLabel,
			Category:       CategoryFramework,
			EstimatedHours: 30,
			Priority:       PriorityHigh,
			Dependencies:   deps,
			Resources: []Resource{{
				Title:         v.frameworkLabel + " Official Docs",
				URL:           cat.FrameworkDocURL(v.framework),
				Type:          ResourceFree,
				EstimatedTime: 150,
			}},
		})
	}
	return tasks
}

func practiceTasks(v view) []Task {
	projectTitle := "Build a Real " + v.domainLabel + " Project"
	return []Task{
		{
			Title:          practiceTitle,
			Description:    "Solidify concepts through practical coding exercises and challenges",
			Category:       CategoryPractice,
			EstimatedHours: float64(clamp(v.hours, 12, int(MaxTaskHours))),
			Priority:       PriorityHigh,
			Resources: []Resource{{
				Title:         "Interactive Coding Platform",
				URL:           exercismURL,
				Type:          ResourceFree,
				EstimatedTime: v.hours * 40,
			}},
		},
		{
			Title:          projectTitle,
			Description:    "Create a complete, portfolio-worthy " + v.domainLabel + " application",
			Category:       CategoryProject,
			EstimatedHours: float64(clamp(v.hours*2, 20, 50)),
			Priority:       PriorityMedium,
			Dependencies:   []string{practiceTitle},
			Resources: []Resource{{
				Title:         "Project-Based Learning Guide",
				URL:           projectGuideURL,
				Type:          ResourceFree,
				EstimatedTime: 60,
			}},
		},
		{
			Title:          testingTitle,
			Description:    "Learn professional testing strategies and deployment techniques",
			Category:       CategoryPractice,
			EstimatedHours: 10,
			Priority:       PriorityMedium,
			Dependencies:   []string{projectTitle},
			Resources: []Resource{{
				Title:         "Software Testing Guide",
				URL:           tddGuideURL,
				Type:          ResourceFree,
				EstimatedTime: 90,
			}},
		},
	}
}

func categoryResources(c Category) []Resource {
	switch c {
	case CategoryConcept:
		return []Resource{{Title: "Comprehensive Learning Guide", URL: learningPlatform, Type: ResourceFree, EstimatedTime: 60}}
	case CategoryTool:
		return []Resource{{Title: "Development Setup Guide", URL: vscodeSetupURL, Type: ResourceFree, EstimatedTime: 45}}
	}
	return []Resource{{Title: "Learning Resources", URL: learningPlatform, Type: ResourceFree, EstimatedTime: 45}}
}
