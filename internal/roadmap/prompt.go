package roadmap

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert learning path designer. Create personalized, practical learning roadmaps.

CRITICAL: Return ONLY valid JSON with this exact structure:
{
  "tasks": [
    {
      "title": "Specific task title",
      "description": "Clear, actionable description",
      "category": "concept|language|framework|tool|project|practice|assessment",
      "estimated_hours": 8,
      "priority": "high|medium|low",
      "dependencies": ["previous task title"],
      "resources": [
        {
          "title": "Resource name",
          "url": "https://real-working-url.com",
          "type": "free|paid",
          "estimated_time": 60
        }
      ]
    }
  ]
}

GUIDELINES:
- Create 8-12 progressive tasks (beginner → advanced)
- Include hands-on projects and exercises
- Provide REAL documentation URLs
- Adapt to user's skill level and time commitment
- Make tasks specific and actionable
- Include varied learning types (reading, coding, projects)
- Ensure logical progression with dependencies`

var skillPhrases = map[string]string{
	SkillAbsoluteBeginner: "absolute beginner (no coding experience)",
	SkillBeginner:         "beginner (basic coding knowledge)",
	SkillIntermediate:     "intermediate (comfortable with programming)",
	SkillAdvanced:         "advanced (experienced developer)",
}

const defaultGoals = "master the technology stack"

// Prompt is the pair of instructions sent to the model.
type Prompt struct {
	System string
	User   string
}

// SystemPrompt returns the fixed schema directive.
func SystemPrompt() string { return systemPrompt }

func skillPhrase(skill string) string {
	if p, ok := skillPhrases[skill]; ok {
		return p
	}
	return skill
}

func buildPrompt(v view, roadmapName string) Prompt {
	language := "most suitable language"
	if v.hasLanguage() {
		language = v.languageLabel
	}
	framework := "most relevant framework"
	if v.hasFramework() {
		framework = v.frameworkLabel
	}
	goals := v.goals
	if goals == "" {
		goals = defaultGoals
	}
	level := skillPhrase(v.skill)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a learning roadmap for: %s\n\n", strings.TrimSpace(roadmapName))
	b.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&b, "- Technology Domain: %s\n", v.domainLabel)
	fmt.Fprintf(&b, "- Programming Language: %s\n", language)
	fmt.Fprintf(&b, "- Framework: %s\n", framework)
	fmt.Fprintf(&b, "- Skill Level: %s\n", level)
	fmt.Fprintf(&b, "- Learning Goals: %s\n", goals)
	fmt.Fprintf(&b, "- Weekly Time: %d hours\n\n", v.hours)
	b.WriteString("TASK REQUIREMENTS:\n")
	b.WriteString("- Total tasks: 8-12\n")
	b.WriteString("- Progressive difficulty\n")
	b.WriteString("- Include: fundamentals, practical exercises, one real project\n")
	fmt.Fprintf(&b, "- Focus on %s with %s and %s\n", v.domainLabel, language, framework)
	b.WriteString("- Provide actual documentation URLs\n")
	fmt.Fprintf(&b, "- Make it suitable for %s\n\n", level)
	b.WriteString("Return valid JSON with tasks array.")

	return Prompt{System: systemPrompt, User: b.String()}
}
