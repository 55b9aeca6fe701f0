package roadmap

import (
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

const (
	SkillAbsoluteBeginner = "absolute_beginner"
	SkillBeginner         = "beginner"
	SkillIntermediate     = "intermediate"
	SkillAdvanced         = "advanced"

	DefaultTimeCommitment = 10
)

// Profile is the read-only learner view the pipeline needs. Persisted profiles and ad-hoc
// ones (StaticProfile) both satisfy it; empty strings mean "not set".
type Profile interface {
	Domain() string
	Language() string
	Framework() string
	SkillLevel() string
	LearningGoals() string
	TimeCommitment() int
}

// StaticProfile is an in-memory profile, used for additional paths that are never persisted.
type StaticProfile struct {
	DomainCode    string `json:"technology_domain" yaml:"technology_domain"`
	LanguageCode  string `json:"programming_language" yaml:"programming_language"`
	FrameworkCode string `json:"framework" yaml:"framework"`
	Skill         string `json:"skill_level" yaml:"skill_level"`
	Goals         string `json:"learning_goals" yaml:"learning_goals"`
	HoursPerWeek  int    `json:"time_commitment" yaml:"time_commitment"`
}

func (p StaticProfile) Domain() string        { return p.DomainCode }
func (p StaticProfile) Language() string      { return p.LanguageCode }
func (p StaticProfile) Framework() string     { return p.FrameworkCode }
func (p StaticProfile) SkillLevel() string    { return p.Skill }
func (p StaticProfile) LearningGoals() string { return p.Goals }
func (p StaticProfile) TimeCommitment() int   { return p.HoursPerWeek }

// view is a Profile resolved once with defaults applied and display labels looked up.
type view struct {
	domain    string
	language  string
	framework string
	skill     string
	goals     string
	hours     int

	domainLabel    string
	languageLabel  string
	frameworkLabel string
}

func resolve(p Profile, cat *catalog.Catalog) (view, error) {
	if p == nil {
		return view{}, ErrNilProfile
	}
	v := view{
		domain:    code(p.Domain()),
		language:  code(p.Language()),
		framework: code(p.Framework()),
		skill:     code(p.SkillLevel()),
		goals:     strings.TrimSpace(p.LearningGoals()),
		hours:     p.TimeCommitment(),
	}
	if v.language == "" {
		v.language = catalog.None
	}
	if v.framework == "" {
		v.framework = catalog.None
	}
	if v.hours <= 0 {
		v.hours = DefaultTimeCommitment
	}

	var missing []string
	if v.domain == "" {
		missing = append(missing, "domain")
	}
	if v.skill == "" {
		missing = append(missing, "skill_level")
	}
	if len(missing) > 0 {
		return view{}, fmt.Errorf("%w: missing %s", ErrIncompleteProfile, strings.Join(missing, ", "))
	}

	v.domainLabel = cat.DomainLabel(v.domain)
	if v.hasLanguage() {
		v.languageLabel = cat.LanguageLabel(v.language)
	}
	if v.hasFramework() {
		v.frameworkLabel = cat.FrameworkLabel(v.framework)
	}
	return v, nil
}

func code(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (v view) hasLanguage() bool  { return v.language != catalog.None }
func (v view) hasFramework() bool { return v.framework != catalog.None }

// RoadmapName suggests a display name for a new roadmap. existing is how many roadmaps the
// learner already has; names after the first get a sequence suffix.
func RoadmapName(p Profile, existing int) string {
	cat := catalog.Default()
	domain := cat.DomainLabel(code(p.Domain()))

	var stack []string
	if l := code(p.Language()); l != "" && l != catalog.None {
		stack = append(stack, cat.LanguageLabel(l))
	}
	if f := code(p.Framework()); f != "" && f != catalog.None {
		stack = append(stack, cat.FrameworkLabel(f))
	}

	name := domain + " Learning Path"
	if len(stack) > 0 {
		name = domain + " with " + strings.Join(stack, " & ")
	}
	if existing > 0 {
		name = fmt.Sprintf("%s %d", name, existing+1)
	}
	return name
}
