package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap"
)

// profileFlags collects a learner profile from an optional YAML file plus per-field flags.
// Flags that were set explicitly win over the file.
type profileFlags struct {
	file     string
	name     string
	existing int
	p        roadmap.StaticProfile
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "profile", "p", "", "YAML file holding the learner profile")
	fl.StringVar(&f.p.DomainCode, "domain", "", "Technology domain code (web, mobile, data, ai, cloud, cyber)")
	fl.StringVar(&f.p.LanguageCode, "language", "", "Programming language code, or none")
	fl.StringVar(&f.p.FrameworkCode, "framework", "", "Framework code, or none")
	fl.StringVar(&f.p.Skill, "skill", "", "Skill level (absolute_beginner, beginner, intermediate, advanced)")
	fl.StringVar(&f.p.Goals, "goals", "", "Free-text learning goals")
	fl.IntVar(&f.p.HoursPerWeek, "hours", 0, "Weekly time commitment in hours")
	fl.StringVar(&f.name, "name", "", "Roadmap name (derived from the profile when empty)")
	fl.IntVar(&f.existing, "existing", 0, "Number of roadmaps the learner already has, used to number the derived name")
}

func (f *profileFlags) resolve(cmd *cobra.Command) (roadmap.StaticProfile, string, error) {
	p := roadmap.StaticProfile{}
	if f.file != "" {
		b, err := os.ReadFile(f.file) //nolint:gosec // path is operator supplied
		if err != nil {
			return p, "", zerr.With(zerr.Wrap(err, "failed to read profile"), "path", f.file)
		}
		if err := yaml.Unmarshal(b, &p); err != nil {
			return p, "", zerr.With(zerr.Wrap(err, "failed to parse profile"), "path", f.file)
		}
	}

	fl := cmd.Flags()
	overrides := []struct {
		flag string
		dst  *string
		src  string
	}{
		{"domain", &p.DomainCode, f.p.DomainCode},
		{"language", &p.LanguageCode, f.p.LanguageCode},
		{"framework", &p.FrameworkCode, f.p.FrameworkCode},
		{"skill", &p.Skill, f.p.Skill},
		{"goals", &p.Goals, f.p.Goals},
	}
	for _, o := range overrides {
		if fl.Changed(o.flag) {
			*o.dst = o.src
		}
	}
	if fl.Changed("hours") {
		p.HoursPerWeek = f.p.HoursPerWeek
	}

	name := f.name
	if name == "" {
		name = roadmap.RoadmapName(p, f.existing)
	}
	return p, name, nil
}
