package roadmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

func modelTasks(priorities ...Priority) []Task {
	out := make([]Task, len(priorities))
	for i, p := range priorities {
		out[i] = Task{
			Title:          fmt.Sprintf("Model task %02d", i),
			Description:    "A task produced by the model",
			Category:       CategoryPractice,
			EstimatedHours: 5,
			Priority:       p,
			Dependencies:   []string{},
			AIGenerated:    true,
			CreatedAt:      fixedNow,
			Version:        SchemaVersion,
		}
	}
	return out
}

func TestFinalize_StablePrioritySort(t *testing.T) {
	v := testView(t, webPythonDjango(SkillBeginner, 20))
	in := modelTasks(PriorityLow, PriorityMedium, PriorityHigh, PriorityMedium, PriorityHigh, PriorityLow, PriorityMedium)

	got := finalize(in, v, catalog.Default(), fixedNow)

	assert.Equal(t, []string{
		"Model task 02", "Model task 04",
		"Model task 01", "Model task 03", "Model task 06",
		"Model task 00", "Model task 05",
	}, titles(got))
	assert.Equal(t, "Model task 00", in[0].Title, "input must not be reordered")
}

func TestFinalize_TruncatesToIdealCount(t *testing.T) {
	in := modelTasks(
		PriorityLow, PriorityLow, PriorityLow, PriorityLow, PriorityLow,
		PriorityHigh, PriorityHigh, PriorityHigh, PriorityHigh, PriorityHigh,
	)

	// clamp(10/2, 6, 12) = 6
	got := finalize(in, testView(t, webPythonDjango(SkillBeginner, 10)), catalog.Default(), fixedNow)
	require.Len(t, got, 6)
	for _, task := range got[:5] {
		assert.Equal(t, PriorityHigh, task.Priority)
	}
	assert.Equal(t, "Model task 00", got[5].Title)

	// clamp(40/2, 6, 12) = 12 keeps all ten
	got = finalize(in, testView(t, webPythonDjango(SkillBeginner, 40)), catalog.Default(), fixedNow)
	assert.Len(t, got, 10)
}

func TestFinalize_SupplementsShortListsFromFallback(t *testing.T) {
	v := testView(t, webPythonDjango(SkillBeginner, 16))
	in := modelTasks(PriorityMedium, PriorityHigh)
	in[1].Title = "Master Python Essentials"

	got := finalize(in, v, catalog.Default(), fixedNow)

	// ideal = clamp(16/2, 6, 12) = 8, the fallback list for this profile has six tasks and one
	// title is already present, so five are appended.
	assert.Equal(t, []string{
		"Master Python Essentials",
		"Model task 00",
		"Web Development Core Concepts Deep Dive",
		"Django Framework Mastery",
		"Hands-on Coding Practice",
		"Build a Real Web Development Project",
		"Testing and Deployment",
	}, titles(got))
	assert.True(t, got[0].AIGenerated)
	assert.False(t, got[2].AIGenerated)
}

func TestFinalize_SupplementStopsAtIdealCount(t *testing.T) {
	v := testView(t, webPythonDjango(SkillBeginner, 4))
	got := finalize(modelTasks(PriorityHigh, PriorityHigh, PriorityHigh, PriorityHigh, PriorityHigh), v, catalog.Default(), fixedNow)
	assert.Len(t, got, 6)
	assert.Equal(t, "Web Development Core Concepts Deep Dive", got[5].Title)
}

func TestFinalize_EmptyDelegatesToFallback(t *testing.T) {
	v := testView(t, webPythonDjango(SkillBeginner, 10))
	got := finalize(nil, v, catalog.Default(), fixedNow)
	assert.Equal(t, fallbackTasks(v, catalog.Default(), fixedNow), got)
}
