package ui

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/sakif/career-compass/internal/model"
)

// WriteRecommendations renders an assessment the way the dashboard shows
// it: summary counters, then one card per career match.
func WriteRecommendations(w io.Writer, res *model.AssessmentResponse) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Careers analyzed: %d\n", res.Summary.TotalCareersAnalyzed)
	fmt.Fprintf(&b, "Top match:        %d%%\n", percent(res.Summary.TopMatchScore))
	fmt.Fprintf(&b, "Skills evaluated: %d\n", res.Summary.SkillsEvaluated)

	for i, rec := range res.Recommendations {
		d := rec.CareerDetails
		fmt.Fprintf(&b, "\n%d. %s (%d%% Match) [career %d]\n", i+1, rec.CareerTitle, percent(rec.MatchScore), rec.CareerID)
		writeLine(&b, "", d.Description)
		writeLine(&b, "Industry: ", d.Industry)
		writeLine(&b, "Salary Range: ", d.AverageSalaryRange)
		writeLine(&b, "Growth Potential: ", d.GrowthPotential)
		writeLine(&b, "Reasoning: ", rec.Reasoning)
		if len(rec.SkillGaps) > 0 {
			writeLine(&b, "Skills to Learn: ", strings.Join(rec.SkillGaps, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteLearningPath renders a learning path: goal, timeline, skills, phases
// and per-skill resources.
func WriteLearningPath(w io.Writer, p *model.LearningPath) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Career Goal: %s\n", p.CareerGoal)
	fmt.Fprintf(&b, "Estimated Timeline: %s\n", p.EstimatedTimeline)
	fmt.Fprintf(&b, "Your Current Skills: %s\n", joinOr(p.CurrentSkills, "None specified"))
	fmt.Fprintf(&b, "Skills to Learn: %s\n", joinOr(p.SkillsToLearn, "Already have all required skills!"))

	b.WriteString("\nLearning Phases:\n")
	for _, step := range p.Steps {
		fmt.Fprintf(&b, "  %s (%s)\n", step.Phase, step.Duration)
		fmt.Fprintf(&b, "    Focus: %s\n", step.Focus)
		fmt.Fprintf(&b, "    Skills: %s\n", joinOr(step.Skills, "N/A"))
	}

	b.WriteString("\nLearning Resources:\n")
	if len(p.LearningResources) == 0 {
		b.WriteString("  Check our resources section for learning materials\n")
	}
	skills := make([]string, 0, len(p.LearningResources))
	for skill := range p.LearningResources {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	for _, skill := range skills {
		info := p.LearningResources[skill]
		fmt.Fprintf(&b, "  %s: %s (%s)\n", skill, strings.Join(info.Resources, ", "), info.Difficulty)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func percent(score float64) int {
	return int(math.Round(score))
}

func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "   %s%s\n", label, value)
}

func joinOr(values []string, empty string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, ", ")
}
