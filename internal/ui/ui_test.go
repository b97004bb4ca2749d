package ui

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/session"
)

func TestNavFor_Anonymous(t *testing.T) {
	nav := NavFor(session.Anonymous())

	assert.False(t, nav.Authenticated)
	assert.Equal(t, []Link{{"Sign In", "#login"}, {"Register", "#register"}}, nav.Links)
}

func TestNavFor_Authenticated(t *testing.T) {
	st := session.Authenticated(&model.User{ID: "u1", Email: "a@b.com", Picture: "https://pic"}, model.AuthMethodGoogle)

	nav := NavFor(st)

	assert.True(t, nav.Authenticated)
	assert.Equal(t, "a@b.com", nav.DisplayName, "falls back to email without a name")
	assert.Equal(t, "https://pic", nav.Picture)
	assert.Len(t, nav.Links, 4)
	assert.Equal(t, RouteDashboard, nav.Links[0].Route)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Toast(LevelSuccess, "Welcome, A B!")
	c.RenderNav(NavFor(session.Anonymous()))
	c.Navigate(RouteDashboard)

	out := buf.String()
	assert.Contains(t, out, "[success] Welcome, A B!")
	assert.Contains(t, out, "Not signed in (Sign In | Register)")
	assert.Contains(t, out, "→ /dashboard")
	assert.Equal(t, RouteDashboard, c.Route())
}

func TestImmediateScheduler(t *testing.T) {
	ran := false
	Immediate{}.After(time.Hour, func() { ran = true })
	assert.True(t, ran)
}

func TestTimerScheduler(t *testing.T) {
	done := make(chan struct{})
	TimerScheduler{}.After(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TimerScheduler did not fire")
	}
}

func TestWaitScheduler(t *testing.T) {
	var s WaitScheduler
	var ran atomic.Int32
	s.After(5*time.Millisecond, func() { ran.Add(1) })
	s.After(time.Millisecond, func() { ran.Add(1) })

	s.Wait()
	assert.Equal(t, int32(2), ran.Load())
}

func TestConsole_ShowLogin(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).ShowLogin()
	assert.Contains(t, buf.String(), "careerctl login google | linkedin | password")
}

func TestWriteRecommendations(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRecommendations(&buf, &model.AssessmentResponse{
		Success: true,
		Recommendations: []model.Recommendation{{
			CareerID:    3,
			CareerTitle: "Data Scientist",
			MatchScore:  66.7,
			Reasoning:   "You have 2 out of 3 required skills.",
			SkillGaps:   []string{"Statistics", "R"},
			CareerDetails: model.CareerDetails{
				Industry:        "Technology",
				GrowthPotential: "High",
			},
		}},
		Summary: model.AssessmentSummary{TotalCareersAnalyzed: 12, TopMatchScore: 66.7, SkillsEvaluated: 2},
	})

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Careers analyzed: 12")
	assert.Contains(t, out, "Top match:        67%")
	assert.Contains(t, out, "1. Data Scientist (67% Match) [career 3]")
	assert.Contains(t, out, "Industry: Technology")
	assert.Contains(t, out, "Skills to Learn: Statistics, R")
	assert.NotContains(t, out, "Salary Range:", "empty details are skipped")
}

func TestWriteLearningPath(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLearningPath(&buf, &model.LearningPath{
		CareerGoal:        "Data Scientist",
		EstimatedTimeline: "2 - 4 months",
		SkillsToLearn:     []string{"Statistics"},
		LearningResources: map[string]model.SkillResources{
			"Statistics": {Difficulty: "Beginner", Resources: []string{"Khan Academy", "OpenIntro"}},
		},
		Steps: []model.LearningStep{{Phase: "Foundation", Duration: "1-2 months", Focus: "Build fundamental knowledge"}},
	})

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Your Current Skills: None specified")
	assert.Contains(t, out, "Foundation (1-2 months)")
	assert.Contains(t, out, "Skills: N/A")
	assert.Contains(t, out, "Statistics: Khan Academy, OpenIntro (Beginner)")
}
