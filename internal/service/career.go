package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/backend"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// Plan is a pricing tier.
type Plan string

const (
	PlanStarter      Plan = "starter"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

// Route is where choosing p takes a signed-in user.
func (p Plan) Route() (string, bool) {
	switch p {
	case PlanStarter:
		return ui.RouteOnboarding, true
	case PlanProfessional:
		return ui.RouteCheckout + "?" + url.Values{"plan": {string(p)}}.Encode(), true
	case PlanEnterprise:
		return ui.RouteContact + "?" + url.Values{"type": {string(p)}}.Encode(), true
	}
	return "", false
}

// Soft skills rated on the assessment form, 1 to 5.
const (
	SoftCommunication  = "communication"
	SoftLeadership     = "leadership"
	SoftProblemSolving = "problemSolving"
	SoftTeamwork       = "teamwork"
)

// strongSoftSkill is the skill name a soft skill counts as once rated at
// least minStrongRating.
var strongSoftSkill = map[string]string{
	SoftCommunication:  "Communication Skills",
	SoftLeadership:     "Leadership",
	SoftProblemSolving: "Problem Solving",
	SoftTeamwork:       "Teamwork",
}

const (
	minRating       = 1
	maxRating       = 5
	minStrongRating = 4
)

// AssessmentInput is the assessment form.
type AssessmentInput struct {
	Skills      []string
	SoftSkills  map[string]int // keyed by the Soft* constants
	Interests   []string
	FutureGoals string
}

const (
	assessErrorMessage = "An error occurred during assessment"
	pathErrorMessage   = "An error occurred while fetching learning path"
)

// StartAssessment sends a signed-in user to the assessment. A signed-out
// visitor is asked to sign in instead.
func (c *Coordinator) StartAssessment(current session.State) Result {
	if !c.requireSession(current, "Please sign in to start the assessment") {
		return unchanged(current)
	}
	c.surface.Navigate(ui.RouteOnboarding)
	return Result{State: current, Redirect: ui.RouteOnboarding}
}

// SelectPlan routes a signed-in user to the page for plan.
func (c *Coordinator) SelectPlan(current session.State, plan Plan) (Result, error) {
	route, ok := plan.Route()
	if !ok {
		return unchanged(current), apperror.ValidationFailed("plan", fmt.Sprintf("Unknown plan %q", plan))
	}
	if !c.requireSession(current, "Please sign in to select a plan") {
		return unchanged(current), nil
	}
	c.surface.Navigate(route)
	return Result{State: current, Redirect: route}, nil
}

// requireSession reports whether current is signed in, prompting for sign-in
// when it is not.
func (c *Coordinator) requireSession(current session.State, prompt string) bool {
	if current.IsAuthenticated && current.User != nil {
		return true
	}
	c.surface.Toast(ui.LevelInfo, prompt)
	c.surface.ShowLogin()
	return false
}

// SubmitAssessment sends the form answers for the signed-in user and, once
// scored, moves on to the dashboard.
func (c *Coordinator) SubmitAssessment(ctx context.Context, current session.State, in AssessmentInput) (*model.AssessmentResponse, error) {
	if !current.IsAuthenticated || current.User == nil {
		c.surface.Toast(ui.LevelError, "Please register first!")
		c.surface.Navigate(ui.RouteHome)
		return nil, apperror.ValidationFailed("user", "Please register first!")
	}

	skills, err := assessedSkills(in)
	if err != nil {
		c.surface.Toast(ui.LevelError, apperror.MessageOf(err, "Invalid input"))
		return nil, err
	}

	res, err := c.assess(ctx, backend.AssessRequest{
		UserID:      backend.UserRef(current.User.ID),
		Skills:      skills,
		Interests:   in.Interests,
		FutureGoals: in.FutureGoals,
	})
	if err != nil {
		return nil, err
	}

	c.surface.Toast(ui.LevelSuccess, "Assessment complete! Redirecting to your results...")
	c.redirect(ui.RouteDashboard)
	return res, nil
}

// RunAssessment scores the signed-in user's stored profile for the
// dashboard.
func (c *Coordinator) RunAssessment(ctx context.Context, current session.State) (*model.AssessmentResponse, error) {
	if !c.requireSession(current, "Please sign in to view your dashboard") {
		return nil, apperror.ValidationFailed("user", "Please sign in to view your dashboard")
	}

	c.surface.Toast(ui.LevelInfo, "Analyzing your profile...")
	return c.assess(ctx, backend.AssessRequest{UserID: backend.UserRef(current.User.ID)})
}

func (c *Coordinator) assess(ctx context.Context, req backend.AssessRequest) (*model.AssessmentResponse, error) {
	res, err := c.api.Assess(ctx, req)
	if err != nil {
		c.logger.Error("assessment", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, assessErrorMessage)
		return nil, fmt.Errorf("service: assess: %w", err)
	}
	if !res.Success {
		msg := "Assessment failed"
		if res.Message != "" {
			msg += ": " + res.Message
		}
		c.surface.Toast(ui.LevelError, msg)
		return nil, apperror.Rejected(msg)
	}

	c.logger.Info("assessment scored",
		slog.String("userID", string(req.UserID)),
		slog.Int("recommendations", len(res.Recommendations)),
	)
	return res, nil
}

// LearningPath fetches the plan from the signed-in user's skills to
// careerID.
func (c *Coordinator) LearningPath(ctx context.Context, current session.State, careerID int64) (*model.LearningPath, error) {
	if !c.requireSession(current, "Please sign in to view your learning path") {
		return nil, apperror.ValidationFailed("user", "Please sign in to view your learning path")
	}

	res, err := c.api.LearningPath(ctx, backend.LearningPathRequest{
		CareerID: careerID,
		UserID:   backend.UserRef(current.User.ID),
	})
	if err != nil {
		c.logger.Error("learning path", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, pathErrorMessage)
		return nil, fmt.Errorf("service: learning path: %w", err)
	}
	if !res.Success || res.LearningPath == nil {
		c.surface.Toast(ui.LevelError, "Failed to get learning path")
		return nil, apperror.Rejected("Failed to get learning path")
	}
	return res.LearningPath, nil
}

// assessedSkills is the picked skills plus every soft skill rated strong.
func assessedSkills(in AssessmentInput) ([]string, error) {
	skills := append([]string(nil), in.Skills...)
	for _, key := range []string{SoftCommunication, SoftLeadership, SoftProblemSolving, SoftTeamwork} {
		rating, ok := in.SoftSkills[key]
		if !ok {
			continue
		}
		if rating < minRating || rating > maxRating {
			return nil, apperror.ValidationFailed(key, fmt.Sprintf("Rate %s from %d to %d", key, minRating, maxRating))
		}
		if rating >= minStrongRating {
			skills = append(skills, strongSoftSkill[key])
		}
	}
	return skills, nil
}
