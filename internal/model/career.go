package model

// AssessmentResponse is the answer of POST /api/assess: the top career
// matches for the signed-in user, best first.
type AssessmentResponse struct {
	Success         bool              `json:"success"`
	Message         string            `json:"message,omitempty"`
	Recommendations []Recommendation  `json:"recommendations,omitempty"`
	Summary         AssessmentSummary `json:"assessment_summary"`
}

type AssessmentSummary struct {
	TotalCareersAnalyzed int     `json:"total_careers_analyzed"`
	TopMatchScore        float64 `json:"top_match_score"`
	SkillsEvaluated      int     `json:"skills_evaluated"`
}

// Recommendation is one scored career match.
type Recommendation struct {
	CareerID      int64         `json:"career_id"`
	CareerTitle   string        `json:"career_title"`
	MatchScore    float64       `json:"match_score"` // 0-100
	Reasoning     string        `json:"reasoning"`
	SkillGaps     []string      `json:"skill_gaps"`
	CareerDetails CareerDetails `json:"career_details"`
}

type CareerDetails struct {
	Description        string `json:"description"`
	Industry           string `json:"industry"`
	AverageSalaryRange string `json:"average_salary_range"`
	GrowthPotential    string `json:"growth_potential"`
}

// LearningPathResponse is the answer of POST /api/learning-path.
type LearningPathResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	LearningPath *LearningPath `json:"learning_path,omitempty"`
}

// LearningPath is a phased plan from the user's current skills to a career.
type LearningPath struct {
	CareerGoal        string                    `json:"career_goal"`
	CurrentSkills     []string                  `json:"current_skills"`
	SkillsToLearn     []string                  `json:"skills_to_learn"`
	LearningResources map[string]SkillResources `json:"learning_resources"`
	EstimatedTimeline string                    `json:"estimated_timeline"`
	Steps             []LearningStep            `json:"steps"`
}

type SkillResources struct {
	Difficulty string   `json:"difficulty"`
	Resources  []string `json:"resources"`
}

type LearningStep struct {
	Phase    string   `json:"phase"`
	Duration string   `json:"duration"`
	Skills   []string `json:"skills"`
	Focus    string   `json:"focus"`
}
