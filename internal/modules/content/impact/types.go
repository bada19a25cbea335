package impact

// FundingGoal is the progress of one project towards its funding target.
type FundingGoal struct {
	ProjectID uint    `json:"project_id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Status    string  `json:"status"`
	Goal      float64 `json:"goal"`
	Raised    float64 `json:"raised"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
}

func newFundingGoal(id uint, title, slug, status string, goal, raised float64) FundingGoal {
	remaining := goal - raised
	if remaining < 0 {
		remaining = 0
	}
	percent := 0.0
	if goal > 0 {
		percent = raised / goal * 100
	}
	if percent > 100 {
		percent = 100
	}
	return FundingGoal{
		ProjectID: id, Title: title, Slug: slug, Status: status,
		Goal: goal, Raised: raised, Remaining: remaining,
		Percent: float64(int(percent*10+0.5)) / 10,
	}
}
