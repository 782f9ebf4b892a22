// Package progress derives onboarding step statuses from a stored
// profile. Statuses are a pure function of the profile; nothing here is
// settable directly.
package progress

import (
	"math"
	"strings"

	"github.com/example/smartwave/internal/models"
)

// Step statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// TotalSteps is the fixed number of onboarding steps.
const TotalSteps = 5

// Step is one onboarding step with its derived status.
type Step struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Summary is the full onboarding state for one user.
type Summary struct {
	Steps              []Step `json:"steps"`
	CompletedCount     int    `json:"completedCount"`
	TotalSteps         int    `json:"totalSteps"`
	ProgressPercentage int    `json:"progressPercentage"`
}

var stepNames = [TotalSteps]string{
	"Complete your profile",
	"Design your card",
	"Add social links",
	"Generate your digital card",
	"Share & network",
}

// Evaluate computes the onboarding summary for a profile. A nil profile
// means a brand-new user: step 1 in progress, everything else pending.
func Evaluate(p *models.Profile) Summary {
	if p == nil {
		steps := make([]Step, TotalSteps)
		for i := range steps {
			steps[i] = Step{ID: i + 1, Name: stepNames[i], Status: StatusPending}
		}
		steps[0].Status = StatusInProgress
		return Summary{Steps: steps, TotalSteps: TotalSteps}
	}

	hasBasicInfo := notBlank(p.FirstName) && notBlank(p.LastName) && notBlank(p.Title)
	hasPhoto := notBlank(p.Photo)
	hasContact := notBlank(p.WorkEmail) || notBlank(p.PersonalEmail) ||
		notBlank(p.Mobile) || notBlank(p.WorkPhone)
	hasShortURL := notBlank(p.ShortURL)
	socialCount := countNotBlank(p.LinkedIn, p.Twitter, p.Facebook, p.Instagram, p.YouTube, p.Website)

	steps := make([]Step, TotalSteps)
	for i := range steps {
		steps[i] = Step{ID: i + 1, Name: stepNames[i]}
	}

	// Step 1 has no predecessor and is therefore never pending.
	if hasBasicInfo && hasPhoto && hasContact {
		steps[0].Status = StatusCompleted
	} else {
		steps[0].Status = StatusInProgress
	}

	steps[1].Status = gate(hasShortURL, steps[0].Status != StatusPending)
	steps[2].Status = gate(socialCount >= 2, steps[1].Status != StatusPending)
	// Step 4 intentionally repeats the short-url predicate of step 2; the
	// distinct "card generated" signal never got its own field.
	steps[3].Status = gate(hasShortURL, steps[2].Status != StatusPending)

	// Step 5 has no completion signal at all: it unlocks once everything
	// before it is done and stays in progress forever.
	steps[4].Status = StatusPending
	if steps[0].Status == StatusCompleted && steps[1].Status == StatusCompleted &&
		steps[2].Status == StatusCompleted && steps[3].Status == StatusCompleted {
		steps[4].Status = StatusInProgress
	}

	completed := 0
	for _, s := range steps {
		if s.Status == StatusCompleted {
			completed++
		}
	}

	return Summary{
		Steps:              steps,
		CompletedCount:     completed,
		TotalSteps:         TotalSteps,
		ProgressPercentage: int(math.Round(100 * float64(completed) / TotalSteps)),
	}
}

// gate resolves a step status from its own predicate and whether the
// preceding step has started. A step is in progress as soon as its
// predecessor is at least in progress.
func gate(done, predecessorStarted bool) string {
	if done {
		return StatusCompleted
	}
	if predecessorStarted {
		return StatusInProgress
	}
	return StatusPending
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

func countNotBlank(values ...string) int {
	n := 0
	for _, v := range values {
		if notBlank(v) {
			n++
		}
	}
	return n
}
