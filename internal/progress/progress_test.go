package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smartwave/internal/models"
)

func statuses(s Summary) []string {
	out := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		out[i] = step.Status
	}
	return out
}

func completeProfile() *models.Profile {
	return &models.Profile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Title:     "Engineer",
		Photo:     "photo.jpg",
		WorkEmail: "ada@example.com",
		ShortURL:  "ada-l",
		LinkedIn:  "https://linkedin.com/in/ada",
		Website:   "https://ada.example.com",
	}
}

func TestEvaluateNoProfile(t *testing.T) {
	s := Evaluate(nil)

	assert.Equal(t, []string{StatusInProgress, StatusPending, StatusPending, StatusPending, StatusPending}, statuses(s))
	assert.Equal(t, 0, s.CompletedCount)
	assert.Equal(t, 5, s.TotalSteps)
	assert.Equal(t, 0, s.ProgressPercentage)
}

func TestEvaluateSpecScenario(t *testing.T) {
	p := &models.Profile{
		FirstName: "A",
		LastName:  "B",
		Title:     "Eng",
		Photo:     "x.jpg",
		WorkEmail: "a@b.com",
		Twitter:   "t",
	}

	s := Evaluate(p)

	assert.Equal(t, []string{StatusCompleted, StatusInProgress, StatusInProgress, StatusInProgress, StatusPending}, statuses(s))
	assert.Equal(t, 20, s.ProgressPercentage)
}

func TestEvaluateStepOneNeverPending(t *testing.T) {
	cases := []*models.Profile{
		{},
		{FirstName: "A"},
		{FirstName: "A", LastName: "B", Title: "Eng"},
		{FirstName: "A", LastName: "B", Title: "Eng", Photo: "x.jpg"},
		{FirstName: "A", LastName: "B", Photo: "x.jpg", Mobile: "+1"},
		{FirstName: "  ", LastName: "B", Title: "T", Photo: "x", Mobile: "+1"},
	}

	for _, p := range cases {
		s := Evaluate(p)
		assert.Equal(t, StatusInProgress, s.Steps[0].Status)
	}
}

func TestEvaluateStepOneCompleted(t *testing.T) {
	contacts := []models.Profile{
		{WorkEmail: "w@x.com"},
		{PersonalEmail: "p@x.com"},
		{Mobile: "+100"},
		{WorkPhone: "+200"},
	}

	for _, contact := range contacts {
		p := contact
		p.FirstName = "A"
		p.LastName = "B"
		p.Title = "Eng"
		p.Photo = "x.jpg"

		s := Evaluate(&p)
		assert.Equal(t, StatusCompleted, s.Steps[0].Status)
	}
}

func TestEvaluateStepsUnlockBehindInProgress(t *testing.T) {
	// Step 1 is always at least in progress, so steps 2-4 unlock in a
	// chain even when nothing is filled in yet; only step 5 stays pending.
	s := Evaluate(&models.Profile{})

	assert.Equal(t, []string{StatusInProgress, StatusInProgress, StatusInProgress, StatusInProgress, StatusPending}, statuses(s))
	assert.Equal(t, 0, s.CompletedCount)
}

func TestEvaluateForwardDependency(t *testing.T) {
	// Short url set but step 1 unfinished: step 2 still completes on its
	// own predicate, step 3 unlocks behind it.
	p := &models.Profile{ShortURL: "slug"}
	s := Evaluate(p)

	assert.Equal(t, StatusInProgress, s.Steps[0].Status)
	assert.Equal(t, StatusCompleted, s.Steps[1].Status)
	assert.Equal(t, StatusInProgress, s.Steps[2].Status)
	assert.Equal(t, StatusCompleted, s.Steps[3].Status)
	assert.Equal(t, StatusPending, s.Steps[4].Status)
}

func TestEvaluateSocialLinksNeedTwo(t *testing.T) {
	base := completeProfile()
	base.LinkedIn = ""
	base.Website = ""

	s := Evaluate(base)
	require.Equal(t, StatusInProgress, s.Steps[2].Status)

	base.LinkedIn = "https://linkedin.com/in/ada"
	s = Evaluate(base)
	require.Equal(t, StatusInProgress, s.Steps[2].Status)

	base.Twitter = "  " // blanks do not count
	s = Evaluate(base)
	require.Equal(t, StatusInProgress, s.Steps[2].Status)

	base.Website = "https://ada.example.com"
	s = Evaluate(base)
	require.Equal(t, StatusCompleted, s.Steps[2].Status)
}

func TestEvaluateStepsTwoAndFourShareShortURLPredicate(t *testing.T) {
	with := completeProfile()
	without := completeProfile()
	without.ShortURL = ""

	sWith := Evaluate(with)
	sWithout := Evaluate(without)

	assert.Equal(t, sWith.Steps[1].Status, sWith.Steps[3].Status)
	assert.Equal(t, sWithout.Steps[1].Status, sWithout.Steps[3].Status)
}

func TestEvaluateStepFiveNeverCompleted(t *testing.T) {
	s := Evaluate(completeProfile())

	assert.Equal(t, 4, s.CompletedCount)
	assert.Equal(t, StatusInProgress, s.Steps[4].Status)
	assert.Equal(t, 80, s.ProgressPercentage)

	// Step 5 only unlocks when every prior step is completed.
	partial := completeProfile()
	partial.Photo = ""
	s = Evaluate(partial)
	assert.Equal(t, StatusPending, s.Steps[4].Status)
}

func TestEvaluateProgressPercentage(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
		want    int
	}{
		{"empty profile", &models.Profile{}, 0},
		{"spec scenario", &models.Profile{FirstName: "A", LastName: "B", Title: "Eng", Photo: "x.jpg", WorkEmail: "a@b.com", Twitter: "t"}, 20},
		{"all signals", completeProfile(), 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.profile).ProgressPercentage)
		})
	}
}
