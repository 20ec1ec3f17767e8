package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviato-app/aviato-match/internal/domain/user"
)

func ids(users []user.User) []user.ID {
	out := make([]user.ID, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

var fiveTags = []string{"Hiking", "Music", "Coffee", "Travel", "Gaming"}

func TestRank_BrowseIsStableByApproval(t *testing.T) {
	users := []user.User{
		{ID: "A", ApprovalRating: 3},
		{ID: "B", ApprovalRating: 10},
		{ID: "C", ApprovalRating: 10},
		{ID: "D", ApprovalRating: -2},
	}

	got := Rank(users, "nobody", []string{"Hiking"}, nil)

	assert.Equal(t, []user.ID{"B", "C", "A", "D"}, ids(got))
	for _, u := range got {
		assert.False(t, u.HasMatchPercentage())
	}
}

func TestRank_ExcludesActingUser(t *testing.T) {
	users := []user.User{
		{ID: "me", ApprovalRating: 100},
		{ID: "A", ApprovalRating: 1},
		{ID: "B", ApprovalRating: 2},
	}

	browse := Rank(users, "me", nil, nil)
	assert.NotContains(t, ids(browse), user.ID("me"))
	assert.Len(t, browse, 2)

	match := Rank(users, "me", fiveTags, nil)
	assert.NotContains(t, ids(match), user.ID("me"))
	assert.Len(t, match, 2)
}

func TestRank_MatchModeUsesScorer(t *testing.T) {
	users := []user.User{
		{ID: "A", ApprovalRating: 50},
		{ID: "B", ApprovalRating: 1},
		{ID: "C", ApprovalRating: 2},
		{ID: "D", ApprovalRating: 3},
	}
	scores := map[user.ID]Percentage{"A": 10, "B": 90, "C": 60, "D": 90}
	scorer := ScorerFunc(func(u user.User, _ []string) Percentage { return scores[u.ID] })

	got := Rank(users, "", fiveTags, scorer)

	assert.Equal(t, []user.ID{"B", "D", "C", "A"}, ids(got))
	require.True(t, got[0].HasMatchPercentage())
	assert.Equal(t, 90, *got[0].MatchPercentage)
	assert.Equal(t, 10, *got[3].MatchPercentage)
}

func TestRank_ThresholdBoundary(t *testing.T) {
	assert.Equal(t, ModeBrowse, ModeFor(0))
	assert.Equal(t, ModeBrowse, ModeFor(MatchThreshold-1))
	assert.Equal(t, ModeMatch, ModeFor(MatchThreshold))
	assert.Equal(t, ModeMatch, ModeFor(20))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	users := []user.User{
		{ID: "A", ApprovalRating: 1, Interests: []string{"Hiking"}},
		{ID: "B", ApprovalRating: 2},
	}

	_ = Rank(users, "", fiveTags, nil)
	_ = Rank(users, "", nil, nil)

	assert.Equal(t, user.ID("A"), users[0].ID)
	assert.False(t, users[0].HasMatchPercentage())
	assert.False(t, users[1].HasMatchPercentage())
}

func TestRank_ClampsScorerOutput(t *testing.T) {
	users := []user.User{{ID: "A"}, {ID: "B"}}
	scorer := ScorerFunc(func(u user.User, _ []string) Percentage {
		if u.ID == "A" {
			return -20
		}
		return 250
	})

	got := Rank(users, "", fiveTags, scorer)

	assert.Equal(t, 100, *got[0].MatchPercentage)
	assert.Equal(t, 0, *got[1].MatchPercentage)
}

func TestInterestOverlapScorer(t *testing.T) {
	s := InterestOverlapScorer{}
	u := user.User{Interests: []string{"hiking", "Music", "Board Games"}}

	assert.Equal(t, Percentage(40), s.Score(u, fiveTags))
	assert.Equal(t, Percentage(100), s.Score(u, []string{"HIKING"}))
	assert.Equal(t, Percentage(0), s.Score(u, nil))
	assert.Equal(t, Percentage(33), s.Score(u, []string{"Hiking", "Coffee", "Travel"}))
}

func TestPercentage_Quality(t *testing.T) {
	assert.Equal(t, QualityExcellent, Percentage(80).Quality())
	assert.Equal(t, QualityGood, Percentage(79).Quality())
	assert.Equal(t, QualityFair, Percentage(40).Quality())
	assert.Equal(t, QualityPoor, Percentage(20).Quality())
	assert.Equal(t, QualityNone, Percentage(19).Quality())
	assert.False(t, Percentage(101).IsValid())
}
