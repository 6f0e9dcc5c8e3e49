package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebamarsal/truco-tournament/models"
)

// fourTeamBracket is two seeded semifinals, an empty final and an empty
// third-place match.
func fourTeamBracket() []models.BracketMatch {
	t10, t20, t30, t40 := 10, 20, 30, 40
	return []models.BracketMatch{
		{ID: 1, TournamentID: 1, RoundIndex: 1, MatchIndex: 0, BracketType: models.BracketMain, HomeTeamID: &t10, AwayTeamID: &t20},
		{ID: 2, TournamentID: 1, RoundIndex: 1, MatchIndex: 1, BracketType: models.BracketMain, HomeTeamID: &t30, AwayTeamID: &t40},
		{ID: 3, TournamentID: 1, RoundIndex: 2, MatchIndex: 0, BracketType: models.BracketMain},
		{ID: 4, TournamentID: 1, RoundIndex: 1, MatchIndex: 0, BracketType: models.BracketThirdPlace},
	}
}

func TestRecordGroupResult(t *testing.T) {
	matches := []models.Match{
		pendingMatch(1, 1, 10, 20),
		pendingMatch(2, 1, 30, 40),
	}

	t.Run("records the score", func(t *testing.T) {
		m, err := RecordGroupResult(matches, 1, 30, 25)
		require.NoError(t, err)
		assert.Equal(t, 30, *m.HomeScore)
		assert.Equal(t, 25, *m.AwayScore)
	})

	t.Run("re-recording overwrites", func(t *testing.T) {
		m, err := RecordGroupResult(matches, 1, 18, 30)
		require.NoError(t, err)
		assert.Equal(t, 18, *m.HomeScore)
		assert.Equal(t, 30, *m.AwayScore)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, err := RecordGroupResult(matches, 99, 30, 20)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("negative score", func(t *testing.T) {
		_, err := RecordGroupResult(matches, 2, -1, 20)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})

	t.Run("tie", func(t *testing.T) {
		_, err := RecordGroupResult(matches, 2, 15, 15)
		assert.ErrorIs(t, err, ErrTiedScore)
		assert.Nil(t, matches[1].HomeScore)
	})
}

func TestRecordBracketResult(t *testing.T) {
	t.Run("winner propagates to the final", func(t *testing.T) {
		bracket := fourTeamBracket()
		m, err := RecordBracketResult(bracket, 1, 30, 20)
		require.NoError(t, err)
		require.NotNil(t, m.WinnerTeamID)
		assert.Equal(t, 10, *m.WinnerTeamID)

		final := mainMatch(bracket, 2, 0)
		require.NotNil(t, final.HomeTeamID)
		assert.Equal(t, 10, *final.HomeTeamID)
		assert.Nil(t, final.AwayTeamID)
	})

	t.Run("away winner lands on the away side", func(t *testing.T) {
		bracket := fourTeamBracket()
		m, err := RecordBracketResult(bracket, 2, 20, 30)
		require.NoError(t, err)
		assert.Equal(t, 40, *m.WinnerTeamID)

		final := mainMatch(bracket, 2, 0)
		require.NotNil(t, final.AwayTeamID)
		assert.Equal(t, 40, *final.AwayTeamID)
	})

	t.Run("both semifinal losers fill the third-place match", func(t *testing.T) {
		bracket := fourTeamBracket()
		_, err := RecordBracketResult(bracket, 1, 30, 20)
		require.NoError(t, err)

		third := thirdPlaceMatch(bracket)
		assert.Nil(t, third.HomeTeamID, "one semifinal is not enough")

		_, err = RecordBracketResult(bracket, 2, 20, 30)
		require.NoError(t, err)
		require.NotNil(t, third.HomeTeamID)
		require.NotNil(t, third.AwayTeamID)
		assert.Equal(t, 20, *third.HomeTeamID)
		assert.Equal(t, 30, *third.AwayTeamID)
	})

	t.Run("third-place result does not propagate", func(t *testing.T) {
		bracket := fourTeamBracket()
		_, err := RecordBracketResult(bracket, 1, 30, 20)
		require.NoError(t, err)
		_, err = RecordBracketResult(bracket, 2, 20, 30)
		require.NoError(t, err)

		m, err := RecordBracketResult(bracket, 4, 30, 10)
		require.NoError(t, err)
		assert.Equal(t, 20, *m.WinnerTeamID)

		final := mainMatch(bracket, 2, 0)
		assert.Equal(t, 10, *final.HomeTeamID)
		assert.Equal(t, 40, *final.AwayTeamID)
		assert.Nil(t, final.WinnerTeamID)
	})

	t.Run("final decides the champion", func(t *testing.T) {
		bracket := fourTeamBracket()
		_, err := RecordBracketResult(bracket, 1, 30, 20)
		require.NoError(t, err)
		_, err = RecordBracketResult(bracket, 2, 20, 30)
		require.NoError(t, err)

		assert.Nil(t, Champion(bracket))

		_, err = RecordBracketResult(bracket, 3, 25, 30)
		require.NoError(t, err)
		champion := Champion(bracket)
		require.NotNil(t, champion)
		assert.Equal(t, 40, *champion)
	})

	t.Run("decided match stays decided", func(t *testing.T) {
		bracket := fourTeamBracket()
		_, err := RecordBracketResult(bracket, 1, 30, 20)
		require.NoError(t, err)
		_, err = RecordBracketResult(bracket, 1, 20, 30)
		assert.ErrorIs(t, err, ErrMatchAlreadyDecided)
	})

	t.Run("match without both teams is not ready", func(t *testing.T) {
		bracket := fourTeamBracket()
		_, err := RecordBracketResult(bracket, 3, 30, 20)
		assert.ErrorIs(t, err, ErrMatchNotReady)
	})

	t.Run("tie is rejected before anything is written", func(t *testing.T) {
		bracket := fourTeamBracket()
		_, err := RecordBracketResult(bracket, 1, 15, 15)
		assert.ErrorIs(t, err, ErrTiedScore)
		assert.Nil(t, bracket[0].HomeScore)
		assert.Nil(t, bracket[0].WinnerTeamID)
	})

	t.Run("negative score", func(t *testing.T) {
		bracket := fourTeamBracket()
		_, err := RecordBracketResult(bracket, 1, 30, -2)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, err := RecordBracketResult(fourTeamBracket(), 99, 30, 20)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("propagation can trigger a cascading bye", func(t *testing.T) {
		// Three entrants in a four-slot bracket: the second semifinal is a
		// bye already advanced, recording the first pushes its winner into a
		// complete final.
		t10, t20, t30 := 10, 20, 30
		bracket := []models.BracketMatch{
			{ID: 1, TournamentID: 1, RoundIndex: 1, MatchIndex: 0, BracketType: models.BracketMain, HomeTeamID: &t10, AwayTeamID: &t20},
			{ID: 2, TournamentID: 1, RoundIndex: 1, MatchIndex: 1, BracketType: models.BracketMain, HomeTeamID: &t30},
			{ID: 3, TournamentID: 1, RoundIndex: 2, MatchIndex: 0, BracketType: models.BracketMain},
		}
		AdvanceByes(bracket)
		require.NotNil(t, bracket[1].WinnerTeamID)

		_, err := RecordBracketResult(bracket, 1, 30, 28)
		require.NoError(t, err)
		final := mainMatch(bracket, 2, 0)
		assert.Equal(t, 10, *final.HomeTeamID)
		assert.Equal(t, 30, *final.AwayTeamID)
	})
}

func TestAdvanceByes(t *testing.T) {
	t.Run("double bye cascades to the final", func(t *testing.T) {
		t1, t2, t3, t4, t5 := 1, 2, 3, 4, 5
		bracket := []models.BracketMatch{
			{ID: 1, RoundIndex: 1, MatchIndex: 0, BracketType: models.BracketMain, HomeTeamID: &t1, AwayTeamID: &t2},
			{ID: 2, RoundIndex: 1, MatchIndex: 1, BracketType: models.BracketMain, HomeTeamID: &t3, AwayTeamID: &t4},
			{ID: 3, RoundIndex: 1, MatchIndex: 2, BracketType: models.BracketMain, HomeTeamID: &t5},
			{ID: 4, RoundIndex: 1, MatchIndex: 3, BracketType: models.BracketMain},
			{ID: 5, RoundIndex: 2, MatchIndex: 0, BracketType: models.BracketMain},
			{ID: 6, RoundIndex: 2, MatchIndex: 1, BracketType: models.BracketMain},
			{ID: 7, RoundIndex: 3, MatchIndex: 0, BracketType: models.BracketMain},
			{ID: 8, RoundIndex: 2, MatchIndex: 0, BracketType: models.BracketThirdPlace},
		}
		AdvanceByes(bracket)

		require.NotNil(t, bracket[2].WinnerTeamID)
		assert.Equal(t, 5, *bracket[2].WinnerTeamID)

		semi := mainMatch(bracket, 2, 1)
		require.NotNil(t, semi.WinnerTeamID)
		assert.Equal(t, 5, *semi.WinnerTeamID)

		final := mainMatch(bracket, 3, 0)
		require.NotNil(t, final.AwayTeamID)
		assert.Equal(t, 5, *final.AwayTeamID)
	})

	t.Run("a live feeder blocks the advance", func(t *testing.T) {
		bracket := fourTeamBracket()
		AdvanceByes(bracket)
		for _, m := range bracket {
			assert.Nil(t, m.WinnerTeamID)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t1, t2 := 1, 2
		bracket := []models.BracketMatch{
			{ID: 1, RoundIndex: 1, MatchIndex: 0, BracketType: models.BracketMain, HomeTeamID: &t1, AwayTeamID: &t2},
			{ID: 2, RoundIndex: 1, MatchIndex: 1, BracketType: models.BracketMain},
			{ID: 3, RoundIndex: 2, MatchIndex: 0, BracketType: models.BracketMain},
		}
		AdvanceByes(bracket)
		snapshot := append([]models.BracketMatch(nil), bracket...)
		AdvanceByes(bracket)
		assert.Equal(t, snapshot, bracket)
	})
}
