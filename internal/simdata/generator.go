package simdata

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/pitchside/refrank/pkg/logger"
)

const randomFloatDivisor = 1000000

// Referee quality profiles. A referee keeps one profile for the whole
// run so the resulting leaderboard has a believable spread.
const (
	profileElite = iota
	profileStrong
	profileAverage
	profileWeak
	profileCount
)

var leagues = []string{"premier", "segunda", "national"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// referee pairs an identity with the quality profile that shapes its stats.
type referee struct {
	id      string
	league  string
	profile int
}

// accuracyFor maps a profile to a correct-decisions fraction.
func accuracyFor(profile int) float64 {
	switch profile {
	case profileElite:
		return 0.92 + getRandomFloat()*0.07
	case profileStrong:
		return 0.85 + getRandomFloat()*0.08
	case profileWeak:
		return 0.55 + getRandomFloat()*0.15
	default:
		return 0.72 + getRandomFloat()*0.13
	}
}

// generateMatches creates synthetic matches across a fixed referee pool.
func generateMatches(ctx context.Context, config *Config, stats *Stats) []Match {
	logger.Get().Info(ctx, "generating matches",
		logger.Int("numMatches", config.NumMatches),
		logger.Int("referees", config.Referees),
	)

	pool := make([]referee, config.Referees)
	for i := range pool {
		pool[i] = referee{
			id:      "ref-" + uuid.New().String(),
			league:  leagues[randomInt(len(leagues))],
			profile: randomInt(profileCount),
		}
	}

	season := time.Date(2026, time.August, 1, 18, 0, 0, 0, time.UTC)
	matches := make([]Match, config.NumMatches)
	for i := range matches {
		ref := pool[randomInt(len(pool))]
		reviews := randomInt(6)
		overturns := 0
		if reviews > 0 {
			overturns = randomInt(reviews + 1)
		}
		expectedFouls := 0.3 + getRandomFloat()*0.5

		matches[i] = Match{
			MatchID:             uuid.New().String(),
			RefereeID:           ref.id,
			League:              ref.league,
			MatchDate:           season.AddDate(0, 0, i%120).Format(time.RFC3339),
			CorrectDecisionsPct: accuracyFor(ref.profile),
			ClearErrorsCount:    randomInt(4),
			VARReviewsCount:     reviews,
			VAROverturnsCount:   overturns,
			FoulManagementRaw:   clamp01(expectedFouls + (getRandomFloat()-0.5)*0.3),
			BallInPlayPct:       0.45 + getRandomFloat()*0.3,
			Context: MatchContext{
				MatchImportance:       getRandomFloat(),
				RivalryIntensity:      getRandomFloat(),
				AttendancePressurePct: getRandomFloat(),
				ExpectedFoulFrequency: expectedFouls,
				WeatherSeverity:       getRandomFloat() * 0.6,
				CardHistoryFactor:     getRandomFloat(),
			},
		}
	}

	stats.MatchesGenerated = len(matches)
	return matches
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
