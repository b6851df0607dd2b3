// Package ingest reads raw match statistics from CSV exports so historic
// seasons can be backfilled through the same rating pipeline as live
// submissions.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pitchside/refrank/internal/domain/model"
)

// Columns expected in the CSV header, in any order.
const (
	colMatchID             = "match_id"
	colRefereeID           = "referee_id"
	colLeague              = "league"
	colMatchDate           = "match_date"
	colCorrectDecisionsPct = "correct_decisions_pct"
	colClearErrorsCount    = "clear_errors_count"
	colVARReviewsCount     = "var_reviews_count"
	colVAROverturnsCount   = "var_overturns_count"
	colFoulManagementRaw   = "foul_management_raw"
	colBallInPlayPct       = "ball_in_play_pct"
	colMatchImportance     = "match_importance"
	colRivalryIntensity    = "rivalry_intensity"
	colAttendancePct       = "attendance_pressure_pct"
	colExpectedFoulFreq    = "expected_foul_frequency"
	colWeatherSeverity     = "weather_severity"
	colCardHistoryFactor   = "card_history_factor"
)

var requiredColumns = []string{
	colMatchID, colRefereeID, colLeague, colMatchDate,
	colCorrectDecisionsPct, colClearErrorsCount,
	colVARReviewsCount, colVAROverturnsCount,
	colFoulManagementRaw, colBallInPlayPct,
	colMatchImportance, colRivalryIntensity, colAttendancePct,
	colExpectedFoulFreq, colWeatherSeverity, colCardHistoryFactor,
}

// RowError describes one malformed CSV row. Malformed rows are skipped,
// never aborting the rest of the file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ReadMatches parses a CSV export into match statistics. The first record
// must be a header naming every required column. A broken header or
// unreadable stream is fatal; individual bad rows are reported in the
// returned RowError slice and skipped.
func ReadMatches(r io.Reader) ([]model.MatchStatistics, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading header: %w", ErrBadHeader, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrBadHeader, col)
		}
	}

	var (
		matches   []model.MatchStatistics
		rowErrors []RowError
		line      = 1
	)
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}

		stats, err := parseRow(record, index)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}
		matches = append(matches, stats)
	}

	return matches, rowErrors, nil
}

func parseRow(record []string, index map[string]int) (model.MatchStatistics, error) {
	field := func(col string) string { return record[index[col]] }

	date, err := time.Parse(time.RFC3339, field(colMatchDate))
	if err != nil {
		return model.MatchStatistics{}, fmt.Errorf("bad %s: %w", colMatchDate, err)
	}

	floats := make(map[string]float64)
	for _, col := range []string{
		colCorrectDecisionsPct, colFoulManagementRaw, colBallInPlayPct,
		colMatchImportance, colRivalryIntensity, colAttendancePct,
		colExpectedFoulFreq, colWeatherSeverity, colCardHistoryFactor,
	} {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil {
			return model.MatchStatistics{}, fmt.Errorf("bad %s: %w", col, err)
		}
		floats[col] = v
	}

	ints := make(map[string]int)
	for _, col := range []string{
		colClearErrorsCount, colVARReviewsCount, colVAROverturnsCount,
	} {
		v, err := strconv.Atoi(field(col))
		if err != nil {
			return model.MatchStatistics{}, fmt.Errorf("bad %s: %w", col, err)
		}
		ints[col] = v
	}

	return model.MatchStatistics{
		MatchID:             field(colMatchID),
		RefereeID:           field(colRefereeID),
		League:              field(colLeague),
		MatchDate:           date,
		CorrectDecisionsPct: floats[colCorrectDecisionsPct],
		ClearErrorsCount:    ints[colClearErrorsCount],
		VARReviewsCount:     ints[colVARReviewsCount],
		VAROverturnsCount:   ints[colVAROverturnsCount],
		FoulManagementRaw:   floats[colFoulManagementRaw],
		BallInPlayPct:       floats[colBallInPlayPct],
		Context: model.MatchContext{
			MatchImportance:       floats[colMatchImportance],
			RivalryIntensity:      floats[colRivalryIntensity],
			AttendancePressurePct: floats[colAttendancePct],
			ExpectedFoulFrequency: floats[colExpectedFoulFreq],
			WeatherSeverity:       floats[colWeatherSeverity],
			CardHistoryFactor:     floats[colCardHistoryFactor],
		},
	}, nil
}
