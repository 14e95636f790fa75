package sqlite

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
)

// CaseHistory is a queryable copy of the case results saved in each slot.
type CaseHistory struct {
	readWrite *sqlx.DB
	readOnly  *sqlx.DB
	logger    *slog.Logger
}

func NewCaseHistory(db *Database, logger *slog.Logger) *CaseHistory {
	return &CaseHistory{
		readWrite: sqlx.NewDb(db.ReadWrite, "sqlite3"),
		readOnly:  sqlx.NewDb(db.ReadOnly, "sqlite3"),
		logger:    logger.With("source", "CaseHistory"),
	}
}

type caseResultRow struct {
	Slot                 string `db:"slot"`
	CaseID               string `db:"case_id"`
	ChapterID            string `db:"chapter_id"`
	Grade                string `db:"grade"`
	TimeSpentMs          int64  `db:"time_spent_ms"`
	QuestionsAsked       int    `db:"questions_asked"`
	HintsUsed            int    `db:"hints_used"`
	CorrectAccusation    bool   `db:"correct_accusation"`
	MinigamesCompleted   int    `db:"minigames_completed"`
	ExperienceGained     int    `db:"experience_gained"`
	AchievementsUnlocked string `db:"achievements_unlocked"`
}

// Append records result as the latest case closed in slot.
func (h *CaseHistory) Append(ctx context.Context, slot string, result models.CaseResult) error {
	unlocked := result.AchievementsUnlocked
	if unlocked == nil {
		unlocked = []string{}
	}
	achievementsJSON, err := json.Marshal(unlocked)
	if err != nil {
		return errors.Wrap(err, "marshal achievements")
	}
	row := caseResultRow{
		Slot:                 slot,
		CaseID:               result.CaseID,
		ChapterID:            result.ChapterID,
		Grade:                string(result.Grade),
		TimeSpentMs:          result.TimeSpent,
		QuestionsAsked:       result.QuestionsAsked,
		HintsUsed:            result.HintsUsed,
		CorrectAccusation:    result.CorrectAccusation,
		MinigamesCompleted:   result.MinigamesCompleted,
		ExperienceGained:     result.ExperienceGained,
		AchievementsUnlocked: string(achievementsJSON),
	}
	if _, err = h.readWrite.NamedExecContext(ctx, `INSERT INTO case_results (slot, case_id, chapter_id, grade,
                          time_spent_ms, questions_asked, hints_used, correct_accusation,
                          minigames_completed, experience_gained, achievements_unlocked)
VALUES (:slot, :case_id, :chapter_id, :grade, :time_spent_ms, :questions_asked, :hints_used, :correct_accusation,
        :minigames_completed, :experience_gained, :achievements_unlocked)`, row); err != nil {
		return errors.Wrap(err, "insert case result", slog.String("slot", slot), slog.String("caseId", result.CaseID))
	}
	return nil
}

// List returns the case results of slot in the order they were closed.
func (h *CaseHistory) List(ctx context.Context, slot string) ([]models.CaseResult, error) {
	var rows []caseResultRow
	if err := h.readOnly.SelectContext(ctx, &rows, `SELECT slot, case_id, chapter_id, grade, time_spent_ms,
       questions_asked, hints_used, correct_accusation, minigames_completed, experience_gained, achievements_unlocked
FROM case_results
WHERE slot = ?
ORDER BY id`, slot); err != nil {
		return nil, errors.Wrap(err, "select case results", slog.String("slot", slot))
	}

	results := make([]models.CaseResult, 0, len(rows))
	for _, row := range rows {
		var unlocked []string
		if err := json.Unmarshal([]byte(row.AchievementsUnlocked), &unlocked); err != nil {
			return nil, errors.Wrap(err, "unmarshal achievements", slog.String("caseId", row.CaseID))
		}
		results = append(results, models.CaseResult{
			CaseID:               row.CaseID,
			ChapterID:            row.ChapterID,
			Grade:                models.Grade(row.Grade),
			TimeSpent:            row.TimeSpentMs,
			QuestionsAsked:       row.QuestionsAsked,
			HintsUsed:            row.HintsUsed,
			CorrectAccusation:    row.CorrectAccusation,
			MinigamesCompleted:   row.MinigamesCompleted,
			ExperienceGained:     row.ExperienceGained,
			AchievementsUnlocked: unlocked,
		})
	}
	return results, nil
}

// GradeCount is the number of cases closed with a grade.
type GradeCount struct {
	Grade models.Grade `db:"grade"`
	Count int          `db:"count"`
}

// GradeDistribution counts the cases closed in slot per grade, best grade first.
func (h *CaseHistory) GradeDistribution(ctx context.Context, slot string) ([]GradeCount, error) {
	var counts []GradeCount
	if err := h.readOnly.SelectContext(ctx, &counts, `SELECT grade, COUNT(*) AS count
FROM case_results
WHERE slot = ?
GROUP BY grade
ORDER BY CASE grade WHEN 'S' THEN 0 WHEN 'A' THEN 1 WHEN 'B' THEN 2 WHEN 'C' THEN 3 WHEN 'D' THEN 4 ELSE 5 END`,
		slot); err != nil {
		return nil, errors.Wrap(err, "select grade distribution", slog.String("slot", slot))
	}
	return counts, nil
}
