package settings

import (
	"database/sql"

	"github.com/JaimeStill/docket/pkg/repository"
)

// The settings table holds at most one row.
const settingsID = 1

const findQuery = `
	SELECT confidence_threshold, updated_at
	FROM global_settings
	WHERE id = $1`

const upsertQuery = `
	INSERT INTO global_settings(id, confidence_threshold)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE
	SET confidence_threshold = EXCLUDED.confidence_threshold, updated_at = now()
	RETURNING confidence_threshold, updated_at`

func scanSettings(s repository.Scanner) (Settings, error) {
	var (
		st        Settings
		threshold sql.NullFloat64
	)
	if err := s.Scan(&threshold, &st.UpdatedAt); err != nil {
		return Settings{}, err
	}
	if threshold.Valid {
		st.ConfidenceThreshold = &threshold.Float64
	}
	return st, nil
}
