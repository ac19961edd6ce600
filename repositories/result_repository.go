package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/almasbek/fightcard/models"
)

var (
	ErrResultNotFound = errors.New("fight result not found")
	// ErrResultConflict maps the fight_id unique constraint: a fight carries at
	// most one official result.
	ErrResultConflict     = errors.New("fight result already exists")
	ErrResultFightInvalid = errors.New("fight result references a missing fight")
)

type ResultRepository interface {
	// Create inserts the result row and its official scorecards/rounds on the
	// given executor (normally the orchestrator's transaction).
	Create(ctx context.Context, exec SQLExecutor, result *models.FightResult) error
	GetByFightID(ctx context.Context, exec SQLExecutor, fightID int) (*models.FightResult, error)
	// UpdateCore overwrites winner/method/finish fields and resets is_resolved.
	UpdateCore(ctx context.Context, exec SQLExecutor, result *models.FightResult) error
	// ReplaceOfficialScorecards deletes all judge cards of the result (rounds
	// cascade) and inserts the given ones.
	ReplaceOfficialScorecards(ctx context.Context, exec SQLExecutor, result *models.FightResult, cards []*models.OfficialScorecard) error
	SetResolved(ctx context.Context, exec SQLExecutor, id int, resolved bool) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.FightResult) error {
	query := `
		INSERT INTO fight_results (fight_id, winner, method, finish_round, finish_time, is_resolved)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, created_at, updated_at`

	err := exec.QueryRowContext(ctx, query,
		result.FightID, result.Winner, result.Method, result.FinishRound, result.FinishTime,
	).Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return r.handleResultError(err)
	}
	result.IsResolved = false

	return r.insertOfficialScorecards(ctx, exec, result, result.OfficialScorecards)
}

func (r *postgresResultRepository) GetByFightID(ctx context.Context, exec SQLExecutor, fightID int) (*models.FightResult, error) {
	query := `
		SELECT id, fight_id, winner, method, finish_round, finish_time, is_resolved, created_at, updated_at
		FROM fight_results
		WHERE fight_id = $1`

	exec = orDB(exec, r.db)
	result := &models.FightResult{}
	err := exec.QueryRowContext(ctx, query, fightID).Scan(
		&result.ID, &result.FightID, &result.Winner, &result.Method,
		&result.FinishRound, &result.FinishTime, &result.IsResolved,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to scan fight result for fight %d: %w", fightID, err)
	}

	if err := r.attachOfficialScorecards(ctx, exec, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresResultRepository) UpdateCore(ctx context.Context, exec SQLExecutor, result *models.FightResult) error {
	query := `
		UPDATE fight_results
		SET winner = $1, method = $2, finish_round = $3, finish_time = $4,
		    is_resolved = FALSE, updated_at = NOW()
		WHERE id = $5`

	res, err := exec.ExecContext(ctx, query,
		result.Winner, result.Method, result.FinishRound, result.FinishTime, result.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fight result %d: %w", result.ID, err)
	}
	result.IsResolved = false
	return checkAffectedRows(res, ErrResultNotFound)
}

func (r *postgresResultRepository) ReplaceOfficialScorecards(ctx context.Context, exec SQLExecutor, result *models.FightResult, cards []*models.OfficialScorecard) error {
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM official_scorecards WHERE fight_result_id = $1`, result.ID,
	); err != nil {
		return fmt.Errorf("failed to delete official scorecards of result %d: %w", result.ID, err)
	}

	if err := r.insertOfficialScorecards(ctx, exec, result, cards); err != nil {
		return err
	}
	result.OfficialScorecards = cards
	return nil
}

func (r *postgresResultRepository) SetResolved(ctx context.Context, exec SQLExecutor, id int, resolved bool) error {
	query := `UPDATE fight_results SET is_resolved = $1, updated_at = NOW() WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, resolved, id)
	if err != nil {
		return fmt.Errorf("failed to set resolved flag on fight result %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	// official_scorecards and official_round_scores go with it via FK cascade.
	result, err := exec.ExecContext(ctx, `DELETE FROM fight_results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) insertOfficialScorecards(ctx context.Context, exec SQLExecutor, result *models.FightResult, cards []*models.OfficialScorecard) error {
	cardQuery := `
		INSERT INTO official_scorecards (fight_result_id, judge_name)
		VALUES ($1, $2)
		RETURNING id, created_at`
	roundQuery := `
		INSERT INTO official_round_scores (official_scorecard_id, round_number, fighter1_score, fighter2_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	for _, card := range cards {
		card.FightResultID = result.ID
		if err := exec.QueryRowContext(ctx, cardQuery, result.ID, card.JudgeName).
			Scan(&card.ID, &card.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert official scorecard for judge %q: %w", card.JudgeName, err)
		}
		for _, rs := range card.RoundScores {
			rs.OfficialScorecardID = card.ID
			if err := exec.QueryRowContext(ctx, roundQuery,
				card.ID, rs.RoundNumber, rs.Fighter1Score, rs.Fighter2Score,
			).Scan(&rs.ID); err != nil {
				return fmt.Errorf("failed to insert official round %d for judge %q: %w", rs.RoundNumber, card.JudgeName, err)
			}
		}
	}
	return nil
}

func (r *postgresResultRepository) attachOfficialScorecards(ctx context.Context, exec SQLExecutor, result *models.FightResult) error {
	cardRows, err := exec.QueryContext(ctx, `
		SELECT id, fight_result_id, judge_name, created_at
		FROM official_scorecards
		WHERE fight_result_id = $1
		ORDER BY id ASC`, result.ID)
	if err != nil {
		return fmt.Errorf("failed to query official scorecards of result %d: %w", result.ID, err)
	}
	defer cardRows.Close()

	result.OfficialScorecards = make([]*models.OfficialScorecard, 0)
	byID := make(map[int]*models.OfficialScorecard)
	for cardRows.Next() {
		var card models.OfficialScorecard
		if scanErr := cardRows.Scan(&card.ID, &card.FightResultID, &card.JudgeName, &card.CreatedAt); scanErr != nil {
			return fmt.Errorf("failed to scan official scorecard row: %w", scanErr)
		}
		card.RoundScores = make([]*models.OfficialRoundScore, 0)
		result.OfficialScorecards = append(result.OfficialScorecards, &card)
		byID[card.ID] = &card
	}
	if err = cardRows.Err(); err != nil {
		return fmt.Errorf("error during official scorecard rows iteration: %w", err)
	}
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, int64(id))
	}
	roundRows, err := exec.QueryContext(ctx, `
		SELECT id, official_scorecard_id, round_number, fighter1_score, fighter2_score
		FROM official_round_scores
		WHERE official_scorecard_id = ANY($1)
		ORDER BY official_scorecard_id ASC, round_number ASC`, pq.Int64Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query official round scores: %w", err)
	}
	defer roundRows.Close()

	for roundRows.Next() {
		var rs models.OfficialRoundScore
		if scanErr := roundRows.Scan(&rs.ID, &rs.OfficialScorecardID, &rs.RoundNumber, &rs.Fighter1Score, &rs.Fighter2Score); scanErr != nil {
			return fmt.Errorf("failed to scan official round score row: %w", scanErr)
		}
		if card, ok := byID[rs.OfficialScorecardID]; ok {
			card.RoundScores = append(card.RoundScores, &rs)
		}
	}
	if err = roundRows.Err(); err != nil {
		return fmt.Errorf("error during official round score rows iteration: %w", err)
	}
	return nil
}

func (r *postgresResultRepository) handleResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "fight_results_fight_id_key":
			return ErrResultConflict
		case "fight_results_fight_id_fkey":
			return ErrResultFightInvalid
		}
	}
	return err
}
