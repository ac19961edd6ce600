package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/almasbek/fightcard/models"
)

var (
	ErrScorecardNotFound = errors.New("scorecard not found")
	// ErrScorecardConflict maps the (user_id, fight_id) unique constraint.
	ErrScorecardConflict     = errors.New("scorecard for this fight already exists")
	ErrScorecardFightInvalid = errors.New("scorecard references a missing fight")
	ErrScorecardUserInvalid  = errors.New("scorecard references a missing user")
	ErrRoundScoreNotFound    = errors.New("round score not found")
)

type ScorecardRepository interface {
	// Create inserts the scorecard and all its round scores atomically.
	Create(ctx context.Context, scorecard *models.Scorecard) error
	GetByUserAndFight(ctx context.Context, userID, fightID int) (*models.Scorecard, error)
	ListByFight(ctx context.Context, exec SQLExecutor, fightID int) ([]*models.Scorecard, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Scorecard, error)
	// UpdateResolution overwrites the scorecard aggregates; zero counts plus a
	// nil timestamp restore the unresolved state.
	UpdateResolution(ctx context.Context, exec SQLExecutor, id int, correctRounds, totalRounds int, resolvedAt *time.Time) error
	UpdateRoundCorrect(ctx context.Context, exec SQLExecutor, roundScoreID int, isCorrect *bool) error
}

type postgresScorecardRepository struct {
	db *sql.DB
}

func NewPostgresScorecardRepository(db *sql.DB) ScorecardRepository {
	return &postgresScorecardRepository{db: db}
}

func (r *postgresScorecardRepository) Create(ctx context.Context, scorecard *models.Scorecard) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin scorecard transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO scorecards (user_id, fight_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query, scorecard.UserID, scorecard.FightID).
		Scan(&scorecard.ID, &scorecard.CreatedAt)
	if err != nil {
		return r.handleScorecardError(err)
	}

	roundQuery := `
		INSERT INTO round_scores (scorecard_id, round_number, fighter1_score, fighter2_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	for _, rs := range scorecard.RoundScores {
		rs.ScorecardID = scorecard.ID
		if err = tx.QueryRowContext(ctx, roundQuery,
			scorecard.ID, rs.RoundNumber, rs.Fighter1Score, rs.Fighter2Score,
		).Scan(&rs.ID); err != nil {
			err = fmt.Errorf("failed to insert round %d of scorecard %d: %w", rs.RoundNumber, scorecard.ID, err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scorecard transaction: %w", err)
	}
	return nil
}

func (r *postgresScorecardRepository) GetByUserAndFight(ctx context.Context, userID, fightID int) (*models.Scorecard, error) {
	query := `
		SELECT id, user_id, fight_id, correct_rounds, total_rounds, resolved_at, created_at
		FROM scorecards
		WHERE user_id = $1 AND fight_id = $2`

	scorecard := &models.Scorecard{}
	err := r.db.QueryRowContext(ctx, query, userID, fightID).Scan(
		&scorecard.ID, &scorecard.UserID, &scorecard.FightID,
		&scorecard.CorrectRounds, &scorecard.TotalRounds, &scorecard.ResolvedAt, &scorecard.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScorecardNotFound
		}
		return nil, fmt.Errorf("failed to scan scorecard for user %d fight %d: %w", userID, fightID, err)
	}

	if err := r.attachRoundScores(ctx, r.db, []*models.Scorecard{scorecard}); err != nil {
		return nil, err
	}
	return scorecard, nil
}

func (r *postgresScorecardRepository) ListByFight(ctx context.Context, exec SQLExecutor, fightID int) ([]*models.Scorecard, error) {
	query := `
		SELECT id, user_id, fight_id, correct_rounds, total_rounds, resolved_at, created_at
		FROM scorecards
		WHERE fight_id = $1
		ORDER BY id ASC`

	rows, err := orDB(exec, r.db).QueryContext(ctx, query, fightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorecards for fight %d: %w", fightID, err)
	}
	scorecards, err := collectScorecards(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachRoundScores(ctx, orDB(exec, r.db), scorecards); err != nil {
		return nil, err
	}
	return scorecards, nil
}

func (r *postgresScorecardRepository) ListByUser(ctx context.Context, userID int) ([]*models.Scorecard, error) {
	query := `
		SELECT id, user_id, fight_id, correct_rounds, total_rounds, resolved_at, created_at
		FROM scorecards
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorecards for user %d: %w", userID, err)
	}
	scorecards, err := collectScorecards(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachRoundScores(ctx, r.db, scorecards); err != nil {
		return nil, err
	}
	return scorecards, nil
}

func (r *postgresScorecardRepository) UpdateResolution(ctx context.Context, exec SQLExecutor, id int, correctRounds, totalRounds int, resolvedAt *time.Time) error {
	query := `UPDATE scorecards SET correct_rounds = $1, total_rounds = $2, resolved_at = $3 WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, correctRounds, totalRounds, resolvedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update resolution for scorecard %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrScorecardNotFound)
}

func (r *postgresScorecardRepository) UpdateRoundCorrect(ctx context.Context, exec SQLExecutor, roundScoreID int, isCorrect *bool) error {
	query := `UPDATE round_scores SET is_correct = $1 WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, isCorrect, roundScoreID)
	if err != nil {
		return fmt.Errorf("failed to update round score %d: %w", roundScoreID, err)
	}
	return checkAffectedRows(result, ErrRoundScoreNotFound)
}

// attachRoundScores loads round scores for the given scorecards in one query
// and distributes them by scorecard id.
func (r *postgresScorecardRepository) attachRoundScores(ctx context.Context, exec SQLExecutor, scorecards []*models.Scorecard) error {
	if len(scorecards) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(scorecards))
	byID := make(map[int]*models.Scorecard, len(scorecards))
	for _, sc := range scorecards {
		ids = append(ids, int64(sc.ID))
		byID[sc.ID] = sc
		sc.RoundScores = make([]*models.RoundScore, 0)
	}

	query := `
		SELECT id, scorecard_id, round_number, fighter1_score, fighter2_score, is_correct
		FROM round_scores
		WHERE scorecard_id = ANY($1)
		ORDER BY scorecard_id ASC, round_number ASC`

	rows, err := exec.QueryContext(ctx, query, pq.Int64Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query round scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rs models.RoundScore
		if scanErr := rows.Scan(&rs.ID, &rs.ScorecardID, &rs.RoundNumber, &rs.Fighter1Score, &rs.Fighter2Score, &rs.IsCorrect); scanErr != nil {
			return fmt.Errorf("failed to scan round score row: %w", scanErr)
		}
		if sc, ok := byID[rs.ScorecardID]; ok {
			sc.RoundScores = append(sc.RoundScores, &rs)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error during round score rows iteration: %w", err)
	}
	return nil
}

func collectScorecards(rows *sql.Rows) ([]*models.Scorecard, error) {
	defer rows.Close()

	scorecards := make([]*models.Scorecard, 0)
	for rows.Next() {
		var sc models.Scorecard
		if scanErr := rows.Scan(
			&sc.ID, &sc.UserID, &sc.FightID,
			&sc.CorrectRounds, &sc.TotalRounds, &sc.ResolvedAt, &sc.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan scorecard row: %w", scanErr)
		}
		scorecards = append(scorecards, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during scorecard rows iteration: %w", err)
	}
	return scorecards, nil
}

func (r *postgresScorecardRepository) handleScorecardError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "uq_user_fight_scorecard":
			return ErrScorecardConflict
		case "scorecards_fight_id_fkey":
			return ErrScorecardFightInvalid
		case "scorecards_user_id_fkey":
			return ErrScorecardUserInvalid
		}
	}
	return err
}
