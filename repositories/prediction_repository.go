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
	ErrPredictionNotFound = errors.New("prediction not found")
	// ErrPredictionConflict maps the (user_id, fight_id) unique constraint:
	// predictions are immutable, a second submission is rejected, never merged.
	ErrPredictionConflict     = errors.New("prediction for this fight already exists")
	ErrPredictionFightInvalid = errors.New("prediction references a missing fight")
	ErrPredictionUserInvalid  = errors.New("prediction references a missing user")
)

type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByUserAndFight(ctx context.Context, userID, fightID int) (*models.Prediction, error)
	ListByFight(ctx context.Context, exec SQLExecutor, fightID int) ([]*models.Prediction, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Prediction, error)
	// UpdateResolution overwrites only the resolution fields; pass nils to
	// restore the unresolved state.
	UpdateResolution(ctx context.Context, exec SQLExecutor, id int, isCorrect *bool, resolvedAt *time.Time) error
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

const predictionColumns = `id, user_id, fight_id, predicted_winner, win_method, confidence, is_correct, resolved_at, created_at`

func scanPrediction(row interface{ Scan(...interface{}) error }, p *models.Prediction) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.FightID, &p.PredictedWinner, &p.WinMethod,
		&p.Confidence, &p.IsCorrect, &p.ResolvedAt, &p.CreatedAt,
	)
}

func (r *postgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (user_id, fight_id, predicted_winner, win_method, confidence)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		prediction.UserID, prediction.FightID, prediction.PredictedWinner,
		prediction.WinMethod, prediction.Confidence,
	).Scan(&prediction.ID, &prediction.CreatedAt)

	return r.handlePredictionError(err)
}

func (r *postgresPredictionRepository) GetByUserAndFight(ctx context.Context, userID, fightID int) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE user_id = $1 AND fight_id = $2`

	prediction := &models.Prediction{}
	if err := scanPrediction(r.db.QueryRowContext(ctx, query, userID, fightID), prediction); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to scan prediction for user %d fight %d: %w", userID, fightID, err)
	}
	return prediction, nil
}

func (r *postgresPredictionRepository) ListByFight(ctx context.Context, exec SQLExecutor, fightID int) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE fight_id = $1 ORDER BY id ASC`

	rows, err := orDB(exec, r.db).QueryContext(ctx, query, fightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions for fight %d: %w", fightID, err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func (r *postgresPredictionRepository) ListByUser(ctx context.Context, userID int) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func (r *postgresPredictionRepository) UpdateResolution(ctx context.Context, exec SQLExecutor, id int, isCorrect *bool, resolvedAt *time.Time) error {
	query := `UPDATE predictions SET is_correct = $1, resolved_at = $2 WHERE id = $3`

	result, err := exec.ExecContext(ctx, query, isCorrect, resolvedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update resolution for prediction %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPredictionNotFound)
}

func collectPredictions(rows *sql.Rows) ([]*models.Prediction, error) {
	predictions := make([]*models.Prediction, 0)
	for rows.Next() {
		var prediction models.Prediction
		if scanErr := scanPrediction(rows, &prediction); scanErr != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", scanErr)
		}
		predictions = append(predictions, &prediction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during prediction rows iteration: %w", err)
	}
	return predictions, nil
}

func (r *postgresPredictionRepository) handlePredictionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "uq_user_fight_prediction":
			return ErrPredictionConflict
		case "predictions_fight_id_fkey":
			return ErrPredictionFightInvalid
		case "predictions_user_id_fkey":
			return ErrPredictionUserInvalid
		}
	}
	return err
}
