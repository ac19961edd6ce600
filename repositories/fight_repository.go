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
	ErrFightNotFound       = errors.New("fight not found")
	ErrFightEventInvalid   = errors.New("fight references a missing event")
	ErrFightFighterInvalid = errors.New("fight references a missing fighter")
)

type FightRepository interface {
	Create(ctx context.Context, fight *models.Fight) error
	GetByID(ctx context.Context, id int) (*models.Fight, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Fight, error)
	CountWithoutResult(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	Update(ctx context.Context, fight *models.Fight) error
	Delete(ctx context.Context, id int) error
}

type postgresFightRepository struct {
	db *sql.DB
}

func NewPostgresFightRepository(db *sql.DB) FightRepository {
	return &postgresFightRepository{db: db}
}

const fightColumns = `id, event_id, fighter1_id, fighter2_id, card_type, weight_class, rounds, fight_order, created_at, updated_at`

func scanFight(row interface{ Scan(...interface{}) error }, f *models.Fight) error {
	return row.Scan(
		&f.ID, &f.EventID, &f.Fighter1ID, &f.Fighter2ID, &f.CardType,
		&f.WeightClass, &f.Rounds, &f.FightOrder, &f.CreatedAt, &f.UpdatedAt,
	)
}

func (r *postgresFightRepository) Create(ctx context.Context, fight *models.Fight) error {
	query := `
		INSERT INTO fights (event_id, fighter1_id, fighter2_id, card_type, weight_class, rounds, fight_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		fight.EventID, fight.Fighter1ID, fight.Fighter2ID, fight.CardType,
		fight.WeightClass, fight.Rounds, fight.FightOrder,
	).Scan(&fight.ID, &fight.CreatedAt, &fight.UpdatedAt)

	return r.handleFightError(err)
}

func (r *postgresFightRepository) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	query := `SELECT ` + fightColumns + ` FROM fights WHERE id = $1`

	fight := &models.Fight{}
	if err := scanFight(r.db.QueryRowContext(ctx, query, id), fight); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFightNotFound
		}
		return nil, fmt.Errorf("failed to scan fight by id %d: %w", id, err)
	}
	return fight, nil
}

func (r *postgresFightRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Fight, error) {
	query := `SELECT ` + fightColumns + ` FROM fights WHERE event_id = $1 ORDER BY fight_order ASC NULLS LAST, id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fights for event %d: %w", eventID, err)
	}
	defer rows.Close()

	fights := make([]*models.Fight, 0)
	for rows.Next() {
		var fight models.Fight
		if scanErr := scanFight(rows, &fight); scanErr != nil {
			return nil, fmt.Errorf("failed to scan fight row: %w", scanErr)
		}
		fights = append(fights, &fight)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during fight rows iteration: %w", err)
	}
	return fights, nil
}

// CountWithoutResult reports how many fights of an event still have no
// official result. Zero means the whole card is settled and the event's
// is_upcoming flag can be cleared.
func (r *postgresFightRepository) CountWithoutResult(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	query := `
		SELECT COUNT(f.id)
		FROM fights f
		LEFT JOIN fight_results fr ON fr.fight_id = f.id
		WHERE f.event_id = $1 AND fr.id IS NULL`

	var count int
	if err := exec.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unresolved fights for event %d: %w", eventID, err)
	}
	return count, nil
}

func (r *postgresFightRepository) Update(ctx context.Context, fight *models.Fight) error {
	query := `
		UPDATE fights SET
			event_id = $1, fighter1_id = $2, fighter2_id = $3, card_type = $4,
			weight_class = $5, rounds = $6, fight_order = $7, updated_at = NOW()
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		fight.EventID, fight.Fighter1ID, fight.Fighter2ID, fight.CardType,
		fight.WeightClass, fight.Rounds, fight.FightOrder, fight.ID,
	)
	if err != nil {
		return r.handleFightError(err)
	}
	return checkAffectedRows(result, ErrFightNotFound)
}

func (r *postgresFightRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fights WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFightNotFound)
}

func (r *postgresFightRepository) handleFightError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "fights_event_id_fkey":
			return ErrFightEventInvalid
		case "fights_fighter1_id_fkey", "fights_fighter2_id_fkey":
			return ErrFightFighterInvalid
		}
	}
	return err
}
