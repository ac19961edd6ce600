package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/almasbek/fightcard/models"
)

var ErrFighterNotFound = errors.New("fighter not found")

type FighterRepository interface {
	Create(ctx context.Context, fighter *models.Fighter) error
	GetByID(ctx context.Context, id int) (*models.Fighter, error)
	List(ctx context.Context, search *string, limit, offset int) ([]*models.Fighter, error)
	Update(ctx context.Context, fighter *models.Fighter) error
	UpdatePhotoURL(ctx context.Context, id int, photoURL *string) error
	Delete(ctx context.Context, id int) error
}

type postgresFighterRepository struct {
	db *sql.DB
}

func NewPostgresFighterRepository(db *sql.DB) FighterRepository {
	return &postgresFighterRepository{db: db}
}

const fighterColumns = `id, name, name_english, country, wins, losses, draws,
	age, height_cm, weight_kg, reach_cm, style, weight_class, ranking,
	wins_ko_tko, wins_submission, wins_decision,
	losses_ko_tko, losses_submission, losses_decision,
	profile_url, photo_url, created_at, updated_at`

func scanFighter(row interface{ Scan(...interface{}) error }, f *models.Fighter) error {
	return row.Scan(
		&f.ID, &f.Name, &f.NameEnglish, &f.Country, &f.Wins, &f.Losses, &f.Draws,
		&f.Age, &f.HeightCm, &f.WeightKg, &f.ReachCm, &f.Style, &f.WeightClass, &f.Ranking,
		&f.WinsKoTko, &f.WinsSubmission, &f.WinsDecision,
		&f.LossesKoTko, &f.LossesSubmission, &f.LossesDecision,
		&f.ProfileURL, &f.PhotoURL, &f.CreatedAt, &f.UpdatedAt,
	)
}

func (r *postgresFighterRepository) Create(ctx context.Context, fighter *models.Fighter) error {
	query := `
		INSERT INTO fighters
			(name, name_english, country, wins, losses, draws,
			 age, height_cm, weight_kg, reach_cm, style, weight_class, ranking,
			 wins_ko_tko, wins_submission, wins_decision,
			 losses_ko_tko, losses_submission, losses_decision,
			 profile_url, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		fighter.Name, fighter.NameEnglish, fighter.Country,
		fighter.Wins, fighter.Losses, fighter.Draws,
		fighter.Age, fighter.HeightCm, fighter.WeightKg, fighter.ReachCm,
		fighter.Style, fighter.WeightClass, fighter.Ranking,
		fighter.WinsKoTko, fighter.WinsSubmission, fighter.WinsDecision,
		fighter.LossesKoTko, fighter.LossesSubmission, fighter.LossesDecision,
		fighter.ProfileURL, fighter.PhotoURL,
	).Scan(&fighter.ID, &fighter.CreatedAt, &fighter.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert fighter: %w", err)
	}
	return nil
}

func (r *postgresFighterRepository) GetByID(ctx context.Context, id int) (*models.Fighter, error) {
	query := `SELECT ` + fighterColumns + ` FROM fighters WHERE id = $1`

	fighter := &models.Fighter{}
	err := scanFighter(r.db.QueryRowContext(ctx, query, id), fighter)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFighterNotFound
		}
		return nil, fmt.Errorf("failed to scan fighter by id %d: %w", id, err)
	}
	return fighter, nil
}

func (r *postgresFighterRepository) List(ctx context.Context, search *string, limit, offset int) ([]*models.Fighter, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + fighterColumns + ` FROM fighters`)

	args := []interface{}{}
	placeholderIndex := 1

	if search != nil && *search != "" {
		queryBuilder.WriteString(" WHERE name ILIKE $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		queryBuilder.WriteString(" OR name_english ILIKE $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, "%"+*search+"%")
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY name ASC LIMIT $")
	queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
	queryBuilder.WriteString(" OFFSET $")
	queryBuilder.WriteString(strconv.Itoa(placeholderIndex + 1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fighters: %w", err)
	}
	defer rows.Close()

	fighters := make([]*models.Fighter, 0)
	for rows.Next() {
		var fighter models.Fighter
		if scanErr := scanFighter(rows, &fighter); scanErr != nil {
			return nil, fmt.Errorf("failed to scan fighter row: %w", scanErr)
		}
		fighters = append(fighters, &fighter)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during fighter rows iteration: %w", err)
	}
	return fighters, nil
}

func (r *postgresFighterRepository) Update(ctx context.Context, fighter *models.Fighter) error {
	query := `
		UPDATE fighters SET
			name = $1, name_english = $2, country = $3, wins = $4, losses = $5, draws = $6,
			age = $7, height_cm = $8, weight_kg = $9, reach_cm = $10,
			style = $11, weight_class = $12, ranking = $13,
			wins_ko_tko = $14, wins_submission = $15, wins_decision = $16,
			losses_ko_tko = $17, losses_submission = $18, losses_decision = $19,
			profile_url = $20, updated_at = NOW()
		WHERE id = $21`

	result, err := r.db.ExecContext(ctx, query,
		fighter.Name, fighter.NameEnglish, fighter.Country,
		fighter.Wins, fighter.Losses, fighter.Draws,
		fighter.Age, fighter.HeightCm, fighter.WeightKg, fighter.ReachCm,
		fighter.Style, fighter.WeightClass, fighter.Ranking,
		fighter.WinsKoTko, fighter.WinsSubmission, fighter.WinsDecision,
		fighter.LossesKoTko, fighter.LossesSubmission, fighter.LossesDecision,
		fighter.ProfileURL, fighter.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fighter %d: %w", fighter.ID, err)
	}
	return checkAffectedRows(result, ErrFighterNotFound)
}

func (r *postgresFighterRepository) UpdatePhotoURL(ctx context.Context, id int, photoURL *string) error {
	query := `UPDATE fighters SET photo_url = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, photoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update fighter %d photo: %w", id, err)
	}
	return checkAffectedRows(result, ErrFighterNotFound)
}

func (r *postgresFighterRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fighters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFighterNotFound)
}
