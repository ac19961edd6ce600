package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/almasbek/fightcard/models"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventSlugConflict = errors.New("event slug or url already exists")
)

// EventOrganization is a read-side aggregation row for the admin panel.
type EventOrganization struct {
	Name       string `json:"name"`
	EventCount int    `json:"event_count"`
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	List(ctx context.Context, upcoming *bool, organization *string, limit, offset int) ([]*models.Event, error)
	ListOrganizations(ctx context.Context) ([]*EventOrganization, error)
	Update(ctx context.Context, event *models.Event) error
	SetUpcoming(ctx context.Context, exec SQLExecutor, id int, upcoming bool) error
	Delete(ctx context.Context, id int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, organization, event_date, location, url, slug, is_upcoming, scraped_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }, e *models.Event) error {
	return row.Scan(
		&e.ID, &e.Name, &e.Organization, &e.EventDate, &e.Location,
		&e.URL, &e.Slug, &e.IsUpcoming, &e.ScrapedAt, &e.UpdatedAt,
	)
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, organization, event_date, location, url, slug, is_upcoming)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, scraped_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Name, event.Organization, event.EventDate, event.Location,
		event.URL, event.Slug, event.IsUpcoming,
	).Scan(&event.ID, &event.ScrapedAt, &event.UpdatedAt)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event := &models.Event{}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, id), event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event by id %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`

	event := &models.Event{}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, slug), event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event by slug %q: %w", slug, err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context, upcoming *bool, organization *string, limit, offset int) ([]*models.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if upcoming != nil {
		queryBuilder.WriteString(" AND is_upcoming = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *upcoming)
		placeholderIndex++
	}
	if organization != nil && *organization != "" {
		queryBuilder.WriteString(" AND organization = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *organization)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY event_date DESC NULLS LAST, id DESC LIMIT $")
	queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
	queryBuilder.WriteString(" OFFSET $")
	queryBuilder.WriteString(strconv.Itoa(placeholderIndex + 1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		var event models.Event
		if scanErr := scanEvent(rows, &event); scanErr != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", scanErr)
		}
		events = append(events, &event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during event rows iteration: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) ListOrganizations(ctx context.Context) ([]*EventOrganization, error) {
	query := `
		SELECT organization, COUNT(id) AS event_count
		FROM events
		GROUP BY organization
		ORDER BY organization ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]*EventOrganization, 0)
	for rows.Next() {
		var org EventOrganization
		if scanErr := rows.Scan(&org.Name, &org.EventCount); scanErr != nil {
			return nil, fmt.Errorf("failed to scan organization row: %w", scanErr)
		}
		orgs = append(orgs, &org)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during organization rows iteration: %w", err)
	}
	return orgs, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events SET
			name = $1, organization = $2, event_date = $3, location = $4,
			url = $5, slug = $6, is_upcoming = $7, updated_at = NOW()
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		event.Name, event.Organization, event.EventDate, event.Location,
		event.URL, event.Slug, event.IsUpcoming, event.ID,
	)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) SetUpcoming(ctx context.Context, exec SQLExecutor, id int, upcoming bool) error {
	query := `UPDATE events SET is_upcoming = $1, updated_at = NOW() WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, upcoming, id)
	if err != nil {
		return fmt.Errorf("failed to set event %d upcoming flag: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "events_slug_key", "events_url_key":
			return ErrEventSlugConflict
		}
	}
	return err
}
