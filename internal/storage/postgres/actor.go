package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/gift"
)

// ErrActorNotFound is returned when an actor lookup yields no results.
var ErrActorNotFound = errors.New("actor not found")

// ErrActorExists is returned when creating an actor whose ID is already stored.
var ErrActorExists = errors.New("actor already exists")

// ActorRepository provides actor persistence operations. Trait maps, form
// cards, and owned gifts are stored as JSONB columns.
type ActorRepository struct {
	db *pgxpool.Pool
}

// NewActorRepository creates an ActorRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewActorRepository(db *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{db: db}
}

const actorColumns = `id, name, rage, frenzy_active, lost_the_wolf, active_form,
	abilities, skills, renown, balance, forms, visible_gift_types, items,
	created_at, updated_at`

// Create inserts a new actor and sets its timestamps.
//
// Precondition: a.ID must be set; a.Name must be non-empty.
// Postcondition: a.CreatedAt and a.UpdatedAt are set, or ErrActorExists on duplicate ID.
func (r *ActorRepository) Create(ctx context.Context, a *character.Actor) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO actors (`+actorColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
		RETURNING created_at, updated_at`,
		actorArgs(a)...,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrActorExists
		}
		return fmt.Errorf("inserting actor: %w", err)
	}
	return nil
}

// Save writes the full actor state, inserting the row if it does not exist.
//
// Precondition: a.ID must be set.
// Postcondition: a.UpdatedAt reflects the write.
func (r *ActorRepository) Save(ctx context.Context, a *character.Actor) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO actors (`+actorColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			rage = EXCLUDED.rage,
			frenzy_active = EXCLUDED.frenzy_active,
			lost_the_wolf = EXCLUDED.lost_the_wolf,
			active_form = EXCLUDED.active_form,
			abilities = EXCLUDED.abilities,
			skills = EXCLUDED.skills,
			renown = EXCLUDED.renown,
			balance = EXCLUDED.balance,
			forms = EXCLUDED.forms,
			visible_gift_types = EXCLUDED.visible_gift_types,
			items = EXCLUDED.items,
			updated_at = NOW()
		RETURNING created_at, updated_at`,
		actorArgs(a)...,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving actor: %w", err)
	}
	return nil
}

// Get retrieves an actor by ID.
//
// Postcondition: Returns the Actor or ErrActorNotFound.
func (r *ActorRepository) Get(ctx context.Context, id uuid.UUID) (*character.Actor, error) {
	a, err := scanActor(r.db.QueryRow(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, fmt.Errorf("querying actor: %w", err)
	}
	return a, nil
}

// List returns all actors ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ActorRepository) List(ctx context.Context) ([]*character.Actor, error) {
	rows, err := r.db.Query(ctx, `SELECT `+actorColumns+` FROM actors ORDER BY name ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	defer rows.Close()

	actors := make([]*character.Actor, 0)
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning actor row: %w", err)
		}
		actors = append(actors, a)
	}
	return actors, rows.Err()
}

// Delete removes the actor with id.
//
// Postcondition: Returns nil on success, ErrActorNotFound if no row was deleted.
func (r *ActorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting actor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrActorNotFound
	}
	return nil
}

func actorArgs(a *character.Actor) []any {
	return []any{
		a.ID, a.Name, a.Rage, a.FrenzyActive, a.LostTheWolf, a.ActiveForm.String(),
		nonNilMap(a.Abilities), nonNilMap(a.Skills), nonNilMap(a.Renown),
		a.Balance, nonNilForms(a.Forms),
		nonNilSlice(a.VisibleGiftTypes), nonNilSlice(a.Items),
	}
}

func scanActor(row pgx.Row) (*character.Actor, error) {
	var (
		a    character.Actor
		form string
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.Rage, &a.FrenzyActive, &a.LostTheWolf, &form,
		&a.Abilities, &a.Skills, &a.Renown, &a.Balance, &a.Forms,
		&a.VisibleGiftTypes, &a.Items,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ActiveForm = character.ParseForm(form)
	return &a, nil
}

func nonNilMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func nonNilForms(m map[character.Form]character.FormInfo) map[character.Form]character.FormInfo {
	if m == nil {
		return map[character.Form]character.FormInfo{}
	}
	return m
}

func nonNilSlice[T string | gift.Gift](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
