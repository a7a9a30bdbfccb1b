package units

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository accede a la tabla units_of_measure.
type Repository struct {
	database querier
}

// NewRepository crea un repositorio de unidades de medida.
func NewRepository(database querier) *Repository {
	return &Repository{database: database}
}

// List devuelve todas las unidades ordenadas por abreviatura.
func (repository *Repository) List(ctx context.Context) ([]Unit, error) {
	const query = `
		SELECT id, abbreviation, description
		FROM units_of_measure
		ORDER BY abbreviation ASC;
	`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]Unit, 0)
	for rows.Next() {
		var unit Unit
		if err := rows.Scan(&unit.ID, &unit.Abbreviation, &unit.Description); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return units, nil
}

// GetByID busca una unidad por id.
func (repository *Repository) GetByID(ctx context.Context, id int64) (Unit, error) {
	const query = `
		SELECT id, abbreviation, description
		FROM units_of_measure
		WHERE id = $1;
	`

	var unit Unit
	err := repository.database.QueryRow(ctx, query, id).Scan(&unit.ID, &unit.Abbreviation, &unit.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Unit{}, ErrorNotFound
		}
		return Unit{}, err
	}

	return unit, nil
}
