package products

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func productRow(product Product) []any {
	var temperature, warehouse any
	if product.IdealTemperature != nil {
		temperature = *product.IdealTemperature
	}
	if product.WarehouseID != nil {
		warehouse = *product.WarehouseID
	}
	return []any{
		product.ID, product.Name, product.Description, product.Barcode, temperature,
		product.StockMax, product.StockMin, product.ReorderPoint, warehouse, product.UnitOfMeasureID,
	}
}

func sampleProduct() Product {
	temperature := 4.5
	warehouse := int64(3)
	return Product{
		ID:               7,
		Name:             "Mouse",
		Description:      "Mouse óptico",
		Barcode:          "7891234567890",
		IdealTemperature: &temperature,
		StockMax:         10,
		StockMin:         2,
		ReorderPoint:     5,
		WarehouseID:      &warehouse,
		UnitOfMeasureID:  1,
	}
}

func TestRepository_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := newServiceItem("Instalação", "Instalação de equipamento")
		service.ID = 8
		database := &fakeDB{
			queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
				return &fakeRows{rows: [][]any{productRow(sampleProduct()), productRow(service)}}, nil
			},
		}
		repository := NewRepository(database)

		products, err := repository.List(context.Background())

		require.NoError(t, err)
		require.Equal(t, []Product{sampleProduct(), service}, products)
		require.Contains(t, normalizeSQL(database.lastQuery), "FROM products ORDER BY id")
		require.Nil(t, products[1].IdealTemperature)
		require.Nil(t, products[1].WarehouseID)
	})

	t.Run("empty returns empty slice", func(t *testing.T) {
		database := &fakeDB{
			queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
				return &fakeRows{}, nil
			},
		}

		products, err := NewRepository(database).List(context.Background())

		require.NoError(t, err)
		require.NotNil(t, products)
		require.Empty(t, products)
	})

	t.Run("scan error", func(t *testing.T) {
		scanErr := errors.New("scan failed")
		rows := &fakeRows{rows: [][]any{productRow(sampleProduct())}, scanErr: scanErr}
		database := &fakeDB{
			queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
				return rows, nil
			},
		}

		_, err := NewRepository(database).List(context.Background())

		require.ErrorIs(t, err, scanErr)
		require.True(t, rows.closed)
	})
}

func TestRepository_ListDetailed(t *testing.T) {
	rows := &fakeRows{rows: [][]any{
		{int64(1), "Mouse", "Mouse óptico", "789", 4.5, 2, 10, 5, "UN"},
		{int64(2), "Cabo", "Cabo de rede", "790", nil, 1, 20, 3, "M"},
	}}
	database := &fakeDB{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return rows, nil
		},
	}

	details, err := NewRepository(database).ListDetailed(context.Background())

	require.NoError(t, err)
	require.Len(t, details, 2)
	require.Equal(t, "UN", details[0].UnitAbbreviation)
	require.Equal(t, 4.5, *details[0].IdealTemperature)
	require.Equal(t, 2, details[0].StockMin)
	require.Equal(t, 10, details[0].StockMax)
	require.Nil(t, details[1].IdealTemperature)
	require.Equal(t, "M", details[1].UnitAbbreviation)

	query := normalizeSQL(database.lastQuery)
	require.Contains(t, query, "JOIN units_of_measure u ON u.id = p.unit_of_measure_id")
	require.Contains(t, query, "ORDER BY p.id ASC")
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{values: productRow(sampleProduct())}
			},
		}

		product, err := NewRepository(database).GetByID(context.Background(), 7)

		require.NoError(t, err)
		require.Equal(t, sampleProduct(), product)
		require.Equal(t, []any{int64(7)}, database.lastArgs)
		require.NotContains(t, database.lastQuery, "FOR UPDATE")
	})

	t.Run("not found", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{err: pgx.ErrNoRows}
			},
		}

		_, err := NewRepository(database).GetByID(context.Background(), 7)

		require.ErrorIs(t, err, ErrorNotFound)
	})
}

func TestRepository_LockByID(t *testing.T) {
	database := &fakeDB{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{err: pgx.ErrNoRows}
		},
	}

	_, err := NewRepository(database).LockByID(context.Background(), 7)

	require.ErrorIs(t, err, ErrorNotFound)
	require.Contains(t, database.lastQuery, "FOR UPDATE")
}

func TestRepository_Exists(t *testing.T) {
	database := &fakeDB{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{values: []any{true}}
		},
	}
	repository := NewRepository(database)

	exists, err := repository.ExistsByName(context.Background(), "mouse", 0)
	require.NoError(t, err)
	require.True(t, exists)
	require.Contains(t, database.lastQuery, "lower(name) = lower($1)")
	require.Equal(t, []any{"mouse", int64(0)}, database.lastArgs)

	exists, err = repository.ExistsByBarcode(context.Background(), "789", 4)
	require.NoError(t, err)
	require.True(t, exists)
	require.Contains(t, database.lastQuery, "lower(barcode) = lower($1)")
	require.Equal(t, []any{"789", int64(4)}, database.lastArgs)
}

func TestRepository_Insert(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		input := sampleProduct()
		input.ID = 0
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{values: productRow(sampleProduct())}
			},
		}

		product, err := NewRepository(database).Insert(context.Background(), input)

		require.NoError(t, err)
		require.Equal(t, int64(7), product.ID)
		require.Contains(t, database.lastQuery, "INSERT INTO products")
		require.Contains(t, database.lastQuery, "RETURNING")
		require.Len(t, database.lastArgs, 9)
		require.Equal(t, input.Name, database.lastArgs[0])
		require.Equal(t, input.UnitOfMeasureID, database.lastArgs[8])
	})

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "duplicate name",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: constraintUniqueName},
			wantErr: ErrorDuplicateName,
		},
		{
			name:    "duplicate barcode",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: constraintUniqueBarcode},
			wantErr: ErrorDuplicateBarcode,
		},
		{
			name:    "unknown unit",
			dbErr:   &pgconn.PgError{Code: "23503", ConstraintName: "fk_products_unit_of_measure"},
			wantErr: ErrorUnknownUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := &fakeDB{
				queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
					return &fakeRow{err: tt.dbErr}
				},
			}

			_, err := NewRepository(database).Insert(context.Background(), sampleProduct())

			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown unique constraint is returned as is", func(t *testing.T) {
		dbErr := &pgconn.PgError{Code: "23505", ConstraintName: "products_pkey"}
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{err: dbErr}
			},
		}

		_, err := NewRepository(database).Insert(context.Background(), sampleProduct())

		require.True(t, err == error(dbErr), "expected same error instance")
	})
}

func TestRepository_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{values: productRow(sampleProduct())}
			},
		}

		product, err := NewRepository(database).Update(context.Background(), sampleProduct())

		require.NoError(t, err)
		require.Equal(t, sampleProduct(), product)
		require.Contains(t, normalizeSQL(database.lastQuery), "UPDATE products SET name = $1")
		require.Len(t, database.lastArgs, 10)
		require.Equal(t, int64(7), database.lastArgs[9])
	})

	t.Run("missing row", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{err: pgx.ErrNoRows}
			},
		}

		_, err := NewRepository(database).Update(context.Background(), sampleProduct())

		require.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("duplicate name", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{err: &pgconn.PgError{Code: "23505", ConstraintName: constraintUniqueName}}
			},
		}

		_, err := NewRepository(database).Update(context.Background(), sampleProduct())

		require.ErrorIs(t, err, ErrorDuplicateName)
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{values: []any{int64(7)}}
			},
		}

		err := NewRepository(database).Delete(context.Background(), 7)

		require.NoError(t, err)
		require.Contains(t, database.lastQuery, "DELETE FROM products WHERE id = $1 RETURNING id")
	})

	t.Run("not found", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{err: pgx.ErrNoRows}
			},
		}

		err := NewRepository(database).Delete(context.Background(), 7)

		require.ErrorIs(t, err, ErrorNotFound)
	})
}

func TestRepository_DeleteByName(t *testing.T) {
	t.Run("returns affected rows", func(t *testing.T) {
		database := &fakeDB{
			execFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("DELETE 2"), nil
			},
		}

		deleted, err := NewRepository(database).DeleteByName(context.Background(), "Mouse")

		require.NoError(t, err)
		require.Equal(t, int64(2), deleted)
		require.Contains(t, database.lastQuery, "lower(name) = lower($1)")
		require.Equal(t, []any{"Mouse"}, database.lastArgs)
	})

	t.Run("exec error", func(t *testing.T) {
		execErr := errors.New("exec failed")
		database := &fakeDB{
			execFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, execErr
			},
		}

		_, err := NewRepository(database).DeleteByName(context.Background(), "Mouse")

		require.ErrorIs(t, err, execErr)
	})
}

func TestRepository_InTx(t *testing.T) {
	t.Run("commit runs queries on the transaction", func(t *testing.T) {
		database := &fakeDB{
			queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return &fakeRow{values: []any{false}}
			},
		}
		repository := NewRepository(database)

		err := repository.InTx(context.Background(), func(txRepository RepositoryAPI) error {
			_, err := txRepository.ExistsByName(context.Background(), "Mouse", 0)
			return err
		})

		require.NoError(t, err)
		require.NotNil(t, database.tx)
		require.True(t, database.tx.committed)
		require.Equal(t, 1, database.tx.queries)
	})

	t.Run("error rolls back", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		err := repository.InTx(context.Background(), func(txRepository RepositoryAPI) error {
			return ErrorDuplicateName
		})

		require.ErrorIs(t, err, ErrorDuplicateName)
		require.False(t, database.tx.committed)
		require.True(t, database.tx.rolledBack)
	})

	t.Run("begin error", func(t *testing.T) {
		beginErr := errors.New("begin failed")
		repository := NewRepository(&fakeDB{beginErr: beginErr})
		called := false

		err := repository.InTx(context.Background(), func(txRepository RepositoryAPI) error {
			called = true
			return nil
		})

		require.ErrorIs(t, err, beginErr)
		require.False(t, called)
	})
}

type fakeDB struct {
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	beginErr   error

	tx        *fakeTx
	lastQuery string
	lastArgs  []any
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.lastQuery = sql
	db.lastArgs = args
	if db.queryRowFn == nil {
		return &fakeRow{err: errors.New("queryRowFn not set")}
	}
	return db.queryRowFn(ctx, sql, args...)
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.lastQuery = sql
	db.lastArgs = args
	if db.queryFn == nil {
		return nil, errors.New("queryFn not set")
	}
	return db.queryFn(ctx, sql, args...)
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.lastQuery = sql
	db.lastArgs = args
	if db.execFn == nil {
		return pgconn.CommandTag{}, errors.New("execFn not set")
	}
	return db.execFn(ctx, sql, args...)
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	db.tx = &fakeTx{db: db}
	return db.tx, nil
}

// fakeTx delega las consultas en fakeDB y registra commit/rollback.
type fakeTx struct {
	pgx.Tx

	db         *fakeDB
	queries    int
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	tx.queries++
	return tx.db.QueryRow(ctx, sql, args...)
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	tx.queries++
	return tx.db.Query(ctx, sql, args...)
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.queries++
	return tx.db.Exec(ctx, sql, args...)
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.committed || tx.rolledBack {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (row *fakeRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	return assignValues(dest, row.values)
}

type fakeRows struct {
	pgx.Rows

	rows    [][]any
	idx     int
	closed  bool
	err     error
	scanErr error
}

func (rows *fakeRows) Close() {
	rows.closed = true
}

func (rows *fakeRows) Err() error {
	return rows.err
}

func (rows *fakeRows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag{}
}

func (rows *fakeRows) Next() bool {
	if rows.closed {
		return false
	}
	if rows.idx >= len(rows.rows) {
		rows.closed = true
		return false
	}
	rows.idx++
	return true
}

func (rows *fakeRows) Scan(dest ...any) error {
	if rows.scanErr != nil {
		return rows.scanErr
	}
	if rows.idx == 0 || rows.idx > len(rows.rows) {
		return errors.New("scan called without next")
	}
	return assignValues(dest, rows.rows[rows.idx-1])
}

func assignValues(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("dest len %d does not match values len %d", len(dest), len(values))
	}
	for i, d := range dest {
		if err := assignValue(d, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func assignValue(dest any, value any) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr {
		return fmt.Errorf("dest is not pointer")
	}
	if value == nil {
		destValue.Elem().Set(reflect.Zero(destValue.Elem().Type()))
		return nil
	}
	valueValue := reflect.ValueOf(value)
	destElem := destValue.Elem()
	if destElem.Kind() == reflect.Ptr {
		ptrValue := reflect.New(destElem.Type().Elem())
		ptrValue.Elem().Set(valueValue.Convert(destElem.Type().Elem()))
		destElem.Set(ptrValue)
		return nil
	}
	destElem.Set(valueValue.Convert(destElem.Type()))
	return nil
}

func normalizeSQL(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
