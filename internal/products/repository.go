package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Lelo88/inventory-api-golang/internal/db"
)

// Nombres de constraints definidos en migrations/0001_init.sql.
const (
	constraintUniqueName    = "ux_products_name"
	constraintUniqueBarcode = "ux_products_barcode"
)

const productColumns = `id, name, description, barcode, ideal_temperature, stock_max, stock_min, reorder_point, warehouse_id, unit_of_measure_id`

// Repository accede a la tabla products.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database db.DBTX
}

// NewRepository crea un repositorio de productos.
// database puede ser el pool o una transacción abierta.
func NewRepository(database db.DBTX) *Repository {
	return &Repository{database: database}
}

// InTx corre fn con un repositorio atado a una única transacción.
func (repository *Repository) InTx(ctx context.Context, fn func(repository RepositoryAPI) error) error {
	return db.WithTx(ctx, repository.database, func(tx pgx.Tx) error {
		return fn(NewRepository(tx))
	})
}

// List devuelve todos los productos y servicios.
func (repository *Repository) List(ctx context.Context) ([]Product, error) {
	rows, err := repository.database.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// ListDetailed junta cada producto con la abreviatura de su unidad de medida, ordenado por id.
func (repository *Repository) ListDetailed(ctx context.Context) ([]ProductDetail, error) {
	const query = `
		SELECT p.id, p.name, p.description, p.barcode, p.ideal_temperature,
		       p.stock_min, p.stock_max, p.reorder_point, u.abbreviation
		FROM products p
		JOIN units_of_measure u ON u.id = p.unit_of_measure_id
		ORDER BY p.id ASC;
	`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ProductDetail, 0)
	for rows.Next() {
		var detail ProductDetail
		err := rows.Scan(
			&detail.ID, &detail.Name, &detail.Description, &detail.Barcode, &detail.IdealTemperature,
			&detail.StockMin, &detail.StockMax, &detail.ReorderPoint, &detail.UnitAbbreviation,
		)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

// GetByID busca un producto por id.
func (repository *Repository) GetByID(ctx context.Context, id int64) (Product, error) {
	row := repository.database.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1;`, id)
	return notFoundOnNoRows(scanProduct(row))
}

// LockByID es GetByID con SELECT ... FOR UPDATE; solo tiene sentido dentro de InTx.
func (repository *Repository) LockByID(ctx context.Context, id int64) (Product, error) {
	row := repository.database.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE;`, id)
	return notFoundOnNoRows(scanProduct(row))
}

// ExistsByName compara sin distinguir mayúsculas. excludeID = 0 no excluye nada (los ids arrancan en 1).
func (repository *Repository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM products WHERE lower(name) = lower($1) AND id <> $2);`

	var exists bool
	err := repository.database.QueryRow(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

// ExistsByBarcode compara sin distinguir mayúsculas. excludeID = 0 no excluye nada.
func (repository *Repository) ExistsByBarcode(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM products WHERE lower(barcode) = lower($1) AND id <> $2);`

	var exists bool
	err := repository.database.QueryRow(ctx, query, barcode, excludeID).Scan(&exists)
	return exists, err
}

// Insert crea el registro y devuelve lo persistido con el id generado por DB.
func (repository *Repository) Insert(ctx context.Context, product Product) (Product, error) {
	const query = `
		INSERT INTO products (name, description, barcode, ideal_temperature, stock_max, stock_min, reorder_point, warehouse_id, unit_of_measure_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns + `;
	`

	row := repository.database.QueryRow(ctx, query,
		product.Name, product.Description, product.Barcode, product.IdealTemperature,
		product.StockMax, product.StockMin, product.ReorderPoint, product.WarehouseID, product.UnitOfMeasureID,
	)
	created, err := scanProduct(row)
	if err != nil {
		return Product{}, translateWriteError(err)
	}

	return created, nil
}

// Update reemplaza todos los campos editables del registro product.ID.
func (repository *Repository) Update(ctx context.Context, product Product) (Product, error) {
	const query = `
		UPDATE products
		SET name = $1,
		    description = $2,
		    barcode = $3,
		    ideal_temperature = $4,
		    stock_max = $5,
		    stock_min = $6,
		    reorder_point = $7,
		    warehouse_id = $8,
		    unit_of_measure_id = $9
		WHERE id = $10
		RETURNING ` + productColumns + `;
	`

	row := repository.database.QueryRow(ctx, query,
		product.Name, product.Description, product.Barcode, product.IdealTemperature,
		product.StockMax, product.StockMin, product.ReorderPoint, product.WarehouseID, product.UnitOfMeasureID,
		product.ID,
	)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrorNotFound
		}
		return Product{}, translateWriteError(err)
	}

	return updated, nil
}

// Delete borra por id. Usamos RETURNING para distinguir "no existía".
func (repository *Repository) Delete(ctx context.Context, id int64) error {
	var deletedID int64
	err := repository.database.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING id;`, id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrorNotFound
		}
		return err
	}
	return nil
}

// DeleteByName borra todos los registros con ese nombre (sin distinguir mayúsculas) y devuelve cuántos fueron.
func (repository *Repository) DeleteByName(ctx context.Context, name string) (int64, error) {
	tag, err := repository.database.Exec(ctx, `DELETE FROM products WHERE lower(name) = lower($1);`, name)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var product Product
	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Barcode, &product.IdealTemperature,
		&product.StockMax, &product.StockMin, &product.ReorderPoint, &product.WarehouseID, &product.UnitOfMeasureID,
	)
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

func notFoundOnNoRows(product Product, err error) (Product, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrorNotFound
	}
	return product, err
}

// translateWriteError convierte violaciones de constraints en errores de dominio.
// Son la segunda línea de defensa: el service ya chequeó dentro de la misma transacción.
func translateWriteError(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok {
		switch constraint {
		case constraintUniqueName:
			return ErrorDuplicateName
		case constraintUniqueBarcode:
			return ErrorDuplicateBarcode
		}
		return err
	}
	if _, ok := db.ForeignKeyViolation(err); ok {
		return ErrorUnknownUnit
	}
	return err
}
