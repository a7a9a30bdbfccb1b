package products

import "math"

// Los servicios se guardan en la misma tabla que los productos.
// No hay columna discriminadora: se reconocen por estos valores fijos.
const (
	ServiceBarcode         = "9999999999996"
	ServiceUnitOfMeasureID = int64(1)

	serviceStockMin     = 0
	serviceStockMax     = 1
	serviceReorderPoint = 1
)

// Límites de las columnas en migrations/0001_init.sql.
const (
	maxNameLength        = 50
	maxDescriptionLength = 250
	maxBarcodeLength     = 50

	// Las columnas de stock son INTEGER (int4).
	maxStockValue = math.MaxInt32
)

// Product representa un registro de la tabla products (producto físico o servicio).
type Product struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Barcode          string   `json:"barcode"`
	IdealTemperature *float64 `json:"ideal_temperature"`
	StockMax         int      `json:"stock_max"`
	StockMin         int      `json:"stock_min"`
	ReorderPoint     int      `json:"reorder_point"`
	WarehouseID      *int64   `json:"warehouse_id"`
	UnitOfMeasureID  int64    `json:"unit_of_measure_id"`
}

// IsServiceItem informa si el registro lleva el código de barras reservado de servicios.
func (product Product) IsServiceItem() bool {
	return product.Barcode == ServiceBarcode
}

// ProductDetail es la vista de listado: producto + abreviatura de su unidad de medida.
type ProductDetail struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Barcode          string   `json:"barcode"`
	IdealTemperature *float64 `json:"ideal_temperature"`
	StockMin         int      `json:"stock_min"`
	StockMax         int      `json:"stock_max"`
	ReorderPoint     int      `json:"reorder_point"`
	UnitAbbreviation string   `json:"unit_abbreviation"`
}

// ProductInput es el payload de POST /products y PUT /products/{id}.
// ID solo existe para rechazarlo en la creación: el id lo genera la DB.
type ProductInput struct {
	ID               *int64   `json:"id,omitempty"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Barcode          string   `json:"barcode"`
	IdealTemperature *float64 `json:"ideal_temperature"`
	StockMax         int      `json:"stock_max"`
	StockMin         int      `json:"stock_min"`
	ReorderPoint     int      `json:"reorder_point"`
	WarehouseID      *int64   `json:"warehouse_id"`
	UnitOfMeasureID  int64    `json:"unit_of_measure_id"`
}

// ServiceItemInput es el payload reducido para crear o editar un servicio.
type ServiceItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// newServiceItem arma el registro de un servicio, siempre con los valores fijos.
func newServiceItem(name, description string) Product {
	return Product{
		Name:             name,
		Description:      description,
		Barcode:          ServiceBarcode,
		IdealTemperature: nil,
		StockMin:         serviceStockMin,
		StockMax:         serviceStockMax,
		ReorderPoint:     serviceReorderPoint,
		WarehouseID:      nil,
		UnitOfMeasureID:  ServiceUnitOfMeasureID,
	}
}
