package products

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// buildProduct valida el payload y arma el registro a persistir (sin ID).
// Junta todas las violaciones en un único ValidationError.
func buildProduct(input ProductInput, creating bool) (Product, error) {
	var problems violations

	if creating && input.ID != nil {
		problems.add("id must not be provided on create")
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	barcode := strings.TrimSpace(input.Barcode)

	checkText(&problems, "name", name, maxNameLength)
	checkText(&problems, "description", description, maxDescriptionLength)
	checkText(&problems, "barcode", barcode, maxBarcodeLength)
	if input.UnitOfMeasureID < 1 {
		problems.add("unit_of_measure_id is required")
	}
	for _, problem := range stockViolations(input.StockMin, input.StockMax, input.ReorderPoint) {
		problems.add(problem)
	}

	if err := problems.err(); err != nil {
		return Product{}, err
	}

	return Product{
		Name:             name,
		Description:      description,
		Barcode:          barcode,
		IdealTemperature: input.IdealTemperature,
		StockMax:         input.StockMax,
		StockMin:         input.StockMin,
		ReorderPoint:     input.ReorderPoint,
		WarehouseID:      input.WarehouseID,
		UnitOfMeasureID:  input.UnitOfMeasureID,
	}, nil
}

// buildServiceItem valida el payload reducido y arma el servicio con sus valores fijos.
// A los servicios no se les aplican las reglas de stock.
func buildServiceItem(input ServiceItemInput) (Product, error) {
	var problems violations

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)

	checkText(&problems, "name", name, maxNameLength)
	checkText(&problems, "description", description, maxDescriptionLength)

	if err := problems.err(); err != nil {
		return Product{}, err
	}
	return newServiceItem(name, description), nil
}

// stockViolations aplica las reglas de stock de un producto físico:
// valores entre 0 y maxStockValue, máximo > mínimo y mínimo < punto de pedido <= máximo.
func stockViolations(stockMin, stockMax, reorderPoint int) []string {
	var problems []string

	if stockMin < 0 || stockMax < 0 || reorderPoint < 0 {
		problems = append(problems, "stock values must not be negative")
	}
	if stockMin > maxStockValue || stockMax > maxStockValue || reorderPoint > maxStockValue {
		problems = append(problems, "stock values must be at most "+strconv.Itoa(maxStockValue))
	}
	if stockMax <= stockMin {
		problems = append(problems, "stock_max must be greater than stock_min")
	}
	if reorderPoint <= stockMin || reorderPoint > stockMax {
		problems = append(problems, "reorder_point must be greater than stock_min and at most stock_max")
	}

	return problems
}

func checkText(problems *violations, field, value string, maxLength int) {
	switch {
	case value == "":
		problems.add(field + " is required")
	case utf8.RuneCountInString(value) > maxLength:
		problems.add(field + " must be at most " + strconv.Itoa(maxLength) + " characters")
	}
}
