package units

// Unit es una unidad de medida (kg, un, lt...).
// Es data de referencia: la API solo la lee.
type Unit struct {
	ID           int64  `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Description  string `json:"description"`
}
