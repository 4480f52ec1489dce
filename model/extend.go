package model

// PropertyRef references a property by id in an extend request
type PropertyRef struct {
	ID string `json:"id"`
}

// ExtendRequest asks for property values of already reconciled entities
type ExtendRequest struct {
	IDs        []string      `json:"ids"`
	Properties []PropertyRef `json:"properties"`
}

// CellValue is one value of an extend cell
type CellValue struct {
	Str string `json:"str"`
}

// ExtendResponse carries the column metadata and one row per entity id.
// A cell with no value is an empty list.
type ExtendResponse struct {
	Meta []PropertySummary                 `json:"meta"`
	Rows map[string]map[string][]CellValue `json:"rows"`
}
