package budgetapi

import "encoding/json"

// Slice is one wire-level budget entry. Budget is kept raw because some
// servers send it as a numeric string.
type Slice struct {
	Title  string          `json:"title"`
	Budget json.RawMessage `json:"budget"`
}

// rawResponse is the body served at GET /budget. The pointer tells a
// missing myBudget key apart from an empty array.
type rawResponse struct {
	MyBudget *[]Slice `json:"myBudget"`
}
