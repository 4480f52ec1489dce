package model

// PropertyDescriptor describes a property clients can constrain or extend on
type PropertyDescriptor struct {
	ID          string `json:"id"`           // Public short code, e.g. "P6"
	InternalKey string `json:"internal_key"` // Key into a gazetteer record, e.g. "country_code"
	DisplayName string `json:"name"`
}

// Summary returns the public {id, name} view of the descriptor
func (pd PropertyDescriptor) Summary() PropertySummary {
	return PropertySummary{ID: pd.ID, Name: pd.DisplayName}
}

// PropertySummary is the {id, name} pair exposed by catalog endpoints
type PropertySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PropertyProposal is the response of the propose-properties endpoint
type PropertyProposal struct {
	Type       string            `json:"type"`
	Properties []PropertySummary `json:"properties"`
}

// PropertySearchResult is the response of the property suggest endpoint
type PropertySearchResult struct {
	Result []PropertySummary `json:"result"`
}
