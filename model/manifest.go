package model

// ServiceView tells clients how to link to an entity page
type ServiceView struct {
	URL string `json:"url"`
}

// ServiceEndpoint points at an auxiliary service path
type ServiceEndpoint struct {
	ServiceURL  string `json:"service_url"`
	ServicePath string `json:"service_path"`
}

// ServiceExtend advertises the property proposal endpoint
type ServiceExtend struct {
	ProposeProperties ServiceEndpoint `json:"propose_properties"`
}

// ServiceSuggest advertises the property suggest endpoint
type ServiceSuggest struct {
	Property ServiceEndpoint `json:"property"`
}

// ServiceManifest is returned when /api is called without queries or extend
type ServiceManifest struct {
	Name            string         `json:"name"`
	IdentifierSpace string         `json:"identifierSpace"`
	SchemaSpace     string         `json:"schemaSpace"`
	View            ServiceView    `json:"view"`
	DefaultTypes    []EntityType   `json:"defaultTypes"`
	Extend          ServiceExtend  `json:"extend"`
	Suggest         ServiceSuggest `json:"suggest"`
}
