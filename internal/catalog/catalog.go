// Package catalog holds the fixed table of properties the service exposes.
// A Catalog is built once and is read-only afterwards, so it can be shared
// by concurrent requests without locking.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gcbaptista/go-reconcile/model"
)

// ProposalType is the type id advertised by the propose-properties endpoint
const ProposalType = "Q1549591"

var defaultDescriptors = []model.PropertyDescriptor{
	{ID: "P2", InternalKey: "viaF_ID", DisplayName: "VIAF ID"},
	{ID: "P3", InternalKey: "geoname_ID", DisplayName: "GeoName ID"},
	{ID: "P6", InternalKey: "country_code", DisplayName: "GN Modern Country Code"},
	{ID: "P8", InternalKey: "language", DisplayName: "Language"},
	{ID: "P9", InternalKey: "wd", DisplayName: "WikiData ID"},
	{ID: "P10", InternalKey: "modernCountry", DisplayName: "Modern Country"},
	{ID: "P11", InternalKey: "yid", DisplayName: "Yidish Name"},
	{ID: "P12", InternalKey: "desc", DisplayName: "Description"},
	{ID: "P13", InternalKey: "coor", DisplayName: "Coordinates"},
	{ID: "P14", InternalKey: "primary_rom_full", DisplayName: "Primary Roman Name"},
}

// Catalog is an immutable, ordered property table
type Catalog struct {
	ordered []model.PropertyDescriptor
	byID    map[string]model.PropertyDescriptor
}

// New builds a catalog from descriptors, keeping their order.
// Ids, internal keys and names must be non-empty and ids unique.
func New(descriptors []model.PropertyDescriptor) (*Catalog, error) {
	c := &Catalog{
		ordered: make([]model.PropertyDescriptor, 0, len(descriptors)),
		byID:    make(map[string]model.PropertyDescriptor, len(descriptors)),
	}

	for i, d := range descriptors {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("property %d has an empty id", i)
		}
		if strings.TrimSpace(d.InternalKey) == "" {
			return nil, fmt.Errorf("property '%s' has an empty internal key", d.ID)
		}
		if strings.TrimSpace(d.DisplayName) == "" {
			return nil, fmt.Errorf("property '%s' has an empty name", d.ID)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("property '%s' is defined more than once", d.ID)
		}
		c.ordered = append(c.ordered, d)
		c.byID[d.ID] = d
	}

	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(defaultDescriptors)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in properties: %v", err))
	}
	return c
})

// Default returns the built-in gazetteer property catalog
func Default() *Catalog {
	return defaultCatalog()
}
