// Package catalog provides the hand-authored information about each
// spice class served alongside a prediction.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/najmahf/spicelink/sdk/spice"
	"gopkg.in/yaml.v3"
)

//go:embed spices.yaml
var spicesYAML []byte

// NoDescription is returned for a class without configured text. It
// matches the fallback the original application displayed.
const NoDescription = "Tidak ada deskripsi tersedia."

// Info holds the informational content for one spice class.
type Info struct {
	Name        string
	Scientific  string `yaml:"scientific"`
	English     string `yaml:"english"`
	Description string `yaml:"description"`
}

// Catalog provides read-only access to the spice information loaded at
// construction.
type Catalog struct {
	infos map[string]Info
}

// New parses the embedded spice data.
func New() (*Catalog, error) {
	var entries map[string]Info
	if err := yaml.Unmarshal(spicesYAML, &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling spice data: %w", err)
	}

	infos := make(map[string]Info, len(entries))
	for name, info := range entries {
		info.Name = name
		infos[name] = info
	}

	return &Catalog{infos: infos}, nil
}

// Description returns the descriptive text for the class, or the
// NoDescription fallback when none is configured.
func (c *Catalog) Description(class spice.Class) string {
	info, exists := c.infos[class.String()]
	if !exists || info.Description == "" {
		return NoDescription
	}

	return info.Description
}

// Info returns the full informational record for the class.
func (c *Catalog) Info(class spice.Class) (Info, bool) {
	info, exists := c.infos[class.String()]
	return info, exists
}

// List returns the info records in class order. Classes without a
// record still produce an entry carrying the fallback description.
func (c *Catalog) List() []Info {
	list := make([]Info, 0, spice.NumClasses)

	for _, class := range spice.Classes() {
		info, exists := c.infos[class.String()]
		if !exists {
			info = Info{Name: class.String(), Description: NoDescription}
		}
		list = append(list, info)
	}

	return list
}
