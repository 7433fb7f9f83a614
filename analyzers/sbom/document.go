package sbom

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Document is a CycloneDX style SBOM. Only the fields needed for license
// reporting are modelled; a nil field means the key was absent or null.
type Document struct {
	BOMFormat   Text         `json:"bomFormat"`
	SpecVersion Text         `json:"specVersion"`
	Components  *[]Component `json:"components"`
}

// Component is one inventoried software unit.
type Component struct {
	Name     Text      `json:"name"`
	Version  Text      `json:"version"`
	Evidence *Evidence `json:"evidence"`
}

// Evidence is the license evidence attached to a component.
type Evidence struct {
	Licenses *[]LicenseEntry `json:"licenses"`
}

// LicenseEntry is a single item of evidence.licenses. Expression entries
// carry no license field and are ignored.
type LicenseEntry struct {
	License *License `json:"license"`
}

// License ...
type License struct {
	ID *LicenseID `json:"id"`
}

// LicenseID keeps the id value the way it was written: strings as is,
// any other JSON value as its compact JSON text.
type LicenseID struct {
	value string
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *LicenseID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		id.value = s
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	id.value = buf.String()
	return nil
}

// String ...
func (id LicenseID) String() string {
	return id.value
}

// Text is an informational string field. Values of any other JSON type
// are tolerated and read as empty.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

// ParseDocument decodes an SBOM. A document without a components list is invalid.
func ParseDocument(content []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return Document{}, errors.Wrap(err, "invalid SBOM document")
	}
	if doc.Components == nil {
		return Document{}, errors.New("invalid SBOM document: missing components")
	}
	return doc, nil
}
