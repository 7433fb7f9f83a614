package sbom

// ExtractLicenses returns the license ids declared in the component's
// evidence.licenses, in document order. Entries without a license, and
// licenses without an id, are skipped.
func ExtractLicenses(component Component) []string {
	ids := []string{}
	if component.Evidence == nil || component.Evidence.Licenses == nil {
		return ids
	}

	for _, entry := range *component.Evidence.Licenses {
		if entry.License == nil || entry.License.ID == nil {
			continue
		}
		ids = append(ids, entry.License.ID.String())
	}
	return ids
}
