package analyzers

import "sort"

// LicenseInfo is a single license declared by a dependency.
type LicenseInfo struct {
	LicenseType string
	Dependency  string
}

// ServiceLicenseInfos holds every license declaration found in a service's SBOM.
type ServiceLicenseInfos struct {
	Service  string
	SBOMPath string
	Licenses []LicenseInfo
}

// LicenseTypes returns the unique license types in ascending order.
func (i ServiceLicenseInfos) LicenseTypes() []string {
	seen := map[string]bool{}
	types := []string{}
	for _, l := range i.Licenses {
		if seen[l.LicenseType] {
			continue
		}
		seen[l.LicenseType] = true
		types = append(types, l.LicenseType)
	}
	sort.Strings(types)
	return types
}

// DependenciesByLicenseType groups the unique, sorted dependency names by
// license type. Unnamed dependencies are kept as a single empty name.
func (i ServiceLicenseInfos) DependenciesByLicenseType() map[string][]string {
	seen := map[string]map[string]bool{}
	deps := map[string][]string{}
	for _, l := range i.Licenses {
		if _, ok := deps[l.LicenseType]; !ok {
			deps[l.LicenseType] = []string{}
			seen[l.LicenseType] = map[string]bool{}
		}
		if seen[l.LicenseType][l.Dependency] {
			continue
		}
		seen[l.LicenseType][l.Dependency] = true
		deps[l.LicenseType] = append(deps[l.LicenseType], l.Dependency)
	}
	for _, d := range deps {
		sort.Strings(d)
	}
	return deps
}
