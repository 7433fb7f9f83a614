// Package sbom reads per-service SBOM files and collects the licenses their
// components declare as evidence.
package sbom

import (
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/log"
	"github.com/bitrise-io/sbom-license-collector/analyzers"
	"github.com/bitrise-io/sbom-license-collector/registry"
	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

// ErrNotFound is the cause of errors returned for a missing SBOM file.
var ErrNotFound = errors.New("SBOM file not found")

// IsNotFound reports whether err was caused by a missing SBOM file.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// component evidence was introduced in CycloneDX 1.3
var evidenceSpecVersion = version.Must(version.NewVersion("1.3"))

// Analyzer reads SBOM files from Dir.
type Analyzer struct {
	Dir string
}

func (a Analyzer) String() string {
	return "sbom"
}

// SBOMPath returns the path of the service's SBOM file.
func (a Analyzer) SBOMPath(service string) string {
	return filepath.Join(a.Dir, registry.DerivedFileName(service))
}

// AnalyzeService collects the license declarations of every component in
// the service's SBOM.
func (a Analyzer) AnalyzeService(service string) (analyzers.ServiceLicenseInfos, error) {
	pth := a.SBOMPath(service)

	doc, err := ReadDocument(pth)
	if err != nil {
		return analyzers.ServiceLicenseInfos{}, err
	}
	log.Debugf("%s: %d components (bomFormat: %s, specVersion: %s)", pth, len(*doc.Components), doc.BOMFormat, doc.SpecVersion)
	checkSpecVersion(pth, string(doc.SpecVersion))

	infos := analyzers.ServiceLicenseInfos{
		Service:  service,
		SBOMPath: pth,
		Licenses: []analyzers.LicenseInfo{},
	}
	for _, component := range *doc.Components {
		for _, id := range ExtractLicenses(component) {
			infos.Licenses = append(infos.Licenses, analyzers.LicenseInfo{
				LicenseType: id,
				Dependency:  string(component.Name),
			})
		}
	}
	return infos, nil
}

// ReadDocument reads and parses the SBOM at pth.
func ReadDocument(pth string) (Document, error) {
	content, err := fileutil.ReadBytesFromFile(pth)
	if err != nil {
		if isMissing(pth, err) {
			return Document{}, errors.Wrap(ErrNotFound, pth)
		}
		return Document{}, errors.Wrapf(err, "failed to read SBOM file: %s", pth)
	}

	doc, err := ParseDocument(content)
	if err != nil {
		return Document{}, errors.Wrap(err, pth)
	}
	return doc, nil
}

// isMissing reports whether a failed read was caused by the file (or a
// symlink's target) not existing. os.Stat follows symlinks.
func isMissing(pth string, readErr error) bool {
	if os.IsNotExist(errors.Cause(readErr)) {
		return true
	}
	_, err := os.Stat(pth)
	return os.IsNotExist(err)
}

func checkSpecVersion(pth, specVersion string) {
	if specVersion == "" {
		return
	}

	v, err := version.NewVersion(specVersion)
	if err != nil {
		log.Debugf("%s: failed to parse specVersion (%s): %s", pth, specVersion, err)
		return
	}
	if v.LessThan(evidenceSpecVersion) {
		log.Warnf("%s: specVersion %s has no component evidence, licenses may be missing", pth, specVersion)
	}
}
