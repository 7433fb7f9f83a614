// Package report prints the per-service license reports.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/go-utils/log"
	"github.com/bitrise-io/sbom-license-collector/analyzers"
	"github.com/bitrise-io/sbom-license-collector/analyzers/sbom"
	"github.com/bitrise-io/sbom-license-collector/registry"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Format selects how a service's licenses are rendered.
type Format string

// Formats
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
)

// ParseFormat ...
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatTable:
		return f, nil
	}
	return "", errors.Errorf("unknown format: %s (available: %s, %s)", s, FormatText, FormatTable)
}

// Analyzer collects the license declarations of a service.
type Analyzer interface {
	SBOMPath(service string) string
	AnalyzeService(service string) (analyzers.ServiceLicenseInfos, error)
}

// Generator writes license reports to Out.
type Generator struct {
	Out      io.Writer
	Analyzer Analyzer
	Format   Format
}

// Run reports every service of the registry in order. A missing SBOM only
// skips its service, any other error stops the run.
func (g Generator) Run(reg registry.Registry) error {
	for _, service := range reg.Services() {
		if err := g.GenerateServiceReport(service); err != nil {
			return err
		}
	}
	return nil
}

// GenerateServiceReport prints the report block of a single service, or the
// not found notice if its SBOM does not exist.
func (g Generator) GenerateServiceReport(service registry.Service) error {
	if service.FileNameMismatch() {
		log.Warnf("%s: configured SBOM file (%s) is ignored, reading %s", service.Name, service.FileName, service.DerivedFileName())
	}

	infos, err := g.Analyzer.AnalyzeService(service.Name)
	if sbom.IsNotFound(err) {
		fmt.Fprintf(g.Out, "SBOM file not found: %s\n", g.Analyzer.SBOMPath(service.Name))
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "failed to generate %s report", service.Name)
	}

	log.Debugf("%s: %d license declarations", service.Name, len(infos.Licenses))

	switch g.Format {
	case FormatTable:
		writeTable(g.Out, service.Name, infos)
	default:
		writeText(g.Out, service.Name, infos)
	}
	return nil
}

func header(service string) string {
	return fmt.Sprintf("%s-server licenses:", service)
}

func writeText(w io.Writer, service string, infos analyzers.ServiceLicenseInfos) {
	fmt.Fprintln(w, header(service))
	for _, licenseType := range infos.LicenseTypes() {
		fmt.Fprintf(w, "- %s\n", licenseType)
	}
	fmt.Fprintln(w)
}

// shown in place of a component without a name
const unnamedComponent = "-"

func writeTable(w io.Writer, service string, infos analyzers.ServiceLicenseInfos) {
	fmt.Fprintln(w, header(service))

	deps := infos.DependenciesByLicenseType()
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"License", "Components"})
	table.SetAutoWrapText(false)
	for _, licenseType := range infos.LicenseTypes() {
		names := make([]string, 0, len(deps[licenseType]))
		for _, name := range deps[licenseType] {
			if name == "" {
				name = unnamedComponent
			}
			names = append(names, name)
		}
		table.Append([]string{licenseType, strings.Join(names, ", ")})
	}
	table.Render()

	fmt.Fprintln(w)
}
