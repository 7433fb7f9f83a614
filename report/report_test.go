package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/sbom-license-collector/analyzers/sbom"
	"github.com/bitrise-io/sbom-license-collector/registry"
	"github.com/stretchr/testify/require"
)

func writeSBOM(t *testing.T, dir, service, content string) {
	pth := filepath.Join(dir, registry.DerivedFileName(service))
	require.NoError(t, os.WriteFile(pth, []byte(content), 0600))
}

func newGenerator(dir string, format Format) (Generator, *bytes.Buffer) {
	var out bytes.Buffer
	return Generator{Out: &out, Analyzer: sbom.Analyzer{Dir: dir}, Format: format}, &out
}

func TestGenerateServiceReport(t *testing.T) {
	t.Log("deduplicated, sorted licenses")
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "user", `{"components":[{"evidence":{"licenses":[{"license":{"id":"MIT"}},{"license":{"id":"Apache-2.0"}}]}},{"evidence":{"licenses":[{"license":{"id":"MIT"}}]}}]}`)

		g, out := newGenerator(dir, FormatText)
		require.NoError(t, g.GenerateServiceReport(registry.Service{Name: "user"}))
		require.Equal(t, "user-server licenses:\n- Apache-2.0\n- MIT\n\n", out.String())
	}

	t.Log("empty components")
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "post", `{"components":[]}`)

		g, out := newGenerator(dir, FormatText)
		require.NoError(t, g.GenerateServiceReport(registry.Service{Name: "post"}))
		require.Equal(t, "post-server licenses:\n\n", out.String())
	}

	t.Log("partially malformed components")
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "match", `{"components":[
  {"name":"no-evidence"},
  {"evidence":{}},
  {"evidence":{"licenses":[{"expression":"GPL-2.0-only"},{"license":{"id":"BSD-2-Clause"}},{"license":{}}]}}
]}`)

		g, out := newGenerator(dir, FormatText)
		require.NoError(t, g.GenerateServiceReport(registry.Service{Name: "match"}))
		require.Equal(t, "match-server licenses:\n- BSD-2-Clause\n\n", out.String())
	}

	t.Log("missing file")
	{
		g, out := newGenerator(t.TempDir(), FormatText)
		require.NoError(t, g.GenerateServiceReport(registry.Service{Name: "bid"}))
		require.True(t, strings.HasPrefix(out.String(), "SBOM file not found: "))
		require.True(t, strings.HasSuffix(out.String(), "bid-server-sbom.json\n"))
		require.NotContains(t, out.String(), "licenses:")
	}

	t.Log("dangling symlink counts as missing")
	{
		dir := t.TempDir()
		require.NoError(t, os.Symlink(filepath.Join(dir, "gone.json"), filepath.Join(dir, "user-server-sbom.json")))

		g, out := newGenerator(dir, FormatText)
		require.NoError(t, g.GenerateServiceReport(registry.Service{Name: "user"}))
		require.Equal(t, "SBOM file not found: "+filepath.Join(dir, "user-server-sbom.json")+"\n", out.String())
	}

	t.Log("configured file name is not used")
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "user", `{"components":[{"evidence":{"licenses":[{"license":{"id":"MIT"}}]}}]}`)

		g, out := newGenerator(dir, FormatText)
		require.NoError(t, g.GenerateServiceReport(registry.Service{Name: "user", FileName: "other.json"}))
		require.Equal(t, "user-server licenses:\n- MIT\n\n", out.String())
	}

	// --- Error tests ---
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "verification", `{"components":`)

		g, out := newGenerator(dir, FormatText)
		err := g.GenerateServiceReport(registry.Service{Name: "verification"})
		require.Error(t, err)
		require.Empty(t, out.String())
	}
}

func TestRun(t *testing.T) {
	t.Log("registry order, missing files do not stop the run")
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "user", `{"components":[{"evidence":{"licenses":[{"license":{"id":"MIT"}}]}}]}`)
		writeSBOM(t, dir, "match", `{"components":[{"evidence":{"licenses":[{"license":{"id":"Zlib"}},{"license":{"id":"ISC"}}]}}]}`)
		writeSBOM(t, dir, "verification", `{"components":[]}`)

		g, out := newGenerator(dir, FormatText)
		require.NoError(t, g.Run(registry.Default()))

		expected := "user-server licenses:\n- MIT\n\n" +
			"SBOM file not found: " + filepath.Join(dir, "post-server-sbom.json") + "\n" +
			"match-server licenses:\n- ISC\n- Zlib\n\n" +
			"SBOM file not found: " + filepath.Join(dir, "bid-server-sbom.json") + "\n" +
			"verification-server licenses:\n\n"
		require.Equal(t, expected, out.String())
	}

	t.Log("services are independent")
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "a", `{"components":[{"evidence":{"licenses":[{"license":{"id":"MIT"}}]}}]}`)
		writeSBOM(t, dir, "b", `{"components":[{"evidence":{"licenses":[{"license":{"id":"ISC"}}]}}]}`)

		reg, err := registry.New(registry.Service{Name: "b"}, registry.Service{Name: "a"})
		require.NoError(t, err)

		g, out := newGenerator(dir, FormatText)
		require.NoError(t, g.Run(reg))
		require.Equal(t, "b-server licenses:\n- ISC\n\na-server licenses:\n- MIT\n\n", out.String())
	}

	// --- Error tests ---
	t.Log("malformed document aborts the run")
	{
		dir := t.TempDir()
		writeSBOM(t, dir, "user", `{"components":[]}`)
		writeSBOM(t, dir, "post", `{"metadata":{}}`)
		writeSBOM(t, dir, "match", `{"components":[]}`)

		g, out := newGenerator(dir, FormatText)
		err := g.Run(registry.Default())
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing components")
		require.Equal(t, "user-server licenses:\n\n", out.String())
	}
}

func TestTableFormat(t *testing.T) {
	dir := t.TempDir()
	writeSBOM(t, dir, "user", `{"components":[
  {"name":"zap","evidence":{"licenses":[{"license":{"id":"MIT"}}]}},
  {"name":"cobra","evidence":{"licenses":[{"license":{"id":"Apache-2.0"}},{"license":{"id":"MIT"}}]}},
  {"evidence":{"licenses":[{"license":{"id":"ISC"}}]}},
  {"name":"","evidence":{"licenses":[{"license":{"id":"BSD-3-Clause"}}]}},
  {"name":"pflag","evidence":{"licenses":[{"license":{"id":"BSD-3-Clause"}}]}}
]}`)

	g, out := newGenerator(dir, FormatTable)
	require.NoError(t, g.GenerateServiceReport(registry.Service{Name: "user"}))

	report := out.String()
	require.True(t, strings.HasPrefix(report, "user-server licenses:\n"))
	require.True(t, strings.HasSuffix(report, "\n\n"))
	require.Contains(t, report, "LICENSE")
	require.Contains(t, report, "COMPONENTS")
	require.Contains(t, report, "cobra, zap")
	require.Contains(t, report, "-, pflag")
	require.Regexp(t, `ISC\s+\|\s+-\s+\|`, report)

	apache := strings.Index(report, "Apache-2.0")
	isc := strings.Index(report, "ISC")
	mit := strings.Index(report, "MIT")
	require.True(t, apache < isc && isc < mit)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("text")
	require.NoError(t, err)
	require.Equal(t, FormatText, f)

	f, err = ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, f)

	_, err = ParseFormat("csv")
	require.EqualError(t, err, "unknown format: csv (available: text, table)")
}
