// Package registry holds the ordered set of services whose SBOMs are reported.
package registry

import (
	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// SBOMFileSuffix is appended to a service name to get its SBOM file name.
const SBOMFileSuffix = "-server-sbom.json"

// Service is a single registry entry.
type Service struct {
	Name     string
	FileName string
}

// DerivedFileName returns the SBOM file name built from the service name.
func (s Service) DerivedFileName() string {
	return DerivedFileName(s.Name)
}

// FileNameMismatch reports whether the configured file name differs from the derived one.
func (s Service) FileNameMismatch() bool {
	return s.FileName != "" && s.FileName != s.DerivedFileName()
}

// DerivedFileName ...
func DerivedFileName(serviceName string) string {
	return serviceName + SBOMFileSuffix
}

// Registry is an immutable, ordered list of services.
type Registry struct {
	services []Service
}

// New validates the given services and returns a registry in the same order.
func New(services ...Service) (Registry, error) {
	if len(services) == 0 {
		return Registry{}, errors.New("no services specified")
	}

	seen := map[string]bool{}
	copied := make([]Service, 0, len(services))
	for _, s := range services {
		if s.Name == "" {
			return Registry{}, errors.New("empty service name")
		}
		if seen[s.Name] {
			return Registry{}, errors.Errorf("duplicated service: %s", s.Name)
		}
		seen[s.Name] = true
		copied = append(copied, s)
	}
	return Registry{services: copied}, nil
}

// Default returns the built-in registry.
func Default() Registry {
	names := []string{"user", "post", "match", "bid", "verification"}
	services := make([]Service, 0, len(names))
	for _, name := range names {
		services = append(services, Service{Name: name, FileName: DerivedFileName(name)})
	}
	return Registry{services: services}
}

// Services returns a copy of the registry entries in registry order.
func (r Registry) Services() []Service {
	return append([]Service{}, r.services...)
}

// Len ...
func (r Registry) Len() int {
	return len(r.services)
}

type config struct {
	Services yaml.MapSlice `yaml:"services"`
}

// Parse reads a registry from YAML. Entry order follows the document.
func Parse(content []byte) (Registry, error) {
	var cfg config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Registry{}, errors.Wrap(err, "failed to parse registry")
	}

	services := make([]Service, 0, len(cfg.Services))
	for _, item := range cfg.Services {
		name, ok := item.Key.(string)
		if !ok {
			return Registry{}, errors.Errorf("invalid service name: %v", item.Key)
		}
		fileName, ok := item.Value.(string)
		if !ok {
			return Registry{}, errors.Errorf("invalid file name for service %s: %v", name, item.Value)
		}
		services = append(services, Service{Name: name, FileName: fileName})
	}
	return New(services...)
}

// Load reads a registry from the YAML file at pth.
func Load(pth string) (Registry, error) {
	content, err := fileutil.ReadBytesFromFile(pth)
	if err != nil {
		return Registry{}, errors.Wrapf(err, "failed to read registry: %s", pth)
	}
	return Parse(content)
}
