package site

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of site.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new site content loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file being loaded
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the site content file
func (l *Loader) Load() (ContentConfig, error) {
	var config ContentConfig
	if err := readYAML(l.filePath, &config); err != nil {
		return ContentConfig{}, fmt.Errorf("site content: %w", err)
	}
	return config, nil
}

// SeedLoader reads the optional listings seed file
type SeedLoader struct {
	filePath string
}

func NewSeedLoader(filePath string) *SeedLoader {
	return &SeedLoader{filePath: filePath}
}

// Load reads and parses the seed file
func (l *SeedLoader) Load() (SeedConfig, error) {
	var config SeedConfig
	if err := readYAML(l.filePath, &config); err != nil {
		return SeedConfig{}, fmt.Errorf("listing seed: %w", err)
	}
	return config, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	data = expandEnvReferences(data)

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Z][A-Z0-9_]*)\}`)

// expandEnvReferences replaces ${NAME} with the environment value, empty
// when unset. Bare '$' is left alone so prices and text survive.
// Example: ${SWAPLY_APK_URL} -> https://cdn.swaply.cc/swaply.apk
func expandEnvReferences(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
