// Package loader reads dataset documents from disk.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/huangsam/pathways/schema"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the semver constraint a dataset version must meet.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

var (
	// ErrUnsupportedFormat is returned for file extensions other than json, yaml and yml.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrIncompatibleVersion is returned when the dataset version is outside SupportedVersions.
	ErrIncompatibleVersion = errors.New("incompatible dataset version")
)

var versionConstraint = mustConstraint(SupportedVersions)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads and validates the dataset at path.
func Load(path string) (*schema.Dataset, error) {
	ds, _, err := LoadWithDigest(path)
	return ds, err
}

// LoadWithDigest reads the dataset at path and returns it with the sha256
// digest of the raw file contents.
func LoadWithDigest(path string) (*schema.Dataset, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return ds, digestBytes(data), nil
}

// Parse decodes a dataset document. ext selects the format and includes the
// leading dot.
func Parse(data []byte, ext string) (*schema.Dataset, error) {
	var ds schema.Dataset
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case ".yaml", ".yml":
		if err := decodeYAML(data, &ds); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}

	if err := CheckVersion(ds.Version); err != nil {
		return nil, err
	}
	return &ds, nil
}

// decodeYAML goes through JSON so the json tags and the parameter
// typename dispatch apply to YAML documents too.
func decodeYAML(data []byte, ds *schema.Dataset) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}
	if err := json.Unmarshal(raw, ds); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// CheckVersion verifies that version satisfies SupportedVersions.
func CheckVersion(version string) error {
	if version == "" {
		return fmt.Errorf("missing version: %w", ErrIncompatibleVersion)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("version %q: %w", version, ErrIncompatibleVersion)
	}
	if !versionConstraint.Check(v) {
		return fmt.Errorf("version %s does not satisfy %s: %w", v, SupportedVersions, ErrIncompatibleVersion)
	}
	return nil
}

// Digest returns the hex sha256 of the file at path.
func Digest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read dataset: %w", err)
	}
	return digestBytes(data), nil
}

func digestBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
