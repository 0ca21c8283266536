package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/Layr-Labs/merkletree-go/pkg/merkle"
)

// Environment variable names for tree configuration
const (
	EnvMerkleHashAlgorithm    = "MERKLE_HASH_ALGORITHM"
	EnvMerkleWorkers          = "MERKLE_WORKERS"
	EnvMerkleSkipBlankRecords = "MERKLE_SKIP_BLANK_RECORDS"
	EnvMerkleVerbose          = "MERKLE_VERBOSE"
)

// MaxWorkers bounds the goroutines used to hash a single layer.
const MaxWorkers = 256

// TreeConfig represents how records are read and hashed into a tree
type TreeConfig struct {
	HashAlgorithm merkle.HashAlgorithm `json:"hash_algorithm" yaml:"hashAlgorithm"`

	// Workers > 1 hashes large layers in parallel
	Workers int `json:"workers" yaml:"workers"`

	// SkipBlankRecords drops input lines that are empty after trimming whitespace
	SkipBlankRecords bool `json:"skip_blank_records" yaml:"skipBlankRecords"`

	Verbose bool `json:"verbose" yaml:"verbose"`
}

func DefaultTreeConfig() *TreeConfig {
	return &TreeConfig{
		HashAlgorithm:    merkle.DefaultHashAlgorithm,
		Workers:          1,
		SkipBlankRecords: true,
	}
}

// Validate validates the tree configuration
func (c *TreeConfig) Validate() error {
	var allErrors field.ErrorList
	if c.HashAlgorithm == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("hashAlgorithm"), "hashAlgorithm is required"))
	} else if _, err := merkle.NewHasher(c.HashAlgorithm); err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("hashAlgorithm"), c.HashAlgorithm, supportedHashAlgorithmNames()))
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		allErrors = append(allErrors, field.Invalid(field.NewPath("workers"), c.Workers, fmt.Sprintf("must be between 1-%d", MaxWorkers)))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// Hasher resolves the configured hash algorithm
func (c *TreeConfig) Hasher() (merkle.Hasher, error) {
	return merkle.NewHasher(c.HashAlgorithm)
}

// TreeOptions converts the configuration into build options
func (c *TreeConfig) TreeOptions(l *zap.Logger) ([]merkle.Option, error) {
	h, err := c.Hasher()
	if err != nil {
		return nil, err
	}
	return []merkle.Option{
		merkle.WithHasher(h),
		merkle.WithWorkers(c.Workers),
		merkle.WithLogger(l),
	}, nil
}

func supportedHashAlgorithmNames() []string {
	algs := merkle.SupportedHashAlgorithms()
	names := make([]string, len(algs))
	for i, alg := range algs {
		names[i] = alg.String()
	}
	return names
}

// GetSupportedHashAlgorithmsString returns supported hash algorithms for CLI help
func GetSupportedHashAlgorithmsString() string {
	return strings.Join(supportedHashAlgorithmNames(), ", ")
}
