// Package config loads tracking tuning parameters from JSON files. Fields
// are pointer-typed so a partial config file overrides only what it names;
// the Get* accessors supply the canonical defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Merge policy names accepted in tuning files.
const (
	MergePolicyBrightest = "brightest"
	MergePolicyCentroid  = "centroid"
)

// TuningConfig represents the root configuration for tracking parameters.
// The same JSON schema is used for startup configuration and for runtime
// parameter sweeps, so every field is optional.
type TuningConfig struct {
	// Feature finding
	Diameter     *int     `json:"diameter,omitempty"`
	Separation   *float64 `json:"separation,omitempty"`
	Percentile   *float64 `json:"percentile,omitempty"`
	ThresholdAbs *float64 `json:"threshold_abs,omitempty"`
	Invert       *bool    `json:"invert,omitempty"`
	MergePolicy  *string  `json:"merge_policy,omitempty"` // "brightest" or "centroid"
	MinMass      *float64 `json:"min_mass,omitempty"`
	MaxSize      *float64 `json:"max_size,omitempty"`
	MaxEcc       *float64 `json:"max_ecc,omitempty"`
	TopN         *int     `json:"top_n,omitempty"`

	// Linking
	SearchRange     *float64 `json:"search_range,omitempty"`
	Memory          *int     `json:"memory,omitempty"`
	PredictVelocity *bool    `json:"predict_velocity,omitempty"`
	MaxSubnetSize   *int     `json:"max_subnet_size,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultTuningConfig returns a TuningConfig populated with the canonical
// defaults for a 9-pixel feature.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		Diameter:        ptrInt(9),
		Separation:      ptrFloat64(10),
		Percentile:      ptrFloat64(64),
		Invert:          ptrBool(false),
		MergePolicy:     ptrString(MergePolicyBrightest),
		MinMass:         ptrFloat64(100),
		SearchRange:     ptrFloat64(5),
		Memory:          ptrInt(0),
		PredictVelocity: ptrBool(false),
		MaxSubnetSize:   ptrInt(30),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the size cap. Fields omitted from
// the JSON keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every field that is set. Malformed values fail here, once,
// rather than deep inside the pipeline.
func (c *TuningConfig) Validate() error {
	if c.Diameter != nil {
		if *c.Diameter < 3 || *c.Diameter%2 == 0 {
			return fmt.Errorf("diameter must be an odd integer >= 3, got %d", *c.Diameter)
		}
	}
	if c.Separation != nil && *c.Separation < 0 {
		return fmt.Errorf("separation must be non-negative, got %v", *c.Separation)
	}
	if c.Percentile != nil {
		if *c.Percentile < 0 || *c.Percentile >= 100 {
			return fmt.Errorf("percentile must be in [0, 100), got %v", *c.Percentile)
		}
	}
	if c.MergePolicy != nil {
		switch *c.MergePolicy {
		case MergePolicyBrightest, MergePolicyCentroid:
		default:
			return fmt.Errorf("merge_policy must be %q or %q, got %q", MergePolicyBrightest, MergePolicyCentroid, *c.MergePolicy)
		}
	}
	if c.MinMass != nil && *c.MinMass < 0 {
		return fmt.Errorf("min_mass must be non-negative, got %v", *c.MinMass)
	}
	if c.MaxSize != nil && *c.MaxSize < 0 {
		return fmt.Errorf("max_size must be non-negative, got %v", *c.MaxSize)
	}
	if c.MaxEcc != nil && *c.MaxEcc < 0 {
		return fmt.Errorf("max_ecc must be non-negative, got %v", *c.MaxEcc)
	}
	if c.TopN != nil && *c.TopN < 0 {
		return fmt.Errorf("top_n must be non-negative, got %d", *c.TopN)
	}
	if c.SearchRange != nil && *c.SearchRange <= 0 {
		return fmt.Errorf("search_range must be positive, got %v", *c.SearchRange)
	}
	if c.Memory != nil && *c.Memory < 0 {
		return fmt.Errorf("memory must be non-negative, got %d", *c.Memory)
	}
	if c.MaxSubnetSize != nil && *c.MaxSubnetSize < 0 {
		return fmt.Errorf("max_subnet_size must be non-negative, got %d", *c.MaxSubnetSize)
	}
	return nil
}

// GetDiameter returns the diameter value or the default.
func (c *TuningConfig) GetDiameter() int {
	if c.Diameter == nil {
		return 9
	}
	return *c.Diameter
}

// GetSeparation returns the separation value, defaulting to diameter + 1.
func (c *TuningConfig) GetSeparation() float64 {
	if c.Separation == nil {
		return float64(c.GetDiameter() + 1)
	}
	return *c.Separation
}

// GetPercentile returns the percentile value or the default.
func (c *TuningConfig) GetPercentile() float64 {
	if c.Percentile == nil {
		return 64
	}
	return *c.Percentile
}

// GetInvert returns the invert value or the default.
func (c *TuningConfig) GetInvert() bool {
	if c.Invert == nil {
		return false
	}
	return *c.Invert
}

// GetMergePolicy returns the merge_policy value or the default.
func (c *TuningConfig) GetMergePolicy() string {
	if c.MergePolicy == nil {
		return MergePolicyBrightest
	}
	return *c.MergePolicy
}

// GetMinMass returns the min_mass value or the default.
func (c *TuningConfig) GetMinMass() float64 {
	if c.MinMass == nil {
		return 100
	}
	return *c.MinMass
}

// GetMaxSize returns the max_size value, 0 meaning unbounded.
func (c *TuningConfig) GetMaxSize() float64 {
	if c.MaxSize == nil {
		return 0
	}
	return *c.MaxSize
}

// GetMaxEcc returns the max_ecc value, 0 meaning unbounded.
func (c *TuningConfig) GetMaxEcc() float64 {
	if c.MaxEcc == nil {
		return 0
	}
	return *c.MaxEcc
}

// GetTopN returns the top_n value, 0 meaning all features.
func (c *TuningConfig) GetTopN() int {
	if c.TopN == nil {
		return 0
	}
	return *c.TopN
}

// GetSearchRange returns the search_range value or the default.
func (c *TuningConfig) GetSearchRange() float64 {
	if c.SearchRange == nil {
		return 5
	}
	return *c.SearchRange
}

// GetMemory returns the memory value or the default.
func (c *TuningConfig) GetMemory() int {
	if c.Memory == nil {
		return 0
	}
	return *c.Memory
}

// GetPredictVelocity returns the predict_velocity value or the default.
func (c *TuningConfig) GetPredictVelocity() bool {
	if c.PredictVelocity == nil {
		return false
	}
	return *c.PredictVelocity
}

// GetMaxSubnetSize returns the max_subnet_size value or the default.
func (c *TuningConfig) GetMaxSubnetSize() int {
	if c.MaxSubnetSize == nil {
		return 30
	}
	return *c.MaxSubnetSize
}
