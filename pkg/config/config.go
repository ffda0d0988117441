// Package config loads the two-tier searcher's tunables from environment
// variables and/or an optional YAML file, resolved once at the outer
// boundary. The core searcher only ever sees the resolved Config value —
// it never reads the environment itself.
//
// Environment Variables:
//
//	BRR_QUALITY_WEIGHT        - Weight given to the quality tier when blending (default: 0.7)
//	BRR_RRF_K                 - RRF smoothing constant (default: 60)
//	BRR_CANDIDATE_MULTIPLIER  - Base per-source candidate multiplier (default: 3)
//	BRR_QUALITY_TIMEOUT_MS    - Advisory budget for the refinement phase (default: 500)
//	BRR_FAST_ONLY             - Skip the refinement phase entirely (default: false)
//	BRR_MODEL_DIR             - Directory ML embedders cache models under
//	BRR_FAST_MODEL            - Name of the fast-tier embedding model (advisory)
//	BRR_QUALITY_MODEL         - Name of the quality-tier embedding model (advisory)
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the immutable set of tunables the two-tier searcher is
// configured with. Construct it via LoadFromEnv, LoadFromFile, or
// Default — never mutate a Config after handing it to a searcher.
type Config struct {
	QualityWeight       float64 `yaml:"quality_weight"`
	RRFK                float64 `yaml:"rrf_k"`
	CandidateMultiplier int     `yaml:"candidate_multiplier"`
	QualityTimeoutMS    float64 `yaml:"quality_timeout_ms"`
	FastOnly            bool    `yaml:"fast_only"`
	ModelDir            string  `yaml:"model_dir"`
	FastModel           string  `yaml:"fast_model"`
	QualityModel        string  `yaml:"quality_model"`
}

// Default returns the out-of-the-box Config with no environment or file
// overrides applied.
func Default() Config {
	return Config{
		QualityWeight:       0.7,
		RRFK:                60.0,
		CandidateMultiplier: 3,
		QualityTimeoutMS:    500.0,
		FastOnly:            false,
		ModelDir:            defaultModelDir(),
		FastModel:           "potion-multilingual-128M",
		QualityModel:        "all-MiniLM-L6-v2",
	}
}

// LoadFromEnv resolves a Config from BRR_* environment variables,
// falling back to Default() for anything unset.
func LoadFromEnv() Config {
	cfg := Default()

	cfg.QualityWeight = envFloat("BRR_QUALITY_WEIGHT", cfg.QualityWeight)
	cfg.RRFK = envFloat("BRR_RRF_K", cfg.RRFK)
	cfg.CandidateMultiplier = envInt("BRR_CANDIDATE_MULTIPLIER", cfg.CandidateMultiplier)
	cfg.QualityTimeoutMS = envFloat("BRR_QUALITY_TIMEOUT_MS", cfg.QualityTimeoutMS)
	cfg.FastOnly = envBool("BRR_FAST_ONLY", cfg.FastOnly)
	cfg.ModelDir = envString("BRR_MODEL_DIR", cfg.ModelDir)
	cfg.FastModel = envString("BRR_FAST_MODEL", cfg.FastModel)
	cfg.QualityModel = envString("BRR_QUALITY_MODEL", cfg.QualityModel)

	return cfg
}

// LoadFromFile layers YAML file settings in path on top of base. Only
// keys present in the file override base's fields.
func LoadFromFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	overlay := base
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return base, err
	}
	return overlay, nil
}

func defaultModelDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cache/brr/models"
	}
	return home + "/.cache/brr/models"
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}
