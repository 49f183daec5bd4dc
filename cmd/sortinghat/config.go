// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/contriboss/sortinghat-go"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SORTINGHAT_BACKEND=pb.
const EnvPrefix = "SORTINGHAT"

// Config is the merged result of flags, environment and config file.
type Config struct {
	// Inputs
	Students string   `mapstructure:"students"`
	Courses  string   `mapstructure:"courses"`
	Problem  []string `mapstructure:"problem"`
	Out      string   `mapstructure:"out"`

	// Model
	Mode              string `mapstructure:"mode" validate:"oneof=strict permissive"`
	AllowUnassigned   bool   `mapstructure:"allow-unassigned"`
	Fallback          string `mapstructure:"fallback" validate:"omitempty,oneof=unranked-course unassigned"`
	UnrankedPenalty   int    `mapstructure:"unranked-penalty" validate:"gte=0"`
	UnassignedPenalty int    `mapstructure:"unassigned-penalty" validate:"gte=0"`
	RankCost          string `mapstructure:"rank-cost" validate:"oneof=linear quadratic"`

	// Solver
	Backend  string        `mapstructure:"backend" validate:"oneof=flow pb lp"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxSteps int           `mapstructure:"max-steps" validate:"gte=0"`

	// History
	Archive string `mapstructure:"archive"`
	Label   string `mapstructure:"label"`
	Limit   int    `mapstructure:"limit" validate:"gte=0"`

	// Reporting
	Collapsed bool `mapstructure:"collapsed"`

	// Ambient
	LogLevel    string `mapstructure:"log-level" validate:"oneof=debug info warn error"`
	LogFormat   string `mapstructure:"log-format" validate:"oneof=text json"`
	Trace       bool   `mapstructure:"trace"`
	MetricsFile string `mapstructure:"metrics-file"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateInputs, Config{})
	return v
}

// validateInputs rejects mixing the YAML and CSV inputs.
func validateInputs(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if len(cfg.Problem) > 0 && (cfg.Students != "" || cfg.Courses != "") {
		sl.ReportError(cfg.Problem, "Problem", "problem", "excluded_with", "Students")
	}
	if (cfg.Students == "") != (cfg.Courses == "") {
		sl.ReportError(cfg.Students, "Students", "students", "required_with", "Courses")
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// RequireInput fails unless some problem input is configured.
func (c Config) RequireInput() error {
	if len(c.Problem) == 0 && c.Students == "" {
		return fmt.Errorf("no input: pass --problem or --students and --courses")
	}
	return nil
}

// defaults are the values used when neither flag, environment nor config
// file sets a key. They match the flag defaults.
var defaults = map[string]any{
	"mode":       sortinghat.EligibilityStrict.String(),
	"rank-cost":  "linear",
	"backend":    sortinghat.FlowBackend{}.Name(),
	"timeout":    30 * time.Second,
	"max-steps":  1000000,
	"limit":      20,
	"log-level":  "info",
	"log-format": "text",
}

// loadConfig merges flags > environment > config file > defaults.
func loadConfig(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ModelOptions translates the model section into builder options.
func (c Config) ModelOptions() ([]sortinghat.ModelOption, error) {
	eligibility, err := sortinghat.ParseEligibility(c.Mode)
	if err != nil {
		return nil, err
	}

	opts := []sortinghat.ModelOption{
		sortinghat.WithEligibility(eligibility),
		sortinghat.WithUnassigned(c.AllowUnassigned),
	}
	if c.Fallback != "" {
		order, err := sortinghat.ParseFallbackOrder(c.Fallback)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sortinghat.WithFallbackOrder(order))
	}
	if c.UnrankedPenalty > 0 {
		opts = append(opts, sortinghat.WithUnrankedPenalty(c.UnrankedPenalty))
	}
	if c.UnassignedPenalty > 0 {
		opts = append(opts, sortinghat.WithUnassignedPenalty(c.UnassignedPenalty))
	}
	if c.RankCost == "quadratic" {
		opts = append(opts, sortinghat.WithRankCost(sortinghat.QuadraticRankCost))
	}
	return opts, nil
}

// SolverOptions translates the solver section into solver options.
func (c Config) SolverOptions() ([]sortinghat.SolverOption, error) {
	backend, err := sortinghat.ParseBackend(c.Backend)
	if err != nil {
		return nil, err
	}
	return []sortinghat.SolverOption{
		sortinghat.WithBackend(backend),
		sortinghat.WithTimeLimit(c.Timeout),
		sortinghat.WithMaxSteps(c.MaxSteps),
	}, nil
}
