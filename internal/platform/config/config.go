// Package config holds the server configuration and the tunable game rules.
// Server settings come from the environment; rules have compiled-in defaults
// that an optional YAML file can override.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Server holds process-level settings.
type Server struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string `env:"DB_PATH" envDefault:"leafrush.db"`
	RulesPath string `env:"RULES_PATH" envDefault:""`
}

// LoadServer parses the server configuration from the environment.
func LoadServer() (*Server, error) {
	cfg, err := env.ParseAs[Server]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Rules are the tunable gameplay constants.
type Rules struct {
	// TickEvery is the resolution of the game clock sweep.
	TickEvery time.Duration
	// SessionDuration bounds one play-through.
	SessionDuration time.Duration
	// GenerateEvery is the interval between order-generation attempts.
	GenerateEvery time.Duration
	// MaxOrders is the display slot capacity.
	MaxOrders int
	// OrderTrials is the number of coin flips per generation attempt.
	OrderTrials int
	// TrialChance is the probability each trial adds one item.
	TrialChance float64
	// OrderDuration is the default time a customer waits.
	OrderDuration time.Duration
	// HurryRatio is the fraction of OrderDuration left that arms the hurry flag.
	HurryRatio float64
	// RemovalDwell is how long a finished order stays on screen.
	RemovalDwell time.Duration
	// FullStock is the replenishment quantity on unlock/restock.
	FullStock int
	// FreePlantKey names the source that unlocks and restocks at no cost.
	FreePlantKey string
	// MoodHold is how long the shopkeeper celebrates or sulks.
	MoodHold time.Duration
	// RewardNoteTTL is how long a reward popup stays visible.
	RewardNoteTTL time.Duration
}

// rulesFile is the YAML-facing shape. Durations are plain milliseconds and
// every field is a pointer so an absent key keeps its default.
type rulesFile struct {
	TickEveryMS       *int     `yaml:"tick_every_ms"`
	SessionDurationMS *int     `yaml:"session_duration_ms"`
	GenerateEveryMS   *int     `yaml:"generate_every_ms"`
	MaxOrders         *int     `yaml:"max_orders"`
	OrderTrials       *int     `yaml:"order_trials"`
	TrialChance       *float64 `yaml:"trial_chance"`
	OrderDurationMS   *int     `yaml:"order_duration_ms"`
	HurryRatio        *float64 `yaml:"hurry_ratio"`
	RemovalDwellMS    *int     `yaml:"removal_dwell_ms"`
	FullStock         *int     `yaml:"full_stock"`
	FreePlantKey      *string  `yaml:"free_plant_key"`
	MoodHoldMS        *int     `yaml:"mood_hold_ms"`
	RewardNoteTTLMS   *int     `yaml:"reward_note_ttl_ms"`
}

func (f rulesFile) apply(rules *Rules) {
	setDur := func(dst *time.Duration, src *int) {
		if src != nil {
			*dst = time.Duration(*src) * time.Millisecond
		}
	}
	setDur(&rules.TickEvery, f.TickEveryMS)
	setDur(&rules.SessionDuration, f.SessionDurationMS)
	setDur(&rules.GenerateEvery, f.GenerateEveryMS)
	setDur(&rules.OrderDuration, f.OrderDurationMS)
	setDur(&rules.RemovalDwell, f.RemovalDwellMS)
	setDur(&rules.MoodHold, f.MoodHoldMS)
	setDur(&rules.RewardNoteTTL, f.RewardNoteTTLMS)
	if f.MaxOrders != nil {
		rules.MaxOrders = *f.MaxOrders
	}
	if f.OrderTrials != nil {
		rules.OrderTrials = *f.OrderTrials
	}
	if f.TrialChance != nil {
		rules.TrialChance = *f.TrialChance
	}
	if f.HurryRatio != nil {
		rules.HurryRatio = *f.HurryRatio
	}
	if f.FullStock != nil {
		rules.FullStock = *f.FullStock
	}
	if f.FreePlantKey != nil {
		rules.FreePlantKey = *f.FreePlantKey
	}
}

// DefaultRules returns the shipped gameplay constants.
func DefaultRules() Rules {
	return Rules{
		TickEvery:       100 * time.Millisecond,
		SessionDuration: 120 * time.Second,
		GenerateEvery:   10 * time.Second,
		MaxOrders:       3,
		OrderTrials:     5,
		TrialChance:     0.5,
		OrderDuration:   15 * time.Second,
		HurryRatio:      0.25,
		RemovalDwell:    5 * time.Second,
		FullStock:       10,
		FreePlantKey:    "plant4",
		MoodHold:        3 * time.Second,
		RewardNoteTTL:   4 * time.Second,
	}
}

// LoadRules returns the defaults, overridden by the YAML file at path when
// path is non-empty. Fields absent from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading rules file: %w", err)
	}
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return rules, fmt.Errorf("parsing rules file: %w", err)
	}
	file.apply(&rules)
	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("invalid rules in %s: %w", path, err)
	}
	return rules, nil
}

// Validate rejects rule sets the engine cannot run with.
func (r Rules) Validate() error {
	if r.TickEvery <= 0 {
		return errors.New("tick_every must be positive")
	}
	if r.SessionDuration <= 0 {
		return errors.New("session_duration must be positive")
	}
	if r.GenerateEvery <= 0 {
		return errors.New("generate_every must be positive")
	}
	if r.MaxOrders <= 0 {
		return errors.New("max_orders must be positive")
	}
	if r.OrderTrials <= 0 {
		return errors.New("order_trials must be positive")
	}
	if r.TrialChance < 0 || r.TrialChance > 1 {
		return errors.New("trial_chance must be within [0, 1]")
	}
	if r.OrderDuration <= 0 {
		return errors.New("order_duration must be positive")
	}
	if r.HurryRatio <= 0 || r.HurryRatio >= 1 {
		return errors.New("hurry_ratio must be within (0, 1)")
	}
	if r.RemovalDwell < 0 {
		return errors.New("removal_dwell must not be negative")
	}
	if r.FullStock <= 0 {
		return errors.New("full_stock must be positive")
	}
	return nil
}
