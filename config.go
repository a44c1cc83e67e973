package farkle

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
)

const (
	defaultMinEntry  = 500
	defaultWinScore  = 10000
	defaultMaxCycles = 8
)

// Style is how much risk the automated opponent takes before banking.
type Style int

const (
	Conservative Style = iota
	Standard
	Aggressive
)

var styleNames = map[Style]string{
	Conservative: "conservative",
	Standard:     "standard",
	Aggressive:   "aggressive",
}

// Banking threshold for each style.
var styleThresholds = map[Style]int{
	Conservative: 650,
	Standard:     900,
	Aggressive:   1200,
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "unknown"
}

// Threshold is the number of unbanked points at which an opponent of this
// style banks. Unknown styles bank like Standard.
func (s Style) Threshold() int {
	if t, ok := styleThresholds[s]; ok {
		return t
	}
	return styleThresholds[Standard]
}

func (s Style) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Newf("unknown style %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	for style, name := range styleNames {
		if name == string(text) {
			*s = style
			return nil
		}
	}
	return errors.Newf("unknown style %q", text)
}

// Config is fixed for the lifetime of a game.
type Config struct {
	// Points a player must bank in one turn before any bank counts.
	MinEntry int `env:"MIN_ENTRY" envDefault:"500" json:"minEntry"`
	// Banked total that ends the game.
	WinScore int `env:"WIN_SCORE" envDefault:"10000" json:"winScore"`
	// Whether scoring all six dice gives the roller six fresh dice.
	HotDice bool  `env:"HOT_DICE" envDefault:"true" json:"hotDice"`
	Style   Style `env:"CPU_STYLE" envDefault:"standard" json:"cpuStyle"`
	// Upper bound on roll cycles the opponent takes in a single turn.
	MaxCycles int `env:"MAX_CYCLES" envDefault:"8" json:"maxCycles"`
}

func DefaultConfig() Config {
	return Config{
		MinEntry:  defaultMinEntry,
		WinScore:  defaultWinScore,
		HotDice:   true,
		Style:     Standard,
		MaxCycles: defaultMaxCycles,
	}
}

// LoadConfigFromEnv reads FARKLE_-prefixed environment variables on top of the
// defaults and normalizes the result.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "FARKLE_"}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg.Normalize(), nil
}

// Normalize replaces out-of-range values with their defaults.
func (c Config) Normalize() Config {
	if c.MinEntry <= 0 {
		c.MinEntry = defaultMinEntry
	}
	if c.WinScore <= 0 {
		c.WinScore = defaultWinScore
	}
	if !c.Style.Valid() {
		c.Style = Standard
	}
	if c.MaxCycles <= 0 {
		c.MaxCycles = defaultMaxCycles
	}
	return c
}
