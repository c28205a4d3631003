/*
Package config manages TOML config for the phraseward engine.
*/
package config

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkarren/phraseward/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Match   MatchConfig   `toml:"match"`
	Input   InputConfig   `toml:"input"`
	Session SessionConfig `toml:"session"`
}

// MatchConfig has scoring and ranking options.
type MatchConfig struct {
	MaxSuggestions        int     `toml:"max_suggestions"`
	MinSuggestions        int     `toml:"min_suggestions"`
	MinSimilarity         float64 `toml:"min_similarity"`
	EnablePartialMatching bool    `toml:"enable_partial_matching"`
}

// InputConfig holds keystroke assembly options.
type InputConfig struct {
	PhraseWindowSize  int `toml:"phrase_window_size"`
	MinPhraseLength   int `toml:"min_phrase_length"`
	MaxPhraseLength   int `toml:"max_phrase_length"`
	RecentPhrasesSize int `toml:"recent_phrases_size"`
}

// SessionConfig holds suggestion lifecycle options.
type SessionConfig struct {
	SuggestionTimeoutMs int `toml:"suggestion_timeout_ms"`
}

// SuggestionTimeout returns the configured timeout as a duration.
func (s SessionConfig) SuggestionTimeout() time.Duration {
	return time.Duration(s.SuggestionTimeoutMs) * time.Millisecond
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Match: MatchConfig{
			MaxSuggestions:        10,
			MinSuggestions:        3,
			MinSimilarity:         0.5,
			EnablePartialMatching: true,
		},
		Input: InputConfig{
			PhraseWindowSize:  10,
			MinPhraseLength:   5,
			MaxPhraseLength:   60,
			RecentPhrasesSize: 50,
		},
		Session: SessionConfig{
			SuggestionTimeoutMs: 8000,
		},
	}
}

// Validate clamps out-of-range values back to safe ones and logs each fix.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Match.MinSimilarity < 0 || c.Match.MinSimilarity > 1 {
		log.Warnf("min_similarity %v out of [0,1], using %v", c.Match.MinSimilarity, def.Match.MinSimilarity)
		c.Match.MinSimilarity = def.Match.MinSimilarity
	}
	if c.Match.MaxSuggestions < 1 {
		log.Warnf("max_suggestions %d < 1, using %d", c.Match.MaxSuggestions, def.Match.MaxSuggestions)
		c.Match.MaxSuggestions = def.Match.MaxSuggestions
	}
	if c.Match.MinSuggestions < 0 {
		c.Match.MinSuggestions = 0
	}
	if c.Match.MinSuggestions > c.Match.MaxSuggestions {
		c.Match.MinSuggestions = c.Match.MaxSuggestions
	}
	if c.Input.PhraseWindowSize < 1 {
		log.Warnf("phrase_window_size %d < 1, using %d", c.Input.PhraseWindowSize, def.Input.PhraseWindowSize)
		c.Input.PhraseWindowSize = def.Input.PhraseWindowSize
	}
	if c.Input.MinPhraseLength < 1 {
		c.Input.MinPhraseLength = 1
	}
	if c.Input.MaxPhraseLength < c.Input.MinPhraseLength {
		log.Warnf("max_phrase_length %d below min_phrase_length, using %d", c.Input.MaxPhraseLength, def.Input.MaxPhraseLength)
		c.Input.MaxPhraseLength = def.Input.MaxPhraseLength
	}
	if c.Input.RecentPhrasesSize < 0 {
		c.Input.RecentPhrasesSize = 0
	}
	if c.Session.SuggestionTimeoutMs < 0 {
		log.Warnf("suggestion_timeout_ms %d < 0, using %d", c.Session.SuggestionTimeoutMs, def.Session.SuggestionTimeoutMs)
		c.Session.SuggestionTimeoutMs = def.Session.SuggestionTimeoutMs
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Unknown keys are ignored; keys the
// file omits keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse salvages whatever sections still parse from a
// malformed TOML file, defaults covering the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if matchSection, ok := utils.ExtractSection(tempConfig, "match"); ok {
		extractMatchConfig(matchSection, &config.Match)
	}
	if inputSection, ok := utils.ExtractSection(tempConfig, "input"); ok {
		extractInputConfig(inputSection, &config.Input)
	}
	if sessionSection, ok := utils.ExtractSection(tempConfig, "session"); ok {
		extractSessionConfig(sessionSection, &config.Session)
	}
	config.Validate()
	return config, nil
}

// extractMatchConfig extracts match configuration from a map
func extractMatchConfig(data map[string]any, match *MatchConfig) {
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		match.MaxSuggestions = val
	}
	if val, ok := utils.ExtractInt64(data, "min_suggestions"); ok {
		match.MinSuggestions = val
	}
	if val, ok := utils.ExtractFloat64(data, "min_similarity"); ok {
		match.MinSimilarity = val
	}
	if val, ok := utils.ExtractBool(data, "enable_partial_matching"); ok {
		match.EnablePartialMatching = val
	}
}

// extractInputConfig extracts input configuration from a map
func extractInputConfig(data map[string]any, input *InputConfig) {
	if val, ok := utils.ExtractInt64(data, "phrase_window_size"); ok {
		input.PhraseWindowSize = val
	}
	if val, ok := utils.ExtractInt64(data, "min_phrase_length"); ok {
		input.MinPhraseLength = val
	}
	if val, ok := utils.ExtractInt64(data, "max_phrase_length"); ok {
		input.MaxPhraseLength = val
	}
	if val, ok := utils.ExtractInt64(data, "recent_phrases_size"); ok {
		input.RecentPhrasesSize = val
	}
}

// extractSessionConfig extracts session config from a map
func extractSessionConfig(data map[string]any, session *SessionConfig) {
	if val, ok := utils.ExtractInt64(data, "suggestion_timeout_ms"); ok {
		session.SuggestionTimeoutMs = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
