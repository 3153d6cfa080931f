package env

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules is the optional operator-maintained YAML file referenced by RULES_FILE.
//
//	noise_phrases:
//	  - "merge branch"
//	  - "bump version"
//	schedules:
//	  send: "*/30 * * * *"
type Rules struct {
	NoisePhrases []string  `yaml:"noise_phrases"`
	Schedules    Schedules `yaml:"schedules"`
}

func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, err
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules: %w", err)
	}

	phrases := make([]string, 0, len(rules.NoisePhrases))
	for _, p := range rules.NoisePhrases {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	if rules.NoisePhrases != nil {
		rules.NoisePhrases = phrases
	}

	return rules, nil
}

// applyRules overlays a rules file on the env-derived values. A rules file that
// names noise_phrases (even an empty list) wins over NOISE_PHRASES.
func applyRules(rules Rules) {
	if rules.NoisePhrases != nil {
		NOISE_PHRASES = rules.NoisePhrases
	}
	SCHEDULES = rules.Schedules.withDefaults(SCHEDULES)
}

func (s Schedules) withDefaults(base Schedules) Schedules {
	if strings.TrimSpace(s.Generate) != "" {
		base.Generate = s.Generate
	}
	if strings.TrimSpace(s.Send) != "" {
		base.Send = s.Send
	}
	if strings.TrimSpace(s.Cleanup) != "" {
		base.Cleanup = s.Cleanup
	}
	return base
}
