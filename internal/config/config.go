package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const groqChatEndpoint = "https://api.groq.com/openai/v1/chat/completions"

type AgentKind string

const (
	AgentLLM    AgentKind = "llm"
	AgentLua    AgentKind = "lua"
	AgentRemote AgentKind = "remote"
	AgentFirst  AgentKind = "first"
)

// Agent describes one move-selection agent. Name is what clients send as
// "model".
type Agent struct {
	Name        string    `yaml:"name"`
	Kind        AgentKind `yaml:"kind"`
	Model       string    `yaml:"model"`
	Endpoint    string    `yaml:"endpoint"`
	APIKey      string    `yaml:"apiKey"`
	Script      string    `yaml:"script"`
	Temperature float64   `yaml:"temperature"`
}

type Log struct {
	Development bool `yaml:"development"`
}

type Selection struct {
	Timeout       time.Duration `yaml:"timeout"`
	AutoplayDelay time.Duration `yaml:"autoplayDelay"`
}

type Config struct {
	Addr         string    `yaml:"addr"`
	AllowOrigins []string  `yaml:"allowOrigins"`
	Log          Log       `yaml:"log"`
	Selection    Selection `yaml:"selection"`
	Agents       []Agent   `yaml:"agents"`
}

func Default() Config {
	cfg := Config{
		Addr:         ":3000",
		AllowOrigins: []string{"http://localhost:5173"},
		Selection: Selection{
			Timeout:       20 * time.Second,
			AutoplayDelay: 500 * time.Millisecond,
		},
	}
	for _, model := range []string{"llama-3.3-70b-versatile", "openai/gpt-oss-120b", "openai/gpt-oss-20b"} {
		cfg.Agents = append(cfg.Agents, Agent{
			Name:     model,
			Kind:     AgentLLM,
			Model:    model,
			Endpoint: groqChatEndpoint,
		})
	}
	cfg.Agents = append(cfg.Agents, Agent{Name: "first-legal", Kind: AgentFirst})
	return cfg
}

// Load reads defaults, then the YAML file at path (if path is not empty),
// then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("DRAUGHTS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("DRAUGHTS_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = strings.Split(v, ",")
	}
	if v := getenv("DRAUGHTS_LOG_DEV"); v == "1" || strings.EqualFold(v, "true") {
		cfg.Log.Development = true
	}
	if key := getenv("GROQ_API_KEY"); key != "" {
		for i := range cfg.Agents {
			if cfg.Agents[i].Kind == AgentLLM && cfg.Agents[i].APIKey == "" {
				cfg.Agents[i].APIKey = key
			}
		}
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is empty")
	}
	if len(c.Agents) == 0 {
		return errors.New("config: no agents configured")
	}
	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name == "" {
			return errors.New("config: agent without name")
		}
		if seen[a.Name] {
			return fmt.Errorf("config: duplicate agent %q", a.Name)
		}
		seen[a.Name] = true
		switch a.Kind {
		case AgentLLM:
			if a.Endpoint == "" || a.Model == "" {
				return fmt.Errorf("config: llm agent %q needs endpoint and model", a.Name)
			}
		case AgentRemote:
			if a.Endpoint == "" {
				return fmt.Errorf("config: remote agent %q needs endpoint", a.Name)
			}
		case AgentLua, AgentFirst:
		default:
			return fmt.Errorf("config: agent %q has unknown kind %q", a.Name, a.Kind)
		}
	}
	return nil
}
