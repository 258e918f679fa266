package selection

import (
	"context"
	"fmt"
	"os"

	"github.com/benbeisheim/draughts-backend/internal/config"
	"go.uber.org/zap"
)

// First always plays the first legal move.
var First = ChooserFunc(func(context.Context, Request) (int, error) { return 0, nil })

// Build registers one chooser per configured agent.
func Build(cfg config.Config, logger *zap.Logger) (*Selector, error) {
	s := NewSelector(cfg.Selection.Timeout, logger)
	for _, a := range cfg.Agents {
		c, err := newChooser(a)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", a.Name, err)
		}
		s.Register(a.Name, c)
	}
	return s, nil
}

func newChooser(a config.Agent) (Chooser, error) {
	switch a.Kind {
	case config.AgentLLM:
		return &LLMChooser{
			Endpoint:    a.Endpoint,
			Model:       a.Model,
			APIKey:      a.APIKey,
			Temperature: a.Temperature,
		}, nil
	case config.AgentLua:
		script := DefaultLuaScript
		if a.Script != "" {
			data, err := os.ReadFile(a.Script)
			if err != nil {
				return nil, fmt.Errorf("read lua script: %w", err)
			}
			script = string(data)
		}
		return &LuaChooser{Script: script}, nil
	case config.AgentRemote:
		return &RemoteChooser{URL: a.Endpoint}, nil
	case config.AgentFirst:
		return First, nil
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnknownAgent, a.Kind)
}
