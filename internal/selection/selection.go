// Package selection is the boundary between the rules engines and whatever
// picks a move: a person, a language model, a script or a remote bot. The
// engines hand over an indexed list of legal moves; the boundary always
// comes back with a usable index, falling back to 0.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var ErrUnknownAgent = errors.New("unknown agent")

// Request is what an agent sees. Choices is a JSON-friendly list whose
// elements each carry an "idx" field; N is its length.
type Request struct {
	Game    string   `json:"game"`
	Rules   []string `json:"rules,omitempty"`
	Board   string   `json:"board"`
	Side    string   `json:"side"`
	Choices any      `json:"choices"`
	N       int      `json:"-"`
}

// Response is the agent's answer on the wire. MoveIndex is left untyped so
// that malformed answers can be detected instead of failing to decode.
type Response struct {
	MoveIndex any `json:"moveIndex"`
}

type Chooser interface {
	Choose(ctx context.Context, req Request) (int, error)
}

type ChooserFunc func(ctx context.Context, req Request) (int, error)

func (f ChooserFunc) Choose(ctx context.Context, req Request) (int, error) {
	return f(ctx, req)
}

// Clamp maps anything outside [0, n) to 0.
func Clamp(idx, n int) int {
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

// ResolveIndex accepts an untyped index (as decoded from JSON) and returns
// a valid index into a list of n items. Missing, non-integer and
// out-of-range values resolve to 0.
func ResolveIndex(v any, n int) int {
	idx, ok := asInt(v)
	if !ok {
		return 0
	}
	return Clamp(idx, n)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

// Selector owns the configured agents. Only registered names are allowed
// as a "model".
type Selector struct {
	agents  map[string]Chooser
	timeout time.Duration
	logger  *zap.Logger
}

func NewSelector(timeout time.Duration, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		agents:  make(map[string]Chooser),
		timeout: timeout,
		logger:  logger,
	}
}

func (s *Selector) Register(name string, c Chooser) {
	s.agents[name] = c
}

func (s *Selector) Allowed(name string) bool {
	_, ok := s.agents[name]
	return ok
}

func (s *Selector) Agents() []string {
	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Select asks agent for an index into req's choices. It never fails: an
// unknown agent, an error, a timeout or an out-of-range answer all yield 0.
func (s *Selector) Select(ctx context.Context, agent string, req Request) int {
	log := s.logger.With(zap.String("agent", agent), zap.String("game", req.Game), zap.Int("choices", req.N))
	if req.N <= 1 {
		return 0
	}
	chooser, ok := s.agents[agent]
	if !ok {
		log.Warn("unknown agent, playing first legal move")
		return 0
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type result struct {
		idx int
		err error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		idx, err := chooser.Choose(ctx, req)
		done <- result{idx: idx, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Warn("agent did not answer in time, playing first legal move", zap.Error(ctx.Err()))
		return 0
	case res := <-done:
		if res.err != nil {
			log.Warn("agent failed, playing first legal move", zap.Error(res.err))
			return 0
		}
		if res.idx < 0 || res.idx >= req.N {
			log.Warn("agent answered out of range, playing first legal move", zap.Int("index", res.idx))
			return 0
		}
		log.Debug("agent chose", zap.Int("index", res.idx), zap.Duration("took", time.Since(start)))
		return res.idx
	}
}
