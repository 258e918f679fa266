package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LLMChooser asks an OpenAI-compatible chat completions endpoint.
type LLMChooser struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *LLMChooser) Choose(ctx context.Context, req Request) (int, error) {
	body := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt(req)},
			{Role: "user", Content: UserPrompt(req)},
		},
		Temperature: c.Temperature,
	}

	agent := fiber.Post(c.Endpoint).JSON(body)
	if c.APIKey != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.APIKey)
	}
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}

	code, data, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, fmt.Errorf("chat request: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return 0, fmt.Errorf("chat request: status %d", code)
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("decode chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, errors.New("chat response has no choices")
	}
	idx, ok := ExtractMoveIndex(resp.Choices[0].Message.Content)
	if !ok {
		return 0, fmt.Errorf("no moveIndex in %q", resp.Choices[0].Message.Content)
	}
	return idx, nil
}

var (
	firstObject  = regexp.MustCompile(`\{[\s\S]*?\}`)
	moveIndexKey = regexp.MustCompile(`"moveIndex"\s*:\s*(\d+)`)
)

// ExtractMoveIndex pulls {"moveIndex": n} out of free text. The first JSON
// object wins; a bare "moveIndex": n anywhere is the fallback.
func ExtractMoveIndex(text string) (int, bool) {
	if obj := firstObject.FindString(text); obj != "" {
		var resp Response
		if err := json.Unmarshal([]byte(obj), &resp); err == nil {
			if idx, ok := asInt(resp.MoveIndex); ok {
				return idx, true
			}
		}
	}
	if m := moveIndexKey.FindStringSubmatch(text); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err == nil {
			return idx, true
		}
	}
	return 0, false
}

func SystemPrompt(req Request) string {
	lines := []string{
		fmt.Sprintf("You are a strong %s engine. Respond ONLY with a JSON object.", req.Game),
		`Format: {"moveIndex": integer}. No prose, no code fences.`,
	}
	return strings.Join(append(lines, req.Rules...), "\n")
}

func UserPrompt(req Request) string {
	choices, _ := json.Marshal(req.Choices)
	return strings.Join([]string{
		"Board (top row first):",
		req.Board,
		"Side to move: " + req.Side,
		"Legal moves (array):",
		string(choices),
		`Return ONLY {"moveIndex": n} where n is an index in the array above.`,
	}, "\n")
}
