package model

type Player struct {
	ID string
}

// ClientPlayer is a seat as the client sees it. Agent is set when the seat
// is played by a move-selection agent instead of a person.
type ClientPlayer struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Agent string `json:"agent,omitempty"`
}

func (p ClientPlayer) taken() bool {
	return p.ID != "" || p.Agent != ""
}

type GameMode string

const (
	ModeHumanHuman GameMode = "human-human"
	ModeHumanAI    GameMode = "human-ai"
	ModeAIAI       GameMode = "ai-ai"
)

func ParseMode(s string) (GameMode, bool) {
	switch GameMode(s) {
	case ModeHumanHuman, ModeHumanAI, ModeAIAI:
		return GameMode(s), true
	case "":
		return ModeHumanHuman, true
	}
	return "", false
}
