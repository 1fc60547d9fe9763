package conversation

// Summary describes the shape of a history.
type Summary struct {
	TotalTurns          int     `json:"total_turns"`
	InitiatorTurns      int     `json:"user_agent_turns"`
	ResponderTurns      int     `json:"chat_agent_turns"`
	ConversationStarted *string `json:"conversation_started"`
	LastMessage         *string `json:"last_message"`
}

// Summarize builds a summary; start and last timestamps are nil for an empty history.
func Summarize(turns []Turn) *Summary {
	summary := &Summary{TotalTurns: len(turns)}
	for i := range turns {
		switch turns[i].Speaker {
		case SpeakerInitiator:
			summary.InitiatorTurns++
		case SpeakerResponder:
			summary.ResponderTurns++
		}
	}
	if len(turns) > 0 {
		started := turns[0].Timestamp
		last := turns[len(turns)-1].Timestamp
		summary.ConversationStarted = &started
		summary.LastMessage = &last
	}
	return summary
}

// Summary summarizes the current history.
func (h *History) Summary() *Summary {
	return Summarize(h.Turns())
}
