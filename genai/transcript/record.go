package transcript

import "github.com/viant/convsim/genai/conversation"

// Metadata describes the Initiator persona that produced a conversation.
type Metadata struct {
	AgentID           string
	PersonalityPrompt string
	ScenarioPrompt    string
	BasePrompt        string
	Model             string
}

// Record is the persisted form of one conversation.
type Record struct {
	AgentID           string              `json:"agent_id"`
	PersonalityPrompt string              `json:"personality_prompt"`
	ScenarioPrompt    string              `json:"problem_roleplay_prompt"`
	BasePrompt        string              `json:"base_prompt"`
	Model             string              `json:"model"`
	ConversationStart *string             `json:"conversation_start"`
	ConversationEnd   *string             `json:"conversation_end"`
	TotalTurns        int                 `json:"total_turns"`
	Conversation      []conversation.Turn `json:"conversation"`
}

// NewRecord builds a record from metadata and a history snapshot.
func NewRecord(metadata *Metadata, turns []conversation.Turn) *Record {
	record := &Record{
		TotalTurns:   len(turns),
		Conversation: turns,
	}
	if record.Conversation == nil {
		record.Conversation = []conversation.Turn{}
	}
	if metadata != nil {
		record.AgentID = metadata.AgentID
		record.PersonalityPrompt = metadata.PersonalityPrompt
		record.ScenarioPrompt = metadata.ScenarioPrompt
		record.BasePrompt = metadata.BasePrompt
		record.Model = metadata.Model
	}
	if len(turns) > 0 {
		start := turns[0].Timestamp
		end := turns[len(turns)-1].Timestamp
		record.ConversationStart = &start
		record.ConversationEnd = &end
	}
	return record
}
