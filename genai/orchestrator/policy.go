package orchestrator

import "strings"

// DefaultClosingPhrase is what the Initiator is instructed to say when done.
const DefaultClosingPhrase = "thank you, goodbye."

// Policy decides whether an Initiator message ends the conversation.
type Policy interface {
	ShouldEnd(message string) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(message string) bool

func (f PolicyFunc) ShouldEnd(message string) bool {
	return f(message)
}

// PhrasePolicy ends a conversation when any phrase occurs in the message, ignoring case.
type PhrasePolicy struct {
	Phrases []string
}

func (p *PhrasePolicy) ShouldEnd(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range p.Phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" && strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// NewPhrasePolicy creates a phrase policy, defaulting to DefaultClosingPhrase.
func NewPhrasePolicy(phrases ...string) *PhrasePolicy {
	if len(phrases) == 0 {
		phrases = []string{DefaultClosingPhrase}
	}
	return &PhrasePolicy{Phrases: phrases}
}
