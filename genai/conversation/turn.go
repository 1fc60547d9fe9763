package conversation

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Speaker identifies the persona that produced a turn.
type Speaker string

const (
	// SpeakerInitiator is the simulated user persona.
	SpeakerInitiator Speaker = "user_agent"
	// SpeakerResponder is the service persona.
	SpeakerResponder Speaker = "chat_agent"
)

// Opposite returns the other side of the conversation.
func (s Speaker) Opposite() Speaker {
	if s == SpeakerInitiator {
		return SpeakerResponder
	}
	return SpeakerInitiator
}

// TimestampLayout is used for all turn timestamps.
const TimestampLayout = time.RFC3339Nano

// ZeroResponseTime marks a turn that had no generation cost.
const ZeroResponseTime = "0.0"

const minResponseTime = 0.001

// Turn is a single utterance. Turns are immutable once appended to a History.
type Turn struct {
	Speaker             Speaker `json:"speaker"`
	Message             string  `json:"message"`
	Timestamp           string  `json:"timestamp"`
	ResponseTimeSeconds string  `json:"response_time_seconds,omitempty"`
}

// NewTurn creates a fully formed turn stamped at now with the measured generation latency.
func NewTurn(speaker Speaker, message string, now time.Time, elapsed time.Duration) *Turn {
	return &Turn{
		Speaker:             speaker,
		Message:             message,
		Timestamp:           now.Format(TimestampLayout),
		ResponseTimeSeconds: FormatSeconds(elapsed),
	}
}

// ResponseTime parses the response time; malformed or empty values count as zero.
func (t *Turn) ResponseTime() float64 {
	if t.ResponseTimeSeconds == "" {
		return 0
	}
	value, err := strconv.ParseFloat(t.ResponseTimeSeconds, 64)
	if err != nil {
		return 0
	}
	return value
}

// Time parses the turn timestamp.
func (t *Turn) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, t.Timestamp)
}

// FormatSeconds renders a duration as seconds rounded to milliseconds, always
// with a decimal point ("0.0", "1.25", "2.0"). Positive durations never render
// below "0.001".
func FormatSeconds(elapsed time.Duration) string {
	if elapsed <= 0 {
		return ZeroResponseTime
	}
	seconds := math.Max(round(elapsed.Seconds(), 3), minResponseTime)
	text := strconv.FormatFloat(seconds, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}
