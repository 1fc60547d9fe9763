package conversation

import "math"

// RoleTiming aggregates response times of one speaker, in seconds.
type RoleTiming struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total_time"`
	Average float64 `json:"average_time"`
	Min     float64 `json:"min_time"`
	Max     float64 `json:"max_time"`
}

// TimingStatistics holds per speaker timing derived from a history.
type TimingStatistics struct {
	Initiator RoleTiming `json:"user_agent"`
	Responder RoleTiming `json:"chat_agent"`
}

// ComputeTiming derives timing statistics over generated turns. An opening
// Responder utterance without generation cost is excluded; every other turn
// counts, including instant ones.
func ComputeTiming(turns []Turn) *TimingStatistics {
	var initiator, responder []float64
	for i := range turns {
		if i == 0 && IsOpening(&turns[i]) {
			continue
		}
		value := turns[i].ResponseTime()
		switch turns[i].Speaker {
		case SpeakerInitiator:
			initiator = append(initiator, value)
		case SpeakerResponder:
			responder = append(responder, value)
		}
	}
	return &TimingStatistics{
		Initiator: roleTiming(initiator),
		Responder: roleTiming(responder),
	}
}

// IsOpening reports whether turn is a greeting or explicit opening rather than a generated reply.
func IsOpening(turn *Turn) bool {
	return turn.Speaker == SpeakerResponder && turn.ResponseTime() <= 0
}

func roleTiming(values []float64) RoleTiming {
	result := RoleTiming{Count: len(values)}
	if len(values) == 0 {
		return result
	}
	result.Min, result.Max = values[0], values[0]
	for _, value := range values {
		result.Total += value
		if value < result.Min {
			result.Min = value
		}
		if value > result.Max {
			result.Max = value
		}
	}
	result.Average = round(result.Total/float64(len(values)), 3)
	result.Total = round(result.Total, 3)
	result.Min = round(result.Min, 3)
	result.Max = round(result.Max, 3)
	return result
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
