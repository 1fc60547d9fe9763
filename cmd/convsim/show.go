package convsim

import (
	"context"
	"fmt"

	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/judge"
)

// ShowCmd lists saved transcripts or prints one.
// Usage: convsim show [-d batch_20240501_103000] | convsim show -u conversation_x.json [--json]
type ShowCmd struct {
	URL  string `short:"u" long:"url" description:"transcript URL or name relative to the output URL"`
	Dir  string `short:"d" long:"dir" description:"directory to list, relative to the output URL"`
	JSON bool   `long:"json" description:"print the raw record"`
}

func (s *ShowCmd) Execute(_ []string) error {
	ctx := context.Background()
	sim, err := serviceSingleton(ctx)
	if err != nil {
		return err
	}
	if s.URL == "" {
		URLs, err := sim.service.Transcripts(ctx, s.Dir)
		if err != nil {
			return err
		}
		for _, URL := range URLs {
			fmt.Fprintln(output, URL)
		}
		return nil
	}
	record, err := sim.service.Transcript(ctx, s.URL)
	if err != nil {
		return err
	}
	if s.JSON {
		return printJSON(record)
	}
	summary := conversation.Summarize(record.Conversation)
	fmt.Fprintf(output, "agent: %v  model: %v  turns: %v (user %v, chat %v)\n\n", record.AgentID, record.Model, summary.TotalTurns, summary.InitiatorTurns, summary.ResponderTurns)
	fmt.Fprint(output, judge.Render(record.Conversation))
	if timing := conversation.ComputeTiming(record.Conversation); timing != nil {
		fmt.Fprintln(output)
		return printJSON(timing)
	}
	return nil
}
