package convsim

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/convsim/genai/batch"
)

// BatchCmd runs one simulation per selected user agent template.
// Usage: convsim batch -u anxious_student -u frustrated_customer -n 2
type BatchCmd struct {
	UserAgents  []string `short:"u" long:"user-agent" description:"user agent template key (repeatable, all when omitted)"`
	ChatAgent   string   `short:"c" long:"chat-agent" description:"chat agent template key" default:"homedepot"`
	Model       string   `short:"m" long:"model" description:"model ID (config defaultModel when empty)"`
	MaxTurns    int      `short:"t" long:"max-turns" description:"generated turn budget per simulation (config value when 0)"`
	Opening     string   `short:"o" long:"opening" description:"explicit opening message spoken by the chat agent"`
	Concurrency int      `short:"n" long:"concurrency" description:"simultaneous simulations (config value when 0)"`
}

func (b *BatchCmd) Execute(_ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	sim, err := serviceSingleton(ctx)
	if err != nil {
		return err
	}
	report, err := sim.service.Batch(ctx, &batch.Request{
		Initiators:  b.UserAgents,
		Responder:   b.ChatAgent,
		ModelID:     b.Model,
		MaxTurns:    b.MaxTurns,
		Opening:     b.Opening,
		Concurrency: b.Concurrency,
	})
	if err != nil {
		return err
	}
	return printJSON(report)
}
