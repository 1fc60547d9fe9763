package convsim

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/convsim/service"
)

// SimulateCmd runs one conversation and prints its result.
// Usage: convsim simulate -u frustrated_customer -t 6
type SimulateCmd struct {
	UserAgent string `short:"u" long:"user-agent" description:"user agent template key" required:"true"`
	ChatAgent string `short:"c" long:"chat-agent" description:"chat agent template key" default:"homedepot"`
	Model     string `short:"m" long:"model" description:"model ID (config defaultModel when empty)"`
	MaxTurns  int    `short:"t" long:"max-turns" description:"generated turn budget (config value when 0)"`
	DelayMs   int    `short:"d" long:"delay-ms" description:"pause before each turn in ms (config value when negative)" default:"-1"`
	Opening   string `short:"o" long:"opening" description:"explicit opening message spoken by the chat agent"`
	File      string `long:"file" description:"transcript file name or URL"`
}

func (s *SimulateCmd) Execute(_ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	sim, err := serviceSingleton(ctx)
	if err != nil {
		return err
	}
	request := &service.SimulationRequest{
		Initiator: s.UserAgent,
		Responder: s.ChatAgent,
		ModelID:   s.Model,
		MaxTurns:  s.MaxTurns,
		Opening:   s.Opening,
		FileName:  s.File,
	}
	if s.DelayMs >= 0 {
		delay := s.DelayMs
		request.DelayMs = &delay
	}
	result, err := sim.service.Simulate(ctx, request)
	if err != nil {
		return err
	}
	return printJSON(result)
}
