package convsim

import (
	"context"
)

// JudgeCmd scores a saved transcript.
// Usage: convsim judge -u conversation_frustrated_customer_20240501_103000.json
type JudgeCmd struct {
	URL string `short:"u" long:"url" description:"transcript URL or name relative to the output URL" required:"true"`
}

func (j *JudgeCmd) Execute(_ []string) error {
	ctx := context.Background()
	sim, err := serviceSingleton(ctx)
	if err != nil {
		return err
	}
	verdict, err := sim.service.Judge(ctx, j.URL)
	if err != nil {
		return err
	}
	return printJSON(verdict)
}
