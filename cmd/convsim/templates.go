package convsim

import (
	"context"
	"fmt"
)

// TemplatesCmd lists persona templates.
type TemplatesCmd struct{}

func (t *TemplatesCmd) Execute(_ []string) error {
	sim, err := serviceSingleton(context.Background())
	if err != nil {
		return err
	}
	templates := sim.service.Templates()
	fmt.Fprintln(output, "user agents:")
	for _, template := range templates.Initiators {
		fmt.Fprintf(output, "  %-22v %v\n", template.Key, template.Description)
	}
	fmt.Fprintln(output, "chat agents:")
	for _, template := range templates.Responders {
		fmt.Fprintf(output, "  %-22v %v\n", template.Key, template.Description)
	}
	return nil
}
