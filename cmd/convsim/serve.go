package convsim

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/viant/convsim/adapter/http"
)

// ServeCmd starts the HTTP server.
// Usage: convsim serve --addr :8080
type ServeCmd struct {
	Addr string `short:"a" long:"addr" description:"listen address (config server.addr when empty)"`
}

func (s *ServeCmd) Execute(_ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	sim, err := serviceSingleton(ctx)
	if err != nil {
		return err
	}
	addr := s.Addr
	if addr == "" {
		addr = sim.config.Server.Addr
	}
	handler := httpadapter.NewServer(sim.service,
		httpadapter.WithLogger(sim.logger),
		httpadapter.WithAllowedOrigins(sim.config.Server.AllowedOrigins...))
	sim.logger.Info().Str("addr", addr).Str("output", sim.config.OutputURL).Msg("convsim HTTP server listening")
	err = httpadapter.ListenAndServe(ctx, addr, handler)
	sim.service.Wait()
	return err
}
