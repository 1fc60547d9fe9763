package convsim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/internal/config"
	"github.com/viant/convsim/internal/log"
	"github.com/viant/convsim/service"
)

var (
	mux        sync.Mutex
	cfgPath    string
	eventsPath string
	current    *simulator
	output     io.Writer = os.Stdout
)

type simulator struct {
	config    *config.Config
	logger    zerolog.Logger
	service   *service.Service
	collector *log.Collector
	events    *os.File
	sinkDone  <-chan struct{}
}

func setGlobals(configPath, events string) {
	mux.Lock()
	defer mux.Unlock()
	cfgPath, eventsPath = configPath, events
}

// serviceSingleton loads configuration and wires the service once per process.
func serviceSingleton(ctx context.Context) (*simulator, error) {
	mux.Lock()
	defer mux.Unlock()
	if current != nil {
		return current, nil
	}
	cfg, err := config.LoadOrCreate(ctx, cfgPath)
	if err != nil {
		return nil, err
	}
	logger := log.Init(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, WithCaller: cfg.Log.WithCaller})
	ret := &simulator{config: cfg, logger: logger, collector: &log.Collector{}}
	if eventsPath != "" {
		if ret.events, err = os.OpenFile(eventsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open events file %v: %w", eventsPath, err)
		}
		ret.sinkDone = ret.collector.FileSink(ret.events)
	}
	ret.service = service.NewFromConfig(cfg, logger, ret.collector, nil)
	current = ret
	return ret, nil
}

// closeRuntime flushes pending events.
func closeRuntime() {
	mux.Lock()
	defer mux.Unlock()
	if current == nil {
		return
	}
	current.collector.Close()
	if current.sinkDone != nil {
		<-current.sinkDone
	}
	if current.events != nil {
		_ = current.events.Close()
	}
	current = nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, string(data))
	return err
}
