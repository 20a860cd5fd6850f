package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/parisxmas/oxidocs/internal/config"
	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/gelf"
	"github.com/parisxmas/oxidocs/internal/repository"
	"github.com/parisxmas/oxidocs/internal/repository/oxirepo"
	"github.com/parisxmas/oxidocs/internal/repository/sqlrepo"
	"github.com/parisxmas/oxidocs/internal/service"
)

const serviceName = "oxidocs"

// setupLogging fans the standard logger out to GELF when gelf_addr is set.
func (a *app) setupLogging() {
	if a.cfg.GelfAddr == "" {
		return
	}
	w, err := gelf.New(a.cfg.GelfAddr, serviceName)
	if err != nil {
		log.Printf("Warning: GELF init failed: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, w))
	log.Printf("GELF logging: enabled (%s)", a.cfg.GelfAddr)
}

// openStore connects the configured backend and brings its schema up to date.
func (a *app) openStore(ctx context.Context) (*repository.Store, error) {
	var (
		store *repository.Store
		err   error
	)
	switch a.cfg.Store {
	case config.StoreOxiDB:
		store, err = oxirepo.Open(a.cfg.OxiDBHost, a.cfg.OxiDBPort, a.cfg.PoolSize)
		if err == nil {
			log.Printf("Connected to OxiDB at %s:%d (pool size: %d)", a.cfg.OxiDBHost, a.cfg.OxiDBPort, a.cfg.PoolSize)
		}
	case config.StorePostgres:
		store, err = sqlrepo.Open(sqlrepo.Postgres, a.cfg.DatabaseURL)
	default:
		store, err = sqlrepo.Open(sqlrepo.SQLite, a.cfg.DatabaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store, err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate %s store: %w", a.cfg.Store, err)
	}
	return store, nil
}

// openPublisher returns a RabbitMQ publisher when amqp_url is set. A broker
// that cannot be reached downgrades to the no-op publisher.
func (a *app) openPublisher() events.Publisher {
	if a.cfg.AMQPURL == "" {
		return events.Nop{}
	}
	p, err := events.NewRabbitPublisher(a.cfg.AMQPURL, a.cfg.EventsQueue)
	if err != nil {
		log.Printf("Warning: events disabled: %v", err)
		return events.Nop{}
	}
	log.Printf("Publishing events to queue %s", a.cfg.EventsQueue)
	return p
}

func (a *app) seedOptions() service.SeedOptions {
	opts := service.SeedOptions{Sample: a.cfg.SeedSample}
	if a.cfg.AdminPass != "" {
		opts.AdminUser = a.cfg.AdminUser
		opts.AdminPass = a.cfg.AdminPass
	}
	return opts
}
