package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/fleetops/config"
	"github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/admission/logging"
	"github.com/kilianp07/fleetops/core/events"
	"github.com/kilianp07/fleetops/core/fleet"
	"github.com/kilianp07/fleetops/core/fuel"
	coremetrics "github.com/kilianp07/fleetops/core/metrics"
	"github.com/kilianp07/fleetops/core/model"
	"github.com/kilianp07/fleetops/core/notify"
	"github.com/kilianp07/fleetops/infra/ledger"
	"github.com/kilianp07/fleetops/infra/logger"
	"github.com/kilianp07/fleetops/infra/metrics"
	"github.com/kilianp07/fleetops/infra/mqtt"
	"github.com/kilianp07/fleetops/infra/snapshot"
	"github.com/kilianp07/fleetops/internal/eventbus"
	"github.com/kilianp07/fleetops/jobs/weeklyreset"
)

// Deps are the collaborators of a Service. Nil fields get no-op or
// in-memory defaults.
type Deps struct {
	Admission admission.Config
	Store     *fleet.MemoryStore
	Logs      logging.LogStore
	Ledger    fuel.Ledger
	Sink      coremetrics.AdmissionSink
	Notifier  notify.Notifier
	Log       logger.Logger
	Now       func() time.Time
}

// Service runs admissions against the fleet store and carries out their
// side effects: decision log, fuel ledger, events and driver notifications.
type Service struct {
	coord    *admission.Coordinator
	store    *fleet.MemoryStore
	logs     logging.LogStore
	ledger   fuel.Ledger
	sink     coremetrics.AdmissionSink
	notifier notify.Notifier
	bus      *eventbus.TypedBus[events.Event]
	log      logger.Logger
	now      func() time.Time

	cfg     *config.Config
	closers []func() error
}

// NewService assembles a Service from explicit dependencies.
func NewService(d Deps) (*Service, error) {
	if d.Store == nil {
		return nil, errors.New("fleet store is required")
	}
	d.Admission.SetDefaults()
	if err := d.Admission.Validate(); err != nil {
		return nil, fmt.Errorf("admission: %w", err)
	}
	if d.Logs == nil {
		d.Logs = logging.NopStore{}
	}
	if d.Ledger == nil {
		d.Ledger = fuel.NewMemoryLedger()
	}
	if d.Sink == nil {
		d.Sink = coremetrics.NopSink{}
	}
	if d.Notifier == nil {
		d.Notifier = notify.NopNotifier{}
	}
	if d.Log == nil {
		d.Log = logger.NopLogger{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		coord:    admission.NewCoordinator(d.Admission),
		store:    d.Store,
		logs:     d.Logs,
		ledger:   d.Ledger,
		sink:     d.Sink,
		notifier: d.Notifier,
		bus:      eventbus.NewTyped[events.Event](),
		log:      d.Log,
		now:      d.Now,
	}, nil
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.NewWithOptions("service", logger.Options{Level: cfg.Logging.Level, Console: cfg.Logging.Console})

	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	snap, err := loadSnapshot(ctx, cfg.Snapshot, logg)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	store := fleet.NewMemoryStore(snap, fleet.Options{
		DefaultAvgConsumption: cfg.Admission.DefaultAvgConsumption,
		PricePerLiter:         cfg.Admission.PricePerLiter,
	})

	logs, err := newLogStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("decision log: %w", err)
	}
	closers = append(closers, logs.Close)

	led, err := newLedger(cfg.Ledger)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("fuel ledger: %w", err)
	}
	closers = append(closers, led.Close)

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.MQTT.Enabled {
		n, err := mqtt.NewNotifier(cfg.MQTT, logger.NewWithOptions("mqtt", logger.Options{Level: cfg.Logging.Level, Console: cfg.Logging.Console}))
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		closers = append(closers, func() error { n.Disconnect(); return nil })
		notifier = n
	}

	svc, err := NewService(Deps{
		Admission: cfg.Admission,
		Store:     store,
		Logs:      logs,
		Ledger:    led,
		Sink:      sink,
		Notifier:  notifier,
		Log:       logg,
	})
	if err != nil {
		closeAll()
		return nil, err
	}
	svc.cfg = cfg
	svc.closers = closers
	return svc, nil
}

// loadSnapshot reads the initial fleet state. The postgres source is read
// once at startup; later changes live in the memory store.
func loadSnapshot(ctx context.Context, cfg config.SnapshotConfig, log logger.Logger) (model.Snapshot, error) {
	switch cfg.Source {
	case "postgres":
		pool, err := snapshot.Connect(ctx, cfg.DSN, log)
		if err != nil {
			return model.Snapshot{}, err
		}
		defer pool.Close()
		return snapshot.NewPostgresProvider(pool).Snapshot(ctx)
	default:
		return fleet.LoadSnapshot(cfg.Path)
	}
}

func newLogStore(cfg config.LoggingConfig) (logging.LogStore, error) {
	switch cfg.Backend {
	case "jsonl":
		return logging.NewJSONLStore(cfg.Path)
	case "jsonl_rotating":
		return logging.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		return logging.NopStore{}, nil
	}
}

func newLedger(cfg config.LedgerConfig) (fuel.Ledger, error) {
	if cfg.Backend == "sqlite" {
		return ledger.NewSQLiteLedger(cfg.Path)
	}
	return fuel.NewMemoryLedger(), nil
}

// Bus returns the event bus the service publishes on.
func (s *Service) Bus() *eventbus.TypedBus[events.Event] { return s.bus }

// Store returns the fleet store.
func (s *Service) Store() *fleet.MemoryStore { return s.store }

// Run serves api on the configured address, starts the metrics collector
// and the weekly reset, and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context, api http.Handler) error {
	if s.cfg == nil {
		return errors.New("service has no configuration")
	}
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	if s.cfg.WeeklyReset.Enabled {
		day, err := s.cfg.WeeklyReset.Day()
		if err != nil {
			return err
		}
		r := weeklyreset.NewRunner(s.store, day, s.cfg.WeeklyReset.Hour, s.log)
		go func() { _ = r.Run(ctx) }()
	}

	srv := &http.Server{
		Addr:         s.cfg.HTTP.Addr,
		Handler:      api,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout(),
		WriteTimeout: s.cfg.HTTP.WriteTimeout(),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
