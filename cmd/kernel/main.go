package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coursework/rtkernel/internal/auditlog"
	"github.com/coursework/rtkernel/internal/monitor"
	"github.com/coursework/rtkernel/internal/schedconfig"
	"github.com/coursework/rtkernel/internal/schedcore"
	"github.com/coursework/rtkernel/internal/schedevents"
	"github.com/coursework/rtkernel/internal/schedmetrics"
)

// noopSwitcher is the default Switcher: it has no real address space to
// hand control to, so it just sleeps for one millisecond, whatever the
// process's exec budget. A real teaching-kernel embedding
// replaces this with its own trap/context-switch routine.
type noopSwitcher struct{}

func (noopSwitcher) Switch(p *schedcore.Process) {
	time.Sleep(time.Millisecond)
}

func main() {
	cfg := schedconfig.Load()

	table := schedcore.NewTable(cfg.NProc)
	clock := &schedcore.TickCounter{}
	kernel := schedcore.NewKernel(table, clock)
	kernel.RMCountMode = cfg.RMCountMode

	bus, err := schedevents.NewNATSBus(schedevents.Config{
		URL:            cfg.NATSURL,
		Name:           "rtkernel",
		Subject:        "rtkernel.events",
		ReconnectWait:  time.Second,
		MaxReconnects:  60,
		ConnectTimeout: 10 * time.Second,
	})
	var publisher schedevents.Publisher = schedevents.NoopBus{}
	if err != nil {
		log.Printf("schedevents: NATS unavailable, falling back to no-op bus: %v", err)
	} else {
		publisher = bus
	}
	defer publisher.Close()

	audit, err := auditlog.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("auditlog: %v", err)
	}
	defer audit.Close()
	if err := audit.EnsureSchema(context.Background()); err != nil {
		log.Printf("auditlog: schema setup failed, audit writes will error: %v", err)
	}

	kernel.OnDecision = func(d schedcore.AdmissionDecision) {
		ctx := context.Background()

		evType := schedevents.TypeProcessAdmitted
		if !d.Accepted {
			evType = schedevents.TypeProcessRejected
		}
		ev, err := schedevents.NewEvent(evType, d.PID, schedevents.ProcessAdmissionData{
			Policy:  d.Policy.String(),
			UtilEDF: d.UtilEDF,
			UtilRM:  d.UtilRM,
		})
		if err == nil {
			if err := publisher.Publish(ctx, ev); err != nil {
				log.Printf("schedevents: publish failed: %v", err)
			}
		}

		if err := audit.Record(ctx, auditlog.Record{
			PID:      d.PID,
			Policy:   d.Policy.String(),
			Accepted: d.Accepted,
			UtilEDF:  d.UtilEDF,
			UtilRM:   d.UtilRM,
		}); err != nil {
			log.Printf("auditlog: record failed: %v", err)
		}
	}

	hub := monitor.NewStreamHub()
	cache := monitor.NewSnapshotCache(cfg.RedisURL, 5*time.Second)

	var tokenIssuer *monitor.TokenIssuer
	if cfg.JWTSecret != "" {
		tokenIssuer = monitor.NewTokenIssuer(cfg.JWTSecret)
	}

	srv := monitor.NewServer(monitor.Config{
		Port:         cfg.Port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}, table, cache, hub, tokenIssuer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// One selection loop per logical CPU, all sharing the table and clock.
	numCPU := schedNumCPU()
	for i := 0; i < numCPU; i++ {
		sched := schedcore.NewScheduler(table, noopSwitcher{}, schedcore.SchedulerConfig{
			EnforceBudget: cfg.EnforceBudget,
			TickInterval:  cfg.TickInterval,
		}, clock, func(p *schedcore.Process) {
			ev, err := schedevents.NewEvent(schedevents.TypeTableTick, p.PID, schedevents.TableTickData{
				Name:   p.Name,
				Policy: p.Policy.String(),
				Tick:   clock.Now(),
			})
			if err != nil {
				return
			}
			hub.Broadcast(ev)
			if pubErr := publisher.Publish(context.Background(), ev); pubErr != nil {
				log.Printf("schedevents: publish tick failed: %v", pubErr)
			}
		})
		g.Go(func() error {
			sched.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				cache.Put(gctx, schedmetrics.Collect(table))
			}
		}
	})

	g.Go(func() error {
		log.Printf("monitor surface starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down kernel...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("monitor shutdown error: %v", err)
	}

	if err := g.Wait(); err != nil {
		log.Printf("kernel exited with error: %v", err)
	}
	log.Println("kernel stopped")
}

func schedNumCPU() int {
	if n := os.Getenv("KERNEL_CPUS"); n != "" {
		if v, err := parsePositiveInt(n); err == nil {
			return v
		}
	}
	return 1
}

func parsePositiveInt(s string) (int, error) {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, os.ErrInvalid
		}
		n = n*10 + int(c-'0')
	}
	if n <= 0 {
		return 0, os.ErrInvalid
	}
	return n, nil
}
