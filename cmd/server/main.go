package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"heightfield.dev/internal/config"
	"heightfield.dev/internal/persistence/indexdb"
	persistlog "heightfield.dev/internal/persistence/log"
	"heightfield.dev/internal/persistence/snapshot"
	"heightfield.dev/internal/terrain/field"
	"heightfield.dev/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configPath = flag.String("config", "./configs/terrain.yaml", "terrain config path (local file or go-getter URL)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		seed       = flag.Int64("seed", 0, "override config seed (0 keeps the config's seed)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite build index")
		noSnaps    = flag.Bool("disable_snapshots", false, "disable snapshot-per-build")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	localPath, err := config.Resolve(*configPath, filepath.Join(*dataDir, "configs"))
	if err != nil {
		logger.Fatalf("resolve config: %v", err)
	}
	cfg, err := config.Load(localPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	var idx *indexdb.DB
	if !*disableDB {
		idx, err = indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open build index: %v", err)
		}
		defer idx.Close()
	}

	buildLog := persistlog.NewBuildLogger(*dataDir)
	defer buildLog.Close()

	onBuild := func(f *field.Field, took time.Duration) {
		min, max := f.ObservedRange()
		c := f.Config()

		snapPath := ""
		if !*noSnaps {
			snapPath = filepath.Join(*dataDir, "snapshots", f.Fingerprint()+".snap.zst")
			if err := snapshot.WriteSnapshot(snapPath, snapshot.Capture(f)); err != nil {
				logger.Printf("write snapshot: %v", err)
				snapPath = ""
			}
		}
		if idx != nil {
			err := idx.RecordBuild(indexdb.BuildRow{
				Fingerprint:    f.Fingerprint(),
				Seed:           c.Seed,
				GridExtent:     c.GridExtent,
				SamplesPerTile: c.SamplesPerTile,
				Tiles:          len(f.Tiles()),
				ObservedMin:    min,
				ObservedMax:    max,
				SnapshotPath:   snapPath,
			})
			if err != nil {
				logger.Printf("index build: %v", err)
			}
		}
		err := buildLog.WriteBuild(persistlog.BuildLogEntry{
			At:          time.Now().UTC().Format(time.RFC3339),
			Fingerprint: f.Fingerprint(),
			Seed:        c.Seed,
			Tiles:       len(f.Tiles()),
			ObservedMin: min,
			ObservedMax: max,
			DurationMs:  took.Milliseconds(),
		})
		if err != nil {
			logger.Printf("build log: %v", err)
		}
		logger.Printf("built terrain fp=%s tiles=%d range=[%g,%g] in %s",
			f.Fingerprint()[:12], len(f.Tiles()), min, max, took)
	}

	srv := ws.NewServer(nil, logger, onBuild)
	if _, _, err := srv.Reconcile(cfg); err != nil {
		logger.Fatalf("initial build: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}
