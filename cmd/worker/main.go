package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/bootstrap"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/config"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/observability/logging"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	log := logging.NewJSONLogger("civic-worker", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("civic-worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		log.Info("worker subscribed", "subject", cfg.NATSIngestSubject)
		err := app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, documentID string) error {
			processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
			defer cancel()

			// Upsert keeps created_at from the first upload, so lag
			// is measured from the latest write instead.
			if doc, lookupErr := app.Repo.GetByID(processCtx, documentID); lookupErr == nil {
				workerMetrics.ObserveQueueLag("civic-worker", time.Since(doc.UpdatedAt))
			}

			workerMetrics.StartDocument()
			start := time.Now()
			err := app.ProcessUC.ProcessByID(processCtx, documentID)
			workerMetrics.FinishDocument("civic-worker", time.Since(start), err)
			if err != nil {
				log.Error("process document failed", "document_id", documentID, "error", err)
			} else {
				log.Info("document processed", "document_id", documentID, "duration_ms", time.Since(start).Milliseconds())
			}
			return err
		})
		if err != nil && ctx.Err() == nil {
			log.Error("ingest subscription failed", "error", err)
			stop()
		}
	}()

	go func() {
		defer wg.Done()
		log.Info("worker subscribed", "subject", cfg.NATSRefreshSubject)
		err := app.Queue.SubscribePageRefresh(ctx, func(handlerCtx context.Context, url string) error {
			refreshCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
			defer cancel()

			doc, err := app.RefreshUC.Refresh(refreshCtx, url)
			workerMetrics.FinishScrape("civic-worker", err)
			if err != nil {
				log.Error("page refresh failed", "url", url, "error", err)
				return err
			}
			log.Info("page refreshed", "url", url, "document_id", doc.ID)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			log.Error("refresh subscription failed", "error", err)
			stop()
		}
	}()

	wg.Wait()
}
