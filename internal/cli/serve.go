package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parisxmas/oxidocs/internal/handler"
	"github.com/parisxmas/oxidocs/internal/router"
	"github.com/parisxmas/oxidocs/internal/service"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	policy, err := service.ParseDeletePolicy(a.cfg.TemplateDelete)
	if err != nil {
		return err
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	pub := a.openPublisher()
	defer pub.Close()

	// Services
	clientSvc := service.NewClientService(store.Clients)
	templateSvc := service.NewTemplateService(store.Templates, store.Documents, pub, policy)
	docSvc := service.NewDocumentService(store.Documents, store.Templates, store.Clients, pub)
	archiveSvc := service.NewArchiveService(store.Documents, pub)
	reportSvc := service.NewReportService(store)
	userSvc := service.NewUserService(store.Users)

	if err := service.Seed(ctx, userSvc, templateSvc, a.seedOptions()); err != nil {
		log.Printf("Warning: seed failed: %v", err)
	}

	// Router
	r := router.New(a.cfg.CORSOrigins,
		handler.NewHealthHandler(store.Ping),
		handler.NewClientHandler(clientSvc),
		handler.NewTemplateHandler(templateSvc),
		handler.NewDocumentHandler(docSvc),
		handler.NewArchiveHandler(archiveSvc),
		handler.NewReportHandler(reportSvc),
	)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("oxidocs server starting on %s (store: %s)", a.cfg.HTTPAddr, a.cfg.Store)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
