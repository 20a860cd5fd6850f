package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/oxidocs/internal/handler"
	mw "github.com/parisxmas/oxidocs/internal/middleware"
)

func New(
	corsOrigins []string,
	healthH *handler.HealthHandler,
	clientH *handler.ClientHandler,
	templateH *handler.TemplateHandler,
	docH *handler.DocumentHandler,
	archiveH *handler.ArchiveHandler,
	reportH *handler.ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(corsOrigins))

	r.Get("/healthz", healthH.Health)

	r.Route("/api", func(r chi.Router) {
		// Clients
		r.Get("/clients", clientH.List)
		r.Post("/clients", clientH.Create)
		r.Get("/clients/{id}", clientH.Get)
		r.Patch("/clients/{id}", clientH.Update)
		r.Delete("/clients/{id}", clientH.Delete)

		// Templates
		r.Get("/templates", templateH.List)
		r.Post("/templates", templateH.Create)
		r.Get("/templates/{id}", templateH.Get)
		r.Patch("/templates/{id}", templateH.Update)
		r.Delete("/templates/{id}", templateH.Delete)

		// Documents
		r.Get("/documents", docH.List)
		r.Post("/documents", docH.Create)
		r.Get("/documents/template/{templateId}", docH.ListByTemplate)
		r.Get("/documents/{id}", docH.Get)
		r.Get("/documents/{id}/render", docH.Render)
		r.Patch("/documents/{id}", docH.Update)
		r.Delete("/documents/{id}", docH.Delete)

		// Archive
		r.Get("/archive", archiveH.List)
		r.Post("/archive/{id}", archiveH.Archive)
		r.Delete("/archive/{id}", archiveH.Unarchive)

		// Reports
		r.Get("/reports", reportH.List)
		r.Post("/reports", reportH.Create)
		r.Post("/reports/generate", reportH.Generate)
		r.Get("/reports/{id}", reportH.Get)
		r.Get("/reports/{id}/run", reportH.Run)
		r.Patch("/reports/{id}", reportH.Update)
		r.Delete("/reports/{id}", reportH.Delete)
	})

	return r
}
