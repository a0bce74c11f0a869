package routes

import (
	"net/http"

	"github.com/fotoclick/gallerygate/internal/app"
	"github.com/fotoclick/gallerygate/internal/handler"
	"github.com/fotoclick/gallerygate/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	gallery := handler.NewGalleryHandler(app.GalleryService)
	staff := handler.NewStaffHandler(app.GalleryService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", health.Health)

	// Gallery resolution (token-authorized, rate limited inside the service)
	mux.HandleFunc("POST /api/gallery/resolve", gallery.Resolve)
	mux.HandleFunc("GET /api/gallery/{token}", gallery.Gallery)
	mux.HandleFunc("GET /api/gallery/{token}/download/{photoId}", gallery.Download)

	// Back office (staff JWT)
	mux.HandleFunc("GET /api/staff/events/{eventId}/photos", middleware.RequireStaff(staff.EventPhotos))

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.StaffAuth(app.StaffService),
	)
}
