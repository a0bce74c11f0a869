package handler

import (
	"net/http"

	"github.com/fotoclick/gallerygate/internal/service"
)

type StaffHandler struct {
	galleryService *service.GalleryService
}

func NewStaffHandler(galleryService *service.GalleryService) *StaffHandler {
	return &StaffHandler{
		galleryService: galleryService,
	}
}

// EventPhotos handles GET /api/staff/events/{eventId}/photos for the
// back office. Route-level middleware enforces the staff session.
func (h *StaffHandler) EventPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := h.galleryService.StaffList(r.Context(),
		r.PathValue("eventId"),
		q.Get("folderId"),
		queryInt(q.Get("page")),
		queryInt(q.Get("limit")),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
