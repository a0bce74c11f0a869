package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fotoclick/gallerygate/internal/middleware"
	"github.com/fotoclick/gallerygate/internal/service"
)

type GalleryHandler struct {
	galleryService *service.GalleryService
}

func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
	}
}

type resolveBody struct {
	Input          string `json:"input"`
	Password       string `json:"password"`
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
	SearchTerm     string `json:"searchTerm"`
	FolderID       string `json:"folderId"`
	PhotoID        string `json:"photoId"`
	IncludeCatalog bool   `json:"includeCatalog"`
}

// Resolve handles POST /api/gallery/resolve with a JSON body. Used by
// the front-end entry form where the credential shape is unknown.
func (h *GalleryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var body resolveBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "EMPTY_INPUT", Message: "invalid request body"})
		return
	}

	resp, err := h.galleryService.Resolve(r.Context(), service.ResolveRequest{
		RawInput:       body.Input,
		Password:       body.Password,
		IP:             middleware.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Page:           body.Page,
		Limit:          body.Limit,
		SearchTerm:     body.SearchTerm,
		FolderID:       body.FolderID,
		PhotoID:        body.PhotoID,
		IncludeCatalog: body.IncludeCatalog,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Gallery handles GET /api/gallery/{token}. Query parameters: page,
// limit, search, folderId, photoId, includeCatalog, password.
func (h *GalleryHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := h.galleryService.Resolve(r.Context(), service.ResolveRequest{
		RawInput:       r.PathValue("token"),
		Password:       q.Get("password"),
		IP:             middleware.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Page:           queryInt(q.Get("page")),
		Limit:          queryInt(q.Get("limit")),
		SearchTerm:     q.Get("search"),
		FolderID:       q.Get("folderId"),
		PhotoID:        q.Get("photoId"),
		IncludeCatalog: q.Get("includeCatalog") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Download handles GET /api/gallery/{token}/download/{photoId} and
// redirects to a short-lived original-file URL.
func (h *GalleryHandler) Download(w http.ResponseWriter, r *http.Request) {
	signed, err := h.galleryService.Download(r.Context(), service.DownloadRequest{
		RawInput:  r.PathValue("token"),
		Password:  r.URL.Query().Get("password"),
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		PhotoID:   r.PathValue("photoId"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Expires", signed.ExpiresAt.UTC().Format(time.RFC1123))
	http.Redirect(w, r, signed.URL, http.StatusFound)
}

func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
