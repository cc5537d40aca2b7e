package handler

import (
	"net/http"

	"github.com/forgo/gather/api/internal/middleware"
	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/service"
)

// MediaHandler handles album, photo and comment HTTP requests
type MediaHandler struct {
	svc *service.MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// CreateAlbum handles POST /api/media/events/{eventId}/albums
func (h *MediaHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	var req model.CreateAlbumRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	album, err := h.svc.CreateAlbum(ctx, userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, album, nil)
}

// ListAlbums handles GET /api/media/events/{eventId}/albums
func (h *MediaHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	albums, err := h.svc.ListAlbums(ctx, userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, albums, nil)
}

// GetAlbum handles GET /api/media/albums/{albumId} - album with its photos
func (h *MediaHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	albumID := r.PathValue("albumId")
	if albumID == "" {
		WriteError(w, model.NewBadRequestError("album ID required"))
		return
	}

	detail, err := h.svc.GetAlbum(ctx, userID, albumID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, detail, nil)
}

// UpdateAlbum handles PATCH /api/media/albums/{albumId}
func (h *MediaHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	albumID := r.PathValue("albumId")
	if albumID == "" {
		WriteError(w, model.NewBadRequestError("album ID required"))
		return
	}

	var req model.UpdateAlbumRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	album, err := h.svc.UpdateAlbum(ctx, userID, albumID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, album, nil)
}

// DeleteAlbum handles DELETE /api/media/albums/{albumId} - creator or organizer
func (h *MediaHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	albumID := r.PathValue("albumId")
	if albumID == "" {
		WriteError(w, model.NewBadRequestError("album ID required"))
		return
	}

	if err := h.svc.DeleteAlbum(ctx, userID, albumID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// AddPhoto handles POST /api/media/albums/{albumId}/photos
func (h *MediaHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	albumID := r.PathValue("albumId")
	if albumID == "" {
		WriteError(w, model.NewBadRequestError("album ID required"))
		return
	}

	var req model.AddPhotoRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	photo, err := h.svc.AddPhoto(ctx, userID, albumID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, photo, nil)
}

// ListPhotos handles GET /api/media/albums/{albumId}/photos
func (h *MediaHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	albumID := r.PathValue("albumId")
	if albumID == "" {
		WriteError(w, model.NewBadRequestError("album ID required"))
		return
	}

	photos, err := h.svc.ListPhotos(ctx, userID, albumID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, photos, nil)
}

// DeletePhoto handles DELETE /api/media/photos/{photoId} - uploader or organizer
func (h *MediaHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	photoID := r.PathValue("photoId")
	if photoID == "" {
		WriteError(w, model.NewBadRequestError("photo ID required"))
		return
	}

	if err := h.svc.DeletePhoto(ctx, userID, photoID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// AddComment handles POST /api/media/photos/{photoId}/comments
func (h *MediaHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	photoID := r.PathValue("photoId")
	if photoID == "" {
		WriteError(w, model.NewBadRequestError("photo ID required"))
		return
	}

	var req model.CreatePhotoCommentRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	comment, err := h.svc.AddComment(ctx, userID, photoID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, comment, nil)
}

// ListComments handles GET /api/media/photos/{photoId}/comments
func (h *MediaHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	photoID := r.PathValue("photoId")
	if photoID == "" {
		WriteError(w, model.NewBadRequestError("photo ID required"))
		return
	}

	comments, err := h.svc.ListComments(ctx, userID, photoID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, comments, nil)
}

// DeleteComment handles DELETE /api/media/comments/{commentId} - author or organizer
func (h *MediaHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	commentID := r.PathValue("commentId")
	if commentID == "" {
		WriteError(w, model.NewBadRequestError("comment ID required"))
		return
	}

	if err := h.svc.DeleteComment(ctx, userID, commentID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
