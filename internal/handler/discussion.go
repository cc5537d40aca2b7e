package handler

import (
	"net/http"

	"github.com/forgo/gather/api/internal/middleware"
	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/service"
)

// DiscussionHandler handles thread and message HTTP requests
type DiscussionHandler struct {
	svc *service.DiscussionService
}

// NewDiscussionHandler creates a new discussion handler
func NewDiscussionHandler(svc *service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{svc: svc}
}

// CreateThread handles POST /api/discussions/threads - open a thread on a group or event
func (h *DiscussionHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateThreadRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	thread, err := h.svc.CreateThread(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, thread, nil)
}

// ListGroupThreads handles GET /api/discussions/groups/{groupId}/threads
func (h *DiscussionHandler) ListGroupThreads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	groupID := r.PathValue("groupId")
	if groupID == "" {
		WriteError(w, model.NewBadRequestError("group ID required"))
		return
	}

	threads, err := h.svc.ListThreadsForGroup(ctx, userID, groupID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, threads, nil)
}

// ListEventThreads handles GET /api/discussions/events/{eventId}/threads
func (h *DiscussionHandler) ListEventThreads(w http.ResponseWriter, r *http.Request) {
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

	threads, err := h.svc.ListThreadsForEvent(ctx, userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, threads, nil)
}

// GetThread handles GET /api/discussions/threads/{threadId} - thread with its messages
func (h *DiscussionHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	threadID := r.PathValue("threadId")
	if threadID == "" {
		WriteError(w, model.NewBadRequestError("thread ID required"))
		return
	}

	detail, err := h.svc.GetThread(ctx, userID, threadID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, detail, nil)
}

// DeleteThread handles DELETE /api/discussions/threads/{threadId}
func (h *DiscussionHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	threadID := r.PathValue("threadId")
	if threadID == "" {
		WriteError(w, model.NewBadRequestError("thread ID required"))
		return
	}

	if err := h.svc.DeleteThread(ctx, userID, threadID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// CreateMessage handles POST /api/discussions/threads/{threadId}/messages
func (h *DiscussionHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	threadID := r.PathValue("threadId")
	if threadID == "" {
		WriteError(w, model.NewBadRequestError("thread ID required"))
		return
	}

	var req model.CreateMessageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	message, err := h.svc.CreateMessage(ctx, userID, threadID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, message, nil)
}

// ListMessages handles GET /api/discussions/threads/{threadId}/messages
func (h *DiscussionHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	threadID := r.PathValue("threadId")
	if threadID == "" {
		WriteError(w, model.NewBadRequestError("thread ID required"))
		return
	}

	messages, err := h.svc.ListMessages(ctx, userID, threadID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, messages, nil)
}

// UpdateMessage handles PATCH /api/discussions/messages/{messageId} - author only
func (h *DiscussionHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	messageID := r.PathValue("messageId")
	if messageID == "" {
		WriteError(w, model.NewBadRequestError("message ID required"))
		return
	}

	var req model.UpdateMessageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	message, err := h.svc.UpdateMessage(ctx, userID, messageID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, message, nil)
}

// DeleteMessage handles DELETE /api/discussions/messages/{messageId} - author or moderator
func (h *DiscussionHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	messageID := r.PathValue("messageId")
	if messageID == "" {
		WriteError(w, model.NewBadRequestError("message ID required"))
		return
	}

	if err := h.svc.DeleteMessage(ctx, userID, messageID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
