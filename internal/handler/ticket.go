package handler

import (
	"net/http"

	"github.com/forgo/gather/api/internal/middleware"
	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/service"
)

// TicketHandler handles ticket type and purchase HTTP requests.
// Listing types and purchasing are public so that ticket pages can be
// shared with people who have no account.
type TicketHandler struct {
	svc *service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(svc *service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// CreateType handles POST /api/tickets/events/{eventId}/types - organizer only
func (h *TicketHandler) CreateType(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateTicketTypeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	ticketType, err := h.svc.CreateType(ctx, userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, ticketType, nil)
}

// ListTypes handles GET /api/tickets/events/{eventId}/types - public,
// returns each type with its remaining quantity
func (h *TicketHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	types, err := h.svc.ListTypes(ctx, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, types, nil)
}

// UpdateType handles PATCH /api/tickets/types/{typeId} - organizer only
func (h *TicketHandler) UpdateType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	typeID := r.PathValue("typeId")
	if typeID == "" {
		WriteError(w, model.NewBadRequestError("ticket type ID required"))
		return
	}

	var req model.UpdateTicketTypeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	ticketType, err := h.svc.UpdateType(ctx, userID, typeID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, ticketType, nil)
}

// DeleteType handles DELETE /api/tickets/types/{typeId} - organizer only
func (h *TicketHandler) DeleteType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	typeID := r.PathValue("typeId")
	if typeID == "" {
		WriteError(w, model.NewBadRequestError("ticket type ID required"))
		return
	}

	if err := h.svc.DeleteType(ctx, userID, typeID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Purchase handles POST /api/tickets/types/{typeId}/purchase - public.
// A logged-in caller may omit the email and buy under the account email.
func (h *TicketHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	typeID := r.PathValue("typeId")
	if typeID == "" {
		WriteError(w, model.NewBadRequestError("ticket type ID required"))
		return
	}

	var req model.PurchaseTicketRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.Email == "" {
		req.Email = middleware.GetUserEmail(ctx)
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	ticket, err := h.svc.Purchase(ctx, typeID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, ticket, nil)
}

// Cancel handles DELETE /api/tickets/{ticketId} - organizer only
func (h *TicketHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	ticketID := r.PathValue("ticketId")
	if ticketID == "" {
		WriteError(w, model.NewBadRequestError("ticket ID required"))
		return
	}

	if err := h.svc.CancelTicket(ctx, userID, ticketID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// ListPurchases handles GET /api/tickets/types/{typeId}/purchases - organizer only
func (h *TicketHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	typeID := r.PathValue("typeId")
	if typeID == "" {
		WriteError(w, model.NewBadRequestError("ticket type ID required"))
		return
	}

	tickets, err := h.svc.ListPurchases(ctx, userID, typeID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, tickets, nil)
}
