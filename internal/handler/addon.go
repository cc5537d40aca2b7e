package handler

import (
	"net/http"

	"github.com/forgo/gather/api/internal/middleware"
	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/service"
)

// AddonHandler handles shopping list and carpool HTTP requests
type AddonHandler struct {
	svc *service.AddonService
}

// NewAddonHandler creates a new addon handler
func NewAddonHandler(svc *service.AddonService) *AddonHandler {
	return &AddonHandler{svc: svc}
}

// CreateShoppingItem handles POST /api/shopping/events/{eventId}/items
func (h *AddonHandler) CreateShoppingItem(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateShoppingItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	item, err := h.svc.CreateShoppingItem(ctx, userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, item, nil)
}

// ListShoppingItems handles GET /api/shopping/events/{eventId}/items
func (h *AddonHandler) ListShoppingItems(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.svc.ListShoppingItems(ctx, userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, items, nil)
}

// UpdateShoppingItem handles PATCH /api/shopping/items/{itemId} - owner
// or organizer
func (h *AddonHandler) UpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	itemID := r.PathValue("itemId")
	if itemID == "" {
		WriteError(w, model.NewBadRequestError("item ID required"))
		return
	}

	var req model.UpdateShoppingItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	item, err := h.svc.UpdateShoppingItem(ctx, userID, itemID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, item, nil)
}

// DeleteShoppingItem handles DELETE /api/shopping/items/{itemId}
func (h *AddonHandler) DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	itemID := r.PathValue("itemId")
	if itemID == "" {
		WriteError(w, model.NewBadRequestError("item ID required"))
		return
	}

	if err := h.svc.DeleteShoppingItem(ctx, userID, itemID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// CreateCarpoolOffer handles POST /api/carpool/events/{eventId}/offers
func (h *AddonHandler) CreateCarpoolOffer(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateCarpoolOfferRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	offer, err := h.svc.CreateCarpoolOffer(ctx, userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, offer, nil)
}

// ListCarpoolOffers handles GET /api/carpool/events/{eventId}/offers
func (h *AddonHandler) ListCarpoolOffers(w http.ResponseWriter, r *http.Request) {
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

	offers, err := h.svc.ListCarpoolOffers(ctx, userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, offers, nil)
}

// UpdateCarpoolOffer handles PATCH /api/carpool/offers/{offerId} - driver
// or organizer
func (h *AddonHandler) UpdateCarpoolOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	offerID := r.PathValue("offerId")
	if offerID == "" {
		WriteError(w, model.NewBadRequestError("offer ID required"))
		return
	}

	var req model.UpdateCarpoolOfferRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	offer, err := h.svc.UpdateCarpoolOffer(ctx, userID, offerID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, offer, nil)
}

// DeleteCarpoolOffer handles DELETE /api/carpool/offers/{offerId}
func (h *AddonHandler) DeleteCarpoolOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	offerID := r.PathValue("offerId")
	if offerID == "" {
		WriteError(w, model.NewBadRequestError("offer ID required"))
		return
	}

	if err := h.svc.DeleteCarpoolOffer(ctx, userID, offerID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
