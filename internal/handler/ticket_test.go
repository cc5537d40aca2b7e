package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/middleware"
	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/service"
)

// ============================================================================
// Repository mocks
// ============================================================================

type stubTicketRepo struct {
	createTypeFunc        func(ctx context.Context, tt *model.TicketType) error
	getTypeByIDFunc       func(ctx context.Context, id string) (*model.TicketType, error)
	listTypesForEventFunc func(ctx context.Context, eventID string) ([]*model.TicketType, error)
	updateTypeFunc        func(ctx context.Context, tt *model.TicketType) error
	deleteTypeFunc        func(ctx context.Context, id string) error
	countSoldFunc         func(ctx context.Context, typeID string) (int, error)
	purchaseFunc          func(ctx context.Context, ticket *model.Ticket, quantity int) error
	getTicketByIDFunc     func(ctx context.Context, id string) (*model.Ticket, error)
	listTicketsFunc       func(ctx context.Context, typeID string) ([]*model.Ticket, error)
	deleteTicketFunc      func(ctx context.Context, id string) error
}

func (m *stubTicketRepo) CreateType(ctx context.Context, tt *model.TicketType) error {
	if m.createTypeFunc != nil {
		return m.createTypeFunc(ctx, tt)
	}
	return nil
}

func (m *stubTicketRepo) GetTypeByID(ctx context.Context, id string) (*model.TicketType, error) {
	if m.getTypeByIDFunc != nil {
		return m.getTypeByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *stubTicketRepo) ListTypesForEvent(ctx context.Context, eventID string) ([]*model.TicketType, error) {
	if m.listTypesForEventFunc != nil {
		return m.listTypesForEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *stubTicketRepo) UpdateType(ctx context.Context, tt *model.TicketType) error {
	if m.updateTypeFunc != nil {
		return m.updateTypeFunc(ctx, tt)
	}
	return nil
}

func (m *stubTicketRepo) DeleteType(ctx context.Context, id string) error {
	if m.deleteTypeFunc != nil {
		return m.deleteTypeFunc(ctx, id)
	}
	return nil
}

func (m *stubTicketRepo) CountSold(ctx context.Context, typeID string) (int, error) {
	if m.countSoldFunc != nil {
		return m.countSoldFunc(ctx, typeID)
	}
	return 0, nil
}

func (m *stubTicketRepo) Purchase(ctx context.Context, ticket *model.Ticket, quantity int) error {
	if m.purchaseFunc != nil {
		return m.purchaseFunc(ctx, ticket, quantity)
	}
	return nil
}

func (m *stubTicketRepo) GetTicketByID(ctx context.Context, id string) (*model.Ticket, error) {
	if m.getTicketByIDFunc != nil {
		return m.getTicketByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *stubTicketRepo) ListTickets(ctx context.Context, typeID string) ([]*model.Ticket, error) {
	if m.listTicketsFunc != nil {
		return m.listTicketsFunc(ctx, typeID)
	}
	return nil, nil
}

func (m *stubTicketRepo) DeleteTicket(ctx context.Context, id string) error {
	if m.deleteTicketFunc != nil {
		return m.deleteTicketFunc(ctx, id)
	}
	return nil
}

type stubEventRepo struct {
	getByIDFunc     func(ctx context.Context, id string) (*model.Event, error)
	isOrganizerFunc func(ctx context.Context, eventID, userID string) (bool, error)
}

func (m *stubEventRepo) Create(ctx context.Context, event *model.Event, organizerIDs []string) error {
	return nil
}

func (m *stubEventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *stubEventRepo) ListVisible(ctx context.Context, userID string) ([]*model.Event, error) {
	return nil, nil
}

func (m *stubEventRepo) ListForGroup(ctx context.Context, groupID string) ([]*model.Event, error) {
	return nil, nil
}

func (m *stubEventRepo) Update(ctx context.Context, event *model.Event) error { return nil }

func (m *stubEventRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *stubEventRepo) AddOrganizer(ctx context.Context, o *model.Organizer) error { return nil }

func (m *stubEventRepo) RemoveOrganizer(ctx context.Context, eventID, userID string) error {
	return nil
}

func (m *stubEventRepo) ListOrganizers(ctx context.Context, eventID string) ([]*model.Organizer, error) {
	return nil, nil
}

func (m *stubEventRepo) IsOrganizer(ctx context.Context, eventID, userID string) (bool, error) {
	if m.isOrganizerFunc != nil {
		return m.isOrganizerFunc(ctx, eventID, userID)
	}
	return false, nil
}

func (m *stubEventRepo) CountOrganizers(ctx context.Context, eventID string) (int, error) {
	return 1, nil
}

func (m *stubEventRepo) AddParticipant(ctx context.Context, p *model.Participant) error { return nil }

func (m *stubEventRepo) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	return nil
}

func (m *stubEventRepo) ListParticipants(ctx context.Context, eventID string) ([]*model.Participant, error) {
	return nil, nil
}

func (m *stubEventRepo) IsParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	return false, nil
}

// ============================================================================
// Test helpers
// ============================================================================

func ticketedEventRepo() *stubEventRepo {
	return &stubEventRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return &model.Event{
				ID:               id,
				Name:             "Summer Festival",
				StartDate:        time.Now().Add(24 * time.Hour),
				TicketingEnabled: true,
			}, nil
		},
	}
}

func festivalPass() *model.TicketType {
	now := time.Now()
	return &model.TicketType{
		ID:        "ticket_type:pass",
		EventID:   "event:festival",
		Name:      "Festival Pass",
		Price:     25,
		Quantity:  100,
		CreatedOn: now,
		UpdatedOn: now,
	}
}

func newTicketMux(ticketRepo *stubTicketRepo, eventRepo *stubEventRepo) *http.ServeMux {
	h := NewTicketHandler(service.NewTicketService(ticketRepo, eventRepo))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tickets/events/{eventId}/types", h.ListTypes)
	mux.HandleFunc("POST /api/tickets/events/{eventId}/types", h.CreateType)
	mux.HandleFunc("POST /api/tickets/types/{typeId}/purchase", h.Purchase)
	mux.HandleFunc("GET /api/tickets/types/{typeId}/purchases", h.ListPurchases)
	return mux
}

// ============================================================================
// Tests
// ============================================================================

func TestTicketHandler_ListTypes_PublicAccess(t *testing.T) {
	t.Parallel()

	ticketRepo := &stubTicketRepo{
		listTypesForEventFunc: func(ctx context.Context, eventID string) ([]*model.TicketType, error) {
			return []*model.TicketType{festivalPass()}, nil
		},
		countSoldFunc: func(ctx context.Context, typeID string) (int, error) {
			return 40, nil
		},
	}
	mux := newTicketMux(ticketRepo, ticketedEventRepo())

	// No user in context, the listing is public
	req := httptest.NewRequest(http.MethodGet, "/api/tickets/events/event:festival/types", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var response struct {
		Data []model.TicketTypeDetail `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 1 {
		t.Fatalf("expected 1 ticket type, got %d", len(response.Data))
	}
	if response.Data[0].Remaining != 60 {
		t.Errorf("expected 60 remaining, got %d", response.Data[0].Remaining)
	}
}

func TestTicketHandler_Purchase_PublicSuccess(t *testing.T) {
	t.Parallel()

	ticketRepo := &stubTicketRepo{
		getTypeByIDFunc: func(ctx context.Context, id string) (*model.TicketType, error) {
			return festivalPass(), nil
		},
	}
	mux := newTicketMux(ticketRepo, ticketedEventRepo())

	req := makeJSONRequest(http.MethodPost, "/api/tickets/types/ticket_type:pass/purchase", model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
}

func TestTicketHandler_Purchase_DefaultsToAccountEmail(t *testing.T) {
	t.Parallel()

	var purchased *model.Ticket
	ticketRepo := &stubTicketRepo{
		getTypeByIDFunc: func(ctx context.Context, id string) (*model.TicketType, error) {
			return festivalPass(), nil
		},
		purchaseFunc: func(ctx context.Context, ticket *model.Ticket, quantity int) error {
			purchased = ticket
			return nil
		},
	}
	mux := newTicketMux(ticketRepo, ticketedEventRepo())

	// No email in the body; the authenticated caller's email is used
	req := makeJSONRequest(http.MethodPost, "/api/tickets/types/ticket_type:pass/purchase", model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserEmailKey, "Ada@Example.com"))
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	if purchased == nil || purchased.PurchaserEmail != "ada@example.com" {
		t.Errorf("expected purchase under the normalized account email, got %+v", purchased)
	}
}

func TestTicketHandler_Purchase_SoldOut(t *testing.T) {
	t.Parallel()

	ticketRepo := &stubTicketRepo{
		getTypeByIDFunc: func(ctx context.Context, id string) (*model.TicketType, error) {
			return festivalPass(), nil
		},
		purchaseFunc: func(ctx context.Context, ticket *model.Ticket, quantity int) error {
			return database.ErrLimitExceeded
		},
	}
	mux := newTicketMux(ticketRepo, ticketedEventRepo())

	req := makeJSONRequest(http.MethodPost, "/api/tickets/types/ticket_type:pass/purchase", model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusPreconditionFailed {
		t.Errorf("expected status %d, got %d", http.StatusPreconditionFailed, rr.Code)
	}
}

func TestTicketHandler_Purchase_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ticketRepo := &stubTicketRepo{
		getTypeByIDFunc: func(ctx context.Context, id string) (*model.TicketType, error) {
			return festivalPass(), nil
		},
		purchaseFunc: func(ctx context.Context, ticket *model.Ticket, quantity int) error {
			return database.ErrDuplicate
		},
	}
	mux := newTicketMux(ticketRepo, ticketedEventRepo())

	req := makeJSONRequest(http.MethodPost, "/api/tickets/types/ticket_type:pass/purchase", model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}
}

func TestTicketHandler_Purchase_MissingEmail(t *testing.T) {
	t.Parallel()

	mux := newTicketMux(&stubTicketRepo{}, ticketedEventRepo())

	req := makeJSONRequest(http.MethodPost, "/api/tickets/types/ticket_type:pass/purchase", model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
}

func TestTicketHandler_CreateType_RequiresAuth(t *testing.T) {
	t.Parallel()

	mux := newTicketMux(&stubTicketRepo{}, ticketedEventRepo())

	req := makeJSONRequest(http.MethodPost, "/api/tickets/events/event:festival/types", model.CreateTicketTypeRequest{
		Name:     "Festival Pass",
		Price:    25,
		Quantity: 100,
	})
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestTicketHandler_ListPurchases_NonOrganizerForbidden(t *testing.T) {
	t.Parallel()

	ticketRepo := &stubTicketRepo{
		getTypeByIDFunc: func(ctx context.Context, id string) (*model.TicketType, error) {
			return festivalPass(), nil
		},
	}
	eventRepo := ticketedEventRepo()
	eventRepo.isOrganizerFunc = func(ctx context.Context, eventID, userID string) (bool, error) {
		return false, nil
	}
	mux := newTicketMux(ticketRepo, eventRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/types/ticket_type:pass/purchases", nil)
	req = asUser(req, "user:guest")
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}
