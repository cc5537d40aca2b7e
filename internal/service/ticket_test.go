package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockTicketRepo struct {
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

func (m *mockTicketRepo) CreateType(ctx context.Context, tt *model.TicketType) error {
	if m.createTypeFunc != nil {
		return m.createTypeFunc(ctx, tt)
	}
	return nil
}

func (m *mockTicketRepo) GetTypeByID(ctx context.Context, id string) (*model.TicketType, error) {
	if m.getTypeByIDFunc != nil {
		return m.getTypeByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTicketRepo) ListTypesForEvent(ctx context.Context, eventID string) ([]*model.TicketType, error) {
	if m.listTypesForEventFunc != nil {
		return m.listTypesForEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *mockTicketRepo) UpdateType(ctx context.Context, tt *model.TicketType) error {
	if m.updateTypeFunc != nil {
		return m.updateTypeFunc(ctx, tt)
	}
	return nil
}

func (m *mockTicketRepo) DeleteType(ctx context.Context, id string) error {
	if m.deleteTypeFunc != nil {
		return m.deleteTypeFunc(ctx, id)
	}
	return nil
}

func (m *mockTicketRepo) CountSold(ctx context.Context, typeID string) (int, error) {
	if m.countSoldFunc != nil {
		return m.countSoldFunc(ctx, typeID)
	}
	return 0, nil
}

func (m *mockTicketRepo) Purchase(ctx context.Context, ticket *model.Ticket, quantity int) error {
	if m.purchaseFunc != nil {
		return m.purchaseFunc(ctx, ticket, quantity)
	}
	return nil
}

func (m *mockTicketRepo) GetTicketByID(ctx context.Context, id string) (*model.Ticket, error) {
	if m.getTicketByIDFunc != nil {
		return m.getTicketByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTicketRepo) ListTickets(ctx context.Context, typeID string) ([]*model.Ticket, error) {
	if m.listTicketsFunc != nil {
		return m.listTicketsFunc(ctx, typeID)
	}
	return nil, nil
}

func (m *mockTicketRepo) DeleteTicket(ctx context.Context, id string) error {
	if m.deleteTicketFunc != nil {
		return m.deleteTicketFunc(ctx, id)
	}
	return nil
}

func knownTicketType(tt model.TicketType) func(ctx context.Context, id string) (*model.TicketType, error) {
	return func(ctx context.Context, id string) (*model.TicketType, error) {
		if id == tt.ID {
			t := tt
			return &t, nil
		}
		return nil, nil
	}
}

// ============================================================================
// CreateType
// ============================================================================

func TestCreateType_TicketingDisabled(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: false}),
	}
	svc := NewTicketService(&mockTicketRepo{}, eventRepo)

	_, err := svc.CreateType(context.Background(), "user:org", "event:e1", &model.CreateTicketTypeRequest{
		Name:     "General",
		Quantity: 100,
	})
	if !errors.Is(err, ErrTicketingDisabled) {
		t.Errorf("expected ErrTicketingDisabled, got %v", err)
	}
}

func TestCreateType_RequiresOrganizer(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
	}
	svc := NewTicketService(&mockTicketRepo{}, eventRepo)

	_, err := svc.CreateType(context.Background(), "user:guest", "event:e1", &model.CreateTicketTypeRequest{
		Name:     "General",
		Quantity: 100,
	})
	if !errors.Is(err, ErrNotOrganizer) {
		t.Errorf("expected ErrNotOrganizer, got %v", err)
	}
}

// ============================================================================
// ListTypes
// ============================================================================

func TestListTypes_ComputesRemaining(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
	}
	ticketRepo := &mockTicketRepo{
		listTypesForEventFunc: func(ctx context.Context, eventID string) ([]*model.TicketType, error) {
			return []*model.TicketType{
				{ID: "ticket_type:t1", EventID: eventID, Name: "General", Quantity: 100},
			}, nil
		},
		countSoldFunc: func(ctx context.Context, typeID string) (int, error) {
			return 37, nil
		},
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	details, err := svc.ListTypes(context.Background(), "event:e1")
	if err != nil {
		t.Fatalf("ListTypes failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 type, got %d", len(details))
	}
	if details[0].Sold != 37 {
		t.Errorf("expected 37 sold, got %d", details[0].Sold)
	}
	if details[0].Remaining != 63 {
		t.Errorf("expected 63 remaining, got %d", details[0].Remaining)
	}
}

// ============================================================================
// Purchase
// ============================================================================

func TestPurchase_NormalizesEmail(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
	}
	var bought *model.Ticket
	ticketRepo := &mockTicketRepo{
		getTypeByIDFunc: knownTicketType(model.TicketType{ID: "ticket_type:t1", EventID: "event:e1", Quantity: 10}),
		purchaseFunc: func(ctx context.Context, ticket *model.Ticket, quantity int) error {
			ticket.ID = "ticket:new"
			bought = ticket
			return nil
		},
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	_, err := svc.Purchase(context.Background(), "ticket_type:t1", &model.PurchaseTicketRequest{
		FirstName: "  Ada ",
		LastName:  "Lovelace",
		Email:     " Ada@Example.COM ",
	})
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if bought.PurchaserEmail != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", bought.PurchaserEmail)
	}
	if bought.PurchaserFirstName != "Ada" {
		t.Errorf("expected trimmed first name, got %q", bought.PurchaserFirstName)
	}
}

func TestPurchase_SoldOut(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
	}
	ticketRepo := &mockTicketRepo{
		getTypeByIDFunc: knownTicketType(model.TicketType{ID: "ticket_type:t1", EventID: "event:e1", Quantity: 2}),
		purchaseFunc: func(ctx context.Context, ticket *model.Ticket, quantity int) error {
			return fmt.Errorf("%w: all tickets sold", database.ErrLimitExceeded)
		},
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	_, err := svc.Purchase(context.Background(), "ticket_type:t1", &model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	if !errors.Is(err, ErrTicketsSoldOut) {
		t.Errorf("expected ErrTicketsSoldOut, got %v", err)
	}
}

func TestPurchase_OneTicketPerEmail(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
	}
	ticketRepo := &mockTicketRepo{
		getTypeByIDFunc: knownTicketType(model.TicketType{ID: "ticket_type:t1", EventID: "event:e1", Quantity: 10}),
		purchaseFunc: func(ctx context.Context, ticket *model.Ticket, quantity int) error {
			return fmt.Errorf("%w: email already holds a ticket", database.ErrDuplicate)
		},
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	_, err := svc.Purchase(context.Background(), "ticket_type:t1", &model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	if !errors.Is(err, ErrAlreadyPurchased) {
		t.Errorf("expected ErrAlreadyPurchased, got %v", err)
	}
}

func TestPurchase_DisabledAfterSaleStart(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: false}),
	}
	ticketRepo := &mockTicketRepo{
		getTypeByIDFunc: knownTicketType(model.TicketType{ID: "ticket_type:t1", EventID: "event:e1", Quantity: 10}),
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	_, err := svc.Purchase(context.Background(), "ticket_type:t1", &model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	if !errors.Is(err, ErrTicketingDisabled) {
		t.Errorf("expected ErrTicketingDisabled, got %v", err)
	}
}

func TestPurchase_UnknownType(t *testing.T) {
	t.Parallel()

	svc := NewTicketService(&mockTicketRepo{}, &mockEventRepo{})

	_, err := svc.Purchase(context.Background(), "ticket_type:gone", &model.PurchaseTicketRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	if !errors.Is(err, ErrTicketTypeNotFound) {
		t.Errorf("expected ErrTicketTypeNotFound, got %v", err)
	}
}

// ============================================================================
// ListPurchases
// ============================================================================

func TestListPurchases_OrganizerOnly(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
	}
	ticketRepo := &mockTicketRepo{
		getTypeByIDFunc: knownTicketType(model.TicketType{ID: "ticket_type:t1", EventID: "event:e1", Quantity: 10}),
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	_, err := svc.ListPurchases(context.Background(), "user:guest", "ticket_type:t1")
	if !errors.Is(err, ErrNotOrganizer) {
		t.Errorf("expected ErrNotOrganizer, got %v", err)
	}
}

// ============================================================================
// CancelTicket
// ============================================================================

func TestCancelTicket_DeletesAsOrganizer(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
		isOrganizerFunc: func(ctx context.Context, eventID, userID string) (bool, error) {
			return userID == "user:org", nil
		},
	}
	var deleted string
	ticketRepo := &mockTicketRepo{
		getTypeByIDFunc: knownTicketType(model.TicketType{ID: "ticket_type:t1", EventID: "event:e1", Quantity: 10}),
		getTicketByIDFunc: func(ctx context.Context, id string) (*model.Ticket, error) {
			if id == "ticket:sold1" {
				return &model.Ticket{ID: "ticket:sold1", TicketTypeID: "ticket_type:t1"}, nil
			}
			return nil, nil
		},
		deleteTicketFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	if err := svc.CancelTicket(context.Background(), "user:org", "ticket:sold1"); err != nil {
		t.Fatalf("CancelTicket failed: %v", err)
	}
	if deleted != "ticket:sold1" {
		t.Errorf("expected ticket:sold1 to be deleted, got %q", deleted)
	}
}

func TestCancelTicket_OrganizerOnly(t *testing.T) {
	t.Parallel()

	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: "event:e1", TicketingEnabled: true}),
	}
	ticketRepo := &mockTicketRepo{
		getTypeByIDFunc: knownTicketType(model.TicketType{ID: "ticket_type:t1", EventID: "event:e1", Quantity: 10}),
		getTicketByIDFunc: func(ctx context.Context, id string) (*model.Ticket, error) {
			return &model.Ticket{ID: id, TicketTypeID: "ticket_type:t1"}, nil
		},
	}
	svc := NewTicketService(ticketRepo, eventRepo)

	err := svc.CancelTicket(context.Background(), "user:guest", "ticket:sold1")
	if !errors.Is(err, ErrNotOrganizer) {
		t.Errorf("expected ErrNotOrganizer, got %v", err)
	}
}

func TestCancelTicket_UnknownTicket(t *testing.T) {
	t.Parallel()

	svc := NewTicketService(&mockTicketRepo{}, &mockEventRepo{})

	err := svc.CancelTicket(context.Background(), "user:org", "ticket:nope")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
}
