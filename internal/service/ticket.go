package service

import (
	"context"
	"errors"
	"strings"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// TicketRepository defines the interface for ticket storage
type TicketRepository interface {
	CreateType(ctx context.Context, tt *model.TicketType) error
	GetTypeByID(ctx context.Context, id string) (*model.TicketType, error)
	ListTypesForEvent(ctx context.Context, eventID string) ([]*model.TicketType, error)
	UpdateType(ctx context.Context, tt *model.TicketType) error
	DeleteType(ctx context.Context, id string) error
	CountSold(ctx context.Context, typeID string) (int, error)
	Purchase(ctx context.Context, ticket *model.Ticket, quantity int) error
	GetTicketByID(ctx context.Context, id string) (*model.Ticket, error)
	ListTickets(ctx context.Context, typeID string) ([]*model.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
}

// TicketService handles ticket types and public purchases
type TicketService struct {
	ticketRepo TicketRepository
	eventRepo  EventRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepository, eventRepo EventRepository) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
	}
}

// CreateType puts a ticket type on sale. Organizer only; the event
// must have ticketing enabled.
func (s *TicketService) CreateType(ctx context.Context, userID, eventID string, req *model.CreateTicketTypeRequest) (*model.TicketType, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.TicketingEnabled {
		return nil, ErrTicketingDisabled
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !isOrganizer {
		return nil, ErrNotOrganizer
	}

	tt := &model.TicketType{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
	if err := s.ticketRepo.CreateType(ctx, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

// ListTypes returns an event's ticket types with remaining
// availability. Public, so anyone holding the event link can buy.
func (s *TicketService) ListTypes(ctx context.Context, eventID string) ([]*model.TicketTypeDetail, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.TicketingEnabled {
		return nil, ErrTicketingDisabled
	}

	types, err := s.ticketRepo.ListTypesForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := make([]*model.TicketTypeDetail, 0, len(types))
	for _, tt := range types {
		sold, err := s.ticketRepo.CountSold(ctx, tt.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, &model.TicketTypeDetail{
			TicketType: *tt,
			Sold:       sold,
			Remaining:  tt.Quantity - sold,
		})
	}
	return details, nil
}

// UpdateType edits a ticket type. Organizer only.
func (s *TicketService) UpdateType(ctx context.Context, userID, typeID string, req *model.UpdateTicketTypeRequest) (*model.TicketType, error) {
	tt, err := s.requireTypeOrganizer(ctx, userID, typeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tt.Name = *req.Name
	}
	if req.Description != nil {
		tt.Description = req.Description
	}
	if req.Price != nil {
		tt.Price = *req.Price
	}
	if req.Quantity != nil {
		tt.Quantity = *req.Quantity
	}

	if err := s.ticketRepo.UpdateType(ctx, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

// DeleteType withdraws a ticket type and its sold tickets. Organizer
// only.
func (s *TicketService) DeleteType(ctx context.Context, userID, typeID string) error {
	if _, err := s.requireTypeOrganizer(ctx, userID, typeID); err != nil {
		return err
	}
	return s.ticketRepo.DeleteType(ctx, typeID)
}

// Purchase buys one ticket of a type. No authentication: purchases are
// keyed by email, and each email can hold one ticket per type. The
// quota check and insert run in one storage transaction.
func (s *TicketService) Purchase(ctx context.Context, typeID string, req *model.PurchaseTicketRequest) (*model.Ticket, error) {
	tt, err := s.ticketRepo.GetTypeByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if tt == nil {
		return nil, ErrTicketTypeNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, tt.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.TicketingEnabled {
		return nil, ErrTicketingDisabled
	}

	ticket := &model.Ticket{
		TicketTypeID:       typeID,
		PurchaserFirstName: strings.TrimSpace(req.FirstName),
		PurchaserLastName:  strings.TrimSpace(req.LastName),
		PurchaserEmail:     strings.TrimSpace(strings.ToLower(req.Email)),
		PurchaserAddress:   req.Address,
	}
	if err := s.ticketRepo.Purchase(ctx, ticket, tt.Quantity); err != nil {
		switch {
		case errors.Is(err, database.ErrLimitExceeded):
			return nil, ErrTicketsSoldOut
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrAlreadyPurchased
		}
		return nil, err
	}
	return ticket, nil
}

// ListPurchases returns the tickets sold for a type. Organizer only.
func (s *TicketService) ListPurchases(ctx context.Context, userID, typeID string) ([]*model.Ticket, error) {
	if _, err := s.requireTypeOrganizer(ctx, userID, typeID); err != nil {
		return nil, err
	}
	return s.ticketRepo.ListTickets(ctx, typeID)
}

// CancelTicket voids a sold ticket, returning its slot to the pool.
// Organizer only.
func (s *TicketService) CancelTicket(ctx context.Context, userID, ticketID string) error {
	ticket, err := s.ticketRepo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}

	if _, err := s.requireTypeOrganizer(ctx, userID, ticket.TicketTypeID); err != nil {
		return err
	}
	return s.ticketRepo.DeleteTicket(ctx, ticketID)
}

// requireTypeOrganizer loads a ticket type and verifies the caller
// organizes its event.
func (s *TicketService) requireTypeOrganizer(ctx context.Context, userID, typeID string) (*model.TicketType, error) {
	tt, err := s.ticketRepo.GetTypeByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if tt == nil {
		return nil, ErrTicketTypeNotFound
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, tt.EventID, userID)
	if err != nil {
		return nil, err
	}
	if !isOrganizer {
		return nil, ErrNotOrganizer
	}
	return tt, nil
}
