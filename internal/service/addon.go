package service

import (
	"context"
	"errors"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// AddonRepository defines the interface for shopping list and carpool storage
type AddonRepository interface {
	CreateShoppingItem(ctx context.Context, item *model.ShoppingItem) error
	GetShoppingItemByID(ctx context.Context, id string) (*model.ShoppingItem, error)
	ListShoppingItems(ctx context.Context, eventID string) ([]*model.ShoppingItem, error)
	UpdateShoppingItem(ctx context.Context, item *model.ShoppingItem) error
	DeleteShoppingItem(ctx context.Context, id string) error
	CreateCarpoolOffer(ctx context.Context, offer *model.CarpoolOffer) error
	GetCarpoolOfferByID(ctx context.Context, id string) (*model.CarpoolOffer, error)
	ListCarpoolOffers(ctx context.Context, eventID string) ([]*model.CarpoolOffer, error)
	UpdateCarpoolOffer(ctx context.Context, offer *model.CarpoolOffer) error
	DeleteCarpoolOffer(ctx context.Context, id string) error
}

// AddonService handles the shopping list and carpooling add-ons. Both
// are gated on their event feature flag and on the caller
// participating in or organizing the event.
type AddonService struct {
	addonRepo AddonRepository
	eventRepo EventRepository
}

// NewAddonService creates a new addon service
func NewAddonService(addonRepo AddonRepository, eventRepo EventRepository) *AddonService {
	return &AddonService{
		addonRepo: addonRepo,
		eventRepo: eventRepo,
	}
}

// CreateShoppingItem adds an item to the event's shopping list
func (s *AddonService) CreateShoppingItem(ctx context.Context, userID, eventID string, req *model.CreateShoppingItemRequest) (*model.ShoppingItem, error) {
	if err := s.requireShoppingAccess(ctx, userID, eventID); err != nil {
		return nil, err
	}

	item := &model.ShoppingItem{
		EventID:     eventID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		ArrivalTime: req.ArrivalTime,
		CreatedBy:   userID,
	}
	if err := s.addonRepo.CreateShoppingItem(ctx, item); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateShoppingItem
		}
		return nil, err
	}
	return item, nil
}

// ListShoppingItems returns the event's shopping list
func (s *AddonService) ListShoppingItems(ctx context.Context, userID, eventID string) ([]*model.ShoppingItem, error) {
	if err := s.requireShoppingAccess(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return s.addonRepo.ListShoppingItems(ctx, eventID)
}

// UpdateShoppingItem edits an item, assigns it, or marks it purchased.
// Item owner or event organizer only.
func (s *AddonService) UpdateShoppingItem(ctx context.Context, userID, itemID string, req *model.UpdateShoppingItemRequest) (*model.ShoppingItem, error) {
	item, err := s.requireItemOwner(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.AssignedTo != nil {
		item.AssignedTo = req.AssignedTo
	}
	if req.ArrivalTime != nil {
		item.ArrivalTime = req.ArrivalTime
	}
	if req.IsPurchased != nil {
		item.IsPurchased = *req.IsPurchased
	}

	if err := s.addonRepo.UpdateShoppingItem(ctx, item); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateShoppingItem
		}
		return nil, err
	}
	return item, nil
}

// DeleteShoppingItem removes an item from the list. Item owner or
// event organizer only.
func (s *AddonService) DeleteShoppingItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.requireItemOwner(ctx, userID, itemID); err != nil {
		return err
	}
	return s.addonRepo.DeleteShoppingItem(ctx, itemID)
}

// CreateCarpoolOffer publishes a ride offer with the caller as driver
func (s *AddonService) CreateCarpoolOffer(ctx context.Context, userID, eventID string, req *model.CreateCarpoolOfferRequest) (*model.CarpoolOffer, error) {
	if err := s.requireCarpoolAccess(ctx, userID, eventID); err != nil {
		return nil, err
	}

	offer := &model.CarpoolOffer{
		EventID:           eventID,
		DriverID:          userID,
		DepartureLocation: req.DepartureLocation,
		DepartureTime:     req.DepartureTime,
		Price:             req.Price,
		AvailableSeats:    req.AvailableSeats,
		MaxDetourMinutes:  req.MaxDetourMinutes,
	}
	if err := s.addonRepo.CreateCarpoolOffer(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// ListCarpoolOffers returns the event's ride offers by departure time
func (s *AddonService) ListCarpoolOffers(ctx context.Context, userID, eventID string) ([]*model.CarpoolOffer, error) {
	if err := s.requireCarpoolAccess(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return s.addonRepo.ListCarpoolOffers(ctx, eventID)
}

// UpdateCarpoolOffer edits a ride offer. Driver or event organizer only.
func (s *AddonService) UpdateCarpoolOffer(ctx context.Context, userID, offerID string, req *model.UpdateCarpoolOfferRequest) (*model.CarpoolOffer, error) {
	offer, err := s.requireOfferDriver(ctx, userID, offerID)
	if err != nil {
		return nil, err
	}

	if req.DepartureLocation != nil {
		offer.DepartureLocation = *req.DepartureLocation
	}
	if req.DepartureTime != nil {
		offer.DepartureTime = *req.DepartureTime
	}
	if req.Price != nil {
		offer.Price = *req.Price
	}
	if req.AvailableSeats != nil {
		offer.AvailableSeats = *req.AvailableSeats
	}
	if req.MaxDetourMinutes != nil {
		offer.MaxDetourMinutes = req.MaxDetourMinutes
	}

	if err := s.addonRepo.UpdateCarpoolOffer(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// DeleteCarpoolOffer withdraws a ride offer. Driver or event organizer
// only.
func (s *AddonService) DeleteCarpoolOffer(ctx context.Context, userID, offerID string) error {
	if _, err := s.requireOfferDriver(ctx, userID, offerID); err != nil {
		return err
	}
	return s.addonRepo.DeleteCarpoolOffer(ctx, offerID)
}

// requireShoppingAccess checks the feature flag and event membership
func (s *AddonService) requireShoppingAccess(ctx context.Context, userID, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}
	if !event.ShoppingListEnabled {
		return ErrShoppingDisabled
	}
	return s.requireEventMember(ctx, userID, eventID)
}

// requireCarpoolAccess checks the feature flag and event membership
func (s *AddonService) requireCarpoolAccess(ctx context.Context, userID, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}
	if !event.CarpoolEnabled {
		return ErrCarpoolDisabled
	}
	return s.requireEventMember(ctx, userID, eventID)
}

// requireItemOwner loads a shopping item and verifies the caller owns
// it or organizes the event. The feature flag still applies.
func (s *AddonService) requireItemOwner(ctx context.Context, userID, itemID string) (*model.ShoppingItem, error) {
	item, err := s.addonRepo.GetShoppingItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrShoppingItemNotFound
	}

	if err := s.requireShoppingAccess(ctx, userID, item.EventID); err != nil {
		return nil, err
	}

	if item.CreatedBy != userID {
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, item.EventID, userID)
		if err != nil {
			return nil, err
		}
		if !isOrganizer {
			return nil, ErrNotItemOwner
		}
	}
	return item, nil
}

// requireOfferDriver loads a carpool offer and verifies the caller is
// the driver or organizes the event. The feature flag still applies.
func (s *AddonService) requireOfferDriver(ctx context.Context, userID, offerID string) (*model.CarpoolOffer, error) {
	offer, err := s.addonRepo.GetCarpoolOfferByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrCarpoolOfferNotFound
	}

	if err := s.requireCarpoolAccess(ctx, userID, offer.EventID); err != nil {
		return nil, err
	}

	if offer.DriverID != userID {
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, offer.EventID, userID)
		if err != nil {
			return nil, err
		}
		if !isOrganizer {
			return nil, ErrNotOfferDriver
		}
	}
	return offer, nil
}

func (s *AddonService) requireEventMember(ctx context.Context, userID, eventID string) error {
	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if isOrganizer {
		return nil
	}

	isParticipant, err := s.eventRepo.IsParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return ErrNotEventMember
	}
	return nil
}
