package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// AddonRepository handles shopping list and carpool data access
type AddonRepository struct {
	db database.Database
}

// NewAddonRepository creates a new addon repository
func NewAddonRepository(db database.Database) *AddonRepository {
	return &AddonRepository{db: db}
}

// CreateShoppingItem adds an item to an event's shopping list. Returns
// database.ErrDuplicate when the event already lists that name.
func (r *AddonRepository) CreateShoppingItem(ctx context.Context, item *model.ShoppingItem) error {
	query := `
		CREATE shopping_item CONTENT {
			event_id: type::record($event_id),
			name: $name,
			quantity: $quantity,
			assigned_to: IF $assigned_to IS NOT NULL THEN type::record($assigned_to) ELSE NONE END,
			arrival_time: IF $arrival_time IS NOT NULL THEN <datetime> $arrival_time ELSE NONE END,
			is_purchased: $is_purchased,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	var assignedTo, arrivalTime interface{}
	if item.AssignedTo != nil {
		assignedTo = *item.AssignedTo
	}
	if item.ArrivalTime != nil {
		arrivalTime = item.ArrivalTime.UTC()
	}

	vars := map[string]interface{}{
		"event_id":     item.EventID,
		"name":         item.Name,
		"quantity":     item.Quantity,
		"assigned_to":  assignedTo,
		"arrival_time": arrivalTime,
		"is_purchased": item.IsPurchased,
		"created_by":   item.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: item name already on the list", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	item.ID = created.ID
	item.CreatedOn = created.CreatedOn
	item.UpdatedOn = created.UpdatedOn
	return nil
}

// GetShoppingItemByID retrieves a shopping item by ID
func (r *AddonRepository) GetShoppingItemByID(ctx context.Context, id string) (*model.ShoppingItem, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := firstRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseShoppingItemData(data)
}

// ListShoppingItems retrieves an event's shopping list
func (r *AddonRepository) ListShoppingItems(ctx context.Context, eventID string) ([]*model.ShoppingItem, error) {
	query := `SELECT * FROM shopping_item WHERE event_id = type::record($event_id) ORDER BY created_on ASC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	items := make([]*model.ShoppingItem, 0)
	for _, row := range allRows(result) {
		item, err := parseShoppingItemData(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateShoppingItem updates a shopping item. Returns
// database.ErrDuplicate when renaming to a name already on the list.
func (r *AddonRepository) UpdateShoppingItem(ctx context.Context, item *model.ShoppingItem) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			quantity = $quantity,
			assigned_to = IF $assigned_to IS NOT NULL THEN type::record($assigned_to) ELSE NONE END,
			arrival_time = IF $arrival_time IS NOT NULL THEN <datetime> $arrival_time ELSE NONE END,
			is_purchased = $is_purchased,
			updated_on = time::now()
	`

	var assignedTo, arrivalTime interface{}
	if item.AssignedTo != nil {
		assignedTo = *item.AssignedTo
	}
	if item.ArrivalTime != nil {
		arrivalTime = item.ArrivalTime.UTC()
	}

	vars := map[string]interface{}{
		"id":           item.ID,
		"name":         item.Name,
		"quantity":     item.Quantity,
		"assigned_to":  assignedTo,
		"arrival_time": arrivalTime,
		"is_purchased": item.IsPurchased,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: item name already on the list", database.ErrDuplicate)
		}
		return err
	}
	return nil
}

// DeleteShoppingItem removes an item from the list
func (r *AddonRepository) DeleteShoppingItem(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id})
}

// CreateCarpoolOffer publishes a ride offer for an event
func (r *AddonRepository) CreateCarpoolOffer(ctx context.Context, offer *model.CarpoolOffer) error {
	query := `
		CREATE carpool_offer CONTENT {
			event_id: type::record($event_id),
			driver_id: type::record($driver_id),
			departure_location: $departure_location,
			departure_time: <datetime> $departure_time,
			price: $price,
			available_seats: $available_seats,
			max_detour_minutes: IF $max_detour_minutes IS NOT NULL THEN $max_detour_minutes ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	var maxDetour interface{}
	if offer.MaxDetourMinutes != nil {
		maxDetour = *offer.MaxDetourMinutes
	}

	vars := map[string]interface{}{
		"event_id":           offer.EventID,
		"driver_id":          offer.DriverID,
		"departure_location": offer.DepartureLocation,
		"departure_time":     offer.DepartureTime.UTC(),
		"price":              offer.Price,
		"available_seats":    offer.AvailableSeats,
		"max_detour_minutes": maxDetour,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	offer.ID = created.ID
	offer.CreatedOn = created.CreatedOn
	offer.UpdatedOn = created.UpdatedOn
	return nil
}

// GetCarpoolOfferByID retrieves a ride offer by ID
func (r *AddonRepository) GetCarpoolOfferByID(ctx context.Context, id string) (*model.CarpoolOffer, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := firstRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseCarpoolOfferData(data)
}

// ListCarpoolOffers retrieves all ride offers for an event
func (r *AddonRepository) ListCarpoolOffers(ctx context.Context, eventID string) ([]*model.CarpoolOffer, error) {
	query := `SELECT * FROM carpool_offer WHERE event_id = type::record($event_id) ORDER BY departure_time ASC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	offers := make([]*model.CarpoolOffer, 0)
	for _, row := range allRows(result) {
		offer, err := parseCarpoolOfferData(row)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// UpdateCarpoolOffer updates a ride offer
func (r *AddonRepository) UpdateCarpoolOffer(ctx context.Context, offer *model.CarpoolOffer) error {
	query := `
		UPDATE type::record($id) SET
			departure_location = $departure_location,
			departure_time = <datetime> $departure_time,
			price = $price,
			available_seats = $available_seats,
			max_detour_minutes = IF $max_detour_minutes IS NOT NULL THEN $max_detour_minutes ELSE NONE END,
			updated_on = time::now()
	`

	var maxDetour interface{}
	if offer.MaxDetourMinutes != nil {
		maxDetour = *offer.MaxDetourMinutes
	}

	vars := map[string]interface{}{
		"id":                 offer.ID,
		"departure_location": offer.DepartureLocation,
		"departure_time":     offer.DepartureTime.UTC(),
		"price":              offer.Price,
		"available_seats":    offer.AvailableSeats,
		"max_detour_minutes": maxDetour,
	}

	return r.db.Execute(ctx, query, vars)
}

// DeleteCarpoolOffer withdraws a ride offer
func (r *AddonRepository) DeleteCarpoolOffer(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id})
}

// Helper functions

func parseShoppingItemData(data map[string]interface{}) (*model.ShoppingItem, error) {
	if v, ok := data["arrival_time"]; ok && v != nil {
		data["arrival_time"] = parseTime(v)
	}

	item := &model.ShoppingItem{}
	if err := decodeRecord(data, []string{"event_id", "assigned_to", "created_by"}, item); err != nil {
		return nil, err
	}
	return item, nil
}

func parseCarpoolOfferData(data map[string]interface{}) (*model.CarpoolOffer, error) {
	if v, ok := data["departure_time"]; ok {
		data["departure_time"] = parseTime(v)
	}

	offer := &model.CarpoolOffer{}
	if err := decodeRecord(data, []string{"event_id", "driver_id"}, offer); err != nil {
		return nil, err
	}
	return offer, nil
}
