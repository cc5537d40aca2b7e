package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// TicketRepository handles ticket type and ticket data access
type TicketRepository struct {
	db database.Database
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db database.Database) *TicketRepository {
	return &TicketRepository{db: db}
}

// CreateType creates a new ticket type for an event
func (r *TicketRepository) CreateType(ctx context.Context, tt *model.TicketType) error {
	query := `
		CREATE ticket_type CONTENT {
			event_id: type::record($event_id),
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			price: $price,
			quantity: $quantity,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"event_id":    tt.EventID,
		"name":        tt.Name,
		"description": ptrToNone(tt.Description),
		"price":       tt.Price,
		"quantity":    tt.Quantity,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	tt.ID = created.ID
	tt.CreatedOn = created.CreatedOn
	tt.UpdatedOn = created.UpdatedOn
	return nil
}

// GetTypeByID retrieves a ticket type by ID
func (r *TicketRepository) GetTypeByID(ctx context.Context, id string) (*model.TicketType, error) {
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

	tt := &model.TicketType{}
	if err := decodeRecord(data, []string{"event_id"}, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

// ListTypesForEvent retrieves all ticket types for an event
func (r *TicketRepository) ListTypesForEvent(ctx context.Context, eventID string) ([]*model.TicketType, error) {
	query := `SELECT * FROM ticket_type WHERE event_id = type::record($event_id) ORDER BY created_on ASC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	types := make([]*model.TicketType, 0)
	for _, row := range allRows(result) {
		tt := &model.TicketType{}
		if err := decodeRecord(row, []string{"event_id"}, tt); err != nil {
			return nil, err
		}
		types = append(types, tt)
	}
	return types, nil
}

// UpdateType updates a ticket type
func (r *TicketRepository) UpdateType(ctx context.Context, tt *model.TicketType) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			price = $price,
			quantity = $quantity,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":          tt.ID,
		"name":        tt.Name,
		"description": ptrToNone(tt.Description),
		"price":       tt.Price,
		"quantity":    tt.Quantity,
	}
	return r.db.Execute(ctx, query, vars)
}

// DeleteType deletes a ticket type and its sold tickets atomically
func (r *TicketRepository) DeleteType(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`DELETE ticket WHERE ticket_type_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// CountSold counts tickets sold for a type
func (r *TicketRepository) CountSold(ctx context.Context, typeID string) (int, error) {
	query := `SELECT count() AS count FROM ticket WHERE ticket_type_id = type::record($type_id) GROUP ALL`
	vars := map[string]interface{}{"type_id": typeID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// Purchase creates a ticket if the type still has stock. The quota check
// and the insert run in one transaction so concurrent purchases cannot
// oversell. Returns database.ErrLimitExceeded when the type is sold out
// and database.ErrDuplicate when the email already holds a ticket.
func (r *TicketRepository) Purchase(ctx context.Context, ticket *model.Ticket, quantity int) error {
	tb := database.NewTxBuilder()
	tb.Add(`
		IF (SELECT VALUE count FROM (SELECT count() AS count FROM ticket WHERE ticket_type_id = type::record($type_id) GROUP ALL))[0] ?? 0 < $quantity THEN
			(CREATE ticket CONTENT {
				ticket_type_id: type::record($type_id),
				purchaser_first_name: $purchaser_first_name,
				purchaser_last_name: $purchaser_last_name,
				purchaser_email: $purchaser_email,
				purchaser_address: IF $purchaser_address IS NOT NULL THEN $purchaser_address ELSE NONE END,
				purchased_on: time::now()
			})
		ELSE
			NONE
		END
	`, map[string]interface{}{
		"type_id":              ticket.TicketTypeID,
		"purchaser_first_name": ticket.PurchaserFirstName,
		"purchaser_last_name":  ticket.PurchaserLastName,
		"purchaser_email":      ticket.PurchaserEmail,
		"purchaser_address":    ptrToNone(ticket.PurchaserAddress),
		"quantity":             quantity,
	})

	results, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already purchased this ticket type", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(results)
	if err != nil || created.ID == "" {
		return fmt.Errorf("%w: ticket type is sold out", database.ErrLimitExceeded)
	}

	ticket.ID = created.ID
	return nil
}

// GetTicketByID retrieves a ticket by ID
func (r *TicketRepository) GetTicketByID(ctx context.Context, id string) (*model.Ticket, error) {
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

	return parseTicketData(data)
}

// ListTickets retrieves all tickets sold for a type
func (r *TicketRepository) ListTickets(ctx context.Context, typeID string) ([]*model.Ticket, error) {
	query := `SELECT * FROM ticket WHERE ticket_type_id = type::record($type_id) ORDER BY purchased_on ASC`
	vars := map[string]interface{}{"type_id": typeID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	tickets := make([]*model.Ticket, 0)
	for _, row := range allRows(result) {
		ticket, err := parseTicketData(row)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// DeleteTicket cancels a sold ticket, returning its slot to the pool
func (r *TicketRepository) DeleteTicket(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id})
}

func parseTicketData(data map[string]interface{}) (*model.Ticket, error) {
	if v, ok := data["purchased_on"]; ok {
		data["purchased_on"] = parseTime(v)
	}

	ticket := &model.Ticket{}
	if err := decodeRecord(data, []string{"ticket_type_id"}, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
