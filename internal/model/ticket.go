package model

import "time"

// TicketType is a purchasable ticket category for an event with a fixed
// quantity on sale.
type TicketType struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Ticket is a completed purchase of one ticket. An email can buy at most
// one ticket per type.
type Ticket struct {
	ID                 string    `json:"id"`
	TicketTypeID       string    `json:"ticket_type_id"`
	PurchaserFirstName string    `json:"purchaser_first_name"`
	PurchaserLastName  string    `json:"purchaser_last_name"`
	PurchaserEmail     string    `json:"purchaser_email"`
	PurchaserAddress   *string   `json:"purchaser_address,omitempty"`
	PurchasedOn        time.Time `json:"purchased_on"`
}

// TicketTypeDetail is a ticket type with its remaining availability.
type TicketTypeDetail struct {
	TicketType TicketType `json:"ticket_type"`
	Sold       int        `json:"sold"`
	Remaining  int        `json:"remaining"`
}

// Constraints
const (
	MaxTicketTypeNameLength   = 255
	MaxTicketTypeDescLength   = 2000
	MaxPurchaserNameLength    = 255
	MaxPurchaserAddressLength = 500
)

// CreateTicketTypeRequest represents a request to put tickets on sale
type CreateTicketTypeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Validate checks the create ticket type request
func (r *CreateTicketTypeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > MaxTicketTypeNameLength {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name must be 255 characters or less",
		})
	}

	if r.Description != nil && len(*r.Description) > MaxTicketTypeDescLength {
		errors = append(errors, FieldError{
			Field:   "description",
			Message: "description must be 2000 characters or less",
		})
	}

	if r.Price < 0 {
		errors = append(errors, FieldError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	if r.Quantity < 0 {
		errors = append(errors, FieldError{
			Field:   "quantity",
			Message: "quantity cannot be negative",
		})
	}

	return errors
}

// UpdateTicketTypeRequest represents a request to update a ticket type
type UpdateTicketTypeRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
}

// Validate checks the update ticket type request
func (r *UpdateTicketTypeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name cannot be empty",
			})
		} else if len(*r.Name) > MaxTicketTypeNameLength {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name must be 255 characters or less",
			})
		}
	}

	if r.Description != nil && len(*r.Description) > MaxTicketTypeDescLength {
		errors = append(errors, FieldError{
			Field:   "description",
			Message: "description must be 2000 characters or less",
		})
	}

	if r.Price != nil && *r.Price < 0 {
		errors = append(errors, FieldError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	if r.Quantity != nil && *r.Quantity < 0 {
		errors = append(errors, FieldError{
			Field:   "quantity",
			Message: "quantity cannot be negative",
		})
	}

	return errors
}

// PurchaseTicketRequest represents a public ticket purchase keyed by email
type PurchaseTicketRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Address   *string `json:"address,omitempty"`
}

// Validate checks the purchase request
func (r *PurchaseTicketRequest) Validate() []FieldError {
	var errors []FieldError

	if r.FirstName == "" {
		errors = append(errors, FieldError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	} else if len(r.FirstName) > MaxPurchaserNameLength {
		errors = append(errors, FieldError{
			Field:   "first_name",
			Message: "first_name must be 255 characters or less",
		})
	}

	if r.LastName == "" {
		errors = append(errors, FieldError{
			Field:   "last_name",
			Message: "last_name is required",
		})
	} else if len(r.LastName) > MaxPurchaserNameLength {
		errors = append(errors, FieldError{
			Field:   "last_name",
			Message: "last_name must be 255 characters or less",
		})
	}

	if r.Address != nil && len(*r.Address) > MaxPurchaserAddressLength {
		errors = append(errors, FieldError{
			Field:   "address",
			Message: "address must be 500 characters or less",
		})
	}

	if r.Email == "" {
		errors = append(errors, FieldError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !emailPattern.MatchString(r.Email) {
		errors = append(errors, FieldError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	return errors
}
