package model

import "time"

// ShoppingItem is one entry on an event's shared shopping list. Names are
// unique within an event.
type ShoppingItem struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	ArrivalTime *time.Time `json:"arrival_time,omitempty"`
	IsPurchased bool       `json:"is_purchased"`
	CreatedBy   string     `json:"created_by"`
	CreatedOn   time.Time  `json:"created_on"`
	UpdatedOn   time.Time  `json:"updated_on"`
}

// CarpoolOffer is a ride offered by a participant to an event.
type CarpoolOffer struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	DriverID          string    `json:"driver_id"`
	DepartureLocation string    `json:"departure_location"`
	DepartureTime     time.Time `json:"departure_time"`
	Price             float64   `json:"price"`
	AvailableSeats    int       `json:"available_seats"`
	MaxDetourMinutes  *int      `json:"max_detour_minutes,omitempty"`
	CreatedOn         time.Time `json:"created_on"`
	UpdatedOn         time.Time `json:"updated_on"`
}

// Constraints
const (
	MaxShoppingItemNameLength = 255
	MaxDepartureLocLength     = 255
)

// CreateShoppingItemRequest represents a request to add a shopping item
type CreateShoppingItemRequest struct {
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity"`
	ArrivalTime *time.Time `json:"arrival_time,omitempty"`
}

// Validate checks the create shopping item request
func (r *CreateShoppingItemRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > MaxShoppingItemNameLength {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name must be 255 characters or less",
		})
	}

	if r.Quantity < 1 {
		errors = append(errors, FieldError{
			Field:   "quantity",
			Message: "quantity must be at least 1",
		})
	}

	return errors
}

// UpdateShoppingItemRequest represents a request to update a shopping item
type UpdateShoppingItemRequest struct {
	Name        *string    `json:"name,omitempty"`
	Quantity    *int       `json:"quantity,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	ArrivalTime *time.Time `json:"arrival_time,omitempty"`
	IsPurchased *bool      `json:"is_purchased,omitempty"`
}

// Validate checks the update shopping item request
func (r *UpdateShoppingItemRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name cannot be empty",
			})
		} else if len(*r.Name) > MaxShoppingItemNameLength {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name must be 255 characters or less",
			})
		}
	}

	if r.Quantity != nil && *r.Quantity < 1 {
		errors = append(errors, FieldError{
			Field:   "quantity",
			Message: "quantity must be at least 1",
		})
	}

	return errors
}

// CreateCarpoolOfferRequest represents a request to offer a ride
type CreateCarpoolOfferRequest struct {
	DepartureLocation string    `json:"departure_location"`
	DepartureTime     time.Time `json:"departure_time"`
	Price             float64   `json:"price"`
	AvailableSeats    int       `json:"available_seats"`
	MaxDetourMinutes  *int      `json:"max_detour_minutes,omitempty"`
}

// Validate checks the create carpool offer request
func (r *CreateCarpoolOfferRequest) Validate() []FieldError {
	var errors []FieldError

	if r.DepartureLocation == "" {
		errors = append(errors, FieldError{
			Field:   "departure_location",
			Message: "departure_location is required",
		})
	} else if len(r.DepartureLocation) > MaxDepartureLocLength {
		errors = append(errors, FieldError{
			Field:   "departure_location",
			Message: "departure_location must be 255 characters or less",
		})
	}

	if r.DepartureTime.IsZero() {
		errors = append(errors, FieldError{
			Field:   "departure_time",
			Message: "departure_time is required",
		})
	}

	if r.Price < 0 {
		errors = append(errors, FieldError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	if r.AvailableSeats < 1 {
		errors = append(errors, FieldError{
			Field:   "available_seats",
			Message: "available_seats must be at least 1",
		})
	}

	if r.MaxDetourMinutes != nil && *r.MaxDetourMinutes < 0 {
		errors = append(errors, FieldError{
			Field:   "max_detour_minutes",
			Message: "max_detour_minutes cannot be negative",
		})
	}

	return errors
}

// UpdateCarpoolOfferRequest represents a request to update a ride offer
type UpdateCarpoolOfferRequest struct {
	DepartureLocation *string    `json:"departure_location,omitempty"`
	DepartureTime     *time.Time `json:"departure_time,omitempty"`
	Price             *float64   `json:"price,omitempty"`
	AvailableSeats    *int       `json:"available_seats,omitempty"`
	MaxDetourMinutes  *int       `json:"max_detour_minutes,omitempty"`
}

// Validate checks the update carpool offer request
func (r *UpdateCarpoolOfferRequest) Validate() []FieldError {
	var errors []FieldError

	if r.DepartureLocation != nil {
		if *r.DepartureLocation == "" {
			errors = append(errors, FieldError{
				Field:   "departure_location",
				Message: "departure_location cannot be empty",
			})
		} else if len(*r.DepartureLocation) > MaxDepartureLocLength {
			errors = append(errors, FieldError{
				Field:   "departure_location",
				Message: "departure_location must be 255 characters or less",
			})
		}
	}

	if r.Price != nil && *r.Price < 0 {
		errors = append(errors, FieldError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	if r.AvailableSeats != nil && *r.AvailableSeats < 1 {
		errors = append(errors, FieldError{
			Field:   "available_seats",
			Message: "available_seats must be at least 1",
		})
	}

	if r.MaxDetourMinutes != nil && *r.MaxDetourMinutes < 0 {
		errors = append(errors, FieldError{
			Field:   "max_detour_minutes",
			Message: "max_detour_minutes cannot be negative",
		})
	}

	return errors
}
