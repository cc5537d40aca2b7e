package model

import "time"

// Event represents a scheduled gathering, optionally scoped to a group.
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    *string    `json:"location,omitempty"`
	CoverPhoto  *string    `json:"cover_photo,omitempty"`
	IsPrivate   bool       `json:"is_private"`
	GroupID     *string    `json:"group_id,omitempty"` // nil = standalone event

	// Feature flags gate the event add-on surfaces.
	PollsEnabled        bool `json:"polls_enabled"`
	TicketingEnabled    bool `json:"ticketing_enabled"`
	ShoppingListEnabled bool `json:"shopping_list_enabled"`
	CarpoolEnabled      bool `json:"carpool_enabled"`

	CreatedBy string    `json:"created_by"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Organizer links a user to an event with management rights.
type Organizer struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedOn time.Time `json:"created_on"`
}

// Participant links an attending user to an event.
type Participant struct {
	ID       string    `json:"id"`
	EventID  string    `json:"event_id"`
	UserID   string    `json:"user_id"`
	JoinedOn time.Time `json:"joined_on"`
}

// EventDetail is the full event view with organizer and participant lists.
type EventDetail struct {
	Event        Event         `json:"event"`
	Organizers   []Organizer   `json:"organizers"`
	Participants []Participant `json:"participants"`
}

// Constraints
const (
	MaxEventNameLength     = 255
	MaxEventDescLength     = 5000
	MaxEventLocationLength = 255
)

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    *string    `json:"location,omitempty"`
	CoverPhoto  *string    `json:"cover_photo,omitempty"`
	IsPrivate   bool       `json:"is_private"`
	GroupID     *string    `json:"group_id,omitempty"`

	// Additional organizers beyond the creator.
	OrganizerIDs []string `json:"organizer_ids,omitempty"`

	// PollsEnabled defaults to true when omitted.
	PollsEnabled        *bool `json:"polls_enabled,omitempty"`
	TicketingEnabled    bool  `json:"ticketing_enabled"`
	ShoppingListEnabled bool  `json:"shopping_list_enabled"`
	CarpoolEnabled      bool  `json:"carpool_enabled"`
}

// Validate checks the create event request
func (r *CreateEventRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > MaxEventNameLength {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name must be 255 characters or less",
		})
	}

	if r.Description != nil && len(*r.Description) > MaxEventDescLength {
		errors = append(errors, FieldError{
			Field:   "description",
			Message: "description must be 5000 characters or less",
		})
	}

	if r.StartDate.IsZero() {
		errors = append(errors, FieldError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	}

	if r.EndDate != nil && !r.StartDate.IsZero() && !r.EndDate.After(r.StartDate) {
		errors = append(errors, FieldError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}

	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errors = append(errors, FieldError{
			Field:   "location",
			Message: "location must be 255 characters or less",
		})
	}

	return errors
}

// UpdateEventRequest represents a request to update an event
type UpdateEventRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    *string    `json:"location,omitempty"`
	CoverPhoto  *string    `json:"cover_photo,omitempty"`
	IsPrivate   *bool      `json:"is_private,omitempty"`

	PollsEnabled        *bool `json:"polls_enabled,omitempty"`
	TicketingEnabled    *bool `json:"ticketing_enabled,omitempty"`
	ShoppingListEnabled *bool `json:"shopping_list_enabled,omitempty"`
	CarpoolEnabled      *bool `json:"carpool_enabled,omitempty"`
}

// Validate checks the update event request
func (r *UpdateEventRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name cannot be empty",
			})
		} else if len(*r.Name) > MaxEventNameLength {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name must be 255 characters or less",
			})
		}
	}

	if r.Description != nil && len(*r.Description) > MaxEventDescLength {
		errors = append(errors, FieldError{
			Field:   "description",
			Message: "description must be 5000 characters or less",
		})
	}

	if r.StartDate != nil && r.EndDate != nil && !r.EndDate.After(*r.StartDate) {
		errors = append(errors, FieldError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}

	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errors = append(errors, FieldError{
			Field:   "location",
			Message: "location must be 255 characters or less",
		})
	}

	return errors
}

// AddOrganizerRequest promotes a user to event organizer
type AddOrganizerRequest struct {
	UserID string `json:"user_id"`
}

// Validate checks the add organizer request
func (r *AddOrganizerRequest) Validate() []FieldError {
	var errors []FieldError

	if r.UserID == "" {
		errors = append(errors, FieldError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	return errors
}

// AddParticipantRequest registers attendance. An empty user_id means the
// caller is joining the event themselves.
type AddParticipantRequest struct {
	UserID string `json:"user_id,omitempty"`
}
