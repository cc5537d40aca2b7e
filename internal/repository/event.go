package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// EventRepository handles event, organizer and participant data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates an event and its organizer rows in one transaction.
// organizerIDs must already be deduplicated and include the creator.
func (r *EventRepository) Create(ctx context.Context, event *model.Event, organizerIDs []string) error {
	var endDate interface{}
	if event.EndDate != nil {
		endDate = event.EndDate.UTC()
	}
	var groupID interface{}
	if event.GroupID != nil {
		groupID = *event.GroupID
	}

	tb := database.NewTxBuilder()
	tb.Add(`
		LET $ev = (CREATE event CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			start_date: <datetime> $start_date,
			end_date: IF $end_date IS NOT NULL THEN <datetime> $end_date ELSE NONE END,
			location: IF $location IS NOT NULL THEN $location ELSE NONE END,
			cover_photo: IF $cover_photo IS NOT NULL THEN $cover_photo ELSE NONE END,
			is_private: $is_private,
			group_id: IF $group_id IS NOT NULL THEN type::record($group_id) ELSE NONE END,
			polls_enabled: $polls_enabled,
			ticketing_enabled: $ticketing_enabled,
			shopping_list_enabled: $shopping_list_enabled,
			carpool_enabled: $carpool_enabled,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		})
	`, map[string]interface{}{
		"name":                  event.Name,
		"description":           ptrToNone(event.Description),
		"start_date":            event.StartDate.UTC(),
		"end_date":              endDate,
		"location":              ptrToNone(event.Location),
		"cover_photo":           ptrToNone(event.CoverPhoto),
		"is_private":            event.IsPrivate,
		"group_id":              groupID,
		"polls_enabled":         event.PollsEnabled,
		"ticketing_enabled":     event.TicketingEnabled,
		"shopping_list_enabled": event.ShoppingListEnabled,
		"carpool_enabled":       event.CarpoolEnabled,
		"created_by":            event.CreatedBy,
	})

	for _, userID := range organizerIDs {
		tb.Add(`
			CREATE organizer CONTENT {
				event_id: $ev[0].id,
				user_id: type::record($user_id),
				created_on: time::now()
			}
		`, map[string]interface{}{"user_id": userID})
	}
	tb.AddRaw(`RETURN $ev`)

	results, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errors.New("no result returned")
	}

	created, err := extractCreatedRecord([]interface{}{results[len(results)-1]})
	if err != nil {
		return err
	}

	event.ID = created.ID
	event.CreatedOn = created.CreatedOn
	event.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	event, err := parseEventRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// ListVisible retrieves the events a user can see: public events plus
// the private ones they organize or attend.
func (r *EventRepository) ListVisible(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE is_private = false
		   OR id IN (SELECT VALUE event_id FROM organizer WHERE user_id = type::record($user_id))
		   OR id IN (SELECT VALUE event_id FROM participant WHERE user_id = type::record($user_id))
		ORDER BY start_date ASC
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseEventRows(result)
}

// ListForGroup retrieves all events attached to a group
func (r *EventRepository) ListForGroup(ctx context.Context, groupID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE group_id = type::record($group_id) ORDER BY start_date ASC`
	vars := map[string]interface{}{"group_id": groupID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseEventRows(result)
}

// Update updates an event
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			start_date = <datetime> $start_date,
			end_date = IF $end_date IS NOT NULL THEN <datetime> $end_date ELSE NONE END,
			location = IF $location IS NOT NULL THEN $location ELSE NONE END,
			cover_photo = IF $cover_photo IS NOT NULL THEN $cover_photo ELSE NONE END,
			is_private = $is_private,
			polls_enabled = $polls_enabled,
			ticketing_enabled = $ticketing_enabled,
			shopping_list_enabled = $shopping_list_enabled,
			carpool_enabled = $carpool_enabled,
			updated_on = time::now()
	`

	var endDate interface{}
	if event.EndDate != nil {
		endDate = event.EndDate.UTC()
	}

	vars := map[string]interface{}{
		"id":                    event.ID,
		"name":                  event.Name,
		"description":           ptrToNone(event.Description),
		"start_date":            event.StartDate.UTC(),
		"end_date":              endDate,
		"location":              ptrToNone(event.Location),
		"cover_photo":           ptrToNone(event.CoverPhoto),
		"is_private":            event.IsPrivate,
		"polls_enabled":         event.PollsEnabled,
		"ticketing_enabled":     event.TicketingEnabled,
		"shopping_list_enabled": event.ShoppingListEnabled,
		"carpool_enabled":       event.CarpoolEnabled,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete deletes an event and everything hanging off it in one atomic batch
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`DELETE poll_vote WHERE question_id IN (SELECT VALUE id FROM poll_question WHERE poll_id IN (SELECT VALUE id FROM poll WHERE event_id = type::record($id)))`, vars},
		{`DELETE poll_option WHERE question_id IN (SELECT VALUE id FROM poll_question WHERE poll_id IN (SELECT VALUE id FROM poll WHERE event_id = type::record($id)))`, vars},
		{`DELETE poll_question WHERE poll_id IN (SELECT VALUE id FROM poll WHERE event_id = type::record($id))`, vars},
		{`DELETE poll WHERE event_id = type::record($id)`, vars},
		{`DELETE ticket WHERE ticket_type_id IN (SELECT VALUE id FROM ticket_type WHERE event_id = type::record($id))`, vars},
		{`DELETE ticket_type WHERE event_id = type::record($id)`, vars},
		{`DELETE photo_comment WHERE photo_id IN (SELECT VALUE id FROM photo WHERE album_id IN (SELECT VALUE id FROM album WHERE event_id = type::record($id)))`, vars},
		{`DELETE photo WHERE album_id IN (SELECT VALUE id FROM album WHERE event_id = type::record($id))`, vars},
		{`DELETE album WHERE event_id = type::record($id)`, vars},
		{`DELETE message WHERE thread_id IN (SELECT VALUE id FROM thread WHERE event_id = type::record($id))`, vars},
		{`DELETE thread WHERE event_id = type::record($id)`, vars},
		{`DELETE shopping_item WHERE event_id = type::record($id)`, vars},
		{`DELETE carpool_offer WHERE event_id = type::record($id)`, vars},
		{`DELETE participant WHERE event_id = type::record($id)`, vars},
		{`DELETE organizer WHERE event_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// AddOrganizer links a user to an event as organizer. Returns
// database.ErrDuplicate when the user already organizes the event.
func (r *EventRepository) AddOrganizer(ctx context.Context, o *model.Organizer) error {
	query := `
		CREATE organizer CONTENT {
			event_id: type::record($event_id),
			user_id: type::record($user_id),
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"event_id": o.EventID,
		"user_id":  o.UserID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: user is already an organizer", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	o.ID = created.ID
	o.CreatedOn = created.CreatedOn
	return nil
}

// RemoveOrganizer removes an organizer link
func (r *EventRepository) RemoveOrganizer(ctx context.Context, eventID, userID string) error {
	query := `DELETE organizer WHERE event_id = type::record($event_id) AND user_id = type::record($user_id)`
	vars := map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	}
	return r.db.Execute(ctx, query, vars)
}

// ListOrganizers retrieves all organizer links for an event
func (r *EventRepository) ListOrganizers(ctx context.Context, eventID string) ([]*model.Organizer, error) {
	query := `SELECT * FROM organizer WHERE event_id = type::record($event_id) ORDER BY created_on ASC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	organizers := make([]*model.Organizer, 0)
	for _, row := range allRows(result) {
		o := &model.Organizer{}
		if err := decodeRecord(row, []string{"event_id", "user_id"}, o); err != nil {
			return nil, err
		}
		organizers = append(organizers, o)
	}
	return organizers, nil
}

// IsOrganizer reports whether the user organizes the event
func (r *EventRepository) IsOrganizer(ctx context.Context, eventID, userID string) (bool, error) {
	count, err := r.countLinks(ctx, "organizer", eventID, userID)
	return count > 0, err
}

// CountOrganizers counts the organizers of an event
func (r *EventRepository) CountOrganizers(ctx context.Context, eventID string) (int, error) {
	query := `SELECT count() AS count FROM organizer WHERE event_id = type::record($event_id) GROUP ALL`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// AddParticipant registers a user's attendance. Returns
// database.ErrDuplicate when the user already joined.
func (r *EventRepository) AddParticipant(ctx context.Context, p *model.Participant) error {
	query := `
		CREATE participant CONTENT {
			event_id: type::record($event_id),
			user_id: type::record($user_id),
			joined_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"event_id": p.EventID,
		"user_id":  p.UserID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: user is already a participant", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	p.ID = created.ID
	return nil
}

// RemoveParticipant removes a participant link
func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	query := `DELETE participant WHERE event_id = type::record($event_id) AND user_id = type::record($user_id)`
	vars := map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	}
	return r.db.Execute(ctx, query, vars)
}

// ListParticipants retrieves all participant links for an event
func (r *EventRepository) ListParticipants(ctx context.Context, eventID string) ([]*model.Participant, error) {
	query := `SELECT * FROM participant WHERE event_id = type::record($event_id) ORDER BY joined_on ASC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	participants := make([]*model.Participant, 0)
	for _, row := range allRows(result) {
		p := &model.Participant{}
		if err := decodeRecord(row, []string{"event_id", "user_id"}, p); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// IsParticipant reports whether the user attends the event
func (r *EventRepository) IsParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	count, err := r.countLinks(ctx, "participant", eventID, userID)
	return count > 0, err
}

func (r *EventRepository) countLinks(ctx context.Context, table, eventID, userID string) (int, error) {
	query := fmt.Sprintf(`SELECT count() AS count FROM %s WHERE event_id = type::record($event_id) AND user_id = type::record($user_id) GROUP ALL`, table)
	vars := map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// Helper functions

func parseEventRow(result interface{}) (*model.Event, error) {
	data, err := firstRow(result)
	if err != nil {
		return nil, err
	}
	return parseEventData(data)
}

func parseEventRows(result interface{}) ([]*model.Event, error) {
	events := make([]*model.Event, 0)
	for _, row := range allRows(result) {
		event, err := parseEventData(row)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func parseEventData(data map[string]interface{}) (*model.Event, error) {
	// Datetime columns come back as CustomDateTime, normalize before decoding
	if v, ok := data["start_date"]; ok {
		data["start_date"] = parseTime(v)
	}
	if v, ok := data["end_date"]; ok && v != nil {
		data["end_date"] = parseTime(v)
	}

	event := &model.Event{}
	if err := decodeRecord(data, []string{"group_id", "created_by"}, event); err != nil {
		return nil, err
	}
	return event, nil
}
