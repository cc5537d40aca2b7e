// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	group := f.CreateGroup(t, user)
//	event := f.CreateEvent(t, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email    string
	FullName string
	Password string
	IsActive bool
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:    fmt.Sprintf("user_%s@test.local", randomID()),
		FullName: fmt.Sprintf("Test User %s", randomID()),
		Password: "testpass123",
		IsActive: true,
	}
	for _, fn := range opts {
		fn(o)
	}

	// MinCost keeps fixture creation fast; production uses cost 12
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			full_name: $full_name,
			hash: $hash,
			is_active: $is_active,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":     o.Email,
		"full_name": o.FullName,
		"hash":      string(hash),
		"is_active": o.IsActive,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	return parseUserResult(t, results)
}

// ============================================================================
// Group Fixtures
// ============================================================================

// GroupOpts customizes group creation
type GroupOpts struct {
	Name              string
	Description       string
	Type              model.GroupType
	AllowMemberEvents bool
}

// CreateGroup creates a group with the given user as admin member
func (f *Factory) CreateGroup(t *testing.T, admin *model.User, opts ...func(*GroupOpts)) *model.Group {
	t.Helper()

	o := &GroupOpts{
		Name:              fmt.Sprintf("Group %s", randomID()),
		Description:       "Test group description",
		Type:              model.GroupTypeFriends,
		AllowMemberEvents: true,
	}
	for _, fn := range opts {
		fn(o)
	}

	groupQuery := `
		CREATE user_group CONTENT {
			name: $name,
			description: $description,
			type: $type,
			allow_member_posts: true,
			allow_member_events: $allow_member_events,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), groupQuery, map[string]interface{}{
		"name":                o.Name,
		"description":         o.Description,
		"type":                string(o.Type),
		"allow_member_events": o.AllowMemberEvents,
		"created_by":          admin.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create group: %v", err)
	}

	group := parseGroupResult(t, results)
	f.addMembership(t, group.ID, admin.ID, true, true)
	return group
}

// AddMember adds a user as a regular member of a group
func (f *Factory) AddMember(t *testing.T, group *model.Group, user *model.User) {
	f.addMembership(t, group.ID, user.ID, false, false)
}

// AddAdmin adds a user as an admin member of a group
func (f *Factory) AddAdmin(t *testing.T, group *model.Group, user *model.User) {
	f.addMembership(t, group.ID, user.ID, true, true)
}

// AddMemberWithEventRights adds a member who can create events
func (f *Factory) AddMemberWithEventRights(t *testing.T, group *model.Group, user *model.User) {
	f.addMembership(t, group.ID, user.ID, false, true)
}

func (f *Factory) addMembership(t *testing.T, groupID, userID string, isAdmin, canCreateEvents bool) {
	t.Helper()

	query := `
		CREATE membership CONTENT {
			group_id: type::record($group_id),
			user_id: type::record($user_id),
			is_admin: $is_admin,
			can_create_events: $can_create_events,
			created_on: time::now()
		}
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"group_id":          groupID,
		"user_id":           userID,
		"is_admin":          isAdmin,
		"can_create_events": canCreateEvents,
	}); err != nil {
		t.Fatalf("fixtures: failed to create membership: %v", err)
	}
}

// ============================================================================
// Event Fixtures
// ============================================================================

// EventOpts customizes event creation
type EventOpts struct {
	Name                string
	StartDate           time.Time
	EndDate             *time.Time
	Location            string
	IsPrivate           bool
	GroupID             *string
	PollsEnabled        bool
	TicketingEnabled    bool
	ShoppingListEnabled bool
	CarpoolEnabled      bool
}

// WithAllFeatures enables every event feature flag
func WithAllFeatures() func(*EventOpts) {
	return func(o *EventOpts) {
		o.PollsEnabled = true
		o.TicketingEnabled = true
		o.ShoppingListEnabled = true
		o.CarpoolEnabled = true
	}
}

// WithGroup attaches the event to a group
func WithGroup(group *model.Group) func(*EventOpts) {
	return func(o *EventOpts) {
		o.GroupID = &group.ID
	}
}

// CreateEvent creates an event with the given user as organizer
func (f *Factory) CreateEvent(t *testing.T, organizer *model.User, opts ...func(*EventOpts)) *model.Event {
	t.Helper()

	startDate := time.Now().Add(24 * time.Hour)
	o := &EventOpts{
		Name:      fmt.Sprintf("Event %s", randomID()),
		StartDate: startDate,
		Location:  "Test venue",
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE event CONTENT {
			name: $name,
			start_date: <datetime> $start_date,
			end_date: IF $end_date IS NOT NULL THEN <datetime> $end_date ELSE NONE END,
			location: $location,
			is_private: $is_private,
			group_id: IF $group_id IS NOT NULL THEN type::record($group_id) ELSE NONE END,
			polls_enabled: $polls_enabled,
			ticketing_enabled: $ticketing_enabled,
			shopping_list_enabled: $shopping_list_enabled,
			carpool_enabled: $carpool_enabled,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	var endDate interface{}
	if o.EndDate != nil {
		endDate = o.EndDate.UTC()
	}
	var groupID interface{}
	if o.GroupID != nil {
		groupID = *o.GroupID
	}

	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":                  o.Name,
		"start_date":            o.StartDate.UTC(),
		"end_date":              endDate,
		"location":              o.Location,
		"is_private":            o.IsPrivate,
		"group_id":              groupID,
		"polls_enabled":         o.PollsEnabled,
		"ticketing_enabled":     o.TicketingEnabled,
		"shopping_list_enabled": o.ShoppingListEnabled,
		"carpool_enabled":       o.CarpoolEnabled,
		"created_by":            organizer.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}

	event := parseEventResult(t, results)
	f.AddOrganizer(t, event, organizer)
	return event
}

// AddOrganizer registers a user as an organizer of an event
func (f *Factory) AddOrganizer(t *testing.T, event *model.Event, user *model.User) {
	t.Helper()

	query := `
		CREATE organizer CONTENT {
			event_id: type::record($event_id),
			user_id: type::record($user_id),
			created_on: time::now()
		}
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"event_id": event.ID,
		"user_id":  user.ID,
	}); err != nil {
		t.Fatalf("fixtures: failed to add organizer: %v", err)
	}
}

// AddParticipant registers a user as a participant of an event
func (f *Factory) AddParticipant(t *testing.T, event *model.Event, user *model.User) {
	t.Helper()

	query := `
		CREATE participant CONTENT {
			event_id: type::record($event_id),
			user_id: type::record($user_id),
			joined_on: time::now()
		}
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"event_id": event.ID,
		"user_id":  user.ID,
	}); err != nil {
		t.Fatalf("fixtures: failed to add participant: %v", err)
	}
}

// ============================================================================
// Discussion Fixtures
// ============================================================================

// CreateGroupThread creates a thread attached to a group
func (f *Factory) CreateGroupThread(t *testing.T, group *model.Group, author *model.User, title string) *model.Thread {
	return f.createThread(t, author, title, model.ThreadContextGroup, &group.ID, nil)
}

// CreateEventThread creates a thread attached to an event
func (f *Factory) CreateEventThread(t *testing.T, event *model.Event, author *model.User, title string) *model.Thread {
	return f.createThread(t, author, title, model.ThreadContextEvent, nil, &event.ID)
}

func (f *Factory) createThread(t *testing.T, author *model.User, title string, context model.ThreadContext, groupID, eventID *string) *model.Thread {
	t.Helper()

	if title == "" {
		title = fmt.Sprintf("Thread %s", randomID())
	}

	query := `
		CREATE thread CONTENT {
			title: $title,
			context: $context,
			group_id: IF $group_id IS NOT NULL THEN type::record($group_id) ELSE NONE END,
			event_id: IF $event_id IS NOT NULL THEN type::record($event_id) ELSE NONE END,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	var gid, eid interface{}
	if groupID != nil {
		gid = *groupID
	}
	if eventID != nil {
		eid = *eventID
	}

	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"title":      title,
		"context":    string(context),
		"group_id":   gid,
		"event_id":   eid,
		"created_by": author.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create thread: %v", err)
	}

	return parseThreadResult(t, results)
}

// CreateMessage posts a message in a thread. parent may be nil for a
// top-level message.
func (f *Factory) CreateMessage(t *testing.T, thread *model.Thread, author *model.User, content string, parent *model.Message) *model.Message {
	t.Helper()

	if content == "" {
		content = fmt.Sprintf("Message %s", randomID())
	}

	query := `
		CREATE message CONTENT {
			thread_id: type::record($thread_id),
			parent_id: IF $parent_id IS NOT NULL THEN type::record($parent_id) ELSE NONE END,
			author_id: type::record($author_id),
			content: $content,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	var parentID interface{}
	if parent != nil {
		parentID = parent.ID
	}

	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"thread_id": thread.ID,
		"parent_id": parentID,
		"author_id": author.ID,
		"content":   content,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create message: %v", err)
	}

	return parseMessageResult(t, results)
}

// ============================================================================
// Media Fixtures
// ============================================================================

// CreateAlbum creates an album in an event
func (f *Factory) CreateAlbum(t *testing.T, event *model.Event, creator *model.User) *model.Album {
	t.Helper()

	query := `
		CREATE album CONTENT {
			event_id: type::record($event_id),
			name: $name,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"event_id":   event.ID,
		"name":       fmt.Sprintf("Album %s", randomID()),
		"created_by": creator.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create album: %v", err)
	}

	return parseAlbumResult(t, results)
}

// AddPhoto uploads a photo into an album
func (f *Factory) AddPhoto(t *testing.T, album *model.Album, uploader *model.User) *model.Photo {
	t.Helper()

	query := `
		CREATE photo CONTENT {
			album_id: type::record($album_id),
			url: $url,
			uploaded_by: type::record($uploaded_by),
			created_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"album_id":    album.ID,
		"url":         fmt.Sprintf("https://photos.test.local/%s.jpg", randomID()),
		"uploaded_by": uploader.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to add photo: %v", err)
	}

	return parsePhotoResult(t, results)
}

// ============================================================================
// Poll Fixtures
// ============================================================================

// CreatePoll creates a poll with one question and the given option labels
func (f *Factory) CreatePoll(t *testing.T, event *model.Event, creator *model.User, optionLabels ...string) *model.Poll {
	t.Helper()

	if len(optionLabels) == 0 {
		optionLabels = []string{"Yes", "No"}
	}

	pollQuery := `
		CREATE poll CONTENT {
			event_id: type::record($event_id),
			title: $title,
			is_active: true,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), pollQuery, map[string]interface{}{
		"event_id":   event.ID,
		"title":      fmt.Sprintf("Poll %s", randomID()),
		"created_by": creator.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create poll: %v", err)
	}
	poll := parsePollResult(t, results)

	questionQuery := `
		CREATE poll_question CONTENT {
			poll_id: type::record($poll_id),
			text: $text,
			position: 0,
			created_on: time::now()
		}
	`
	questionResults, err := f.db.Query(ctx(), questionQuery, map[string]interface{}{
		"poll_id": poll.ID,
		"text":    "Which option do you prefer?",
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create poll question: %v", err)
	}
	questionID := parseIDFromResult(t, questionResults)

	optionQuery := `
		CREATE poll_option CONTENT {
			question_id: type::record($question_id),
			label: $label,
			position: $position,
			created_on: time::now()
		}
	`
	for i, label := range optionLabels {
		if err := f.db.Execute(ctx(), optionQuery, map[string]interface{}{
			"question_id": questionID,
			"label":       label,
			"position":    i,
		}); err != nil {
			t.Fatalf("fixtures: failed to create poll option: %v", err)
		}
	}

	return poll
}

// ============================================================================
// Ticketing Fixtures
// ============================================================================

// TicketTypeOpts customizes ticket type creation
type TicketTypeOpts struct {
	Name     string
	Price    float64
	Quantity int
}

// CreateTicketType creates a ticket type for an event
func (f *Factory) CreateTicketType(t *testing.T, event *model.Event, opts ...func(*TicketTypeOpts)) *model.TicketType {
	t.Helper()

	o := &TicketTypeOpts{
		Name:     fmt.Sprintf("Ticket %s", randomID()),
		Price:    25.0,
		Quantity: 100,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE ticket_type CONTENT {
			event_id: type::record($event_id),
			name: $name,
			price: $price,
			quantity: $quantity,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"event_id": event.ID,
		"name":     o.Name,
		"price":    o.Price,
		"quantity": o.Quantity,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create ticket type: %v", err)
	}

	return parseTicketTypeResult(t, results)
}

// PurchaseTicket records a completed ticket purchase
func (f *Factory) PurchaseTicket(t *testing.T, ticketType *model.TicketType, email string) {
	t.Helper()

	if email == "" {
		email = fmt.Sprintf("buyer_%s@test.local", randomID())
	}

	query := `
		CREATE ticket CONTENT {
			ticket_type_id: type::record($ticket_type_id),
			purchaser_first_name: $first_name,
			purchaser_last_name: $last_name,
			purchaser_email: $email,
			purchased_on: time::now()
		}
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"ticket_type_id": ticketType.ID,
		"first_name":     "Test",
		"last_name":      "Buyer",
		"email":          email,
	}); err != nil {
		t.Fatalf("fixtures: failed to purchase ticket: %v", err)
	}
}

// ============================================================================
// Add-on Fixtures
// ============================================================================

// CreateShoppingItem adds a shopping list item to an event
func (f *Factory) CreateShoppingItem(t *testing.T, event *model.Event, creator *model.User, name string) *model.ShoppingItem {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Item %s", randomID())
	}

	query := `
		CREATE shopping_item CONTENT {
			event_id: type::record($event_id),
			name: $name,
			quantity: 1,
			is_purchased: false,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"event_id":   event.ID,
		"name":       name,
		"created_by": creator.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create shopping item: %v", err)
	}

	return parseShoppingItemResult(t, results)
}

// CreateCarpoolOffer adds a carpool offer to an event
func (f *Factory) CreateCarpoolOffer(t *testing.T, event *model.Event, driver *model.User) *model.CarpoolOffer {
	t.Helper()

	query := `
		CREATE carpool_offer CONTENT {
			event_id: type::record($event_id),
			driver_id: type::record($driver_id),
			departure_location: $departure_location,
			departure_time: <datetime> $departure_time,
			price: 0.0,
			available_seats: 3,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"event_id":           event.ID,
		"driver_id":          driver.ID,
		"departure_location": "Central Station",
		"departure_time":     time.Now().Add(23 * time.Hour).UTC(),
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create carpool offer: %v", err)
	}

	return parseCarpoolOfferResult(t, results)
}

// ============================================================================
// Result Parsing Helpers
// ============================================================================

func parseUserResult(t *testing.T, results []interface{}) *model.User {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.User{
		ID:        getString(data, "id"),
		Email:     getString(data, "email"),
		FullName:  getString(data, "full_name"),
		IsActive:  getBool(data, "is_active"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseGroupResult(t *testing.T, results []interface{}) *model.Group {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Group{
		ID:                getString(data, "id"),
		Name:              getString(data, "name"),
		Description:       getString(data, "description"),
		Type:              model.GroupType(getString(data, "type")),
		AllowMemberPosts:  getBool(data, "allow_member_posts"),
		AllowMemberEvents: getBool(data, "allow_member_events"),
		CreatedBy:         getString(data, "created_by"),
		CreatedOn:         getTime(data, "created_on"),
		UpdatedOn:         getTime(data, "updated_on"),
	}
}

func parseEventResult(t *testing.T, results []interface{}) *model.Event {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Event{
		ID:                  getString(data, "id"),
		Name:                getString(data, "name"),
		StartDate:           getTime(data, "start_date"),
		IsPrivate:           getBool(data, "is_private"),
		GroupID:             getStringPtr(data, "group_id"),
		PollsEnabled:        getBool(data, "polls_enabled"),
		TicketingEnabled:    getBool(data, "ticketing_enabled"),
		ShoppingListEnabled: getBool(data, "shopping_list_enabled"),
		CarpoolEnabled:      getBool(data, "carpool_enabled"),
		CreatedBy:           getString(data, "created_by"),
		CreatedOn:           getTime(data, "created_on"),
		UpdatedOn:           getTime(data, "updated_on"),
	}
}

func parseThreadResult(t *testing.T, results []interface{}) *model.Thread {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Thread{
		ID:        getString(data, "id"),
		Title:     getString(data, "title"),
		Context:   model.ThreadContext(getString(data, "context")),
		GroupID:   getStringPtr(data, "group_id"),
		EventID:   getStringPtr(data, "event_id"),
		CreatedBy: getString(data, "created_by"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseMessageResult(t *testing.T, results []interface{}) *model.Message {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Message{
		ID:        getString(data, "id"),
		ThreadID:  getString(data, "thread_id"),
		ParentID:  getStringPtr(data, "parent_id"),
		AuthorID:  getString(data, "author_id"),
		Content:   getString(data, "content"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseAlbumResult(t *testing.T, results []interface{}) *model.Album {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Album{
		ID:        getString(data, "id"),
		EventID:   getString(data, "event_id"),
		Name:      getString(data, "name"),
		CreatedBy: getString(data, "created_by"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parsePhotoResult(t *testing.T, results []interface{}) *model.Photo {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Photo{
		ID:         getString(data, "id"),
		AlbumID:    getString(data, "album_id"),
		URL:        getString(data, "url"),
		UploadedBy: getString(data, "uploaded_by"),
		CreatedOn:  getTime(data, "created_on"),
	}
}

func parsePollResult(t *testing.T, results []interface{}) *model.Poll {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Poll{
		ID:        getString(data, "id"),
		EventID:   getString(data, "event_id"),
		Title:     getString(data, "title"),
		IsActive:  getBool(data, "is_active"),
		CreatedBy: getString(data, "created_by"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseTicketTypeResult(t *testing.T, results []interface{}) *model.TicketType {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.TicketType{
		ID:        getString(data, "id"),
		EventID:   getString(data, "event_id"),
		Name:      getString(data, "name"),
		Price:     getFloat(data, "price"),
		Quantity:  getInt(data, "quantity"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}
}

func parseShoppingItemResult(t *testing.T, results []interface{}) *model.ShoppingItem {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.ShoppingItem{
		ID:          getString(data, "id"),
		EventID:     getString(data, "event_id"),
		Name:        getString(data, "name"),
		Quantity:    getInt(data, "quantity"),
		IsPurchased: getBool(data, "is_purchased"),
		CreatedBy:   getString(data, "created_by"),
		CreatedOn:   getTime(data, "created_on"),
		UpdatedOn:   getTime(data, "updated_on"),
	}
}

func parseCarpoolOfferResult(t *testing.T, results []interface{}) *model.CarpoolOffer {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.CarpoolOffer{
		ID:                getString(data, "id"),
		EventID:           getString(data, "event_id"),
		DriverID:          getString(data, "driver_id"),
		DepartureLocation: getString(data, "departure_location"),
		DepartureTime:     getTime(data, "departure_time"),
		Price:             getFloat(data, "price"),
		AvailableSeats:    getInt(data, "available_seats"),
		CreatedOn:         getTime(data, "created_on"),
		UpdatedOn:         getTime(data, "updated_on"),
	}
}

func parseIDFromResult(t *testing.T, results []interface{}) string {
	t.Helper()
	data := extractFirstResult(t, results)
	return getString(data, "id")
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB record ID type - could be a struct or map
	if v := data[key]; v != nil {
		// Try to get the ID as a map with "tb" (table) and "id" fields
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getStringPtr(data map[string]interface{}, key string) *string {
	if s := getString(data, key); s != "" && s != "<nil>" {
		return &s
	}
	return nil
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getInt(data map[string]interface{}, key string) int {
	if v, ok := data[key].(float64); ok {
		return int(v)
	}
	return 0
}

func getFloat(data map[string]interface{}, key string) float64 {
	if v, ok := data[key].(float64); ok {
		return v
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(string); ok {
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	}
	return time.Time{}
}
