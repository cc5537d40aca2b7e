package service

import (
	"context"
	"errors"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *model.Event, organizerIDs []string) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListVisible(ctx context.Context, userID string) ([]*model.Event, error)
	ListForGroup(ctx context.Context, groupID string) ([]*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	AddOrganizer(ctx context.Context, o *model.Organizer) error
	RemoveOrganizer(ctx context.Context, eventID, userID string) error
	ListOrganizers(ctx context.Context, eventID string) ([]*model.Organizer, error)
	IsOrganizer(ctx context.Context, eventID, userID string) (bool, error)
	CountOrganizers(ctx context.Context, eventID string) (int, error)
	AddParticipant(ctx context.Context, p *model.Participant) error
	RemoveParticipant(ctx context.Context, eventID, userID string) error
	ListParticipants(ctx context.Context, eventID string) ([]*model.Participant, error)
	IsParticipant(ctx context.Context, eventID, userID string) (bool, error)
}

// EventService handles event, organizer and participant operations
type EventService struct {
	eventRepo EventRepository
	groupRepo GroupRepository
	userRepo  UserRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, groupRepo GroupRepository, userRepo UserRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CreateEvent creates an event. Group-scoped events require the caller
// to be a group admin, or a member with event creation rights when the
// group allows member events. The creator is always an organizer; the
// event and all organizer rows are written in one transaction.
func (s *EventService) CreateEvent(ctx context.Context, userID string, req *model.CreateEventRequest) (*model.Event, error) {
	if req.GroupID != nil {
		group, err := s.groupRepo.GetByID(ctx, *req.GroupID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, ErrGroupNotFound
		}

		membership, err := s.groupRepo.GetMembership(ctx, *req.GroupID, userID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, ErrNotGroupMember
		}
		if !membership.IsAdmin && !(group.AllowMemberEvents && membership.CanCreateEvents) {
			return nil, ErrCannotCreateEvent
		}
	}

	organizerIDs, err := s.resolveOrganizers(ctx, userID, req.OrganizerIDs)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Name:                req.Name,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		Location:            req.Location,
		CoverPhoto:          req.CoverPhoto,
		IsPrivate:           req.IsPrivate,
		GroupID:             req.GroupID,
		PollsEnabled:        true,
		TicketingEnabled:    req.TicketingEnabled,
		ShoppingListEnabled: req.ShoppingListEnabled,
		CarpoolEnabled:      req.CarpoolEnabled,
		CreatedBy:           userID,
	}
	if req.PollsEnabled != nil {
		event.PollsEnabled = *req.PollsEnabled
	}

	if err := s.eventRepo.Create(ctx, event, organizerIDs); err != nil {
		return nil, err
	}
	return event, nil
}

// resolveOrganizers validates the requested organizers in one batch
// lookup and returns a deduplicated list with the creator first.
func (s *EventService) resolveOrganizers(ctx context.Context, creatorID string, requested []string) ([]string, error) {
	organizerIDs := []string{creatorID}
	seen := map[string]bool{creatorID: true}

	var lookup []string
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true
		organizerIDs = append(organizerIDs, id)
		lookup = append(lookup, id)
	}
	if len(lookup) == 0 {
		return organizerIDs, nil
	}

	users, err := s.userRepo.ListByIDs(ctx, lookup)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(users))
	for _, user := range users {
		found[user.ID] = true
	}
	for _, id := range lookup {
		if !found[id] {
			return nil, ErrUserNotFound
		}
	}
	return organizerIDs, nil
}

// ListEvents returns the events visible to the user
func (s *EventService) ListEvents(ctx context.Context, userID string) ([]*model.Event, error) {
	return s.eventRepo.ListVisible(ctx, userID)
}

// ListGroupEvents returns a group's events. Member only.
func (s *EventService) ListGroupEvents(ctx context.Context, userID, groupID string) ([]*model.Event, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotGroupMember
	}

	return s.eventRepo.ListForGroup(ctx, groupID)
}

// GetEvent returns an event with its organizer and participant lists.
// Private events are visible only to organizers, participants and,
// for group-scoped events, group members.
func (s *EventService) GetEvent(ctx context.Context, userID, eventID string) (*model.EventDetail, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if event.IsPrivate {
		visible, err := s.canSeePrivateEvent(ctx, userID, event)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, ErrEventPrivate
		}
	}

	organizers, err := s.eventRepo.ListOrganizers(ctx, eventID)
	if err != nil {
		return nil, err
	}
	participants, err := s.eventRepo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	detail := &model.EventDetail{Event: *event}
	for _, o := range organizers {
		detail.Organizers = append(detail.Organizers, *o)
	}
	for _, p := range participants {
		detail.Participants = append(detail.Participants, *p)
	}
	return detail, nil
}

func (s *EventService) canSeePrivateEvent(ctx context.Context, userID string, event *model.Event) (bool, error) {
	member, err := s.isEventMember(ctx, event.ID, userID)
	if err != nil {
		return false, err
	}
	if member {
		return true, nil
	}
	if event.GroupID != nil {
		membership, err := s.groupRepo.GetMembership(ctx, *event.GroupID, userID)
		if err != nil {
			return false, err
		}
		return membership != nil, nil
	}
	return false, nil
}

// UpdateEvent applies partial updates to an event, including feature
// flag toggles. Organizer only.
func (s *EventService) UpdateEvent(ctx context.Context, userID, eventID string, req *model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.requireOrganizer(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.CoverPhoto != nil {
		event.CoverPhoto = req.CoverPhoto
	}
	if req.IsPrivate != nil {
		event.IsPrivate = *req.IsPrivate
	}
	if req.PollsEnabled != nil {
		event.PollsEnabled = *req.PollsEnabled
	}
	if req.TicketingEnabled != nil {
		event.TicketingEnabled = *req.TicketingEnabled
	}
	if req.ShoppingListEnabled != nil {
		event.ShoppingListEnabled = *req.ShoppingListEnabled
	}
	if req.CarpoolEnabled != nil {
		event.CarpoolEnabled = *req.CarpoolEnabled
	}
	if event.EndDate != nil && !event.EndDate.After(event.StartDate) {
		return nil, ErrInvalidDateRange
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent deletes an event and cascades every attached resource.
// Organizer only.
func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if _, err := s.requireOrganizer(ctx, userID, eventID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}

// AddOrganizer promotes a user to organizer. Organizer only.
func (s *EventService) AddOrganizer(ctx context.Context, userID, eventID string, req *model.AddOrganizerRequest) (*model.Organizer, error) {
	if _, err := s.requireOrganizer(ctx, userID, eventID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	organizer := &model.Organizer{EventID: eventID, UserID: req.UserID}
	if err := s.eventRepo.AddOrganizer(ctx, organizer); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyOrganizer
		}
		return nil, err
	}
	return organizer, nil
}

// RemoveOrganizer demotes an organizer. Every event keeps at least one.
func (s *EventService) RemoveOrganizer(ctx context.Context, userID, eventID, targetUserID string) error {
	if _, err := s.requireOrganizer(ctx, userID, eventID); err != nil {
		return err
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, targetUserID)
	if err != nil {
		return err
	}
	if !isOrganizer {
		return ErrOrganizerNotFound
	}

	count, err := s.eventRepo.CountOrganizers(ctx, eventID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastOrganizer
	}

	return s.eventRepo.RemoveOrganizer(ctx, eventID, targetUserID)
}

// AddParticipant registers attendance. Joining yourself is allowed for
// any event you can see; adding someone else requires organizer rights.
func (s *EventService) AddParticipant(ctx context.Context, userID, eventID string, req *model.AddParticipantRequest) (*model.Participant, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	targetID := req.UserID
	if targetID == "" {
		targetID = userID
	}

	if targetID != userID {
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
		if err != nil {
			return nil, err
		}
		if !isOrganizer {
			return nil, ErrNotOrganizer
		}
		target, err := s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, ErrUserNotFound
		}
	} else if event.IsPrivate {
		visible, err := s.canSeePrivateEvent(ctx, userID, event)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, ErrEventPrivate
		}
	}

	participant := &model.Participant{EventID: eventID, UserID: targetID}
	if err := s.eventRepo.AddParticipant(ctx, participant); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyParticipant
		}
		return nil, err
	}
	return participant, nil
}

// ListParticipants returns an event's participant list
func (s *EventService) ListParticipants(ctx context.Context, userID, eventID string) ([]*model.Participant, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if event.IsPrivate {
		visible, err := s.canSeePrivateEvent(ctx, userID, event)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, ErrEventPrivate
		}
	}

	return s.eventRepo.ListParticipants(ctx, eventID)
}

// RemoveParticipant removes attendance. Participants can leave on
// their own; organizers can remove anyone.
func (s *EventService) RemoveParticipant(ctx context.Context, userID, eventID, targetUserID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	if userID != targetUserID {
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if !isOrganizer {
			return ErrNotOrganizer
		}
	}

	isParticipant, err := s.eventRepo.IsParticipant(ctx, eventID, targetUserID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return ErrParticipantNotFound
	}

	return s.eventRepo.RemoveParticipant(ctx, eventID, targetUserID)
}

// requireOrganizer loads the event and verifies the caller organizes it
func (s *EventService) requireOrganizer(ctx context.Context, userID, eventID string) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !isOrganizer {
		return nil, ErrNotOrganizer
	}
	return event, nil
}

// isEventMember reports whether the user is a participant or organizer
func (s *EventService) isEventMember(ctx context.Context, eventID, userID string) (bool, error) {
	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	if isOrganizer {
		return true, nil
	}
	return s.eventRepo.IsParticipant(ctx, eventID, userID)
}
