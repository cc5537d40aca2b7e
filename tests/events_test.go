package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/repository"
	"github.com/forgo/gather/api/internal/service"
	"github.com/forgo/gather/api/internal/testing/fixtures"
	"github.com/forgo/gather/api/internal/testing/testdb"
)

/*
FEATURE: Events & Participation
DOMAIN: Events

ACCEPTANCE CRITERIA:
===================

AC-EVT-001: Standalone Event Creation
  GIVEN an authenticated user
  WHEN they create an event
  THEN the event exists with the creator as organizer
  AND polls default to enabled when the flag is omitted

AC-EVT-002: Group Event Creation Rights
  GIVEN a group-scoped event request
  WHEN a non-member, or a member without event rights, creates it
  THEN the request is denied
  AND an admin or a rights-holding member succeeds

AC-EVT-003: Private Event Visibility
  GIVEN a private event
  WHEN a user who is neither organizer, participant nor group member
       requests it
  THEN access is denied

AC-EVT-004: Organizer Management
  GIVEN an event with organizers
  WHEN organizers are added and removed
  THEN duplicates conflict and the last organizer cannot be removed

AC-EVT-005: Participation
  GIVEN an event
  WHEN users join, are added by an organizer, and leave
  THEN participant rows reflect the changes
  AND duplicate joins conflict

AC-EVT-006: Date Range Validation
  GIVEN an event update
  WHEN the end date does not fall after the start date
  THEN the update is rejected

AC-EVT-007: Group Event Listing
  GIVEN a group with events
  WHEN a member lists the group's events
  THEN all group events are returned
  AND non-members are denied
*/

func newEventService(tdb *testdb.TestDB) *service.EventService {
	return service.NewEventService(
		repository.NewEventRepository(tdb.DB),
		repository.NewGroupRepository(tdb.DB),
		repository.NewUserRepository(tdb.DB),
	)
}

func TestEvents_CreateStandalone(t *testing.T) {
	// AC-EVT-001: Standalone Event Creation
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEventService(tdb)
	ctx := context.Background()

	creator := f.CreateUser(t)
	cohost := f.CreateUser(t)

	start := time.Now().Add(48 * time.Hour)
	event, err := svc.CreateEvent(ctx, creator.ID, &model.CreateEventRequest{
		Name:         "Rooftop BBQ",
		StartDate:    start,
		OrganizerIDs: []string{cohost.ID},
	})
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)
	assert.Equal(t, creator.ID, event.CreatedBy)
	assert.True(t, event.PollsEnabled, "polls default on")
	assert.False(t, event.TicketingEnabled)

	detail, err := svc.GetEvent(ctx, creator.ID, event.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Organizers, 2, "creator and cohost")

	// Unknown co-organizers are rejected up front
	_, err = svc.CreateEvent(ctx, creator.ID, &model.CreateEventRequest{
		Name:         "Ghost Party",
		StartDate:    start,
		OrganizerIDs: []string{"user:nobody"},
	})
	assert.True(t, errors.Is(err, service.ErrUserNotFound), "got %v", err)
}

func TestEvents_GroupEventRights(t *testing.T) {
	// AC-EVT-002: Group Event Creation Rights
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEventService(tdb)
	ctx := context.Background()

	admin := f.CreateUser(t)
	plainMember := f.CreateUser(t)
	rightsMember := f.CreateUser(t)
	outsider := f.CreateUser(t)
	group := f.CreateGroup(t, admin)
	f.AddMember(t, group, plainMember)
	f.AddMemberWithEventRights(t, group, rightsMember)

	start := time.Now().Add(24 * time.Hour)
	req := func() *model.CreateEventRequest {
		return &model.CreateEventRequest{
			Name:      "Group Meetup",
			StartDate: start,
			GroupID:   &group.ID,
		}
	}

	_, err := svc.CreateEvent(ctx, outsider.ID, req())
	assert.True(t, errors.Is(err, service.ErrNotGroupMember), "got %v", err)

	_, err = svc.CreateEvent(ctx, plainMember.ID, req())
	assert.True(t, errors.Is(err, service.ErrCannotCreateEvent), "got %v", err)

	_, err = svc.CreateEvent(ctx, rightsMember.ID, req())
	assert.NoError(t, err, "member with event rights")

	event, err := svc.CreateEvent(ctx, admin.ID, req())
	require.NoError(t, err)
	require.NotNil(t, event.GroupID)
	assert.Equal(t, group.ID, *event.GroupID)
}

func TestEvents_PrivateVisibility(t *testing.T) {
	// AC-EVT-003: Private Event Visibility
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEventService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	participant := f.CreateUser(t)
	groupMember := f.CreateUser(t)
	outsider := f.CreateUser(t)

	group := f.CreateGroup(t, organizer)
	f.AddMember(t, group, groupMember)

	event := f.CreateEvent(t, organizer, fixtures.WithGroup(group), func(o *fixtures.EventOpts) {
		o.IsPrivate = true
	})
	f.AddParticipant(t, event, participant)

	for _, viewer := range []*model.User{organizer, participant, groupMember} {
		_, err := svc.GetEvent(ctx, viewer.ID, event.ID)
		assert.NoError(t, err, "viewer %s should see the event", viewer.ID)
	}

	_, err := svc.GetEvent(ctx, outsider.ID, event.ID)
	assert.True(t, errors.Is(err, service.ErrEventPrivate), "got %v", err)

	_, err = svc.ListParticipants(ctx, outsider.ID, event.ID)
	assert.True(t, errors.Is(err, service.ErrEventPrivate), "got %v", err)

	// A private event without a group cannot be self-joined by outsiders
	solo := f.CreateEvent(t, organizer, func(o *fixtures.EventOpts) {
		o.IsPrivate = true
	})
	_, err = svc.AddParticipant(ctx, outsider.ID, solo.ID, &model.AddParticipantRequest{})
	assert.True(t, errors.Is(err, service.ErrEventPrivate), "got %v", err)
}

func TestEvents_OrganizerManagement(t *testing.T) {
	// AC-EVT-004: Organizer Management
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEventService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	second := f.CreateUser(t)
	bystander := f.CreateUser(t)
	event := f.CreateEvent(t, organizer)

	// Only organizers can promote
	_, err := svc.AddOrganizer(ctx, bystander.ID, event.ID, &model.AddOrganizerRequest{UserID: second.ID})
	assert.True(t, errors.Is(err, service.ErrNotOrganizer), "got %v", err)

	added, err := svc.AddOrganizer(ctx, organizer.ID, event.ID, &model.AddOrganizerRequest{UserID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, added.UserID)

	_, err = svc.AddOrganizer(ctx, organizer.ID, event.ID, &model.AddOrganizerRequest{UserID: second.ID})
	assert.True(t, errors.Is(err, service.ErrAlreadyOrganizer), "got %v", err)

	// Demoting someone who never organized
	err = svc.RemoveOrganizer(ctx, organizer.ID, event.ID, bystander.ID)
	assert.True(t, errors.Is(err, service.ErrOrganizerNotFound), "got %v", err)

	require.NoError(t, svc.RemoveOrganizer(ctx, organizer.ID, event.ID, second.ID))

	// The last organizer cannot step down
	err = svc.RemoveOrganizer(ctx, organizer.ID, event.ID, organizer.ID)
	assert.True(t, errors.Is(err, service.ErrLastOrganizer), "got %v", err)
}

func TestEvents_Participation(t *testing.T) {
	// AC-EVT-005: Participation
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEventService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	guest := f.CreateUser(t)
	invitee := f.CreateUser(t)
	event := f.CreateEvent(t, organizer)

	// Self-join with an empty body
	joined, err := svc.AddParticipant(ctx, guest.ID, event.ID, &model.AddParticipantRequest{})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, joined.UserID)

	_, err = svc.AddParticipant(ctx, guest.ID, event.ID, &model.AddParticipantRequest{})
	assert.True(t, errors.Is(err, service.ErrAlreadyParticipant), "got %v", err)

	// Only organizers may add someone else
	_, err = svc.AddParticipant(ctx, guest.ID, event.ID, &model.AddParticipantRequest{UserID: invitee.ID})
	assert.True(t, errors.Is(err, service.ErrNotOrganizer), "got %v", err)

	_, err = svc.AddParticipant(ctx, organizer.ID, event.ID, &model.AddParticipantRequest{UserID: invitee.ID})
	require.NoError(t, err)

	participants, err := svc.ListParticipants(ctx, organizer.ID, event.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 2)

	// Guests can leave on their own; organizers can remove anyone
	require.NoError(t, svc.RemoveParticipant(ctx, guest.ID, event.ID, guest.ID))

	err = svc.RemoveParticipant(ctx, invitee.ID, event.ID, guest.ID)
	assert.True(t, errors.Is(err, service.ErrNotOrganizer), "got %v", err)

	require.NoError(t, svc.RemoveParticipant(ctx, organizer.ID, event.ID, invitee.ID))

	err = svc.RemoveParticipant(ctx, organizer.ID, event.ID, invitee.ID)
	assert.True(t, errors.Is(err, service.ErrParticipantNotFound), "got %v", err)
}

func TestEvents_DateRangeValidation(t *testing.T) {
	// AC-EVT-006: Date Range Validation
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEventService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	event := f.CreateEvent(t, organizer)

	badEnd := event.StartDate.Add(-1 * time.Hour)
	_, err := svc.UpdateEvent(ctx, organizer.ID, event.ID, &model.UpdateEventRequest{
		EndDate: &badEnd,
	})
	assert.True(t, errors.Is(err, service.ErrInvalidDateRange), "got %v", err)

	goodEnd := event.StartDate.Add(3 * time.Hour)
	updated, err := svc.UpdateEvent(ctx, organizer.ID, event.ID, &model.UpdateEventRequest{
		EndDate: &goodEnd,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.EndDate)
}

func TestEvents_ListGroupEvents(t *testing.T) {
	// AC-EVT-007: Group Event Listing
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEventService(tdb)
	ctx := context.Background()

	admin := f.CreateUser(t)
	outsider := f.CreateUser(t)
	group := f.CreateGroup(t, admin)

	f.CreateEvent(t, admin, fixtures.WithGroup(group))
	f.CreateEvent(t, admin, fixtures.WithGroup(group))
	f.CreateEvent(t, admin) // standalone, must not appear

	events, err := svc.ListGroupEvents(ctx, admin.ID, group.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = svc.ListGroupEvents(ctx, outsider.ID, group.ID)
	assert.True(t, errors.Is(err, service.ErrNotGroupMember), "got %v", err)
}
