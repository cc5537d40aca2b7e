package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forgo/gather/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockDiscussionRepo struct {
	createThreadFunc        func(ctx context.Context, thread *model.Thread) error
	getThreadByIDFunc       func(ctx context.Context, id string) (*model.Thread, error)
	listThreadsForGroupFunc func(ctx context.Context, groupID string) ([]*model.Thread, error)
	listThreadsForEventFunc func(ctx context.Context, eventID string) ([]*model.Thread, error)
	deleteThreadFunc        func(ctx context.Context, id string) error
	createMessageFunc       func(ctx context.Context, msg *model.Message) error
	getMessageByIDFunc      func(ctx context.Context, id string) (*model.Message, error)
	listMessagesFunc        func(ctx context.Context, threadID string) ([]*model.Message, error)
	updateMessageFunc       func(ctx context.Context, id, content string) error
	deleteMessageFunc       func(ctx context.Context, id string) error
}

func (m *mockDiscussionRepo) CreateThread(ctx context.Context, thread *model.Thread) error {
	if m.createThreadFunc != nil {
		return m.createThreadFunc(ctx, thread)
	}
	return nil
}

func (m *mockDiscussionRepo) GetThreadByID(ctx context.Context, id string) (*model.Thread, error) {
	if m.getThreadByIDFunc != nil {
		return m.getThreadByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDiscussionRepo) ListThreadsForGroup(ctx context.Context, groupID string) ([]*model.Thread, error) {
	if m.listThreadsForGroupFunc != nil {
		return m.listThreadsForGroupFunc(ctx, groupID)
	}
	return nil, nil
}

func (m *mockDiscussionRepo) ListThreadsForEvent(ctx context.Context, eventID string) ([]*model.Thread, error) {
	if m.listThreadsForEventFunc != nil {
		return m.listThreadsForEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *mockDiscussionRepo) DeleteThread(ctx context.Context, id string) error {
	if m.deleteThreadFunc != nil {
		return m.deleteThreadFunc(ctx, id)
	}
	return nil
}

func (m *mockDiscussionRepo) CreateMessage(ctx context.Context, msg *model.Message) error {
	if m.createMessageFunc != nil {
		return m.createMessageFunc(ctx, msg)
	}
	return nil
}

func (m *mockDiscussionRepo) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	if m.getMessageByIDFunc != nil {
		return m.getMessageByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDiscussionRepo) ListMessages(ctx context.Context, threadID string) ([]*model.Message, error) {
	if m.listMessagesFunc != nil {
		return m.listMessagesFunc(ctx, threadID)
	}
	return nil, nil
}

func (m *mockDiscussionRepo) UpdateMessage(ctx context.Context, id, content string) error {
	if m.updateMessageFunc != nil {
		return m.updateMessageFunc(ctx, id, content)
	}
	return nil
}

func (m *mockDiscussionRepo) DeleteMessage(ctx context.Context, id string) error {
	if m.deleteMessageFunc != nil {
		return m.deleteMessageFunc(ctx, id)
	}
	return nil
}

func eventThreadRepo(thread model.Thread) *mockDiscussionRepo {
	return &mockDiscussionRepo{
		getThreadByIDFunc: func(ctx context.Context, id string) (*model.Thread, error) {
			if id == thread.ID {
				t := thread
				return &t, nil
			}
			return nil, nil
		},
	}
}

// openEventRepo answers GetByID for eventID and treats everyone as a
// participant
func openEventRepo(eventID string) *mockEventRepo {
	return &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: eventID}),
		isParticipantFunc: func(ctx context.Context, eid, uid string) (bool, error) {
			return true, nil
		},
	}
}

// ============================================================================
// CreateThread
// ============================================================================

func TestCreateThread_GroupThreadRequiresMembership(t *testing.T) {
	t.Parallel()

	groupID := "user_group:g1"
	groupRepo := &mockGroupRepo{
		getByIDFunc: existingGroup(groupID),
	}
	svc := NewDiscussionService(&mockDiscussionRepo{}, groupRepo, &mockEventRepo{})

	_, err := svc.CreateThread(context.Background(), "user:stranger", &model.CreateThreadRequest{
		Title:   "Planning",
		Context: model.ThreadContextGroup,
		GroupID: &groupID,
	})
	if !errors.Is(err, ErrNotGroupMember) {
		t.Errorf("expected ErrNotGroupMember, got %v", err)
	}
}

func TestCreateThread_EventThreadRequiresParticipation(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	eventRepo := &mockEventRepo{
		getByIDFunc: existingEvent(model.Event{ID: eventID}),
	}
	svc := NewDiscussionService(&mockDiscussionRepo{}, &mockGroupRepo{}, eventRepo)

	_, err := svc.CreateThread(context.Background(), "user:outsider", &model.CreateThreadRequest{
		Title:   "Carpools",
		Context: model.ThreadContextEvent,
		EventID: &eventID,
	})
	if !errors.Is(err, ErrNotEventMember) {
		t.Errorf("expected ErrNotEventMember, got %v", err)
	}
}

func TestCreateThread_EventParticipantAllowed(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	discussionRepo := &mockDiscussionRepo{
		createThreadFunc: func(ctx context.Context, thread *model.Thread) error {
			thread.ID = "thread:t1"
			return nil
		},
	}
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, openEventRepo(eventID))

	thread, err := svc.CreateThread(context.Background(), "user:alice", &model.CreateThreadRequest{
		Title:   "Carpools",
		Context: model.ThreadContextEvent,
		EventID: &eventID,
	})
	if err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}
	if thread.CreatedBy != "user:alice" {
		t.Errorf("expected creator user:alice, got %q", thread.CreatedBy)
	}
}

// ============================================================================
// CreateMessage
// ============================================================================

func TestCreateMessage_ParentMustBelongToSameThread(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	discussionRepo := eventThreadRepo(model.Thread{
		ID:      "thread:t1",
		Context: model.ThreadContextEvent,
		EventID: &eventID,
	})
	discussionRepo.getMessageByIDFunc = func(ctx context.Context, id string) (*model.Message, error) {
		return &model.Message{ID: id, ThreadID: "thread:other"}, nil
	}
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, openEventRepo(eventID))

	parentID := "message:foreign"
	_, err := svc.CreateMessage(context.Background(), "user:alice", "thread:t1", &model.CreateMessageRequest{
		Content:  "reply",
		ParentID: &parentID,
	})
	if !errors.Is(err, ErrParentMessageInvalid) {
		t.Errorf("expected ErrParentMessageInvalid, got %v", err)
	}
}

func TestCreateMessage_UnknownParentRejected(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	discussionRepo := eventThreadRepo(model.Thread{
		ID:      "thread:t1",
		Context: model.ThreadContextEvent,
		EventID: &eventID,
	})
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, openEventRepo(eventID))

	parentID := "message:gone"
	_, err := svc.CreateMessage(context.Background(), "user:alice", "thread:t1", &model.CreateMessageRequest{
		Content:  "reply",
		ParentID: &parentID,
	})
	if !errors.Is(err, ErrParentMessageInvalid) {
		t.Errorf("expected ErrParentMessageInvalid, got %v", err)
	}
}

func TestCreateMessage_TopLevelPost(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	discussionRepo := eventThreadRepo(model.Thread{
		ID:      "thread:t1",
		Context: model.ThreadContextEvent,
		EventID: &eventID,
	})
	var created *model.Message
	discussionRepo.createMessageFunc = func(ctx context.Context, msg *model.Message) error {
		msg.ID = "message:m1"
		created = msg
		return nil
	}
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, openEventRepo(eventID))

	_, err := svc.CreateMessage(context.Background(), "user:alice", "thread:t1", &model.CreateMessageRequest{
		Content: "hello",
	})
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if created.AuthorID != "user:alice" || created.ParentID != nil {
		t.Errorf("unexpected message %+v", created)
	}
}

// ============================================================================
// UpdateMessage / DeleteMessage
// ============================================================================

func TestUpdateMessage_AuthorOnly(t *testing.T) {
	t.Parallel()

	discussionRepo := &mockDiscussionRepo{
		getMessageByIDFunc: func(ctx context.Context, id string) (*model.Message, error) {
			return &model.Message{ID: id, ThreadID: "thread:t1", AuthorID: "user:alice"}, nil
		},
	}
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, &mockEventRepo{})

	_, err := svc.UpdateMessage(context.Background(), "user:bob", "message:m1", &model.UpdateMessageRequest{
		Content: "edited",
	})
	if !errors.Is(err, ErrNotMessageAuthor) {
		t.Errorf("expected ErrNotMessageAuthor, got %v", err)
	}
}

func TestDeleteMessage_OrganizerCanModerate(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	deleted := false
	discussionRepo := &mockDiscussionRepo{
		getMessageByIDFunc: func(ctx context.Context, id string) (*model.Message, error) {
			return &model.Message{ID: id, ThreadID: "thread:t1", AuthorID: "user:alice"}, nil
		},
		getThreadByIDFunc: func(ctx context.Context, id string) (*model.Thread, error) {
			return &model.Thread{ID: id, Context: model.ThreadContextEvent, EventID: &eventID}, nil
		},
		deleteMessageFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	eventRepo := &mockEventRepo{
		getByIDFunc:     existingEvent(model.Event{ID: eventID}),
		isOrganizerFunc: organizerSet("user:org"),
	}
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, eventRepo)

	if err := svc.DeleteMessage(context.Background(), "user:org", "message:m1"); err != nil {
		t.Fatalf("DeleteMessage failed: %v", err)
	}
	if !deleted {
		t.Error("expected message to be deleted")
	}
}

func TestDeleteMessage_NonAuthorNonModeratorRejected(t *testing.T) {
	t.Parallel()

	groupID := "user_group:g1"
	discussionRepo := &mockDiscussionRepo{
		getMessageByIDFunc: func(ctx context.Context, id string) (*model.Message, error) {
			return &model.Message{ID: id, ThreadID: "thread:t1", AuthorID: "user:alice"}, nil
		},
		getThreadByIDFunc: func(ctx context.Context, id string) (*model.Thread, error) {
			return &model.Thread{ID: id, Context: model.ThreadContextGroup, GroupID: &groupID}, nil
		},
	}
	groupRepo := &mockGroupRepo{
		getByIDFunc: existingGroup(groupID),
		getMembershipFunc: func(ctx context.Context, gid, uid string) (*model.Membership, error) {
			return &model.Membership{GroupID: gid, UserID: uid, IsAdmin: false}, nil
		},
	}
	svc := NewDiscussionService(discussionRepo, groupRepo, &mockEventRepo{})

	err := svc.DeleteMessage(context.Background(), "user:bob", "message:m1")
	if !errors.Is(err, ErrNotMessageAuthor) {
		t.Errorf("expected ErrNotMessageAuthor, got %v", err)
	}
}

// ============================================================================
// DeleteThread
// ============================================================================

func TestDeleteThread_CreatorAllowed(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	discussionRepo := eventThreadRepo(model.Thread{
		ID:        "thread:t1",
		Context:   model.ThreadContextEvent,
		EventID:   &eventID,
		CreatedBy: "user:alice",
	})
	deleted := false
	discussionRepo.deleteThreadFunc = func(ctx context.Context, id string) error {
		deleted = true
		return nil
	}
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, openEventRepo(eventID))

	if err := svc.DeleteThread(context.Background(), "user:alice", "thread:t1"); err != nil {
		t.Fatalf("DeleteThread failed: %v", err)
	}
	if !deleted {
		t.Error("expected thread to be deleted")
	}
}

func TestDeleteThread_ParticipantCannotDeleteOthers(t *testing.T) {
	t.Parallel()

	eventID := "event:e1"
	discussionRepo := eventThreadRepo(model.Thread{
		ID:        "thread:t1",
		Context:   model.ThreadContextEvent,
		EventID:   &eventID,
		CreatedBy: "user:alice",
	})
	svc := NewDiscussionService(discussionRepo, &mockGroupRepo{}, openEventRepo(eventID))

	err := svc.DeleteThread(context.Background(), "user:bob", "thread:t1")
	if !errors.Is(err, ErrNotMessageAuthor) {
		t.Errorf("expected ErrNotMessageAuthor, got %v", err)
	}
}
