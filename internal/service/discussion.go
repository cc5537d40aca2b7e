package service

import (
	"context"

	"github.com/forgo/gather/api/internal/model"
)

// DiscussionRepository defines the interface for thread and message storage
type DiscussionRepository interface {
	CreateThread(ctx context.Context, thread *model.Thread) error
	GetThreadByID(ctx context.Context, id string) (*model.Thread, error)
	ListThreadsForGroup(ctx context.Context, groupID string) ([]*model.Thread, error)
	ListThreadsForEvent(ctx context.Context, eventID string) ([]*model.Thread, error)
	DeleteThread(ctx context.Context, id string) error
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	ListMessages(ctx context.Context, threadID string) ([]*model.Message, error)
	UpdateMessage(ctx context.Context, id, content string) error
	DeleteMessage(ctx context.Context, id string) error
}

// DiscussionService handles threads and their message trees
type DiscussionService struct {
	discussionRepo DiscussionRepository
	groupRepo      GroupRepository
	eventRepo      EventRepository
}

// NewDiscussionService creates a new discussion service
func NewDiscussionService(discussionRepo DiscussionRepository, groupRepo GroupRepository, eventRepo EventRepository) *DiscussionService {
	return &DiscussionService{
		discussionRepo: discussionRepo,
		groupRepo:      groupRepo,
		eventRepo:      eventRepo,
	}
}

// CreateThread opens a thread in a group or an event. Group threads
// require membership; event threads require the caller to participate
// in or organize the event.
func (s *DiscussionService) CreateThread(ctx context.Context, userID string, req *model.CreateThreadRequest) (*model.Thread, error) {
	switch req.Context {
	case model.ThreadContextGroup:
		if err := s.requireGroupMember(ctx, userID, *req.GroupID); err != nil {
			return nil, err
		}
	case model.ThreadContextEvent:
		if err := s.requireEventMember(ctx, userID, *req.EventID); err != nil {
			return nil, err
		}
	}

	thread := &model.Thread{
		Title:     req.Title,
		Context:   req.Context,
		GroupID:   req.GroupID,
		EventID:   req.EventID,
		CreatedBy: userID,
	}
	if err := s.discussionRepo.CreateThread(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreadsForGroup returns a group's threads. Member only.
func (s *DiscussionService) ListThreadsForGroup(ctx context.Context, userID, groupID string) ([]*model.Thread, error) {
	if err := s.requireGroupMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.discussionRepo.ListThreadsForGroup(ctx, groupID)
}

// ListThreadsForEvent returns an event's threads. Participant or
// organizer only.
func (s *DiscussionService) ListThreadsForEvent(ctx context.Context, userID, eventID string) ([]*model.Thread, error) {
	if err := s.requireEventMember(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return s.discussionRepo.ListThreadsForEvent(ctx, eventID)
}

// GetThread returns a thread with its messages in creation order
func (s *DiscussionService) GetThread(ctx context.Context, userID, threadID string) (*model.ThreadDetail, error) {
	thread, err := s.accessThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	messages, err := s.discussionRepo.ListMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}

	detail := &model.ThreadDetail{Thread: *thread}
	for _, m := range messages {
		detail.Messages = append(detail.Messages, *m)
	}
	return detail, nil
}

// DeleteThread deletes a thread and its messages. Allowed for the
// thread creator, a group admin, or an event organizer depending on
// the thread context.
func (s *DiscussionService) DeleteThread(ctx context.Context, userID, threadID string) error {
	thread, err := s.accessThread(ctx, userID, threadID)
	if err != nil {
		return err
	}

	if thread.CreatedBy != userID {
		allowed, err := s.canModerateThread(ctx, userID, thread)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrNotMessageAuthor
		}
	}

	return s.discussionRepo.DeleteThread(ctx, threadID)
}

// CreateMessage posts a message to a thread. A parent_id must point to
// a message of the same thread; replies form a tree.
func (s *DiscussionService) CreateMessage(ctx context.Context, userID, threadID string, req *model.CreateMessageRequest) (*model.Message, error) {
	if _, err := s.accessThread(ctx, userID, threadID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.discussionRepo.GetMessageByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.ThreadID != threadID {
			return nil, ErrParentMessageInvalid
		}
	}

	msg := &model.Message{
		ThreadID: threadID,
		ParentID: req.ParentID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := s.discussionRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a thread's messages in creation order
func (s *DiscussionService) ListMessages(ctx context.Context, userID, threadID string) ([]*model.Message, error) {
	if _, err := s.accessThread(ctx, userID, threadID); err != nil {
		return nil, err
	}
	return s.discussionRepo.ListMessages(ctx, threadID)
}

// UpdateMessage edits a message. Author only.
func (s *DiscussionService) UpdateMessage(ctx context.Context, userID, messageID string, req *model.UpdateMessageRequest) (*model.Message, error) {
	msg, err := s.discussionRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if msg.AuthorID != userID {
		return nil, ErrNotMessageAuthor
	}

	if err := s.discussionRepo.UpdateMessage(ctx, messageID, req.Content); err != nil {
		return nil, err
	}
	msg.Content = req.Content
	return msg, nil
}

// DeleteMessage removes a message. Replies are detached, not deleted.
// Author only, or a thread moderator.
func (s *DiscussionService) DeleteMessage(ctx context.Context, userID, messageID string) error {
	msg, err := s.discussionRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}

	if msg.AuthorID != userID {
		thread, err := s.discussionRepo.GetThreadByID(ctx, msg.ThreadID)
		if err != nil {
			return err
		}
		if thread == nil {
			return ErrThreadNotFound
		}
		allowed, err := s.canModerateThread(ctx, userID, thread)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrNotMessageAuthor
		}
	}

	return s.discussionRepo.DeleteMessage(ctx, messageID)
}

// accessThread loads a thread and verifies the caller can read it
func (s *DiscussionService) accessThread(ctx context.Context, userID, threadID string) (*model.Thread, error) {
	thread, err := s.discussionRepo.GetThreadByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	switch thread.Context {
	case model.ThreadContextGroup:
		if err := s.requireGroupMember(ctx, userID, *thread.GroupID); err != nil {
			return nil, err
		}
	case model.ThreadContextEvent:
		if err := s.requireEventMember(ctx, userID, *thread.EventID); err != nil {
			return nil, err
		}
	}
	return thread, nil
}

// canModerateThread reports whether the user administers the thread's
// group or organizes its event.
func (s *DiscussionService) canModerateThread(ctx context.Context, userID string, thread *model.Thread) (bool, error) {
	switch thread.Context {
	case model.ThreadContextGroup:
		membership, err := s.groupRepo.GetMembership(ctx, *thread.GroupID, userID)
		if err != nil {
			return false, err
		}
		return membership != nil && membership.IsAdmin, nil
	case model.ThreadContextEvent:
		return s.eventRepo.IsOrganizer(ctx, *thread.EventID, userID)
	}
	return false, nil
}

func (s *DiscussionService) requireGroupMember(ctx context.Context, userID, groupID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}

	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotGroupMember
	}
	return nil
}

func (s *DiscussionService) requireEventMember(ctx context.Context, userID, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if isOrganizer {
		return nil
	}

	isParticipant, err := s.eventRepo.IsParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return ErrNotEventMember
	}
	return nil
}
