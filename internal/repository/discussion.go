package repository

import (
	"context"
	"errors"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// DiscussionRepository handles thread and message data access
type DiscussionRepository struct {
	db database.Database
}

// NewDiscussionRepository creates a new discussion repository
func NewDiscussionRepository(db database.Database) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// CreateThread creates a new discussion thread
func (r *DiscussionRepository) CreateThread(ctx context.Context, thread *model.Thread) error {
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

	var groupID, eventID interface{}
	if thread.GroupID != nil {
		groupID = *thread.GroupID
	}
	if thread.EventID != nil {
		eventID = *thread.EventID
	}

	vars := map[string]interface{}{
		"title":      thread.Title,
		"context":    thread.Context,
		"group_id":   groupID,
		"event_id":   eventID,
		"created_by": thread.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	thread.ID = created.ID
	thread.CreatedOn = created.CreatedOn
	thread.UpdatedOn = created.UpdatedOn
	return nil
}

// GetThreadByID retrieves a thread by ID
func (r *DiscussionRepository) GetThreadByID(ctx context.Context, id string) (*model.Thread, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	thread, err := parseThreadRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return thread, nil
}

// ListThreadsForGroup retrieves all threads attached to a group
func (r *DiscussionRepository) ListThreadsForGroup(ctx context.Context, groupID string) ([]*model.Thread, error) {
	query := `SELECT * FROM thread WHERE group_id = type::record($group_id) ORDER BY created_on DESC`
	return r.listThreads(ctx, query, map[string]interface{}{"group_id": groupID})
}

// ListThreadsForEvent retrieves all threads attached to an event
func (r *DiscussionRepository) ListThreadsForEvent(ctx context.Context, eventID string) ([]*model.Thread, error) {
	query := `SELECT * FROM thread WHERE event_id = type::record($event_id) ORDER BY created_on DESC`
	return r.listThreads(ctx, query, map[string]interface{}{"event_id": eventID})
}

func (r *DiscussionRepository) listThreads(ctx context.Context, query string, vars map[string]interface{}) ([]*model.Thread, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	threads := make([]*model.Thread, 0)
	for _, row := range allRows(result) {
		thread := &model.Thread{}
		if err := decodeRecord(row, []string{"group_id", "event_id", "created_by"}, thread); err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

// DeleteThread deletes a thread and its messages atomically
func (r *DiscussionRepository) DeleteThread(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`DELETE message WHERE thread_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// CreateMessage posts a message in a thread
func (r *DiscussionRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
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
	if msg.ParentID != nil {
		parentID = *msg.ParentID
	}

	vars := map[string]interface{}{
		"thread_id": msg.ThreadID,
		"parent_id": parentID,
		"author_id": msg.AuthorID,
		"content":   msg.Content,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	msg.ID = created.ID
	msg.CreatedOn = created.CreatedOn
	msg.UpdatedOn = created.UpdatedOn
	return nil
}

// GetMessageByID retrieves a message by ID
func (r *DiscussionRepository) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	msg, err := parseMessageRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// ListMessages retrieves a thread's messages in creation order
func (r *DiscussionRepository) ListMessages(ctx context.Context, threadID string) ([]*model.Message, error) {
	query := `SELECT * FROM message WHERE thread_id = type::record($thread_id) ORDER BY created_on ASC`
	vars := map[string]interface{}{"thread_id": threadID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	messages := make([]*model.Message, 0)
	for _, row := range allRows(result) {
		msg := &model.Message{}
		if err := decodeRecord(row, []string{"thread_id", "parent_id", "author_id"}, msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// UpdateMessage edits a message's content
func (r *DiscussionRepository) UpdateMessage(ctx context.Context, id, content string) error {
	query := `UPDATE type::record($id) SET content = $content, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":      id,
		"content": content,
	}
	return r.db.Execute(ctx, query, vars)
}

// DeleteMessage deletes a message and detaches any replies to it
func (r *DiscussionRepository) DeleteMessage(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`UPDATE message SET parent_id = NONE WHERE parent_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// Helper functions

func parseThreadRow(result interface{}) (*model.Thread, error) {
	data, err := firstRow(result)
	if err != nil {
		return nil, err
	}

	thread := &model.Thread{}
	if err := decodeRecord(data, []string{"group_id", "event_id", "created_by"}, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func parseMessageRow(result interface{}) (*model.Message, error) {
	data, err := firstRow(result)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{}
	if err := decodeRecord(data, []string{"thread_id", "parent_id", "author_id"}, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
