package model

import "time"

// ThreadContext identifies what a discussion thread is attached to.
type ThreadContext string

const (
	ThreadContextGroup ThreadContext = "group"
	ThreadContextEvent ThreadContext = "event"
)

// IsValid checks if the thread context is valid
func (c ThreadContext) IsValid() bool {
	switch c {
	case ThreadContextGroup, ThreadContextEvent:
		return true
	}
	return false
}

// Thread is a discussion thread attached to exactly one group or event.
type Thread struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Context   ThreadContext `json:"context"`
	GroupID   *string       `json:"group_id,omitempty"`
	EventID   *string       `json:"event_id,omitempty"`
	CreatedBy string        `json:"created_by"`
	CreatedOn time.Time     `json:"created_on"`
	UpdatedOn time.Time     `json:"updated_on"`
}

// Message is a single post inside a thread, optionally replying to a parent.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// ThreadDetail is a thread with its messages in creation order.
type ThreadDetail struct {
	Thread   Thread    `json:"thread"`
	Messages []Message `json:"messages"`
}

// Constraints
const (
	MaxThreadTitleLength    = 255
	MaxMessageContentLength = 2000
)

// CreateThreadRequest represents a request to open a thread
type CreateThreadRequest struct {
	Title   string        `json:"title"`
	Context ThreadContext `json:"context"`
	GroupID *string       `json:"group_id,omitempty"`
	EventID *string       `json:"event_id,omitempty"`
}

// Validate checks the create thread request. The context determines which
// of group_id and event_id must be set; the other must be absent.
func (r *CreateThreadRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title == "" {
		errors = append(errors, FieldError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > MaxThreadTitleLength {
		errors = append(errors, FieldError{
			Field:   "title",
			Message: "title must be 255 characters or less",
		})
	}

	if !r.Context.IsValid() {
		errors = append(errors, FieldError{
			Field:   "context",
			Message: "context must be one of: group, event",
		})
		return errors
	}

	switch r.Context {
	case ThreadContextGroup:
		if r.GroupID == nil || *r.GroupID == "" {
			errors = append(errors, FieldError{
				Field:   "group_id",
				Message: "group_id is required for group threads",
			})
		}
		if r.EventID != nil {
			errors = append(errors, FieldError{
				Field:   "event_id",
				Message: "event_id must not be set for group threads",
			})
		}
	case ThreadContextEvent:
		if r.EventID == nil || *r.EventID == "" {
			errors = append(errors, FieldError{
				Field:   "event_id",
				Message: "event_id is required for event threads",
			})
		}
		if r.GroupID != nil {
			errors = append(errors, FieldError{
				Field:   "group_id",
				Message: "group_id must not be set for event threads",
			})
		}
	}

	return errors
}

// CreateMessageRequest represents a request to post a message
type CreateMessageRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

// Validate checks the create message request
func (r *CreateMessageRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Content == "" {
		errors = append(errors, FieldError{
			Field:   "content",
			Message: "content is required",
		})
	} else if len(r.Content) > MaxMessageContentLength {
		errors = append(errors, FieldError{
			Field:   "content",
			Message: "content must be 2000 characters or less",
		})
	}

	return errors
}

// UpdateMessageRequest represents a request to edit a message
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// Validate checks the update message request
func (r *UpdateMessageRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Content == "" {
		errors = append(errors, FieldError{
			Field:   "content",
			Message: "content is required",
		})
	} else if len(r.Content) > MaxMessageContentLength {
		errors = append(errors, FieldError{
			Field:   "content",
			Message: "content must be 2000 characters or less",
		})
	}

	return errors
}
