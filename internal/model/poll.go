package model

import "time"

// Poll is a multi-question survey attached to an event.
type Poll struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// PollQuestion is a single question within a poll.
type PollQuestion struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	Text      string    `json:"text"`
	Position  int       `json:"position"`
	CreatedOn time.Time `json:"created_on"`
}

// PollOption is one selectable answer for a question.
type PollOption struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Label      string    `json:"label"`
	Position   int       `json:"position"`
	CreatedOn  time.Time `json:"created_on"`
}

// PollVote records a voter's choice for one question. A voter holds at
// most one vote per question; recasting replaces the previous choice.
type PollVote struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	OptionID   string    `json:"option_id"`
	VoterID    string    `json:"voter_id"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// OptionTally is an option with its current vote count.
type OptionTally struct {
	Option    PollOption `json:"option"`
	VoteCount int        `json:"vote_count"`
}

// QuestionResult is a question with tallied options.
type QuestionResult struct {
	Question PollQuestion  `json:"question"`
	Options  []OptionTally `json:"options"`
}

// PollDetail is the full poll view with per-option tallies computed at
// read time.
type PollDetail struct {
	Poll      Poll             `json:"poll"`
	Questions []QuestionResult `json:"questions"`
}

// Constraints
const (
	MaxPollTitleLength        = 255
	MaxPollQuestionLength     = 500
	MaxPollOptionLabelLength  = 255
	MinPollQuestions          = 1
	MinPollOptionsPerQuestion = 2
	MaxQuestionsPerPoll       = 10
	MaxOptionsPerQuestion     = 20
)

// CreatePollQuestionRequest is one question in a poll creation payload.
type CreatePollQuestionRequest struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// CreatePollRequest represents a request to create a poll with its
// questions and options in one shot.
type CreatePollRequest struct {
	Title     string                      `json:"title"`
	Questions []CreatePollQuestionRequest `json:"questions"`
}

// Validate checks the create poll request
func (r *CreatePollRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title == "" {
		errors = append(errors, FieldError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > MaxPollTitleLength {
		errors = append(errors, FieldError{
			Field:   "title",
			Message: "title must be 255 characters or less",
		})
	}

	if len(r.Questions) < MinPollQuestions {
		errors = append(errors, FieldError{
			Field:   "questions",
			Message: "at least 1 question is required",
		})
	}

	for _, q := range r.Questions {
		if q.Text == "" {
			errors = append(errors, FieldError{
				Field:   "questions",
				Message: "question text is required",
			})
		} else if len(q.Text) > MaxPollQuestionLength {
			errors = append(errors, FieldError{
				Field:   "questions",
				Message: "question text must be 500 characters or less",
			})
		}

		if len(q.Options) < MinPollOptionsPerQuestion {
			errors = append(errors, FieldError{
				Field:   "questions",
				Message: "each question needs at least 2 options",
			})
		}

		for _, label := range q.Options {
			if label == "" {
				errors = append(errors, FieldError{
					Field:   "questions",
					Message: "option labels cannot be empty",
				})
			} else if len(label) > MaxPollOptionLabelLength {
				errors = append(errors, FieldError{
					Field:   "questions",
					Message: "option labels must be 255 characters or less",
				})
			}
		}
	}

	return errors
}

// UpdatePollRequest toggles a poll open or closed.
type UpdatePollRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Title    *string `json:"title,omitempty"`
}

// Validate checks the update poll request
func (r *UpdatePollRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title != nil {
		if *r.Title == "" {
			errors = append(errors, FieldError{
				Field:   "title",
				Message: "title cannot be empty",
			})
		} else if len(*r.Title) > MaxPollTitleLength {
			errors = append(errors, FieldError{
				Field:   "title",
				Message: "title must be 255 characters or less",
			})
		}
	}

	return errors
}

// VoteChoice pairs a question with the chosen option.
type VoteChoice struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// CastVotesRequest submits one or more choices for a poll.
type CastVotesRequest struct {
	Votes []VoteChoice `json:"votes"`
}

// Validate checks the cast votes request
func (r *CastVotesRequest) Validate() []FieldError {
	var errors []FieldError

	if len(r.Votes) == 0 {
		errors = append(errors, FieldError{
			Field:   "votes",
			Message: "at least one vote is required",
		})
	}

	seen := make(map[string]bool, len(r.Votes))
	for _, v := range r.Votes {
		if v.QuestionID == "" {
			errors = append(errors, FieldError{
				Field:   "votes",
				Message: "question_id is required",
			})
			continue
		}
		if v.OptionID == "" {
			errors = append(errors, FieldError{
				Field:   "votes",
				Message: "option_id is required",
			})
		}
		if seen[v.QuestionID] {
			errors = append(errors, FieldError{
				Field:   "votes",
				Message: "duplicate question_id in votes",
			})
		}
		seen[v.QuestionID] = true
	}

	return errors
}
