package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// PollRepository handles poll, question, option and vote data access
type PollRepository struct {
	db database.Database
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db database.Database) *PollRepository {
	return &PollRepository{db: db}
}

// CreatePoll creates a poll with its questions and options in one
// transaction so a failure leaves no partial structure behind.
func (r *PollRepository) CreatePoll(ctx context.Context, poll *model.Poll, questions []model.CreatePollQuestionRequest) error {
	tb := database.NewTxBuilder()
	tb.Add(`
		LET $poll = (CREATE poll CONTENT {
			event_id: type::record($event_id),
			title: $title,
			is_active: $is_active,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		})
	`, map[string]interface{}{
		"event_id":   poll.EventID,
		"title":      poll.Title,
		"is_active":  poll.IsActive,
		"created_by": poll.CreatedBy,
	})

	for qi, q := range questions {
		qVar := fmt.Sprintf("$q%d", qi)
		tb.Add(`
			LET `+qVar+` = (CREATE poll_question CONTENT {
				poll_id: $poll[0].id,
				text: $text,
				position: $position,
				created_on: time::now()
			})
		`, map[string]interface{}{
			"text":     q.Text,
			"position": qi,
		})

		for oi, label := range q.Options {
			tb.Add(`
				CREATE poll_option CONTENT {
					question_id: `+qVar+`[0].id,
					label: $label,
					position: $position,
					created_on: time::now()
				}
			`, map[string]interface{}{
				"label":    label,
				"position": oi,
			})
		}
	}
	tb.AddRaw(`RETURN $poll`)

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

	poll.ID = created.ID
	poll.CreatedOn = created.CreatedOn
	poll.UpdatedOn = created.UpdatedOn
	return nil
}

// GetPollByID retrieves a poll by ID
func (r *PollRepository) GetPollByID(ctx context.Context, id string) (*model.Poll, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := firstRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	poll := &model.Poll{}
	if err := decodeRecord(data, []string{"event_id", "created_by"}, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// ListPollsForEvent retrieves all polls attached to an event
func (r *PollRepository) ListPollsForEvent(ctx context.Context, eventID string) ([]*model.Poll, error) {
	query := `SELECT * FROM poll WHERE event_id = type::record($event_id) ORDER BY created_on DESC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	polls := make([]*model.Poll, 0)
	for _, row := range allRows(result) {
		poll := &model.Poll{}
		if err := decodeRecord(row, []string{"event_id", "created_by"}, poll); err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}
	return polls, nil
}

// ListQuestions retrieves a poll's questions in position order
func (r *PollRepository) ListQuestions(ctx context.Context, pollID string) ([]*model.PollQuestion, error) {
	query := `SELECT * FROM poll_question WHERE poll_id = type::record($poll_id) ORDER BY position ASC`
	vars := map[string]interface{}{"poll_id": pollID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	questions := make([]*model.PollQuestion, 0)
	for _, row := range allRows(result) {
		q := &model.PollQuestion{}
		if err := decodeRecord(row, []string{"poll_id"}, q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// GetQuestionByID retrieves a question by ID
func (r *PollRepository) GetQuestionByID(ctx context.Context, id string) (*model.PollQuestion, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := firstRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	q := &model.PollQuestion{}
	if err := decodeRecord(data, []string{"poll_id"}, q); err != nil {
		return nil, err
	}
	return q, nil
}

// ListOptions retrieves a question's options in position order
func (r *PollRepository) ListOptions(ctx context.Context, questionID string) ([]*model.PollOption, error) {
	query := `SELECT * FROM poll_option WHERE question_id = type::record($question_id) ORDER BY position ASC`
	vars := map[string]interface{}{"question_id": questionID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	options := make([]*model.PollOption, 0)
	for _, row := range allRows(result) {
		o := &model.PollOption{}
		if err := decodeRecord(row, []string{"question_id"}, o); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, nil
}

// GetOptionByID retrieves an option by ID
func (r *PollRepository) GetOptionByID(ctx context.Context, id string) (*model.PollOption, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := firstRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	o := &model.PollOption{}
	if err := decodeRecord(data, []string{"question_id"}, o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdatePoll updates a poll's title and active flag
func (r *PollRepository) UpdatePoll(ctx context.Context, poll *model.Poll) error {
	query := `
		UPDATE type::record($id) SET
			title = $title,
			is_active = $is_active,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        poll.ID,
		"title":     poll.Title,
		"is_active": poll.IsActive,
	}
	return r.db.Execute(ctx, query, vars)
}

// DeletePoll deletes a poll and its questions, options and votes atomically
func (r *PollRepository) DeletePoll(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`DELETE poll_vote WHERE question_id IN (SELECT VALUE id FROM poll_question WHERE poll_id = type::record($id))`, vars},
		{`DELETE poll_option WHERE question_id IN (SELECT VALUE id FROM poll_question WHERE poll_id = type::record($id))`, vars},
		{`DELETE poll_question WHERE poll_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// CastVote records a voter's choice for a question. A second cast for the
// same question replaces the previous choice. The unique index on
// (question_id, voter_id) keeps concurrent first casts from doubling up.
func (r *PollRepository) CastVote(ctx context.Context, vote *model.PollVote) error {
	createQuery := `
		CREATE poll_vote CONTENT {
			question_id: type::record($question_id),
			option_id: type::record($option_id),
			voter_id: type::record($voter_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"question_id": vote.QuestionID,
		"option_id":   vote.OptionID,
		"voter_id":    vote.VoterID,
	}

	result, err := r.db.Query(ctx, createQuery, vars)
	if err == nil {
		created, err := extractCreatedRecord(result)
		if err != nil {
			return err
		}
		vote.ID = created.ID
		vote.CreatedOn = created.CreatedOn
		vote.UpdatedOn = created.UpdatedOn
		return nil
	}

	if !isUniqueConstraintError(err) {
		return err
	}

	// Vote exists, overwrite the option
	updateQuery := `
		UPDATE poll_vote SET
			option_id = type::record($option_id),
			updated_on = time::now()
		WHERE question_id = type::record($question_id) AND voter_id = type::record($voter_id)
	`
	return r.db.Execute(ctx, updateQuery, vars)
}

// TallyVotes counts votes per option for a question
func (r *PollRepository) TallyVotes(ctx context.Context, questionID string) (map[string]int, error) {
	query := `
		SELECT option_id, count() AS count FROM poll_vote
		WHERE question_id = type::record($question_id)
		GROUP BY option_id
	`
	vars := map[string]interface{}{"question_id": questionID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	tally := make(map[string]int)
	for _, row := range allRows(result) {
		optionID := convertSurrealID(row["option_id"])
		tally[optionID] = getInt(row, "count")
	}
	return tally, nil
}

// GetVote retrieves a voter's vote for a question, or nil
func (r *PollRepository) GetVote(ctx context.Context, questionID, voterID string) (*model.PollVote, error) {
	query := `
		SELECT * FROM poll_vote
		WHERE question_id = type::record($question_id) AND voter_id = type::record($voter_id)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"question_id": questionID,
		"voter_id":    voterID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := firstRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	vote := &model.PollVote{}
	if err := decodeRecord(data, []string{"question_id", "option_id", "voter_id"}, vote); err != nil {
		return nil, err
	}
	return vote, nil
}
