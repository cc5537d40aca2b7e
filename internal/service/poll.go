package service

import (
	"context"

	"github.com/forgo/gather/api/internal/model"
)

// PollRepository defines the interface for poll storage
type PollRepository interface {
	CreatePoll(ctx context.Context, poll *model.Poll, questions []model.CreatePollQuestionRequest) error
	GetPollByID(ctx context.Context, id string) (*model.Poll, error)
	ListPollsForEvent(ctx context.Context, eventID string) ([]*model.Poll, error)
	ListQuestions(ctx context.Context, pollID string) ([]*model.PollQuestion, error)
	GetQuestionByID(ctx context.Context, id string) (*model.PollQuestion, error)
	ListOptions(ctx context.Context, questionID string) ([]*model.PollOption, error)
	GetOptionByID(ctx context.Context, id string) (*model.PollOption, error)
	UpdatePoll(ctx context.Context, poll *model.Poll) error
	DeletePoll(ctx context.Context, id string) error
	CastVote(ctx context.Context, vote *model.PollVote) error
	TallyVotes(ctx context.Context, questionID string) (map[string]int, error)
	GetVote(ctx context.Context, questionID, voterID string) (*model.PollVote, error)
}

// PollService handles polls, voting and tallying
type PollService struct {
	pollRepo  PollRepository
	eventRepo EventRepository
}

// NewPollService creates a new poll service
func NewPollService(pollRepo PollRepository, eventRepo EventRepository) *PollService {
	return &PollService{
		pollRepo:  pollRepo,
		eventRepo: eventRepo,
	}
}

// CreatePoll creates a poll with its full question and option
// structure in one transaction. Organizer only; the event must have
// polls enabled.
func (s *PollService) CreatePoll(ctx context.Context, userID, eventID string, req *model.CreatePollRequest) (*model.Poll, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.PollsEnabled {
		return nil, ErrPollsDisabled
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !isOrganizer {
		return nil, ErrNotOrganizer
	}

	if len(req.Questions) > model.MaxQuestionsPerPoll {
		return nil, ErrMaxQuestionsReached
	}
	for _, q := range req.Questions {
		if len(q.Options) > model.MaxOptionsPerQuestion {
			return nil, ErrMaxOptionsReached
		}
	}

	poll := &model.Poll{
		EventID:   eventID,
		Title:     req.Title,
		IsActive:  true,
		CreatedBy: userID,
	}
	if err := s.pollRepo.CreatePoll(ctx, poll, req.Questions); err != nil {
		return nil, err
	}
	return poll, nil
}

// ListPolls returns an event's polls. Participant or organizer only;
// the event must have polls enabled.
func (s *PollService) ListPolls(ctx context.Context, userID, eventID string) ([]*model.Poll, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.PollsEnabled {
		return nil, ErrPollsDisabled
	}

	if err := s.requireEventMember(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return s.pollRepo.ListPollsForEvent(ctx, eventID)
}

// GetPoll returns a poll with its questions, options and per-option
// vote tallies. Tallies are counted at read time, never cached.
func (s *PollService) GetPoll(ctx context.Context, userID, pollID string) (*model.PollDetail, error) {
	poll, _, err := s.accessPoll(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}

	questions, err := s.pollRepo.ListQuestions(ctx, pollID)
	if err != nil {
		return nil, err
	}

	detail := &model.PollDetail{Poll: *poll}
	for _, q := range questions {
		options, err := s.pollRepo.ListOptions(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		tallies, err := s.pollRepo.TallyVotes(ctx, q.ID)
		if err != nil {
			return nil, err
		}

		result := model.QuestionResult{Question: *q}
		for _, o := range options {
			result.Options = append(result.Options, model.OptionTally{
				Option:    *o,
				VoteCount: tallies[o.ID],
			})
		}
		detail.Questions = append(detail.Questions, result)
	}
	return detail, nil
}

// UpdatePoll retitles a poll or closes and reopens it. Organizer only.
func (s *PollService) UpdatePoll(ctx context.Context, userID, pollID string, req *model.UpdatePollRequest) (*model.Poll, error) {
	poll, event, err := s.accessPoll(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, event.ID, userID)
	if err != nil {
		return nil, err
	}
	if !isOrganizer {
		return nil, ErrNotOrganizer
	}

	if req.Title != nil {
		poll.Title = *req.Title
	}
	if req.IsActive != nil {
		poll.IsActive = *req.IsActive
	}

	if err := s.pollRepo.UpdatePoll(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// DeletePoll removes a poll and cascades its questions, options and
// votes. Organizer only.
func (s *PollService) DeletePoll(ctx context.Context, userID, pollID string) error {
	_, event, err := s.accessPoll(ctx, userID, pollID)
	if err != nil {
		return err
	}

	isOrganizer, err := s.eventRepo.IsOrganizer(ctx, event.ID, userID)
	if err != nil {
		return err
	}
	if !isOrganizer {
		return ErrNotOrganizer
	}

	return s.pollRepo.DeletePoll(ctx, pollID)
}

// CastVotes submits the caller's choices. A second vote on the same
// question overwrites the previous one. The poll must be active and
// every option must belong to its question.
func (s *PollService) CastVotes(ctx context.Context, userID, pollID string, req *model.CastVotesRequest) error {
	poll, _, err := s.accessPoll(ctx, userID, pollID)
	if err != nil {
		return err
	}
	if !poll.IsActive {
		return ErrPollClosed
	}

	// Validate the full ballot before writing anything
	for _, choice := range req.Votes {
		question, err := s.pollRepo.GetQuestionByID(ctx, choice.QuestionID)
		if err != nil {
			return err
		}
		if question == nil || question.PollID != pollID {
			return ErrQuestionNotFound
		}

		option, err := s.pollRepo.GetOptionByID(ctx, choice.OptionID)
		if err != nil {
			return err
		}
		if option == nil {
			return ErrOptionNotFound
		}
		if option.QuestionID != choice.QuestionID {
			return ErrOptionQuestionMismatch
		}
	}

	for _, choice := range req.Votes {
		// An unchanged choice needs no write
		existing, err := s.pollRepo.GetVote(ctx, choice.QuestionID, userID)
		if err != nil {
			return err
		}
		if existing != nil && existing.OptionID == choice.OptionID {
			continue
		}

		vote := &model.PollVote{
			QuestionID: choice.QuestionID,
			OptionID:   choice.OptionID,
			VoterID:    userID,
		}
		if err := s.pollRepo.CastVote(ctx, vote); err != nil {
			return err
		}
	}
	return nil
}

// accessPoll loads a poll and its event and verifies the caller can
// see the poll. The polls_enabled flag is checked against the event.
func (s *PollService) accessPoll(ctx context.Context, userID, pollID string) (*model.Poll, *model.Event, error) {
	poll, err := s.pollRepo.GetPollByID(ctx, pollID)
	if err != nil {
		return nil, nil, err
	}
	if poll == nil {
		return nil, nil, ErrPollNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, poll.EventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, ErrEventNotFound
	}
	if !event.PollsEnabled {
		return nil, nil, ErrPollsDisabled
	}

	if err := s.requireEventMember(ctx, userID, poll.EventID); err != nil {
		return nil, nil, err
	}
	return poll, event, nil
}

func (s *PollService) requireEventMember(ctx context.Context, userID, eventID string) error {
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
