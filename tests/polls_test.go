package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/repository"
	"github.com/forgo/gather/api/internal/service"
	"github.com/forgo/gather/api/internal/testing/fixtures"
	"github.com/forgo/gather/api/internal/testing/testdb"
)

/*
FEATURE: Event Polls & Voting
DOMAIN: Polls

ACCEPTANCE CRITERIA:
===================

AC-POLL-001: Poll Creation
  GIVEN an event organizer and an event with polls enabled
  WHEN they create a poll with questions and options
  THEN the full structure is written in one shot
  AND participants cannot create polls

AC-POLL-002: Feature Flag Gate
  GIVEN an event with polls disabled
  WHEN anyone touches its polls
  THEN the operation fails with a polls-disabled error

AC-POLL-003: Voting & Tallies
  GIVEN an active poll
  WHEN members cast votes
  THEN tallies computed at read time reflect every ballot

AC-POLL-004: Vote Overwrite
  GIVEN a member who already voted on a question
  WHEN they vote again on the same question
  THEN the new choice replaces the old one
  AND the tally never counts them twice

AC-POLL-005: Ballot Validation
  GIVEN a ballot referencing a foreign question or mismatched option
  WHEN it is cast
  THEN the whole ballot is rejected and nothing is written

AC-POLL-006: Closed Polls
  GIVEN a poll closed by an organizer
  WHEN a member tries to vote
  THEN the ballot is rejected
*/

func newPollService(tdb *testdb.TestDB) *service.PollService {
	return service.NewPollService(
		repository.NewPollRepository(tdb.DB),
		repository.NewEventRepository(tdb.DB),
	)
}

// pollStructure creates a one-question poll through the service and
// returns its detail so tests can reference question and option IDs.
func pollStructure(t *testing.T, svc *service.PollService, userID, eventID string) *model.PollDetail {
	t.Helper()
	ctx := context.Background()

	poll, err := svc.CreatePoll(ctx, userID, eventID, &model.CreatePollRequest{
		Title: "Dinner choices",
		Questions: []model.CreatePollQuestionRequest{
			{Text: "Main course?", Options: []string{"Pasta", "Curry", "Pizza"}},
		},
	})
	require.NoError(t, err)

	detail, err := svc.GetPoll(ctx, userID, poll.ID)
	require.NoError(t, err)
	require.Len(t, detail.Questions, 1)
	require.Len(t, detail.Questions[0].Options, 3)
	return detail
}

func TestPolls_Create(t *testing.T) {
	// AC-POLL-001: Poll Creation
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newPollService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	guest := f.CreateUser(t)
	event := f.CreateEvent(t, organizer, fixtures.WithAllFeatures())
	f.AddParticipant(t, event, guest)

	detail := pollStructure(t, svc, organizer.ID, event.ID)
	assert.Equal(t, "Dinner choices", detail.Poll.Title)
	assert.True(t, detail.Poll.IsActive)
	assert.Equal(t, "Main course?", detail.Questions[0].Question.Text)

	// Participants can see but not create
	_, err := svc.CreatePoll(ctx, guest.ID, event.ID, &model.CreatePollRequest{
		Title:     "Rogue poll",
		Questions: []model.CreatePollQuestionRequest{{Text: "Q", Options: []string{"A", "B"}}},
	})
	assert.True(t, errors.Is(err, service.ErrNotOrganizer), "got %v", err)

	polls, err := svc.ListPolls(ctx, guest.ID, event.ID)
	require.NoError(t, err)
	assert.Len(t, polls, 1)
}

func TestPolls_FeatureFlagGate(t *testing.T) {
	// AC-POLL-002: Feature Flag Gate
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newPollService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	event := f.CreateEvent(t, organizer) // polls_enabled false

	_, err := svc.CreatePoll(ctx, organizer.ID, event.ID, &model.CreatePollRequest{
		Title:     "Blocked",
		Questions: []model.CreatePollQuestionRequest{{Text: "Q", Options: []string{"A", "B"}}},
	})
	assert.True(t, errors.Is(err, service.ErrPollsDisabled), "got %v", err)

	_, err = svc.ListPolls(ctx, organizer.ID, event.ID)
	assert.True(t, errors.Is(err, service.ErrPollsDisabled), "got %v", err)
}

func TestPolls_VotingAndTallies(t *testing.T) {
	// AC-POLL-003: Voting & Tallies
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newPollService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	alice := f.CreateUser(t)
	bob := f.CreateUser(t)
	event := f.CreateEvent(t, organizer, fixtures.WithAllFeatures())
	f.AddParticipant(t, event, alice)
	f.AddParticipant(t, event, bob)

	detail := pollStructure(t, svc, organizer.ID, event.ID)
	question := detail.Questions[0].Question
	pasta := detail.Questions[0].Options[0].Option
	curry := detail.Questions[0].Options[1].Option

	require.NoError(t, svc.CastVotes(ctx, alice.ID, detail.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: question.ID, OptionID: pasta.ID}},
	}))
	require.NoError(t, svc.CastVotes(ctx, bob.ID, detail.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: question.ID, OptionID: curry.ID}},
	}))

	tallied, err := svc.GetPoll(ctx, organizer.ID, detail.Poll.ID)
	require.NoError(t, err)
	counts := tallyByOption(tallied)
	assert.Equal(t, 1, counts[pasta.ID])
	assert.Equal(t, 1, counts[curry.ID])
}

func TestPolls_VoteOverwrite(t *testing.T) {
	// AC-POLL-004: Vote Overwrite
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newPollService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	voter := f.CreateUser(t)
	event := f.CreateEvent(t, organizer, fixtures.WithAllFeatures())
	f.AddParticipant(t, event, voter)

	detail := pollStructure(t, svc, organizer.ID, event.ID)
	question := detail.Questions[0].Question
	pasta := detail.Questions[0].Options[0].Option
	pizza := detail.Questions[0].Options[2].Option

	require.NoError(t, svc.CastVotes(ctx, voter.ID, detail.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: question.ID, OptionID: pasta.ID}},
	}))

	// Changing their mind replaces the earlier vote
	require.NoError(t, svc.CastVotes(ctx, voter.ID, detail.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: question.ID, OptionID: pizza.ID}},
	}))

	tallied, err := svc.GetPoll(ctx, voter.ID, detail.Poll.ID)
	require.NoError(t, err)
	counts := tallyByOption(tallied)
	assert.Equal(t, 0, counts[pasta.ID], "old vote must be gone")
	assert.Equal(t, 1, counts[pizza.ID])

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 1, total, "one voter, one counted vote")
}

func TestPolls_BallotValidation(t *testing.T) {
	// AC-POLL-005: Ballot Validation
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newPollService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	event := f.CreateEvent(t, organizer, fixtures.WithAllFeatures())

	first := pollStructure(t, svc, organizer.ID, event.ID)
	second := pollStructure(t, svc, organizer.ID, event.ID)

	q1 := first.Questions[0].Question
	q2 := second.Questions[0].Question
	opt1 := first.Questions[0].Options[0].Option
	opt2 := second.Questions[0].Options[0].Option

	// A question from another poll
	err := svc.CastVotes(ctx, organizer.ID, first.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: q2.ID, OptionID: opt2.ID}},
	})
	assert.True(t, errors.Is(err, service.ErrQuestionNotFound), "got %v", err)

	// An option that belongs to a different question
	err = svc.CastVotes(ctx, organizer.ID, first.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: q1.ID, OptionID: opt2.ID}},
	})
	assert.True(t, errors.Is(err, service.ErrOptionQuestionMismatch), "got %v", err)

	// An option that does not exist
	err = svc.CastVotes(ctx, organizer.ID, first.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: q1.ID, OptionID: "poll_option:missing"}},
	})
	assert.True(t, errors.Is(err, service.ErrOptionNotFound), "got %v", err)

	// Nothing was written
	tallied, err := svc.GetPoll(ctx, organizer.ID, first.Poll.ID)
	require.NoError(t, err)
	for _, n := range tallyByOption(tallied) {
		assert.Equal(t, 0, n)
	}

	// A mixed ballot with one bad choice writes nothing either
	err = svc.CastVotes(ctx, organizer.ID, first.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{
			{QuestionID: q1.ID, OptionID: opt1.ID},
			{QuestionID: q1.ID, OptionID: "poll_option:missing"},
		},
	})
	require.Error(t, err)
	tallied, err = svc.GetPoll(ctx, organizer.ID, first.Poll.ID)
	require.NoError(t, err)
	for _, n := range tallyByOption(tallied) {
		assert.Equal(t, 0, n)
	}
}

func TestPolls_ClosedPoll(t *testing.T) {
	// AC-POLL-006: Closed Polls
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newPollService(tdb)
	ctx := context.Background()

	organizer := f.CreateUser(t)
	voter := f.CreateUser(t)
	event := f.CreateEvent(t, organizer, fixtures.WithAllFeatures())
	f.AddParticipant(t, event, voter)

	detail := pollStructure(t, svc, organizer.ID, event.ID)
	question := detail.Questions[0].Question
	option := detail.Questions[0].Options[0].Option

	// Only organizers may close a poll
	closed := false
	_, err := svc.UpdatePoll(ctx, voter.ID, detail.Poll.ID, &model.UpdatePollRequest{IsActive: &closed})
	assert.True(t, errors.Is(err, service.ErrNotOrganizer), "got %v", err)

	updated, err := svc.UpdatePoll(ctx, organizer.ID, detail.Poll.ID, &model.UpdatePollRequest{IsActive: &closed})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	err = svc.CastVotes(ctx, voter.ID, detail.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: question.ID, OptionID: option.ID}},
	})
	assert.True(t, errors.Is(err, service.ErrPollClosed), "got %v", err)

	// Reopening lets voting resume
	reopen := true
	_, err = svc.UpdatePoll(ctx, organizer.ID, detail.Poll.ID, &model.UpdatePollRequest{IsActive: &reopen})
	require.NoError(t, err)

	assert.NoError(t, svc.CastVotes(ctx, voter.ID, detail.Poll.ID, &model.CastVotesRequest{
		Votes: []model.VoteChoice{{QuestionID: question.ID, OptionID: option.ID}},
	}))
}

// tallyByOption flattens a poll detail into optionID -> vote count
func tallyByOption(detail *model.PollDetail) map[string]int {
	counts := make(map[string]int)
	for _, q := range detail.Questions {
		for _, o := range q.Options {
			counts[o.Option.ID] = o.VoteCount
		}
	}
	return counts
}
