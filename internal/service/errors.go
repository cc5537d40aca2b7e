package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// ===== Group Errors =====
var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrNotGroupMember     = errors.New("not a member of this group")
	ErrNotGroupAdmin      = errors.New("not authorized to manage this group")
	ErrAlreadyGroupMember = errors.New("already a member of this group")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrLastGroupAdmin     = errors.New("cannot remove the last admin of a group")
)

// ===== Event Errors =====
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrNotOrganizer        = errors.New("not an organizer of this event")
	ErrNotEventMember      = errors.New("not a participant or organizer of this event")
	ErrAlreadyOrganizer    = errors.New("already an organizer of this event")
	ErrAlreadyParticipant  = errors.New("already a participant of this event")
	ErrLastOrganizer       = errors.New("cannot remove the last organizer")
	ErrEventPrivate        = errors.New("event is private")
	ErrCannotCreateEvent   = errors.New("not allowed to create events in this group")
	ErrOrganizerNotFound   = errors.New("organizer not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvalidDateRange    = errors.New("end_date must be after start_date")
)

// ===== Discussion Errors =====
var (
	ErrThreadNotFound       = errors.New("thread not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrParentMessageInvalid = errors.New("parent message does not belong to this thread")
	ErrNotMessageAuthor     = errors.New("not the author of this message")
)

// ===== Media Errors =====
var (
	ErrAlbumNotFound   = errors.New("album not found")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotMediaOwner   = errors.New("not allowed to remove this media")
)

// ===== Poll Errors =====
var (
	ErrPollNotFound           = errors.New("poll not found")
	ErrPollsDisabled          = errors.New("polls are disabled for this event")
	ErrPollClosed             = errors.New("poll is closed")
	ErrQuestionNotFound       = errors.New("poll question not found")
	ErrOptionNotFound         = errors.New("poll option not found")
	ErrOptionQuestionMismatch = errors.New("option does not belong to the question")
	ErrMaxQuestionsReached    = errors.New("poll has too many questions")
	ErrMaxOptionsReached      = errors.New("question has too many options")
)

// ===== Ticketing Errors =====
var (
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketingDisabled  = errors.New("ticketing is disabled for this event")
	ErrTicketsSoldOut     = errors.New("ticket type is sold out")
	ErrAlreadyPurchased   = errors.New("this email already purchased a ticket of this type")
)

// ===== Shopping List Errors =====
var (
	ErrShoppingDisabled      = errors.New("shopping list is disabled for this event")
	ErrShoppingItemNotFound  = errors.New("shopping item not found")
	ErrDuplicateShoppingItem = errors.New("an item with this name is already on the list")
	ErrNotItemOwner          = errors.New("not allowed to modify this item")
)

// ===== Carpool Errors =====
var (
	ErrCarpoolDisabled      = errors.New("carpooling is disabled for this event")
	ErrCarpoolOfferNotFound = errors.New("carpool offer not found")
	ErrNotOfferDriver       = errors.New("not allowed to modify this offer")
)
