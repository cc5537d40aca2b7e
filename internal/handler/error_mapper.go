package handler

import (
	"errors"

	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotGroupMember),
		errors.Is(err, service.ErrNotGroupAdmin),
		errors.Is(err, service.ErrNotOrganizer),
		errors.Is(err, service.ErrNotEventMember),
		errors.Is(err, service.ErrEventPrivate),
		errors.Is(err, service.ErrCannotCreateEvent),
		errors.Is(err, service.ErrNotMessageAuthor),
		errors.Is(err, service.ErrNotMediaOwner),
		errors.Is(err, service.ErrNotItemOwner),
		errors.Is(err, service.ErrNotOfferDriver):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrGroupNotFound):
		return model.NewNotFoundError("group")
	case errors.Is(err, service.ErrMembershipNotFound):
		return model.NewNotFoundError("membership")
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrOrganizerNotFound):
		return model.NewNotFoundError("organizer")
	case errors.Is(err, service.ErrParticipantNotFound):
		return model.NewNotFoundError("participant")
	case errors.Is(err, service.ErrThreadNotFound):
		return model.NewNotFoundError("thread")
	case errors.Is(err, service.ErrMessageNotFound):
		return model.NewNotFoundError("message")
	case errors.Is(err, service.ErrAlbumNotFound):
		return model.NewNotFoundError("album")
	case errors.Is(err, service.ErrPhotoNotFound):
		return model.NewNotFoundError("photo")
	case errors.Is(err, service.ErrCommentNotFound):
		return model.NewNotFoundError("comment")
	case errors.Is(err, service.ErrPollNotFound):
		return model.NewNotFoundError("poll")
	case errors.Is(err, service.ErrQuestionNotFound):
		return model.NewNotFoundError("poll question")
	case errors.Is(err, service.ErrOptionNotFound):
		return model.NewNotFoundError("poll option")
	case errors.Is(err, service.ErrTicketTypeNotFound):
		return model.NewNotFoundError("ticket type")
	case errors.Is(err, service.ErrTicketNotFound):
		return model.NewNotFoundError("ticket")
	case errors.Is(err, service.ErrShoppingItemNotFound):
		return model.NewNotFoundError("shopping item")
	case errors.Is(err, service.ErrCarpoolOfferNotFound):
		return model.NewNotFoundError("carpool offer")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyGroupMember),
		errors.Is(err, service.ErrAlreadyOrganizer),
		errors.Is(err, service.ErrAlreadyParticipant),
		errors.Is(err, service.ErrAlreadyPurchased),
		errors.Is(err, service.ErrDuplicateShoppingItem):
		return model.NewConflictError(err.Error())

	// ===== Precondition Errors → 412 =====
	// Feature flags, closed polls, exhausted quotas and last-admin or
	// last-organizer guards all surface as failed preconditions.
	case errors.Is(err, service.ErrPollsDisabled),
		errors.Is(err, service.ErrTicketingDisabled),
		errors.Is(err, service.ErrShoppingDisabled),
		errors.Is(err, service.ErrCarpoolDisabled),
		errors.Is(err, service.ErrPollClosed),
		errors.Is(err, service.ErrTicketsSoldOut),
		errors.Is(err, service.ErrLastGroupAdmin),
		errors.Is(err, service.ErrLastOrganizer):
		return model.NewPreconditionFailedError(err.Error())

	// ===== Limit Errors → 422 =====
	case errors.Is(err, service.ErrMaxQuestionsReached):
		return model.NewLimitExceededError("questions per poll", model.MaxQuestionsPerPoll, model.MaxQuestionsPerPoll)
	case errors.Is(err, service.ErrMaxOptionsReached):
		return model.NewLimitExceededError("options per question", model.MaxOptionsPerQuestion, model.MaxOptionsPerQuestion)

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidDateRange):
		return model.NewValidationError([]model.FieldError{{Field: "end_date", Message: err.Error()}})
	case errors.Is(err, service.ErrParentMessageInvalid):
		return model.NewValidationError([]model.FieldError{{Field: "parent_id", Message: err.Error()}})
	case errors.Is(err, service.ErrOptionQuestionMismatch):
		return model.NewValidationError([]model.FieldError{{Field: "votes", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails
// response with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
