package model

import "time"

// Album groups photos under an event.
type Album struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Photo is an image stored in an album.
type Photo struct {
	ID         string    `json:"id"`
	AlbumID    string    `json:"album_id"`
	URL        string    `json:"url"`
	Caption    *string   `json:"caption,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedOn  time.Time `json:"created_on"`
}

// PhotoComment is a comment left on a photo.
type PhotoComment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photo_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// AlbumDetail is an album with its photos.
type AlbumDetail struct {
	Album  Album   `json:"album"`
	Photos []Photo `json:"photos"`
}

// Constraints
const (
	MaxAlbumNameLength    = 255
	MaxAlbumDescLength    = 2000
	MaxPhotoURLLength     = 2048
	MaxPhotoCaptionLength = 500
	MaxPhotoCommentLength = 1000
)

// CreateAlbumRequest represents a request to create an album
type CreateAlbumRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Validate checks the create album request
func (r *CreateAlbumRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > MaxAlbumNameLength {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name must be 255 characters or less",
		})
	}

	if r.Description != nil && len(*r.Description) > MaxAlbumDescLength {
		errors = append(errors, FieldError{
			Field:   "description",
			Message: "description must be 2000 characters or less",
		})
	}

	return errors
}

// UpdateAlbumRequest represents a request to update an album
type UpdateAlbumRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks the update album request
func (r *UpdateAlbumRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name cannot be empty",
			})
		} else if len(*r.Name) > MaxAlbumNameLength {
			errors = append(errors, FieldError{
				Field:   "name",
				Message: "name must be 255 characters or less",
			})
		}
	}

	if r.Description != nil && len(*r.Description) > MaxAlbumDescLength {
		errors = append(errors, FieldError{
			Field:   "description",
			Message: "description must be 2000 characters or less",
		})
	}

	return errors
}

// AddPhotoRequest represents a request to add a photo to an album
type AddPhotoRequest struct {
	URL     string  `json:"url"`
	Caption *string `json:"caption,omitempty"`
}

// Validate checks the add photo request
func (r *AddPhotoRequest) Validate() []FieldError {
	var errors []FieldError

	if r.URL == "" {
		errors = append(errors, FieldError{
			Field:   "url",
			Message: "url is required",
		})
	} else if len(r.URL) > MaxPhotoURLLength {
		errors = append(errors, FieldError{
			Field:   "url",
			Message: "url must be 2048 characters or less",
		})
	}

	if r.Caption != nil && len(*r.Caption) > MaxPhotoCaptionLength {
		errors = append(errors, FieldError{
			Field:   "caption",
			Message: "caption must be 500 characters or less",
		})
	}

	return errors
}

// CreatePhotoCommentRequest represents a request to comment on a photo
type CreatePhotoCommentRequest struct {
	Content string `json:"content"`
}

// Validate checks the photo comment request
func (r *CreatePhotoCommentRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Content == "" {
		errors = append(errors, FieldError{
			Field:   "content",
			Message: "content is required",
		})
	} else if len(r.Content) > MaxPhotoCommentLength {
		errors = append(errors, FieldError{
			Field:   "content",
			Message: "content must be 1000 characters or less",
		})
	}

	return errors
}
