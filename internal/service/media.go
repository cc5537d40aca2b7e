package service

import (
	"context"

	"github.com/forgo/gather/api/internal/model"
)

// MediaRepository defines the interface for album, photo and comment storage
type MediaRepository interface {
	CreateAlbum(ctx context.Context, album *model.Album) error
	GetAlbumByID(ctx context.Context, id string) (*model.Album, error)
	ListAlbums(ctx context.Context, eventID string) ([]*model.Album, error)
	UpdateAlbum(ctx context.Context, album *model.Album) error
	DeleteAlbum(ctx context.Context, id string) error
	AddPhoto(ctx context.Context, photo *model.Photo) error
	GetPhotoByID(ctx context.Context, id string) (*model.Photo, error)
	ListPhotos(ctx context.Context, albumID string) ([]*model.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
	AddComment(ctx context.Context, comment *model.PhotoComment) error
	GetCommentByID(ctx context.Context, id string) (*model.PhotoComment, error)
	ListComments(ctx context.Context, photoID string) ([]*model.PhotoComment, error)
	DeleteComment(ctx context.Context, id string) error
}

// MediaService handles albums, photos and photo comments. Every
// operation is gated on the caller participating in or organizing the
// owning event.
type MediaService struct {
	mediaRepo MediaRepository
	eventRepo EventRepository
}

// NewMediaService creates a new media service
func NewMediaService(mediaRepo MediaRepository, eventRepo EventRepository) *MediaService {
	return &MediaService{
		mediaRepo: mediaRepo,
		eventRepo: eventRepo,
	}
}

// CreateAlbum creates an album under an event
func (s *MediaService) CreateAlbum(ctx context.Context, userID, eventID string, req *model.CreateAlbumRequest) (*model.Album, error) {
	if err := s.requireEventMember(ctx, userID, eventID); err != nil {
		return nil, err
	}

	album := &model.Album{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := s.mediaRepo.CreateAlbum(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// ListAlbums returns an event's albums
func (s *MediaService) ListAlbums(ctx context.Context, userID, eventID string) ([]*model.Album, error) {
	if err := s.requireEventMember(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return s.mediaRepo.ListAlbums(ctx, eventID)
}

// GetAlbum returns an album with its photos
func (s *MediaService) GetAlbum(ctx context.Context, userID, albumID string) (*model.AlbumDetail, error) {
	album, err := s.accessAlbum(ctx, userID, albumID)
	if err != nil {
		return nil, err
	}

	photos, err := s.mediaRepo.ListPhotos(ctx, albumID)
	if err != nil {
		return nil, err
	}

	detail := &model.AlbumDetail{Album: *album}
	for _, p := range photos {
		detail.Photos = append(detail.Photos, *p)
	}
	return detail, nil
}

// UpdateAlbum renames an album or edits its description. Album creator
// or event organizer only.
func (s *MediaService) UpdateAlbum(ctx context.Context, userID, albumID string, req *model.UpdateAlbumRequest) (*model.Album, error) {
	album, err := s.accessAlbum(ctx, userID, albumID)
	if err != nil {
		return nil, err
	}

	if album.CreatedBy != userID {
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, album.EventID, userID)
		if err != nil {
			return nil, err
		}
		if !isOrganizer {
			return nil, ErrNotMediaOwner
		}
	}

	if req.Name != nil {
		album.Name = *req.Name
	}
	if req.Description != nil {
		album.Description = req.Description
	}

	if err := s.mediaRepo.UpdateAlbum(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// DeleteAlbum removes an album and cascades its photos and their
// comments in one transaction. Album creator or event organizer only.
func (s *MediaService) DeleteAlbum(ctx context.Context, userID, albumID string) error {
	album, err := s.accessAlbum(ctx, userID, albumID)
	if err != nil {
		return err
	}

	if album.CreatedBy != userID {
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, album.EventID, userID)
		if err != nil {
			return err
		}
		if !isOrganizer {
			return ErrNotMediaOwner
		}
	}

	return s.mediaRepo.DeleteAlbum(ctx, albumID)
}

// AddPhoto adds a photo to an album
func (s *MediaService) AddPhoto(ctx context.Context, userID, albumID string, req *model.AddPhotoRequest) (*model.Photo, error) {
	if _, err := s.accessAlbum(ctx, userID, albumID); err != nil {
		return nil, err
	}

	photo := &model.Photo{
		AlbumID:    albumID,
		URL:        req.URL,
		Caption:    req.Caption,
		UploadedBy: userID,
	}
	if err := s.mediaRepo.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// ListPhotos returns an album's photos
func (s *MediaService) ListPhotos(ctx context.Context, userID, albumID string) ([]*model.Photo, error) {
	if _, err := s.accessAlbum(ctx, userID, albumID); err != nil {
		return nil, err
	}
	return s.mediaRepo.ListPhotos(ctx, albumID)
}

// DeletePhoto removes a photo and cascades its comments. Uploader or
// event organizer only.
func (s *MediaService) DeletePhoto(ctx context.Context, userID, photoID string) error {
	photo, album, err := s.accessPhoto(ctx, userID, photoID)
	if err != nil {
		return err
	}

	if photo.UploadedBy != userID {
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, album.EventID, userID)
		if err != nil {
			return err
		}
		if !isOrganizer {
			return ErrNotMediaOwner
		}
	}

	return s.mediaRepo.DeletePhoto(ctx, photoID)
}

// AddComment comments on a photo
func (s *MediaService) AddComment(ctx context.Context, userID, photoID string, req *model.CreatePhotoCommentRequest) (*model.PhotoComment, error) {
	if _, _, err := s.accessPhoto(ctx, userID, photoID); err != nil {
		return nil, err
	}

	comment := &model.PhotoComment{
		PhotoID:  photoID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := s.mediaRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a photo's comments in creation order
func (s *MediaService) ListComments(ctx context.Context, userID, photoID string) ([]*model.PhotoComment, error) {
	if _, _, err := s.accessPhoto(ctx, userID, photoID); err != nil {
		return nil, err
	}
	return s.mediaRepo.ListComments(ctx, photoID)
}

// DeleteComment removes a comment. Author or event organizer only.
func (s *MediaService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.mediaRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	if comment.AuthorID != userID {
		_, album, err := s.accessPhoto(ctx, userID, comment.PhotoID)
		if err != nil {
			return err
		}
		isOrganizer, err := s.eventRepo.IsOrganizer(ctx, album.EventID, userID)
		if err != nil {
			return err
		}
		if !isOrganizer {
			return ErrNotMediaOwner
		}
	}

	return s.mediaRepo.DeleteComment(ctx, commentID)
}

// accessAlbum loads an album and verifies event access
func (s *MediaService) accessAlbum(ctx context.Context, userID, albumID string) (*model.Album, error) {
	album, err := s.mediaRepo.GetAlbumByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, ErrAlbumNotFound
	}
	if err := s.requireEventMember(ctx, userID, album.EventID); err != nil {
		return nil, err
	}
	return album, nil
}

// accessPhoto loads a photo and its album and verifies event access
func (s *MediaService) accessPhoto(ctx context.Context, userID, photoID string) (*model.Photo, *model.Album, error) {
	photo, err := s.mediaRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, nil, err
	}
	if photo == nil {
		return nil, nil, ErrPhotoNotFound
	}

	album, err := s.accessAlbum(ctx, userID, photo.AlbumID)
	if err != nil {
		return nil, nil, err
	}
	return photo, album, nil
}

func (s *MediaService) requireEventMember(ctx context.Context, userID, eventID string) error {
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
