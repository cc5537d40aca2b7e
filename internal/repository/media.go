package repository

import (
	"context"
	"errors"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// MediaRepository handles album, photo and photo comment data access
type MediaRepository struct {
	db database.Database
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db database.Database) *MediaRepository {
	return &MediaRepository{db: db}
}

// CreateAlbum creates a new album under an event
func (r *MediaRepository) CreateAlbum(ctx context.Context, album *model.Album) error {
	query := `
		CREATE album CONTENT {
			event_id: type::record($event_id),
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"event_id":    album.EventID,
		"name":        album.Name,
		"description": ptrToNone(album.Description),
		"created_by":  album.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	album.ID = created.ID
	album.CreatedOn = created.CreatedOn
	album.UpdatedOn = created.UpdatedOn
	return nil
}

// GetAlbumByID retrieves an album by ID
func (r *MediaRepository) GetAlbumByID(ctx context.Context, id string) (*model.Album, error) {
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

	album := &model.Album{}
	if err := decodeRecord(data, []string{"event_id", "created_by"}, album); err != nil {
		return nil, err
	}
	return album, nil
}

// ListAlbums retrieves all albums for an event
func (r *MediaRepository) ListAlbums(ctx context.Context, eventID string) ([]*model.Album, error) {
	query := `SELECT * FROM album WHERE event_id = type::record($event_id) ORDER BY created_on DESC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	albums := make([]*model.Album, 0)
	for _, row := range allRows(result) {
		album := &model.Album{}
		if err := decodeRecord(row, []string{"event_id", "created_by"}, album); err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// UpdateAlbum updates an album's name and description
func (r *MediaRepository) UpdateAlbum(ctx context.Context, album *model.Album) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":          album.ID,
		"name":        album.Name,
		"description": ptrToNone(album.Description),
	}
	return r.db.Execute(ctx, query, vars)
}

// DeleteAlbum deletes an album, its photos and their comments atomically
func (r *MediaRepository) DeleteAlbum(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`DELETE photo_comment WHERE photo_id IN (SELECT VALUE id FROM photo WHERE album_id = type::record($id))`, vars},
		{`DELETE photo WHERE album_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// AddPhoto stores a photo in an album
func (r *MediaRepository) AddPhoto(ctx context.Context, photo *model.Photo) error {
	query := `
		CREATE photo CONTENT {
			album_id: type::record($album_id),
			url: $url,
			caption: IF $caption IS NOT NULL THEN $caption ELSE NONE END,
			uploaded_by: type::record($uploaded_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"album_id":    photo.AlbumID,
		"url":         photo.URL,
		"caption":     ptrToNone(photo.Caption),
		"uploaded_by": photo.UploadedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	photo.ID = created.ID
	photo.CreatedOn = created.CreatedOn
	return nil
}

// GetPhotoByID retrieves a photo by ID
func (r *MediaRepository) GetPhotoByID(ctx context.Context, id string) (*model.Photo, error) {
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

	photo := &model.Photo{}
	if err := decodeRecord(data, []string{"album_id", "uploaded_by"}, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// ListPhotos retrieves all photos in an album
func (r *MediaRepository) ListPhotos(ctx context.Context, albumID string) ([]*model.Photo, error) {
	query := `SELECT * FROM photo WHERE album_id = type::record($album_id) ORDER BY created_on ASC`
	vars := map[string]interface{}{"album_id": albumID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	photos := make([]*model.Photo, 0)
	for _, row := range allRows(result) {
		photo := &model.Photo{}
		if err := decodeRecord(row, []string{"album_id", "uploaded_by"}, photo); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

// DeletePhoto deletes a photo and its comments atomically
func (r *MediaRepository) DeletePhoto(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`DELETE photo_comment WHERE photo_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// AddComment posts a comment on a photo
func (r *MediaRepository) AddComment(ctx context.Context, comment *model.PhotoComment) error {
	query := `
		CREATE photo_comment CONTENT {
			photo_id: type::record($photo_id),
			author_id: type::record($author_id),
			content: $content,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"photo_id":  comment.PhotoID,
		"author_id": comment.AuthorID,
		"content":   comment.Content,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	comment.ID = created.ID
	comment.CreatedOn = created.CreatedOn
	comment.UpdatedOn = created.UpdatedOn
	return nil
}

// GetCommentByID retrieves a photo comment by ID
func (r *MediaRepository) GetCommentByID(ctx context.Context, id string) (*model.PhotoComment, error) {
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

	comment := &model.PhotoComment{}
	if err := decodeRecord(data, []string{"photo_id", "author_id"}, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments retrieves all comments on a photo
func (r *MediaRepository) ListComments(ctx context.Context, photoID string) ([]*model.PhotoComment, error) {
	query := `SELECT * FROM photo_comment WHERE photo_id = type::record($photo_id) ORDER BY created_on ASC`
	vars := map[string]interface{}{"photo_id": photoID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	comments := make([]*model.PhotoComment, 0)
	for _, row := range allRows(result) {
		comment := &model.PhotoComment{}
		if err := decodeRecord(row, []string{"photo_id", "author_id"}, comment); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// DeleteComment deletes a photo comment
func (r *MediaRepository) DeleteComment(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id})
}
