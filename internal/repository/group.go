package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// GroupRepository handles group and membership data access
type GroupRepository struct {
	db database.Database
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db database.Database) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create creates a group and its creator's admin membership in one
// transaction.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	tb := database.NewTxBuilder()
	tb.Add(`
		LET $grp = (CREATE user_group CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			icon: IF $icon IS NOT NULL THEN $icon ELSE NONE END,
			cover_photo: IF $cover_photo IS NOT NULL THEN $cover_photo ELSE NONE END,
			type: $type,
			allow_member_posts: $allow_member_posts,
			allow_member_events: $allow_member_events,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		})
	`, map[string]interface{}{
		"name":                group.Name,
		"description":         nilIfEmpty(group.Description),
		"icon":                nilIfEmpty(group.Icon),
		"cover_photo":         nilIfEmpty(group.CoverPhoto),
		"type":                group.Type,
		"allow_member_posts":  group.AllowMemberPosts,
		"allow_member_events": group.AllowMemberEvents,
		"created_by":          group.CreatedBy,
	})
	tb.Add(`
		CREATE membership CONTENT {
			group_id: $grp[0].id,
			user_id: type::record($user_id),
			is_admin: true,
			can_create_events: true,
			created_on: time::now()
		}
	`, map[string]interface{}{"user_id": group.CreatedBy})
	tb.AddRaw(`RETURN $grp`)

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

	group.ID = created.ID
	group.CreatedOn = created.CreatedOn
	group.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	group, err := parseGroupRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return group, nil
}

// ListForUser retrieves all groups a user is a member of
func (r *GroupRepository) ListForUser(ctx context.Context, userID string) ([]*model.Group, error) {
	query := `
		SELECT * FROM user_group
		WHERE id IN (SELECT VALUE group_id FROM membership WHERE user_id = type::record($user_id))
		ORDER BY created_on DESC
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	groups := make([]*model.Group, 0)
	for _, row := range allRows(result) {
		group := &model.Group{}
		if err := decodeRecord(row, []string{"created_by"}, group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// Update updates a group
func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			icon = IF $icon IS NOT NULL THEN $icon ELSE NONE END,
			cover_photo = IF $cover_photo IS NOT NULL THEN $cover_photo ELSE NONE END,
			type = $type,
			allow_member_posts = $allow_member_posts,
			allow_member_events = $allow_member_events,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":                  group.ID,
		"name":                group.Name,
		"description":         nilIfEmpty(group.Description),
		"icon":                nilIfEmpty(group.Icon),
		"cover_photo":         nilIfEmpty(group.CoverPhoto),
		"type":                group.Type,
		"allow_member_posts":  group.AllowMemberPosts,
		"allow_member_events": group.AllowMemberEvents,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete deletes a group, its memberships and its discussion threads in
// one atomic batch.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}
	return BatchExecute(ctx, r.db, []struct {
		Query string
		Vars  map[string]interface{}
	}{
		{`DELETE message WHERE thread_id IN (SELECT VALUE id FROM thread WHERE group_id = type::record($id))`, vars},
		{`DELETE thread WHERE group_id = type::record($id)`, vars},
		{`DELETE membership WHERE group_id = type::record($id)`, vars},
		{`DELETE type::record($id)`, vars},
	})
}

// AddMember creates a membership. Returns database.ErrDuplicate when the
// user is already a member.
func (r *GroupRepository) AddMember(ctx context.Context, m *model.Membership) error {
	query := `
		CREATE membership CONTENT {
			group_id: type::record($group_id),
			user_id: type::record($user_id),
			is_admin: $is_admin,
			can_create_events: $can_create_events,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"group_id":          m.GroupID,
		"user_id":           m.UserID,
		"is_admin":          m.IsAdmin,
		"can_create_events": m.CanCreateEvents,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: user is already a member", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	m.ID = created.ID
	m.CreatedOn = created.CreatedOn
	return nil
}

// GetMembership retrieves the membership linking a user to a group, or nil
func (r *GroupRepository) GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error) {
	query := `
		SELECT * FROM membership
		WHERE group_id = type::record($group_id) AND user_id = type::record($user_id)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	m, err := parseMembershipRow(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// ListMembers retrieves all memberships for a group
func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]*model.Membership, error) {
	query := `SELECT * FROM membership WHERE group_id = type::record($group_id) ORDER BY created_on ASC`
	vars := map[string]interface{}{"group_id": groupID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	members := make([]*model.Membership, 0)
	for _, row := range allRows(result) {
		m := &model.Membership{}
		if err := decodeRecord(row, []string{"group_id", "user_id"}, m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

// UpdateMembership updates a member's permission flags
func (r *GroupRepository) UpdateMembership(ctx context.Context, m *model.Membership) error {
	query := `
		UPDATE type::record($id) SET
			is_admin = $is_admin,
			can_create_events = $can_create_events
	`
	vars := map[string]interface{}{
		"id":                m.ID,
		"is_admin":          m.IsAdmin,
		"can_create_events": m.CanCreateEvents,
	}

	return r.db.Execute(ctx, query, vars)
}

// RemoveMember deletes a membership
func (r *GroupRepository) RemoveMember(ctx context.Context, membershipID string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": membershipID})
}

// CountAdmins counts the admins of a group
func (r *GroupRepository) CountAdmins(ctx context.Context, groupID string) (int, error) {
	query := `SELECT count() AS count FROM membership WHERE group_id = type::record($group_id) AND is_admin = true GROUP ALL`
	vars := map[string]interface{}{"group_id": groupID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// Helper functions

func parseGroupRow(result interface{}) (*model.Group, error) {
	data, err := firstRow(result)
	if err != nil {
		return nil, err
	}

	group := &model.Group{}
	if err := decodeRecord(data, []string{"created_by"}, group); err != nil {
		return nil, err
	}
	return group, nil
}

func parseMembershipRow(result interface{}) (*model.Membership, error) {
	data, err := firstRow(result)
	if err != nil {
		return nil, err
	}

	m := &model.Membership{}
	if err := decodeRecord(data, []string{"group_id", "user_id"}, m); err != nil {
		return nil, err
	}
	return m, nil
}
