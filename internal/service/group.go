package service

import (
	"context"
	"errors"

	"github.com/forgo/gather/api/internal/database"
	"github.com/forgo/gather/api/internal/model"
)

// GroupRepository defines the interface for group storage
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, m *model.Membership) error
	GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error)
	ListMembers(ctx context.Context, groupID string) ([]*model.Membership, error)
	UpdateMembership(ctx context.Context, m *model.Membership) error
	RemoveMember(ctx context.Context, membershipID string) error
	CountAdmins(ctx context.Context, groupID string) (int, error)
}

// GroupService handles group and membership operations
type GroupService struct {
	groupRepo GroupRepository
	userRepo  UserRepository
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo GroupRepository, userRepo UserRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CreateGroup creates a group. The creator becomes an admin member with
// event creation rights as part of the same storage transaction.
func (s *GroupService) CreateGroup(ctx context.Context, userID string, req *model.CreateGroupRequest) (*model.Group, error) {
	group := &model.Group{
		Name:              req.Name,
		Description:       req.Description,
		Icon:              req.Icon,
		CoverPhoto:        req.CoverPhoto,
		Type:              req.Type,
		AllowMemberPosts:  true,
		AllowMemberEvents: true,
		CreatedBy:         userID,
	}
	if req.AllowMemberPosts != nil {
		group.AllowMemberPosts = *req.AllowMemberPosts
	}
	if req.AllowMemberEvents != nil {
		group.AllowMemberEvents = *req.AllowMemberEvents
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns the groups the user belongs to
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*model.Group, error) {
	return s.groupRepo.ListForUser(ctx, userID)
}

// GetGroup returns a group with its member list. Callers must be members.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID string) (*model.GroupDetail, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotGroupMember
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	detail := &model.GroupDetail{Group: *group}
	for _, m := range members {
		detail.Members = append(detail.Members, *m)
	}
	return detail, nil
}

// UpdateGroup applies partial updates to a group. Admin only.
func (s *GroupService) UpdateGroup(ctx context.Context, userID, groupID string, req *model.UpdateGroupRequest) (*model.Group, error) {
	group, err := s.requireAdmin(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Icon != nil {
		group.Icon = *req.Icon
	}
	if req.CoverPhoto != nil {
		group.CoverPhoto = *req.CoverPhoto
	}
	if req.Type != nil {
		group.Type = *req.Type
	}
	if req.AllowMemberPosts != nil {
		group.AllowMemberPosts = *req.AllowMemberPosts
	}
	if req.AllowMemberEvents != nil {
		group.AllowMemberEvents = *req.AllowMemberEvents
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup deletes a group and cascades its memberships and
// discussion threads. Admin only.
func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID string) error {
	if _, err := s.requireAdmin(ctx, userID, groupID); err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, groupID)
}

// AddMember adds a user to a group. Admin only. The target user must
// exist and must not already be a member.
func (s *GroupService) AddMember(ctx context.Context, userID, groupID string, req *model.AddMemberRequest) (*model.Membership, error) {
	if _, err := s.requireAdmin(ctx, userID, groupID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	membership := &model.Membership{
		GroupID:         groupID,
		UserID:          req.UserID,
		IsAdmin:         req.IsAdmin,
		CanCreateEvents: req.CanCreateEvents,
	}
	if err := s.groupRepo.AddMember(ctx, membership); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyGroupMember
		}
		return nil, err
	}
	return membership, nil
}

// ListMembers returns a group's member list. Member only.
func (s *GroupService) ListMembers(ctx context.Context, userID, groupID string) ([]*model.Membership, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotGroupMember
	}

	return s.groupRepo.ListMembers(ctx, groupID)
}

// UpdateMembership changes a member's flags. Admin only. Demoting the
// last admin is rejected.
func (s *GroupService) UpdateMembership(ctx context.Context, userID, groupID, targetUserID string, req *model.UpdateMembershipRequest) (*model.Membership, error) {
	if _, err := s.requireAdmin(ctx, userID, groupID); err != nil {
		return nil, err
	}

	membership, err := s.groupRepo.GetMembership(ctx, groupID, targetUserID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrMembershipNotFound
	}

	if req.IsAdmin != nil {
		if membership.IsAdmin && !*req.IsAdmin {
			admins, err := s.groupRepo.CountAdmins(ctx, groupID)
			if err != nil {
				return nil, err
			}
			if admins <= 1 {
				return nil, ErrLastGroupAdmin
			}
		}
		membership.IsAdmin = *req.IsAdmin
	}
	if req.CanCreateEvents != nil {
		membership.CanCreateEvents = *req.CanCreateEvents
	}

	if err := s.groupRepo.UpdateMembership(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// RemoveMember removes a user from a group. Admins can remove anyone;
// a member can remove themselves. Removing the last admin is rejected.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID, targetUserID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}

	caller, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if caller == nil {
		return ErrNotGroupMember
	}
	if !caller.IsAdmin && userID != targetUserID {
		return ErrNotGroupAdmin
	}

	target, err := s.groupRepo.GetMembership(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMembershipNotFound
	}

	if target.IsAdmin {
		admins, err := s.groupRepo.CountAdmins(ctx, groupID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastGroupAdmin
		}
	}

	return s.groupRepo.RemoveMember(ctx, target.ID)
}

// requireAdmin loads the group and verifies the caller is an admin
func (s *GroupService) requireAdmin(ctx context.Context, userID, groupID string) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotGroupMember
	}
	if !membership.IsAdmin {
		return nil, ErrNotGroupAdmin
	}
	return group, nil
}
