package model

import (
	"strings"
	"time"
)

// GroupType categorizes a group
type GroupType string

const (
	GroupTypeFriends    GroupType = "friends"
	GroupTypeFamily     GroupType = "family"
	GroupTypeColleagues GroupType = "colleagues"
	GroupTypeClub       GroupType = "club"
	GroupTypeOther      GroupType = "other"
)

// IsValid returns true if the type is a known group type
func (t GroupType) IsValid() bool {
	switch t {
	case GroupTypeFriends, GroupTypeFamily, GroupTypeColleagues, GroupTypeClub, GroupTypeOther:
		return true
	default:
		return false
	}
}

// Group represents a community of users
type Group struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Icon              string    `json:"icon,omitempty"`
	CoverPhoto        string    `json:"cover_photo,omitempty"`
	Type              GroupType `json:"type"`
	AllowMemberPosts  bool      `json:"allow_member_posts"`
	AllowMemberEvents bool      `json:"allow_member_events"`
	CreatedBy         string    `json:"created_by"`
	CreatedOn         time.Time `json:"created_on"`
	UpdatedOn         time.Time `json:"updated_on"`
}

// Membership represents a user's relationship to a group.
// The (group, user) pair is unique; admins manage the group and
// can_create_events grants event creation without admin rights.
type Membership struct {
	ID              string    `json:"id"`
	GroupID         string    `json:"group_id"`
	UserID          string    `json:"user_id"`
	IsAdmin         bool      `json:"is_admin"`
	CanCreateEvents bool      `json:"can_create_events"`
	CreatedOn       time.Time `json:"created_on"`
}

// GroupDetail is a group with its member list
type GroupDetail struct {
	Group   Group        `json:"group"`
	Members []Membership `json:"members"`
}

// Business constraints
const (
	MaxGroupNameLength = 255
	MaxGroupDescLength = 2000
	MaxGroupURLLength  = 255
)

// CreateGroupRequest represents a request to create a group
type CreateGroupRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Icon              string    `json:"icon,omitempty"`
	CoverPhoto        string    `json:"cover_photo,omitempty"`
	Type              GroupType `json:"type"`
	AllowMemberPosts  *bool     `json:"allow_member_posts,omitempty"`  // defaults to true
	AllowMemberEvents *bool     `json:"allow_member_events,omitempty"` // defaults to true
}

// Validate checks the request fields and returns any violations
func (r *CreateGroupRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxGroupNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 255 characters or less"})
	}

	if len(r.Description) > MaxGroupDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	if len(r.Icon) > MaxGroupURLLength {
		errors = append(errors, FieldError{Field: "icon", Message: "icon must be 255 characters or less"})
	}
	if len(r.CoverPhoto) > MaxGroupURLLength {
		errors = append(errors, FieldError{Field: "cover_photo", Message: "cover_photo must be 255 characters or less"})
	}

	if !r.Type.IsValid() {
		errors = append(errors, FieldError{Field: "type", Message: "type must be one of friends, family, colleagues, club, other"})
	}

	return errors
}

// UpdateGroupRequest represents a request to update a group
type UpdateGroupRequest struct {
	Name              *string    `json:"name,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Icon              *string    `json:"icon,omitempty"`
	CoverPhoto        *string    `json:"cover_photo,omitempty"`
	Type              *GroupType `json:"type,omitempty"`
	AllowMemberPosts  *bool      `json:"allow_member_posts,omitempty"`
	AllowMemberEvents *bool      `json:"allow_member_events,omitempty"`
}

// Validate checks the request fields and returns any violations
func (r *UpdateGroupRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name must not be empty"})
		} else if len(*r.Name) > MaxGroupNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 255 characters or less"})
		}
	}
	if r.Description != nil && len(*r.Description) > MaxGroupDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	if r.Type != nil && !r.Type.IsValid() {
		errors = append(errors, FieldError{Field: "type", Message: "type must be one of friends, family, colleagues, club, other"})
	}

	return errors
}

// AddMemberRequest represents a request to add a user to a group
type AddMemberRequest struct {
	UserID          string `json:"user_id"`
	IsAdmin         bool   `json:"is_admin,omitempty"`
	CanCreateEvents bool   `json:"can_create_events,omitempty"`
}

// Validate checks the request fields and returns any violations
func (r *AddMemberRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.UserID) == "" {
		errors = append(errors, FieldError{Field: "user_id", Message: "user_id is required"})
	}

	return errors
}

// UpdateMembershipRequest represents a request to change membership flags
type UpdateMembershipRequest struct {
	IsAdmin         *bool `json:"is_admin,omitempty"`
	CanCreateEvents *bool `json:"can_create_events,omitempty"`
}

// Validate checks the request fields and returns any violations
func (r *UpdateMembershipRequest) Validate() []FieldError {
	var errors []FieldError

	if r.IsAdmin == nil && r.CanCreateEvents == nil {
		errors = append(errors, FieldError{Field: "is_admin", Message: "at least one of is_admin or can_create_events is required"})
	}

	return errors
}
