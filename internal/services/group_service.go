package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/pkg/slug"
	"github.com/packrat-backup/packrat/pkg/validation"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// GetDB returns the database instance
func (s *GroupService) GetDB() *gorm.DB {
	return s.db
}

// DiffMembership computes the membership changes between the server's
// last-known member set and the working set edited in the UI:
// toAdd = working - server, toRemove = server - working. Order follows the
// input slices.
func DiffMembership(server, working []uuid.UUID) (toAdd, toRemove []uuid.UUID) {
	inServer := make(map[uuid.UUID]bool, len(server))
	for _, id := range server {
		inServer[id] = true
	}
	inWorking := make(map[uuid.UUID]bool, len(working))
	for _, id := range working {
		inWorking[id] = true
	}
	for _, id := range working {
		if !inServer[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range server {
		if !inWorking[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// CreateGroup creates a group and the implicit AUTO tag for its slugified name
func (s *GroupService) CreateGroup(name, description string) (*models.Group, error) {
	name = validation.SanitizeString(name)
	if !validation.ValidateName(name) {
		return nil, errors.New("invalid group name")
	}

	group := &models.Group{Name: name, Description: description}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return upsertAutoTag(tx, slug.Make(name), name)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroupByID retrieves a group by ID
func (s *GroupService) GetGroupByID(groupID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("group not found")
		}
		return nil, err
	}
	return &group, nil
}

// GetAllGroups retrieves all groups
func (s *GroupService) GetAllGroups() ([]*models.Group, error) {
	var groups []*models.Group
	err := s.db.Order("created_at ASC").Find(&groups).Error
	return groups, err
}

// GetMembers returns the group's member targets in membership order
func (s *GroupService) GetMembers(groupID uuid.UUID) ([]*models.Target, error) {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return nil, err
	}

	var members []models.GroupMember
	if err := s.db.Where("group_id = ?", groupID).Order("position ASC, created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}

	targets := make([]*models.Target, 0, len(members))
	for _, m := range members {
		var t models.Target
		if err := s.db.First(&t, m.TargetID).Error; err != nil {
			// Stale membership row; skip rather than fail the listing.
			continue
		}
		targets = append(targets, &t)
	}
	return targets, nil
}

// AddMembers appends targets to the group, skipping ids already present
func (s *GroupService) AddMembers(groupID uuid.UUID, targetIDs []uuid.UUID) error {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return err
	}

	var maxPos int
	s.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPos)

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, targetID := range targetIDs {
			var target models.Target
			if err := tx.First(&target, targetID).Error; err != nil {
				return fmt.Errorf("target %s not found", targetID)
			}
			var existing models.GroupMember
			err := tx.Where("group_id = ? AND target_id = ?", groupID, targetID).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			maxPos++
			member := &models.GroupMember{GroupID: groupID, TargetID: targetID, Position: maxPos}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveMembers removes targets from the group. This drops the derived
// GROUP-origin attachment rows but never the tag itself.
func (s *GroupService) RemoveMembers(groupID uuid.UUID, targetIDs []uuid.UUID) error {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return err
	}
	if len(targetIDs) == 0 {
		return nil
	}
	return s.db.Where("group_id = ? AND target_id IN ?", groupID, targetIDs).
		Delete(&models.GroupMember{}).Error
}

// SaveGroup persists a group edit as one operator-visible action: diff the
// working member set against the server's, issue both the add and the
// remove step, and only then update the group's own fields. Both membership
// steps are always attempted; if either fails the metadata update is not
// issued and the whole save reports failure, so the UI never claims a save
// that left membership half-applied.
func (s *GroupService) SaveGroup(groupID uuid.UUID, name, description string, workingSet []uuid.UUID) (*models.Group, error) {
	group, err := s.GetGroupByID(groupID)
	if err != nil {
		return nil, err
	}

	name = validation.SanitizeString(name)
	if !validation.ValidateName(name) {
		return nil, errors.New("invalid group name")
	}

	var server []uuid.UUID
	var members []models.GroupMember
	if err := s.db.Where("group_id = ?", groupID).Order("position ASC, created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	for _, m := range members {
		server = append(server, m.TargetID)
	}

	toAdd, toRemove := DiffMembership(server, workingSet)

	addErr := s.AddMembers(groupID, toAdd)
	removeErr := s.RemoveMembers(groupID, toRemove)
	if addErr != nil || removeErr != nil {
		if addErr != nil {
			return nil, fmt.Errorf("membership update failed: %w", addErr)
		}
		return nil, fmt.Errorf("membership update failed: %w", removeErr)
	}

	group.Name = name
	group.Description = description
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(group).Error; err != nil {
			return err
		}
		// The AUTO tag follows the slugified group name; a rename projects
		// a new implicit tag and leaves the old one as an ordinary tag.
		return upsertAutoTag(tx, slug.Make(name), name)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup deletes a group and its membership rows. The group's implicit
// tag remains; without the group it is no longer AUTO and can be deleted
// like any other tag.
func (s *GroupService) DeleteGroup(groupID uuid.UUID) error {
	if _, err := s.GetGroupByID(groupID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}
