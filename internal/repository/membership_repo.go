package repository

import (
	"ytsa-go/internal/model"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(m *model.Membership) error {
	return r.db.Create(m).Error
}

// GetByUser 查询用户的成员关系（当前每个用户只属于一个组织，取第一条）
func (r *MembershipRepository) GetByUser(userID int64) (*model.Membership, error) {
	var m model.Membership
	err := r.db.Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetRole 查询用户在指定组织内的角色
func (r *MembershipRepository) GetRole(userID, orgID int64) (string, error) {
	var m model.Membership
	err := r.db.Where("user_id = ? AND org_id = ?", userID, orgID).First(&m).Error
	if err != nil {
		return "", err
	}
	return m.Role, nil
}
