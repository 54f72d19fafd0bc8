package repository

import (
	"ytsa-go/internal/model"

	"gorm.io/gorm"
)

type OrgRepository struct {
	db *gorm.DB
}

func NewOrgRepository(db *gorm.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

func (r *OrgRepository) Create(org *model.Org) error {
	return r.db.Create(org).Error
}

func (r *OrgRepository) GetByID(id int64) (*model.Org, error) {
	var org model.Org
	err := r.db.First(&org, id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrgRepository) GetByName(name string) (*model.Org, error) {
	var org model.Org
	err := r.db.Where("name = ?", name).First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// ExistsByName 组织名是否已占用（全局唯一）
func (r *OrgRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Org{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}
