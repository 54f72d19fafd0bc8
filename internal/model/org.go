package model

import "time"

// Org 组织（租户）模型，所有业务数据按 org_id 隔离
type Org struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:组织ID" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex;comment:组织名称" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`

	// 关联关系
	Memberships []Membership `gorm:"foreignKey:OrgID" json:"memberships,omitempty"`
	Videos      []Video      `gorm:"foreignKey:OrgID" json:"videos,omitempty"`
}

func (Org) TableName() string {
	return "orgs"
}
