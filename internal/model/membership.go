package model

// 成员角色
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership 用户-组织成员关系模型，一个用户在一个组织内只有一个角色
type Membership struct {
	UserID int64  `gorm:"primaryKey;comment:用户ID" json:"user_id"`
	OrgID  int64  `gorm:"primaryKey;comment:组织ID" json:"org_id"`
	Role   string `gorm:"size:20;not null;comment:组织内角色" json:"role"`

	// 关联关系
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Org  Org  `gorm:"foreignKey:OrgID" json:"org,omitempty"`
}

func (Membership) TableName() string {
	return "memberships"
}
