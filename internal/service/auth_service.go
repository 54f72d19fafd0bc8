package service

import (
	"errors"

	"ytsa-go/internal/api/dto"
	"ytsa-go/internal/config"
	"ytsa-go/internal/model"
	"ytsa-go/internal/repository"
	"ytsa-go/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailExists       = errors.New("邮箱已注册")
	ErrOrgNameExists     = errors.New("组织名已存在")
	ErrInvalidCredential = errors.New("邮箱或密码错误")
	ErrNoMembership      = errors.New("用户不属于任何组织")
)

type AuthService struct {
	userRepo       *repository.UserRepository
	orgRepo        *repository.OrgRepository
	membershipRepo *repository.MembershipRepository
}

func NewAuthService(
	userRepo *repository.UserRepository,
	orgRepo *repository.OrgRepository,
	membershipRepo *repository.MembershipRepository,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
	}
}

// Signup 注册：同一事务内创建用户、组织，并把用户设为组织管理员
func (s *AuthService) Signup(req *dto.SignupRequest) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	taken, err := s.orgRepo.ExistsByName(req.OrgName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrOrgNameExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Email: req.Email, Password: hashedPassword}
	org := &model.Org{Name: req.OrgName}

	err = s.userRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		return tx.Create(&model.Membership{
			UserID: user.ID,
			OrgID:  org.ID,
			Role:   model.RoleAdmin,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &dto.UserInfo{
		ID:      user.ID,
		Email:   user.Email,
		OrgID:   org.ID,
		OrgName: org.Name,
		Role:    model.RoleAdmin,
	}, nil
}

// Login 登录，返回携带租户身份的 token
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	membership, err := s.membershipRepo.GetByUser(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		return nil, err
	}

	org, err := s.orgRepo.GetByID(membership.OrgID)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, membership.OrgID, membership.Role)
	if err != nil {
		return nil, err
	}

	expireSeconds := config.GetJWT().ExpireHours * 3600

	return &dto.TokenData{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: expireSeconds,
		User: dto.UserInfo{
			ID:      user.ID,
			Email:   user.Email,
			OrgID:   org.ID,
			OrgName: org.Name,
			Role:    membership.Role,
		},
	}, nil
}

// GetCurrentUser 根据用户 ID 获取用户及其组织信息
func (s *AuthService) GetCurrentUser(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	membership, err := s.membershipRepo.GetByUser(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		return nil, err
	}

	org, err := s.orgRepo.GetByID(membership.OrgID)
	if err != nil {
		return nil, err
	}

	return &dto.UserInfo{
		ID:      user.ID,
		Email:   user.Email,
		OrgID:   org.ID,
		OrgName: org.Name,
		Role:    membership.Role,
	}, nil
}
