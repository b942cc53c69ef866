package auth

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/models"
)

var (
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrInactiveUser       = errors.New("user account is disabled")
)

const minPasswordLength = 5

var (
	userPermissions  = models.PermissionList{"user-read", "user-write"}
	adminPermissions = models.PermissionList{"user-read", "user-write", "user-delete", "user-update"}
)

// Service owns users, roles and credentials. It is constructed once in main
// and passed into handlers and middleware; nothing here is process-global.
type Service struct {
	db     *gorm.DB
	secret []byte
}

func NewService(db *gorm.DB, secret []byte) *Service {
	return &Service{db: db, secret: secret}
}

// Register creates an active user with a bcrypt-hashed password and grants
// the customer role.
func (s *Service) Register(email, username, password string) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: string(hash),
		Active:   true,
	}
	if username != "" {
		user.Username = &username
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	if err := s.EnsureRole(&user, "user", "Storefront customer", userPermissions); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials, records login telemetry and returns the user
// together with a signed token.
func (s *Service) Login(email, password, ip string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.Active {
		return nil, "", ErrInactiveUser
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	// Every authenticated caller carries the customer role, admins included.
	if err := s.EnsureRole(&user, "user", "Storefront customer", userPermissions); err != nil {
		return nil, "", err
	}
	if err := s.db.Preload("Roles").First(&user, user.ID).Error; err != nil {
		return nil, "", err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_login_at":    user.CurrentLoginAt,
		"last_login_ip":    user.CurrentLoginIP,
		"current_login_at": now,
		"current_login_ip": ip,
		"login_count":      user.LoginCount + 1,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, "", err
	}
	user.LastLoginAt = user.CurrentLoginAt
	user.LastLoginIP = user.CurrentLoginIP
	user.CurrentLoginAt = &now
	user.CurrentLoginIP = ip
	user.LoginCount++

	token, err := IssueToken(s.secret, user.ID, user.Email, user.RoleNames())
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GetUser loads a user with roles, as needed by the auth middleware.
func (s *Service) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Roles").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateRole returns the named role, creating it on first use.
func (s *Service) FindOrCreateRole(name, description string, permissions models.PermissionList) (*models.Role, error) {
	var role models.Role
	err := s.db.Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = models.Role{Name: name, Description: description, Permissions: permissions}
		if err := s.db.Create(&role).Error; err != nil {
			return nil, err
		}
		return &role, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// EnsureRole grants the named role to the user if not already present,
// creating the role on demand. Idempotent.
func (s *Service) EnsureRole(user *models.User, name, description string, permissions models.PermissionList) error {
	if user.HasRole(name) {
		return nil
	}
	role, err := s.FindOrCreateRole(name, description, permissions)
	if err != nil {
		return err
	}
	if err := s.db.Model(user).Association("Roles").Append(role); err != nil {
		return err
	}
	return nil
}

// Seed makes sure the admin role and the configured admin account exist.
// Safe to run on every startup.
func (s *Service) Seed(adminEmail, adminPassword string) error {
	if _, err := s.FindOrCreateRole("admin", "Store manager", adminPermissions); err != nil {
		return err
	}

	var user models.User
	err := s.db.Preload("Roles").Where("email = ?", adminEmail).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user = models.User{Email: adminEmail, Password: string(hash), Active: true}
		if err := s.db.Create(&user).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return s.EnsureRole(&user, "admin", "Store manager", adminPermissions)
}
