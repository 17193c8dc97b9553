package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/auth/domain"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/config"
	"github.com/finbooks/salesdesk/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	sessionTTL time.Duration
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("auth.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		sessionTTL: p.Config.SessionTTL(),
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.repo.FindUserByUsername(ctx, s.db, strings.TrimSpace(req.Username))
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil {
		// Burn a comparison anyway so missing and wrong-password
		// logins take comparable time.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000"), []byte(req.Password))
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	now := s.clock.Now().UTC()
	session := domain.Session{
		ID:        s.genID.Generate(),
		Token:     newToken(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.repo.InsertSession(ctx, s.db, &session); err != nil {
		return domain.LoginResponse{}, err
	}

	s.log.Info("user logged in", zap.String("username", user.Username))
	return domain.LoginResponse{Token: session.Token, User: viewOf(user)}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, s.db, token)
}

func (s *Service) Authenticate(ctx context.Context, token string) (domain.UserView, error) {
	if token == "" {
		return domain.UserView{}, domain.ErrInvalidCredentials
	}
	session, err := s.repo.FindSessionByToken(ctx, s.db, token)
	if err != nil {
		return domain.UserView{}, err
	}
	if session == nil {
		return domain.UserView{}, domain.ErrInvalidCredentials
	}
	if s.clock.Now().UTC().After(session.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, s.db, token)
		return domain.UserView{}, domain.ErrSessionExpired
	}

	user, err := s.repo.FindUserByID(ctx, s.db, session.UserID)
	if err != nil {
		return domain.UserView{}, err
	}
	if user == nil {
		return domain.UserView{}, domain.ErrInvalidCredentials
	}
	return viewOf(user), nil
}

// CreateUser hashes the password and drops the new account into the
// app_user group. Admin rights come only from group membership changes
// made out of band.
func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.UserView, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.UserView{}, domain.ErrInvalidUsername
	}
	if len(req.Password) < 8 {
		return domain.UserView{}, domain.ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserView{}, err
	}

	now := s.clock.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertUser(ctx, tx, &user); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateUsername
			}
			return err
		}
		group, err := s.ensureGroup(ctx, tx, domain.GroupAppUser)
		if err != nil {
			return err
		}
		return s.repo.AddUserToGroup(ctx, tx, &user, group)
	})
	if err != nil {
		return domain.UserView{}, err
	}
	return viewOf(&user), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.UserView, error) {
	users, err := s.repo.ListUsers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	views := make([]domain.UserView, 0, len(users))
	for _, user := range users {
		if user != nil {
			views = append(views, viewOf(user))
		}
	}
	return views, nil
}

func (s *Service) DeleteUser(ctx context.Context, id snowflake.ID) error {
	user, err := s.repo.FindUserByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteSessionsForUser(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.DeleteUser(ctx, tx, id)
	})
}

func (s *Service) ensureGroup(ctx context.Context, tx *gorm.DB, name string) (*domain.Group, error) {
	group, err := s.repo.FindGroupByName(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	if group != nil {
		return group, nil
	}
	group = &domain.Group{ID: s.genID.Generate(), Name: name}
	if err := s.repo.InsertGroup(ctx, tx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func newToken() string {
	return uuid.NewString() + uuid.NewString()
}

func viewOf(user *domain.User) domain.UserView {
	return domain.UserView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role(),
	}
}
