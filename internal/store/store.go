// Package store persists console data in PostgreSQL (pgx) or SQLite.
//
// Both backends share the SQL in queries.go; they differ only in how a
// connection runs a statement and how driver errors are classified.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/moufette/console/internal/domain"
)

// Store is the persistence port used by handlers and the session query.
type Store interface {
	Ping(ctx context.Context) error
	Close()
	Migrate(ctx context.Context) error

	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error

	CreateProperty(ctx context.Context, p *domain.Property) error
	GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	GetPropertyByKey(ctx context.Context, key string) (*domain.Property, error)
	ListProperties(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error)

	GetWidgetSettings(ctx context.Context, propertyID uuid.UUID) (*domain.WidgetSettings, error)
	SaveWidgetSettings(ctx context.Context, s *domain.WidgetSettings) error

	CreateFeedback(ctx context.Context, f *domain.Feedback) error
	ListFeedbacks(ctx context.Context, propertyID uuid.UUID) ([]domain.Feedback, error)

	CreateFeature(ctx context.Context, f *domain.Feature) error
	ListFeatures(ctx context.Context, propertyID uuid.UUID) ([]domain.Feature, error)
	DeleteFeature(ctx context.Context, propertyID, id uuid.UUID) error
	VoteFeature(ctx context.Context, propertyID, id uuid.UUID) (int, error)

	CreateIntegration(ctx context.Context, in *domain.Integration) error
	ListIntegrations(ctx context.Context, propertyID uuid.UUID) ([]domain.Integration, error)
	DeleteIntegration(ctx context.Context, propertyID, id uuid.UUID) error
}

// Open connects to the database named by url. postgres:// and postgresql://
// use pgx; sqlite:// opens the file path after the scheme (":memory:" works).
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return OpenPostgres(ctx, url)
	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	}
	return nil, fmt.Errorf("unsupported database url scheme: %q", url)
}

type row interface {
	Scan(dest ...any) error
}

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// conn is the per-backend driver surface the shared store runs on.
type conn interface {
	exec(ctx context.Context, q string, args ...any) (int64, error)
	queryRow(ctx context.Context, q string, args ...any) row
	query(ctx context.Context, q string, args ...any) (rows, func(), error)
	ping(ctx context.Context) error
	close()
	schema() []string
	isNoRows(err error) bool
	isUniqueViolation(err error) bool
}

type sqlStore struct {
	db conn
}

func (s *sqlStore) Ping(ctx context.Context) error { return s.db.ping(ctx) }

func (s *sqlStore) Close() { s.db.close() }

// Migrate creates missing tables. Statements are idempotent.
func (s *sqlStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.db.schema() {
		if _, err := s.db.exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// notFound maps a driver "no rows" error to domain.ErrNotFound.
func (s *sqlStore) notFound(err error) error {
	if s.db.isNoRows(err) {
		return domain.ErrNotFound
	}
	return err
}

func (s *sqlStore) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.exec(ctx, qCreateUser, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if s.db.isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (s *sqlStore) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := s.db.queryRow(ctx, qGetUser, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, s.notFound(err)
	}
	return &u, nil
}

func (s *sqlStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.queryRow(ctx, qGetUserByEmail, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, s.notFound(err)
	}
	return &u, nil
}

func (s *sqlStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	n, err := s.db.exec(ctx, qUpdatePassword, hash, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *sqlStore) CreateProperty(ctx context.Context, p *domain.Property) error {
	_, err := s.db.exec(ctx, qCreateProperty, p.ID, p.OwnerID, p.Name, p.Domain, p.Key, p.CreatedAt)
	if s.db.isUniqueViolation(err) {
		return domain.ErrKeyTaken
	}
	return err
}

func (s *sqlStore) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var p domain.Property
	err := s.db.queryRow(ctx, qGetProperty, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Domain, &p.Key, &p.CreatedAt)
	if err != nil {
		return nil, s.notFound(err)
	}
	return &p, nil
}

func (s *sqlStore) GetPropertyByKey(ctx context.Context, key string) (*domain.Property, error) {
	var p domain.Property
	err := s.db.queryRow(ctx, qGetPropertyByKey, key).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Domain, &p.Key, &p.CreatedAt)
	if err != nil {
		return nil, s.notFound(err)
	}
	return &p, nil
}

func (s *sqlStore) ListProperties(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	rs, done, err := s.db.query(ctx, qListProperties, ownerID)
	if err != nil {
		return nil, err
	}
	defer done()

	var out []domain.Property
	for rs.Next() {
		var p domain.Property
		if err := rs.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Domain, &p.Key, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rs.Err()
}

func (s *sqlStore) GetWidgetSettings(ctx context.Context, propertyID uuid.UUID) (*domain.WidgetSettings, error) {
	var ws domain.WidgetSettings
	err := s.db.queryRow(ctx, qGetWidgetSettings, propertyID).
		Scan(&ws.PropertyID, &ws.AppName, &ws.PrimaryColor, &ws.Enabled, &ws.UpdatedAt)
	if err != nil {
		return nil, s.notFound(err)
	}
	return &ws, nil
}

func (s *sqlStore) SaveWidgetSettings(ctx context.Context, ws *domain.WidgetSettings) error {
	_, err := s.db.exec(ctx, qSaveWidgetSettings, ws.PropertyID, ws.AppName, ws.PrimaryColor, ws.Enabled, ws.UpdatedAt)
	return err
}

func (s *sqlStore) CreateFeedback(ctx context.Context, f *domain.Feedback) error {
	_, err := s.db.exec(ctx, qCreateFeedback, f.ID, f.PropertyID, f.Message, f.Email, f.Page, f.CreatedAt)
	return err
}

func (s *sqlStore) ListFeedbacks(ctx context.Context, propertyID uuid.UUID) ([]domain.Feedback, error) {
	rs, done, err := s.db.query(ctx, qListFeedbacks, propertyID)
	if err != nil {
		return nil, err
	}
	defer done()

	var out []domain.Feedback
	for rs.Next() {
		var f domain.Feedback
		if err := rs.Scan(&f.ID, &f.PropertyID, &f.Message, &f.Email, &f.Page, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rs.Err()
}

func (s *sqlStore) CreateFeature(ctx context.Context, f *domain.Feature) error {
	_, err := s.db.exec(ctx, qCreateFeature, f.ID, f.PropertyID, f.Title, f.Description, f.Votes, f.CreatedAt)
	return err
}

func (s *sqlStore) ListFeatures(ctx context.Context, propertyID uuid.UUID) ([]domain.Feature, error) {
	rs, done, err := s.db.query(ctx, qListFeatures, propertyID)
	if err != nil {
		return nil, err
	}
	defer done()

	var out []domain.Feature
	for rs.Next() {
		var f domain.Feature
		if err := rs.Scan(&f.ID, &f.PropertyID, &f.Title, &f.Description, &f.Votes, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rs.Err()
}

func (s *sqlStore) DeleteFeature(ctx context.Context, propertyID, id uuid.UUID) error {
	n, err := s.db.exec(ctx, qDeleteFeature, propertyID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *sqlStore) VoteFeature(ctx context.Context, propertyID, id uuid.UUID) (int, error) {
	var votes int
	if err := s.db.queryRow(ctx, qVoteFeature, propertyID, id).Scan(&votes); err != nil {
		return 0, s.notFound(err)
	}
	return votes, nil
}

func (s *sqlStore) CreateIntegration(ctx context.Context, in *domain.Integration) error {
	if len(in.TargetCipher) == 0 {
		return errors.New("integration target must be sealed before it is stored")
	}
	_, err := s.db.exec(ctx, qCreateIntegration,
		in.ID, in.PropertyID, string(in.Kind), in.TargetCipher, in.TargetNonce, in.Enabled, in.CreatedAt)
	return err
}

func (s *sqlStore) ListIntegrations(ctx context.Context, propertyID uuid.UUID) ([]domain.Integration, error) {
	rs, done, err := s.db.query(ctx, qListIntegrations, propertyID)
	if err != nil {
		return nil, err
	}
	defer done()

	var out []domain.Integration
	for rs.Next() {
		var in domain.Integration
		var kind string
		if err := rs.Scan(&in.ID, &in.PropertyID, &kind, &in.TargetCipher, &in.TargetNonce, &in.Enabled, &in.CreatedAt); err != nil {
			return nil, err
		}
		in.Kind = domain.IntegrationKind(kind)
		out = append(out, in)
	}
	return out, rs.Err()
}

func (s *sqlStore) DeleteIntegration(ctx context.Context, propertyID, id uuid.UUID) error {
	n, err := s.db.exec(ctx, qDeleteIntegration, propertyID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
