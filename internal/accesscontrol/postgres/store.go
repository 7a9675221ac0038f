package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/talentra/hiring-management/internal/accesscontrol"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements the accesscontrol lookup and grant interfaces over GORM.
// Job ownership company is derived transitively through the creating user's
// company, matching the derivation the resolver documents.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type grantRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	JobID     string    `gorm:"column:job_id;uniqueIndex:idx_job_user"`
	UserID    string    `gorm:"column:user_id;uniqueIndex:idx_job_user"`
	Tier      string    `gorm:"column:tier;not null"`
	GrantedBy string    `gorm:"column:granted_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (grantRow) TableName() string {
	return "job_permissions"
}

func (s *Store) GetUser(ctx context.Context, userID string) (*accesscontrol.User, error) {
	var user accesscontrol.User
	row := s.db.WithContext(ctx).
		Raw(`SELECT id, company_id, role FROM users WHERE id = ? AND is_active = true`, userID).
		Row()
	if err := row.Scan(&user.ID, &user.CompanyID, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accesscontrol.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*accesscontrol.Job, error) {
	var job accesscontrol.Job
	row := s.db.WithContext(ctx).
		Raw(`SELECT j.id, j.created_by, u.company_id
		     FROM jobs j
		     JOIN users u ON u.id = j.created_by
		     WHERE j.id = ?`, jobID).
		Row()
	if err := row.Scan(&job.ID, &job.OwnerUserID, &job.OwnerCompanyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accesscontrol.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (s *Store) GetGrant(ctx context.Context, jobID, userID string) (*accesscontrol.Grant, error) {
	var row grantRow
	err := s.db.WithContext(ctx).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accesscontrol.ErrNotFound
		}
		return nil, err
	}
	return rowToGrant(&row), nil
}

// UpsertGrant inserts or overwrites the single grant for (job, user). Last
// write wins; concurrent writers race at the database, not here.
func (s *Store) UpsertGrant(ctx context.Context, grant *accesscontrol.Grant) error {
	row := grantRow{
		ID:        grant.ID,
		JobID:     grant.JobID,
		UserID:    grant.UserID,
		Tier:      string(grant.Tier),
		GrantedBy: grant.GrantedBy,
		CreatedAt: grant.CreatedAt,
		UpdatedAt: grant.UpdatedAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tier", "granted_by", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *Store) DeleteGrant(ctx context.Context, jobID, userID string) error {
	return s.db.WithContext(ctx).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Delete(&grantRow{}).Error
}

func (s *Store) ListGrantsForJob(ctx context.Context, jobID string) ([]*accesscontrol.Grant, error) {
	var rows []grantRow
	err := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	grants := make([]*accesscontrol.Grant, len(rows))
	for i := range rows {
		grants[i] = rowToGrant(&rows[i])
	}
	return grants, nil
}

func rowToGrant(row *grantRow) *accesscontrol.Grant {
	return &accesscontrol.Grant{
		ID:        row.ID,
		JobID:     row.JobID,
		UserID:    row.UserID,
		Tier:      accesscontrol.Tier(row.Tier),
		GrantedBy: row.GrantedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
