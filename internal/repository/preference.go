package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/model"
)

// PreferenceRepository 偏好记录仓储
type PreferenceRepository struct {
	db DB
}

// NewPreferenceRepository 创建偏好仓储
func NewPreferenceRepository(db DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Create 写入一条原始偏好记录
func (r *PreferenceRepository) Create(ctx context.Context, p *model.RawPreference) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO preferences (id, nurse_id, pref_type, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.NurseID, p.Type, []byte(p.Data), p.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "写入偏好记录失败")
	}
	return nil
}

// ListAll 按创建时间返回全部偏好记录
func (r *PreferenceRepository) ListAll(ctx context.Context) ([]model.RawPreference, error) {
	query := `
		SELECT id, nurse_id, pref_type, data, created_at
		FROM preferences ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "查询偏好记录失败")
	}
	defer rows.Close()

	var prefs []model.RawPreference
	for rows.Next() {
		var p model.RawPreference
		var data []byte
		if err := rows.Scan(&p.ID, &p.NurseID, &p.Type, &data, &p.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "读取偏好记录失败")
		}
		p.Data = data
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "遍历偏好记录失败")
	}
	return prefs, nil
}

// ListByNurse 返回某护士的全部偏好记录
func (r *PreferenceRepository) ListByNurse(ctx context.Context, nurseID uuid.UUID) ([]model.RawPreference, error) {
	query := `
		SELECT id, nurse_id, pref_type, data, created_at
		FROM preferences WHERE nurse_id = $1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, nurseID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "查询偏好记录失败")
	}
	defer rows.Close()

	var prefs []model.RawPreference
	for rows.Next() {
		var p model.RawPreference
		var data []byte
		if err := rows.Scan(&p.ID, &p.NurseID, &p.Type, &data, &p.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "读取偏好记录失败")
		}
		p.Data = data
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}
