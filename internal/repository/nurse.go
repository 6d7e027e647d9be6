package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/model"
)

// NurseRepository 护士仓储
type NurseRepository struct {
	db DB
}

// NewNurseRepository 创建护士仓储
func NewNurseRepository(db DB) *NurseRepository {
	return &NurseRepository{db: db}
}

// Create 创建护士，工号重复时覆盖基础属性
func (r *NurseRepository) Create(ctx context.Context, n *model.Nurse) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	n.EmploymentType = model.NormalizeEmploymentType(n.EmploymentType)

	query := `
		INSERT INTO nurses (id, code, name, level, employment_type, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			level = EXCLUDED.level,
			employment_type = EXCLUDED.employment_type,
			unit = EXCLUDED.unit,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.Code, n.Name, n.Level, n.EmploymentType, n.Unit, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "创建护士失败")
	}
	return nil
}

// GetByCode 根据工号获取护士
func (r *NurseRepository) GetByCode(ctx context.Context, code string) (*model.Nurse, error) {
	query := `
		SELECT id, code, name, level, employment_type, unit, created_at, updated_at
		FROM nurses WHERE code = $1
	`
	n := &model.Nurse{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&n.ID, &n.Code, &n.Name, &n.Level, &n.EmploymentType, &n.Unit,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("护士 '%s' 不存在", code))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "查询护士失败")
	}
	return n, nil
}

// ListAll 按工号排序返回全部护士
func (r *NurseRepository) ListAll(ctx context.Context) ([]model.Nurse, error) {
	query := `
		SELECT id, code, name, level, employment_type, unit, created_at, updated_at
		FROM nurses ORDER BY code
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "查询护士列表失败")
	}
	defer rows.Close()

	var nurses []model.Nurse
	for rows.Next() {
		var n model.Nurse
		if err := rows.Scan(
			&n.ID, &n.Code, &n.Name, &n.Level, &n.EmploymentType, &n.Unit,
			&n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "读取护士记录失败")
		}
		nurses = append(nurses, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "遍历护士记录失败")
	}
	return nurses, nil
}

// Delete 删除护士及其全部偏好
func (r *NurseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM nurses WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "删除护士失败")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
