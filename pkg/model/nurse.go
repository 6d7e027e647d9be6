// Package model 定义护士排班引擎的核心数据模型
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmploymentType 雇佣类型
const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentContract = "contract"
)

// Nurse 护士档案（原始存储形状，仅 normalizer 允许读取）
type Nurse struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"` // 排班编号，如 N001
	Name           string    `json:"name" db:"name"`
	Level          int       `json:"level" db:"level"` // 职级，>=2 视为资深
	EmploymentType string    `json:"employment_type" db:"employment_type"`
	Unit           string    `json:"unit" db:"unit"` // 所属科室
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// 偏好记录类型
const (
	PrefTypeShifts       = "preferred_shifts"
	PrefTypeDaysOff      = "preferred_days_off"
	PrefTypeUnrecognized = "unrecognized"
)

// RawPreference 原始偏好记录（上游持久化协作方的形状）
// Data 为松散的JSON编码负载，结构因 Type 而异
type RawPreference struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	NurseID   uuid.UUID       `json:"nurse_id" db:"nurse_id"`
	Type      string          `json:"preference_type" db:"preference_type"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DayOffRequest 休假偏好负载
type DayOffRequest struct {
	Date string      `json:"date"`
	Rank interface{} `json:"rank"` // 1..3，上游数据质量不可靠，解码时兜底
}

// NormalizeEmploymentType 归一化雇佣类型的各种别名写法
func NormalizeEmploymentType(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "full-time", "full time", "fulltime", "ft", EmploymentFullTime:
		return EmploymentFullTime
	case "part-time", "part time", "parttime", "pt", EmploymentPartTime:
		return EmploymentPartTime
	case "contract", "temp", "temporary":
		return EmploymentContract
	case "":
		return EmploymentFullTime
	}
	return v
}

// IsSenior 检查是否为资深护士
func (n *Nurse) IsSenior() bool {
	return n.Level >= 2
}
