// Package model 定义护士排班引擎的核心数据模型
package model

// Weights 目标函数权重
type Weights struct {
	UnderstaffPenalty           int64 `json:"understaff_penalty"`            // 每缺一人的惩罚
	OvertimePenalty             int64 `json:"overtime_penalty"`              // 每超一个班次的惩罚
	PreferencePenaltyMultiplier int64 `json:"preference_penalty_multiplier"` // 偏好惩罚倍率
}

// DefaultWeights 返回默认权重
func DefaultWeights() Weights {
	return Weights{
		UnderstaffPenalty:           50,
		OvertimePenalty:             10,
		PreferencePenaltyMultiplier: 1,
	}
}

// SolveRequest 排班求解请求
// 稀疏嵌套映射的缺省语义：availability 缺失 => 可用；
// preferences 缺失 => 零惩罚；demand 缺失 => 验证失败（不补零）
type SolveRequest struct {
	Nurses []string `json:"nurses"`
	Days   []string `json:"days"`
	Shifts []string `json:"shifts"`

	// demand[day][shift] 必须覆盖每个 (day, shift) 组合
	Demand map[string]map[string]int `json:"demand"`

	MinTotalShiftsPerNurse map[string]int `json:"min_total_shifts_per_nurse,omitempty"`
	MaxTotalShiftsPerNurse map[string]int `json:"max_total_shifts_per_nurse,omitempty"`
	// MaxShiftsPerNurse 为历史遗留的单一上限别名，
	// 仅当 MaxTotalShiftsPerNurse 未给出对应护士时生效
	MaxShiftsPerNurse map[string]int `json:"max_shifts_per_nurse,omitempty"`

	// availability[nurse][day][shift] == 0 表示明确不可用
	Availability map[string]map[string]map[string]int `json:"availability,omitempty"`
	// preferences[nurse][day][shift] 为非负软惩罚
	Preferences map[string]map[string]map[string]int `json:"preferences,omitempty"`

	NurseSkills    map[string][]string                  `json:"nurse_skills,omitempty"`
	RequiredSkills map[string]map[string]map[string]int `json:"required_skills,omitempty"`

	// WeekIndexByDay 为显式周桶覆盖，给出时原样使用
	WeekIndexByDay map[string]int `json:"week_index_by_day,omitempty"`

	Weights *Weights `json:"weights,omitempty"`

	// 求解器资源限制
	TimeLimitSec     float64 `json:"time_limit_sec,omitempty"`
	NumSearchWorkers int     `json:"num_search_workers,omitempty"`
	RandomSeed       int64   `json:"random_seed,omitempty"`
}

// EffectiveWeights 返回请求权重，未给出时用默认值
func (r *SolveRequest) EffectiveWeights() Weights {
	if r.Weights == nil {
		return DefaultWeights()
	}
	return *r.Weights
}

// PrefPenalty 读取偏好惩罚，缺失即零
func (r *SolveRequest) PrefPenalty(nurse, day, shift string) int {
	if r.Preferences == nil {
		return 0
	}
	return r.Preferences[nurse][day][shift]
}

// IsAvailable 读取可用性，缺失即可用
func (r *SolveRequest) IsAvailable(nurse, day, shift string) bool {
	if r.Availability == nil {
		return true
	}
	byDay, ok := r.Availability[nurse]
	if !ok {
		return true
	}
	byShift, ok := byDay[day]
	if !ok {
		return true
	}
	v, ok := byShift[shift]
	if !ok {
		return true
	}
	return v != 0
}

// Assignment 一条排班分配
type Assignment struct {
	Day   string `json:"day"`
	Shift string `json:"shift"`
	Nurse string `json:"nurse"`
}

// UnderstaffItem 缺员项
type UnderstaffItem struct {
	Day     string `json:"day"`
	Shift   string `json:"shift"`
	Missing int    `json:"missing"`
}

// NurseStats 单个护士的排班统计
type NurseStats struct {
	Nurse          string `json:"nurse"`
	AssignedShifts int    `json:"assigned_shifts"`
	Overtime       int64  `json:"overtime"`
	Nights         int    `json:"nights"`
}

// FairnessSummary 排班公平性摘要
type FairnessSummary struct {
	MeanShifts   float64 `json:"mean_shifts"`
	MinShifts    int     `json:"min_shifts"`
	MaxShifts    int     `json:"max_shifts"`
	StdDevShifts float64 `json:"std_dev_shifts"`
	TotalNights  int     `json:"total_nights"`
	NightSpread  int     `json:"night_spread"` // 夜班数最多与最少护士之差
}

// SolveDetails 求解诊断信息
type SolveDetails struct {
	BestBound   int64            `json:"best_bound"`
	WallTimeSec float64          `json:"wall_time_sec"`
	Conflicts   int64            `json:"conflicts"`
	Branches    int64            `json:"branches"`
	Message     string           `json:"message,omitempty"`
	Fairness    *FairnessSummary `json:"fairness,omitempty"`
}

// SolveResponse 排班求解响应
// 无可行解不是错误：status 为 INFEASIBLE 且各结果集合为空
type SolveResponse struct {
	Status         string           `json:"status"`
	ObjectiveValue *int64           `json:"objective_value,omitempty"`
	Assignments    []Assignment     `json:"assignments"`
	Understaffed   []UnderstaffItem `json:"understaffed"`
	NurseStats     []NurseStats     `json:"nurse_stats"`
	Details        *SolveDetails    `json:"details,omitempty"`
}
