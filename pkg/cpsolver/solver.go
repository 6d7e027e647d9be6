// Package cpsolver 定义求解器契约并提供进程内参考后端。
// 任何满足 Solver 接口的后端（包括进程外服务）均可替换使用。
package cpsolver

import (
	"context"
	"errors"
	"time"

	"github.com/paiban/hupai/pkg/cpmodel"
)

// Status 求解状态
type Status string

const (
	// StatusOptimal 在时限内证明了最优性
	StatusOptimal Status = "OPTIMAL"
	// StatusFeasible 找到可行解但时限耗尽，未证明最优
	StatusFeasible Status = "FEASIBLE"
	// StatusInfeasible 证明了硬约束不可同时满足
	StatusInfeasible Status = "INFEASIBLE"
)

// ErrNoSolution 时限耗尽且既无可行解也无不可行证明
var ErrNoSolution = errors.New("时限耗尽，未找到可行解也未证明不可行")

// Params 求解资源限制
type Params struct {
	TimeLimit time.Duration `json:"time_limit"` // 墙钟时间预算
	Workers   int           `json:"workers"`    // 并行搜索工作数
	Seed      int64         `json:"seed"`       // 确定性种子（尽力保证可复现）
	EnableLog bool          `json:"enable_log"`
}

// DefaultParams 返回默认求解参数
func DefaultParams() Params {
	return Params{
		TimeLimit: 15 * time.Second,
		Workers:   8,
		Seed:      0,
	}
}

// Solution 求解结果
type Solution struct {
	Status    Status
	Objective int64
	BestBound int64 // 已证明的目标下界
	WallTime  time.Duration
	Conflicts int64
	Branches  int64

	values []int64 // 按变量ID索引
}

// Value 读取决策变量的取值
func (s *Solution) Value(v *cpmodel.Var) int64 {
	if s.values == nil || v.ID() >= len(s.values) {
		return 0
	}
	return s.values[v.ID()]
}

// HasValues 检查是否携带变量取值
func (s *Solution) HasValues() bool {
	return s.values != nil
}

// Solver 求解器接口
type Solver interface {
	// Solve 求解模型，阻塞直到完成或时限耗尽
	Solve(ctx context.Context, m *cpmodel.Model, p Params) (*Solution, error)

	// Name 返回求解器名称
	Name() string
}
