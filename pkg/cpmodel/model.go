// Package cpmodel 定义约束规划模型的构建块：
// 布尔/整数决策变量、线性约束与最小化目标。
// 模型本身是纯数据，搜索由 cpsolver 的后端执行。
package cpmodel

import (
	"fmt"
	"math"
)

// VarKind 变量类别
type VarKind int

const (
	// KindBool 布尔变量，取值 {0,1}
	KindBool VarKind = iota
	// KindInt 有界整数变量
	KindInt
)

// Var 决策变量
type Var struct {
	id   int
	name string
	kind VarKind
	lo   int64
	hi   int64
}

// ID 返回变量在模型内的序号
func (v *Var) ID() int { return v.id }

// Name 返回变量名
func (v *Var) Name() string { return v.name }

// Kind 返回变量类别
func (v *Var) Kind() VarKind { return v.kind }

// Lo 返回下界
func (v *Var) Lo() int64 { return v.lo }

// Hi 返回上界
func (v *Var) Hi() int64 { return v.hi }

// Term 线性项 coeff * var
type Term struct {
	Var   *Var
	Coeff int64
}

// 无界哨兵值
const (
	NoLower = math.MinInt64
	NoUpper = math.MaxInt64
)

// LinearConstraint 线性约束 lo <= sum(terms) <= hi
type LinearConstraint struct {
	Name  string
	Terms []Term
	Lo    int64
	Hi    int64
}

// Model 约束规划模型
type Model struct {
	vars        []*Var
	constraints []*LinearConstraint
	objective   []Term // 最小化
}

// New 创建空模型
func New() *Model {
	return &Model{
		vars:        make([]*Var, 0),
		constraints: make([]*LinearConstraint, 0),
	}
}

// NewBoolVar 创建布尔变量
func (m *Model) NewBoolVar(name string) *Var {
	v := &Var{id: len(m.vars), name: name, kind: KindBool, lo: 0, hi: 1}
	m.vars = append(m.vars, v)
	return v
}

// NewIntVar 创建有界整数变量
func (m *Model) NewIntVar(lo, hi int64, name string) *Var {
	v := &Var{id: len(m.vars), name: name, kind: KindInt, lo: lo, hi: hi}
	m.vars = append(m.vars, v)
	return v
}

// AddLinear 添加线性约束 lo <= sum(terms) <= hi
func (m *Model) AddLinear(name string, terms []Term, lo, hi int64) {
	m.constraints = append(m.constraints, &LinearConstraint{
		Name:  name,
		Terms: terms,
		Lo:    lo,
		Hi:    hi,
	})
}

// AddEq 添加等式约束 sum(terms) == rhs
func (m *Model) AddEq(name string, terms []Term, rhs int64) {
	m.AddLinear(name, terms, rhs, rhs)
}

// AddLe 添加上界约束 sum(terms) <= hi
func (m *Model) AddLe(name string, terms []Term, hi int64) {
	m.AddLinear(name, terms, NoLower, hi)
}

// AddGe 添加下界约束 sum(terms) >= lo
func (m *Model) AddGe(name string, terms []Term, lo int64) {
	m.AddLinear(name, terms, lo, NoUpper)
}

// FixZero 将变量固定为0
func (m *Model) FixZero(v *Var) {
	m.AddEq(fmt.Sprintf("fix_%s", v.name), []Term{{Var: v, Coeff: 1}}, 0)
}

// Minimize 设置最小化目标
func (m *Model) Minimize(terms []Term) {
	m.objective = terms
}

// Vars 返回全部变量（按创建顺序）
func (m *Model) Vars() []*Var { return m.vars }

// Constraints 返回全部约束
func (m *Model) Constraints() []*LinearConstraint { return m.constraints }

// Objective 返回目标函数项
func (m *Model) Objective() []Term { return m.objective }

// NumVars 返回变量数量
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints 返回约束数量
func (m *Model) NumConstraints() int { return len(m.constraints) }

// Sum 构造单位系数的线性项列表
func Sum(vars ...*Var) []Term {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coeff: 1}
	}
	return terms
}

// Validate 检查模型结构完整性
func (m *Model) Validate() error {
	for _, v := range m.vars {
		if v.lo > v.hi {
			return fmt.Errorf("变量 %s 的定义域为空 [%d, %d]", v.name, v.lo, v.hi)
		}
	}
	for _, c := range m.constraints {
		if len(c.Terms) == 0 {
			return fmt.Errorf("约束 %s 没有任何项", c.Name)
		}
		for _, t := range c.Terms {
			if t.Var == nil {
				return fmt.Errorf("约束 %s 引用了空变量", c.Name)
			}
			if t.Var.id >= len(m.vars) || m.vars[t.Var.id] != t.Var {
				return fmt.Errorf("约束 %s 引用了不属于本模型的变量 %s", c.Name, t.Var.name)
			}
		}
	}
	for _, t := range m.objective {
		if t.Var == nil || t.Var.id >= len(m.vars) || m.vars[t.Var.id] != t.Var {
			return fmt.Errorf("目标函数引用了不属于本模型的变量")
		}
	}
	return nil
}
