package cpsolver

import (
	"context"
	"math/rand"
	"time"

	"github.com/paiban/hupai/pkg/cpmodel"
)

// BnBSolver 分支定界参考后端。
// 对布尔变量做深度优先搜索，整数变量在叶子处按区间推导取值；
// 每次赋值增量维护各约束左端的取值区间，用于冲突检测与目标下界剪枝。
type BnBSolver struct{}

// NewBnBSolver 创建分支定界求解器
func NewBnBSolver() *BnBSolver {
	return &BnBSolver{}
}

// Name 返回求解器名称
func (s *BnBSolver) Name() string {
	return "branch_and_bound"
}

// Solve 求解模型
func (s *BnBSolver) Solve(ctx context.Context, m *cpmodel.Model, p Params) (*Solution, error) {
	return s.solve(ctx, m, p, p.Seed, false)
}

// solve 内部入口，组合搜索可通过 diversify 打乱取值顺序
func (s *BnBSolver) solve(ctx context.Context, m *cpmodel.Model, p Params, seed int64, diversify bool) (*Solution, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if p.TimeLimit <= 0 {
		p.TimeLimit = DefaultParams().TimeLimit
	}

	start := time.Now()
	sr := newSearch(ctx, m, start.Add(p.TimeLimit))

	if diversify {
		rng := rand.New(rand.NewSource(seed))
		sr.shake(rng)
	}

	rootBound := sr.objLowerBound()
	completed := sr.dfs(0)
	wall := time.Since(start)

	sol := &Solution{
		WallTime:  wall,
		Conflicts: sr.conflicts,
		Branches:  sr.branches,
	}

	switch {
	case completed && sr.hasIncumbent:
		sol.Status = StatusOptimal
		sol.Objective = sr.bestObj
		sol.BestBound = sr.bestObj
		sol.values = sr.best
	case completed:
		sol.Status = StatusInfeasible
		sol.BestBound = rootBound
	case sr.hasIncumbent:
		sol.Status = StatusFeasible
		sol.Objective = sr.bestObj
		sol.BestBound = rootBound
		sol.values = sr.best
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoSolution
	}
	return sol, nil
}

// occurrence 变量在某约束中的出现
type occurrence struct {
	ci    int
	coeff int64
}

// search 单次搜索的可变状态
type search struct {
	ctx      context.Context
	deadline time.Time

	vars []*cpmodel.Var // 按变量ID
	cons []*cpmodel.LinearConstraint
	occ  [][]occurrence // 按变量ID
	obj  []int64        // 目标系数，按变量ID

	bools []*cpmodel.Var
	ints  []*cpmodel.Var

	values   []int64
	assigned []bool
	prefOne  []bool // 布尔变量优先尝试的取值

	// 各约束左端在当前部分赋值下的取值区间
	curMin []int64
	curMax []int64

	best         []int64
	bestObj      int64
	hasIncumbent bool

	conflicts int64
	branches  int64
	ticks     int64
	aborted   bool
}

func newSearch(ctx context.Context, m *cpmodel.Model, deadline time.Time) *search {
	vars := m.Vars()
	cons := m.Constraints()

	sr := &search{
		ctx:      ctx,
		deadline: deadline,
		vars:     vars,
		cons:     cons,
		occ:      make([][]occurrence, len(vars)),
		obj:      make([]int64, len(vars)),
		values:   make([]int64, len(vars)),
		assigned: make([]bool, len(vars)),
		prefOne:  make([]bool, len(vars)),
		curMin:   make([]int64, len(cons)),
		curMax:   make([]int64, len(cons)),
	}

	for ci, c := range cons {
		for _, t := range c.Terms {
			id := t.Var.ID()
			sr.occ[id] = append(sr.occ[id], occurrence{ci: ci, coeff: t.Coeff})
			sr.curMin[ci] += minContrib(t.Var, t.Coeff)
			sr.curMax[ci] += maxContrib(t.Var, t.Coeff)
		}
	}
	for _, t := range m.Objective() {
		sr.obj[t.Var.ID()] += t.Coeff
	}
	for _, v := range vars {
		if v.Kind() == cpmodel.KindBool {
			sr.bools = append(sr.bools, v)
			// 无目标代价的变量先试1，有代价的先试0
			sr.prefOne[v.ID()] = sr.obj[v.ID()] <= 0
		} else {
			sr.ints = append(sr.ints, v)
		}
	}
	return sr
}

// shake 随机翻转部分取值偏好，供组合搜索做多样化
func (sr *search) shake(rng *rand.Rand) {
	for _, v := range sr.bools {
		if rng.Float64() < 0.25 {
			sr.prefOne[v.ID()] = !sr.prefOne[v.ID()]
		}
	}
}

func minContrib(v *cpmodel.Var, a int64) int64 {
	if a >= 0 {
		return a * v.Lo()
	}
	return a * v.Hi()
}

func maxContrib(v *cpmodel.Var, a int64) int64 {
	if a >= 0 {
		return a * v.Hi()
	}
	return a * v.Lo()
}

// fix 固定变量取值并增量更新相关约束区间，返回是否保持一致
func (sr *search) fix(v *cpmodel.Var, x int64) bool {
	id := v.ID()
	sr.values[id] = x
	sr.assigned[id] = true
	ok := true
	for _, o := range sr.occ[id] {
		sr.curMin[o.ci] += o.coeff*x - minContrib(v, o.coeff)
		sr.curMax[o.ci] += o.coeff*x - maxContrib(v, o.coeff)
		c := sr.cons[o.ci]
		if (c.Hi != cpmodel.NoUpper && sr.curMin[o.ci] > c.Hi) ||
			(c.Lo != cpmodel.NoLower && sr.curMax[o.ci] < c.Lo) {
			ok = false
		}
	}
	return ok
}

// unfix 撤销固定并恢复约束区间
func (sr *search) unfix(v *cpmodel.Var) {
	id := v.ID()
	x := sr.values[id]
	sr.assigned[id] = false
	for _, o := range sr.occ[id] {
		sr.curMin[o.ci] += minContrib(v, o.coeff) - o.coeff*x
		sr.curMax[o.ci] += maxContrib(v, o.coeff) - o.coeff*x
	}
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// impliedMin 未固定变量在当前部分赋值下可推导的最小取值
func (sr *search) impliedMin(v *cpmodel.Var) int64 {
	lo := v.Lo()
	for _, o := range sr.occ[v.ID()] {
		c := sr.cons[o.ci]
		if o.coeff > 0 && c.Lo != cpmodel.NoLower {
			othersMax := sr.curMax[o.ci] - maxContrib(v, o.coeff)
			if b := ceilDiv(c.Lo-othersMax, o.coeff); b > lo {
				lo = b
			}
		} else if o.coeff < 0 && c.Hi != cpmodel.NoUpper {
			othersMin := sr.curMin[o.ci] - minContrib(v, o.coeff)
			if b := ceilDiv(othersMin-c.Hi, -o.coeff); b > lo {
				lo = b
			}
		}
	}
	return lo
}

// impliedMax 未固定变量在当前部分赋值下可推导的最大取值
func (sr *search) impliedMax(v *cpmodel.Var) int64 {
	hi := v.Hi()
	for _, o := range sr.occ[v.ID()] {
		c := sr.cons[o.ci]
		if o.coeff > 0 && c.Hi != cpmodel.NoUpper {
			othersMin := sr.curMin[o.ci] - minContrib(v, o.coeff)
			if b := floorDiv(c.Hi-othersMin, o.coeff); b < hi {
				hi = b
			}
		} else if o.coeff < 0 && c.Lo != cpmodel.NoLower {
			othersMax := sr.curMax[o.ci] - maxContrib(v, o.coeff)
			if b := floorDiv(othersMax-c.Lo, -o.coeff); b < hi {
				hi = b
			}
		}
	}
	return hi
}

// objLowerBound 当前部分赋值下目标值的下界，
// 利用未固定整数变量的推导下界（如覆盖缺口被部分赋值强制抬高）。
func (sr *search) objLowerBound() int64 {
	var lb int64
	for id, coeff := range sr.obj {
		if coeff == 0 {
			continue
		}
		if sr.assigned[id] {
			lb += coeff * sr.values[id]
			continue
		}
		v := sr.vars[id]
		if coeff > 0 {
			lb += coeff * sr.impliedMin(v)
		} else {
			lb += coeff * v.Hi()
		}
	}
	return lb
}

// timedOut 周期性检查时限与取消
func (sr *search) timedOut() bool {
	if sr.aborted {
		return true
	}
	sr.ticks++
	if sr.ticks%1024 != 0 {
		return false
	}
	if sr.ctx.Err() != nil || time.Now().After(sr.deadline) {
		sr.aborted = true
	}
	return sr.aborted
}

// dfs 深度优先枚举布尔变量，返回搜索是否完整结束
func (sr *search) dfs(idx int) bool {
	if sr.timedOut() {
		return false
	}
	if idx == len(sr.bools) {
		sr.evalLeaf()
		return true
	}
	if sr.hasIncumbent && sr.objLowerBound() >= sr.bestObj {
		return true
	}

	v := sr.bools[idx]
	first := int64(0)
	if sr.prefOne[v.ID()] {
		first = 1
	}
	for _, x := range [2]int64{first, 1 - first} {
		sr.branches++
		if sr.fix(v, x) {
			if !sr.dfs(idx + 1) {
				sr.unfix(v)
				return false
			}
		} else {
			sr.conflicts++
		}
		sr.unfix(v)
		if sr.aborted {
			return false
		}
	}
	return true
}

// evalLeaf 布尔变量全部固定后，逐个推导整数变量区间并取值，
// 目标系数非负取下端，否则取上端；区间为空则该叶子不可行。
func (sr *search) evalLeaf() {
	fixed := 0
	feasible := true
	for _, v := range sr.ints {
		lo := sr.impliedMin(v)
		hi := sr.impliedMax(v)
		if lo > hi {
			feasible = false
			break
		}
		x := lo
		if sr.obj[v.ID()] < 0 {
			x = hi
		}
		if !sr.fix(v, x) {
			feasible = false
			fixed++
			break
		}
		fixed++
	}

	if feasible {
		// 全部变量已固定，区间收缩为单点，精确校验每条约束
		for ci, c := range sr.cons {
			lhs := sr.curMin[ci]
			if (c.Lo != cpmodel.NoLower && lhs < c.Lo) ||
				(c.Hi != cpmodel.NoUpper && lhs > c.Hi) {
				feasible = false
				break
			}
		}
	}

	if feasible {
		var obj int64
		for id, coeff := range sr.obj {
			if coeff != 0 {
				obj += coeff * sr.values[id]
			}
		}
		if !sr.hasIncumbent || obj < sr.bestObj {
			sr.bestObj = obj
			sr.best = append(sr.best[:0], sr.values...)
			sr.hasIncumbent = true
		}
	} else {
		sr.conflicts++
	}

	for i := fixed - 1; i >= 0; i-- {
		sr.unfix(sr.ints[i])
	}
}
