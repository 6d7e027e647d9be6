package roster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paiban/hupai/pkg/cpmodel"
	"github.com/paiban/hupai/pkg/model"
)

// BuiltModel 构建完成的约束模型及其变量索引
type BuiltModel struct {
	Model *cpmodel.Model

	// X[护士][日期][班次] 为布尔分配变量
	X [][][]*cpmodel.Var
	// Under[日期][班次] 为覆盖缺口变量，取值 [0, 护士数]
	Under [][]*cpmodel.Var
	// Over[护士] 为加班变量，取值 [0, 日期数×班次数]
	Over []*cpmodel.Var

	Req       *model.SolveRequest
	WeekIndex map[string]int

	nightIdx   int // 夜班在班次列表中的位置，-1表示不存在
	morningIdx int

	falseVar *cpmodel.Var // 懒创建的恒0变量，用于表达无人具备某技能时的不可满足
}

func isNightShift(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "night")
}

func isMorningShift(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "morning")
}

// BuildModel 从已验证的请求组装约束模型。
// 硬约束：覆盖等式（缺口吸收差额）、每人每天至多一班、明确不可用强制为0、
// 总班次上下限（上限差额计入加班）、夜班后不接早班、周桶内夜班至多2个、
// 周桶内至少休息2天（仅对大小≥2的桶生效）、技能覆盖下限。
func BuildModel(req *model.SolveRequest, weekIdx map[string]int) *BuiltModel {
	m := cpmodel.New()
	nurses, days, shifts := req.Nurses, req.Days, req.Shifts
	nN, nD, nS := len(nurses), len(days), len(shifts)

	bm := &BuiltModel{
		Model:      m,
		Req:        req,
		WeekIndex:  weekIdx,
		nightIdx:   -1,
		morningIdx: -1,
	}
	for si, s := range shifts {
		if bm.nightIdx < 0 && isNightShift(s) {
			bm.nightIdx = si
		}
		if bm.morningIdx < 0 && isMorningShift(s) {
			bm.morningIdx = si
		}
	}

	bm.X = make([][][]*cpmodel.Var, nN)
	for ni, nurse := range nurses {
		bm.X[ni] = make([][]*cpmodel.Var, nD)
		for di, day := range days {
			bm.X[ni][di] = make([]*cpmodel.Var, nS)
			for si, shift := range shifts {
				bm.X[ni][di][si] = m.NewBoolVar(fmt.Sprintf("x[%s][%s][%s]", nurse, day, shift))
			}
		}
	}
	bm.Under = make([][]*cpmodel.Var, nD)
	for di, day := range days {
		bm.Under[di] = make([]*cpmodel.Var, nS)
		for si, shift := range shifts {
			bm.Under[di][si] = m.NewIntVar(0, int64(nN), fmt.Sprintf("under[%s][%s]", day, shift))
		}
	}
	bm.Over = make([]*cpmodel.Var, nN)
	for ni, nurse := range nurses {
		bm.Over[ni] = m.NewIntVar(0, int64(nD*nS), fmt.Sprintf("over[%s]", nurse))
	}

	// 覆盖等式：分配数 + 缺口 == 需求
	for di, day := range days {
		for si, shift := range shifts {
			terms := make([]cpmodel.Term, 0, nN+1)
			for ni := range nurses {
				terms = append(terms, cpmodel.Term{Var: bm.X[ni][di][si], Coeff: 1})
			}
			terms = append(terms, cpmodel.Term{Var: bm.Under[di][si], Coeff: 1})
			m.AddEq(fmt.Sprintf("coverage[%s][%s]", day, shift),
				terms, int64(req.Demand[day][shift]))
		}
	}

	// 每人每天至多一班
	for ni, nurse := range nurses {
		for di, day := range days {
			m.AddLe(fmt.Sprintf("one_shift[%s][%s]", nurse, day),
				cpmodel.Sum(bm.X[ni][di]...), 1)
		}
	}

	// 明确不可用的分配强制为0
	for ni, nurse := range nurses {
		for di, day := range days {
			for si, shift := range shifts {
				if !req.IsAvailable(nurse, day, shift) {
					m.FixZero(bm.X[ni][di][si])
				}
			}
		}
	}

	// 总班次上下限：total - over <= max，total >= min。
	// 上限依次取显式上限、历史遗留别名、日期总数（等同无上限）
	for ni, nurse := range nurses {
		total := make([]cpmodel.Term, 0, nD*nS)
		for di := range days {
			for si := range shifts {
				total = append(total, cpmodel.Term{Var: bm.X[ni][di][si], Coeff: 1})
			}
		}
		maxShifts := nD
		if v, ok := req.MaxTotalShiftsPerNurse[nurse]; ok {
			maxShifts = v
		} else if v, ok := req.MaxShiftsPerNurse[nurse]; ok {
			maxShifts = v
		}
		withOver := append(append([]cpmodel.Term{}, total...),
			cpmodel.Term{Var: bm.Over[ni], Coeff: -1})
		m.AddLe(fmt.Sprintf("max_total[%s]", nurse), withOver, int64(maxShifts))
		if minShifts := req.MinTotalShiftsPerNurse[nurse]; minShifts > 0 {
			m.AddGe(fmt.Sprintf("min_total[%s]", nurse), total, int64(minShifts))
		}
	}

	// 夜班后第二天不排早班
	if bm.nightIdx >= 0 && bm.morningIdx >= 0 {
		for ni, nurse := range nurses {
			for di := 0; di+1 < nD; di++ {
				m.AddLe(fmt.Sprintf("night_rest[%s][%s]", nurse, days[di]),
					cpmodel.Sum(bm.X[ni][di][bm.nightIdx], bm.X[ni][di+1][bm.morningIdx]), 1)
			}
		}
	}

	buckets := bucketDays(days, weekIdx)
	bucketIDs := sortedBucketIDs(buckets)

	// 每周桶夜班至多2个
	if bm.nightIdx >= 0 {
		for ni, nurse := range nurses {
			for _, b := range bucketIDs {
				vars := make([]*cpmodel.Var, 0, len(buckets[b]))
				for _, di := range buckets[b] {
					vars = append(vars, bm.X[ni][di][bm.nightIdx])
				}
				m.AddLe(fmt.Sprintf("night_cap[%s][w%d]", nurse, b),
					cpmodel.Sum(vars...), 2)
			}
		}
	}

	// 每周桶至少休息2天：桶内总分配 <= 桶大小-2。
	// 单日桶不施加此约束，否则该日将无法排任何班
	for ni, nurse := range nurses {
		for _, b := range bucketIDs {
			w := len(buckets[b])
			if w < 2 {
				continue
			}
			terms := make([]cpmodel.Term, 0, w*nS)
			for _, di := range buckets[b] {
				for si := range shifts {
					terms = append(terms, cpmodel.Term{Var: bm.X[ni][di][si], Coeff: 1})
				}
			}
			m.AddLe(fmt.Sprintf("rest_days[%s][w%d]", nurse, b), terms, int64(w-2))
		}
	}

	// 技能覆盖下限：仅统计具备该技能的护士
	for di, day := range days {
		byShift := req.RequiredSkills[day]
		if byShift == nil {
			continue
		}
		for si, shift := range shifts {
			for skill, count := range byShift[shift] {
				if count <= 0 {
					continue
				}
				vars := make([]*cpmodel.Var, 0, nN)
				for ni, nurse := range nurses {
					if hasSkill(req.NurseSkills[nurse], skill) {
						vars = append(vars, bm.X[ni][di][si])
					}
				}
				name := fmt.Sprintf("skill[%s][%s][%s]", day, shift, skill)
				if len(vars) == 0 {
					// 无人具备该技能，需求不可能满足
					m.AddGe(name, cpmodel.Sum(bm.alwaysZero()), int64(count))
					continue
				}
				m.AddGe(name, cpmodel.Sum(vars...), int64(count))
			}
		}
	}

	bm.buildObjective()
	return bm
}

// alwaysZero 返回恒为0的布尔变量
func (bm *BuiltModel) alwaysZero() *cpmodel.Var {
	if bm.falseVar == nil {
		bm.falseVar = bm.Model.NewBoolVar("always_zero")
		bm.Model.FixZero(bm.falseVar)
	}
	return bm.falseVar
}

// buildObjective 最小化 缺员惩罚·Σ缺口 + 加班惩罚·Σ加班 + 倍率·Σ(偏好惩罚·分配)，
// 偏好项仅包含非零惩罚的条目
func (bm *BuiltModel) buildObjective() {
	req := bm.Req
	w := req.EffectiveWeights()
	var terms []cpmodel.Term

	for di := range req.Days {
		for si := range req.Shifts {
			if w.UnderstaffPenalty != 0 {
				terms = append(terms, cpmodel.Term{Var: bm.Under[di][si], Coeff: w.UnderstaffPenalty})
			}
		}
	}
	for ni := range req.Nurses {
		if w.OvertimePenalty != 0 {
			terms = append(terms, cpmodel.Term{Var: bm.Over[ni], Coeff: w.OvertimePenalty})
		}
	}
	if w.PreferencePenaltyMultiplier != 0 {
		for ni, nurse := range req.Nurses {
			for di, day := range req.Days {
				for si, shift := range req.Shifts {
					if p := req.PrefPenalty(nurse, day, shift); p > 0 {
						terms = append(terms, cpmodel.Term{
							Var:   bm.X[ni][di][si],
							Coeff: w.PreferencePenaltyMultiplier * int64(p),
						})
					}
				}
			}
		}
	}
	bm.Model.Minimize(terms)
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if s == want {
			return true
		}
	}
	return false
}

func sortedBucketIDs(buckets map[int][]int) []int {
	ids := make([]int, 0, len(buckets))
	for b := range buckets {
		ids = append(ids, b)
	}
	sort.Ints(ids)
	return ids
}
