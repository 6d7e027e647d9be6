package roster

import (
	"github.com/paiban/hupai/pkg/cpsolver"
	"github.com/paiban/hupai/pkg/model"
)

// infeasibleMessage 无可行解时的诊断说明
const infeasibleMessage = "未找到满足全部硬约束的排班方案，请放宽休息规则、技能要求或人员上下限"

// Decode 将求解结果转换为领域响应。
// 分配列表按 日期→班次→护士输入顺序 排列；
// INFEASIBLE 不是错误，返回空结果集合与诊断说明。
func Decode(bm *BuiltModel, sol *cpsolver.Solution) *model.SolveResponse {
	resp := &model.SolveResponse{
		Status:       string(sol.Status),
		Assignments:  []model.Assignment{},
		Understaffed: []model.UnderstaffItem{},
		NurseStats:   []model.NurseStats{},
		Details: &model.SolveDetails{
			BestBound:   sol.BestBound,
			WallTimeSec: sol.WallTime.Seconds(),
			Conflicts:   sol.Conflicts,
			Branches:    sol.Branches,
		},
	}
	if sol.Status == cpsolver.StatusInfeasible {
		resp.Details.Message = infeasibleMessage
		return resp
	}

	obj := sol.Objective
	resp.ObjectiveValue = &obj

	req := bm.Req
	for di, day := range req.Days {
		for si, shift := range req.Shifts {
			for ni, nurse := range req.Nurses {
				if sol.Value(bm.X[ni][di][si]) == 1 {
					resp.Assignments = append(resp.Assignments, model.Assignment{
						Day: day, Shift: shift, Nurse: nurse,
					})
				}
			}
			if missing := sol.Value(bm.Under[di][si]); missing > 0 {
				resp.Understaffed = append(resp.Understaffed, model.UnderstaffItem{
					Day: day, Shift: shift, Missing: int(missing),
				})
			}
		}
	}

	for ni, nurse := range req.Nurses {
		st := model.NurseStats{
			Nurse:    nurse,
			Overtime: sol.Value(bm.Over[ni]),
		}
		for di := range req.Days {
			for si := range req.Shifts {
				if sol.Value(bm.X[ni][di][si]) == 1 {
					st.AssignedShifts++
					if si == bm.nightIdx {
						st.Nights++
					}
				}
			}
		}
		resp.NurseStats = append(resp.NurseStats, st)
	}
	return resp
}
