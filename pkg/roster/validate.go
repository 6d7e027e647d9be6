package roster

import (
	"fmt"

	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/model"
)

// ValidateRequest 校验请求的结构完整性。
// 需求映射必须覆盖每个 (日期, 班次) 组合，缺失即失败且精确指出缺失项；
// 可用性与偏好是稀疏映射，缺失有明确定义的缺省语义，不在此校验。
func ValidateRequest(req *model.SolveRequest) error {
	if req == nil {
		return apperrors.InvalidInput("request", "请求体为空")
	}

	verrs := &apperrors.ValidationErrors{}
	if len(req.Days) == 0 {
		verrs.Add("days", "日期列表不能为空")
	}
	if len(req.Shifts) == 0 {
		verrs.Add("shifts", "班次列表不能为空")
	}
	if req.TimeLimitSec < 0 {
		verrs.Add("time_limit_sec", "时间预算不能为负")
	}
	if req.NumSearchWorkers < 0 {
		verrs.Add("num_search_workers", "搜索工作数不能为负")
	}
	if w := req.Weights; w != nil {
		if w.UnderstaffPenalty < 0 || w.OvertimePenalty < 0 || w.PreferencePenaltyMultiplier < 0 {
			verrs.Add("weights", "权重不能为负")
		}
	}
	if len(req.WeekIndexByDay) > 0 {
		for _, d := range req.Days {
			if _, ok := req.WeekIndexByDay[d]; !ok {
				verrs.Add("week_index_by_day", fmt.Sprintf("缺少日期 '%s' 的周桶", d))
			}
		}
	}
	for nurse, byDay := range req.Preferences {
		for day, byShift := range byDay {
			for shift, p := range byShift {
				if p < 0 {
					verrs.Add("preferences",
						fmt.Sprintf("护士 '%s' 在 (%s, %s) 的偏好惩罚为负", nurse, day, shift))
				}
			}
		}
	}
	if verrs.HasErrors() {
		return verrs.ToAppError()
	}

	for _, day := range req.Days {
		byShift, ok := req.Demand[day]
		if !ok {
			return apperrors.MissingDemand(day, "")
		}
		for _, shift := range req.Shifts {
			n, ok := byShift[shift]
			if !ok {
				return apperrors.MissingDemand(day, shift)
			}
			if n < 0 {
				return apperrors.InvalidInput("demand",
					fmt.Sprintf("(%s, %s) 的需求为负", day, shift))
			}
		}
	}
	return nil
}
