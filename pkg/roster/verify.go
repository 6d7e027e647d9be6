package roster

import (
	"fmt"

	"github.com/paiban/hupai/pkg/model"
)

// Verify 对响应中的排班做独立的硬约束复核，返回违规描述列表。
// 空列表表示解通过全部复核。与构建器相互独立，用于上线前的保险校验。
func Verify(req *model.SolveRequest, weekIdx map[string]int, resp *model.SolveResponse) []string {
	var violations []string
	if resp.Status == "INFEASIBLE" {
		return violations
	}

	type slot struct{ day, shift string }
	assignedCount := make(map[slot]int)
	byNurseDay := make(map[string]map[string]int)     // 护士→日期→班数
	nurseDayShift := make(map[string]map[string]bool) // 护士|日期 → 班次集合
	for _, a := range resp.Assignments {
		assignedCount[slot{a.Day, a.Shift}]++
		if byNurseDay[a.Nurse] == nil {
			byNurseDay[a.Nurse] = make(map[string]int)
		}
		byNurseDay[a.Nurse][a.Day]++
		key := a.Nurse + "|" + a.Day
		if nurseDayShift[key] == nil {
			nurseDayShift[key] = make(map[string]bool)
		}
		nurseDayShift[key][a.Shift] = true

		if !req.IsAvailable(a.Nurse, a.Day, a.Shift) {
			violations = append(violations,
				fmt.Sprintf("护士 %s 在 (%s, %s) 明确不可用但被排班", a.Nurse, a.Day, a.Shift))
		}
	}

	missing := make(map[slot]int)
	for _, u := range resp.Understaffed {
		missing[slot{u.Day, u.Shift}] = u.Missing
	}

	// 覆盖恒等式
	for _, day := range req.Days {
		for _, shift := range req.Shifts {
			s := slot{day, shift}
			if got := assignedCount[s] + missing[s]; got != req.Demand[day][shift] {
				violations = append(violations,
					fmt.Sprintf("(%s, %s) 覆盖恒等式不成立: 分配%d + 缺口%d != 需求%d",
						day, shift, assignedCount[s], missing[s], req.Demand[day][shift]))
			}
		}
	}

	// 每人每天至多一班
	for nurse, byDay := range byNurseDay {
		for day, n := range byDay {
			if n > 1 {
				violations = append(violations,
					fmt.Sprintf("护士 %s 在 %s 被排了 %d 个班", nurse, day, n))
			}
		}
	}

	nightShift, morningShift := "", ""
	for _, s := range req.Shifts {
		if nightShift == "" && isNightShift(s) {
			nightShift = s
		}
		if morningShift == "" && isMorningShift(s) {
			morningShift = s
		}
	}

	// 夜班后不接早班
	if nightShift != "" && morningShift != "" {
		for _, nurse := range req.Nurses {
			for i := 0; i+1 < len(req.Days); i++ {
				night := nurseDayShift[nurse+"|"+req.Days[i]][nightShift]
				morning := nurseDayShift[nurse+"|"+req.Days[i+1]][morningShift]
				if night && morning {
					violations = append(violations,
						fmt.Sprintf("护士 %s 在 %s 夜班后于 %s 被排早班",
							nurse, req.Days[i], req.Days[i+1]))
				}
			}
		}
	}

	buckets := bucketDays(req.Days, weekIdx)
	for _, nurse := range req.Nurses {
		for b, dayIdxs := range buckets {
			nights, total := 0, 0
			for _, di := range dayIdxs {
				day := req.Days[di]
				total += byNurseDay[nurse][day]
				if nightShift != "" && nurseDayShift[nurse+"|"+day][nightShift] {
					nights++
				}
			}
			if nightShift != "" && nights > 2 {
				violations = append(violations,
					fmt.Sprintf("护士 %s 在周桶 %d 内有 %d 个夜班", nurse, b, nights))
			}
			if w := len(dayIdxs); w >= 2 && total > w-2 {
				violations = append(violations,
					fmt.Sprintf("护士 %s 在周桶 %d 内排班 %d 天，休息不足2天", nurse, b, total))
			}
		}
	}
	return violations
}
