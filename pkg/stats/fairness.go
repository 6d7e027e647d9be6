// Package stats 提供排班结果的统计摘要
package stats

import (
	"math"

	"github.com/paiban/hupai/pkg/model"
)

// Summarize 汇总各护士的班次分布，衡量排班公平性。
// 空统计列表返回 nil。
func Summarize(nurseStats []model.NurseStats) *model.FairnessSummary {
	if len(nurseStats) == 0 {
		return nil
	}

	s := &model.FairnessSummary{
		MinShifts: nurseStats[0].AssignedShifts,
		MaxShifts: nurseStats[0].AssignedShifts,
	}
	var sum int
	minNights, maxNights := nurseStats[0].Nights, nurseStats[0].Nights
	for _, st := range nurseStats {
		sum += st.AssignedShifts
		if st.AssignedShifts < s.MinShifts {
			s.MinShifts = st.AssignedShifts
		}
		if st.AssignedShifts > s.MaxShifts {
			s.MaxShifts = st.AssignedShifts
		}
		s.TotalNights += st.Nights
		if st.Nights < minNights {
			minNights = st.Nights
		}
		if st.Nights > maxNights {
			maxNights = st.Nights
		}
	}
	n := float64(len(nurseStats))
	s.MeanShifts = float64(sum) / n
	s.NightSpread = maxNights - minNights

	var sq float64
	for _, st := range nurseStats {
		d := float64(st.AssignedShifts) - s.MeanShifts
		sq += d * d
	}
	s.StdDevShifts = math.Sqrt(sq / n)
	return s
}
