package stats

import (
	"math"
	"testing"

	"github.com/paiban/hupai/pkg/model"
)

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); got != nil {
		t.Errorf("空列表应返回 nil: %+v", got)
	}
	if got := Summarize([]model.NurseStats{}); got != nil {
		t.Errorf("空列表应返回 nil: %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	in := []model.NurseStats{
		{Nurse: "N01", AssignedShifts: 6, Nights: 2},
		{Nurse: "N02", AssignedShifts: 4, Nights: 0},
		{Nurse: "N03", AssignedShifts: 2, Nights: 1},
	}

	got := Summarize(in)
	if got == nil {
		t.Fatal("非空列表不应返回 nil")
	}
	if got.MeanShifts != 4 {
		t.Errorf("MeanShifts = %v, want 4", got.MeanShifts)
	}
	if got.MinShifts != 2 || got.MaxShifts != 6 {
		t.Errorf("Min/Max = %d/%d, want 2/6", got.MinShifts, got.MaxShifts)
	}
	// 偏差 2,0,2 → 方差 8/3
	want := math.Sqrt(8.0 / 3.0)
	if math.Abs(got.StdDevShifts-want) > 1e-9 {
		t.Errorf("StdDevShifts = %v, want %v", got.StdDevShifts, want)
	}
	if got.TotalNights != 3 {
		t.Errorf("TotalNights = %d, want 3", got.TotalNights)
	}
	if got.NightSpread != 2 {
		t.Errorf("NightSpread = %d, want 2", got.NightSpread)
	}
}

func TestSummarize_SingleNurse(t *testing.T) {
	got := Summarize([]model.NurseStats{{Nurse: "N01", AssignedShifts: 5, Nights: 1}})
	if got.MeanShifts != 5 || got.MinShifts != 5 || got.MaxShifts != 5 {
		t.Errorf("单人统计错误: %+v", got)
	}
	if got.StdDevShifts != 0 || got.NightSpread != 0 {
		t.Errorf("单人离散度应为零: %+v", got)
	}
}
