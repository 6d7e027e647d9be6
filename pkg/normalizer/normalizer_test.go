package normalizer

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/hupai/pkg/model"
)

func testOptions() Options {
	return Options{
		StartDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		HorizonDays:   7,
		MorningDemand: 4,
		EveningDemand: 3,
		NightDemand:   2,
		MinRosterSize: 0,
	}
}

func testNurses() []model.Nurse {
	return []model.Nurse{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Code: "N01", Name: "护士一", Level: 2, EmploymentType: "full_time"},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Code: "N02", Name: "护士二", Level: 1, EmploymentType: "part_time"},
	}
}

func TestRankToPenalty(t *testing.T) {
	tests := []struct {
		name string
		rank interface{}
		want int
	}{
		{"等级1", float64(1), 10},
		{"等级2", float64(2), 25},
		{"等级3", float64(3), 40},
		{"整数等级", 3, 40},
		{"字符串等级", "1", 10},
		{"无法解析的字符串", "high", 25},
		{"未知等级", float64(7), 25},
		{"缺失等级", nil, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rankToPenalty(tt.rank); got != tt.want {
				t.Errorf("rankToPenalty(%v) = %d, want %d", tt.rank, got, tt.want)
			}
		})
	}
}

func TestRankToPenalty_Monotonic(t *testing.T) {
	p1 := rankToPenalty(float64(1))
	p2 := rankToPenalty(float64(2))
	p3 := rankToPenalty(float64(3))
	if !(p3 > p2 && p2 > p1) {
		t.Errorf("惩罚应随等级严格递增: %d, %d, %d", p1, p2, p3)
	}
}

func TestShiftBounds(t *testing.T) {
	tests := []struct {
		name       string
		employment string
		horizon    int
		wantMin    int
		wantMax    int
	}{
		{"全职14天", "full_time", 14, 7, 14},
		{"全职短周期", "full_time", 6, 4, 6},
		{"兼职14天", "part_time", 14, 3, 7},
		{"兼职短周期", "pt", 4, 2, 4},
		{"合同工14天", "contract", 14, 2, 7},
		{"临时工别名", "temp", 10, 2, 5},
		{"未知类别按全职", "", 14, 7, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := ShiftBounds(tt.employment, tt.horizon)
			if gotMin != tt.wantMin || gotMax != tt.wantMax {
				t.Errorf("ShiftBounds(%s, %d) = (%d, %d), want (%d, %d)",
					tt.employment, tt.horizon, gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestLevelToSkills(t *testing.T) {
	if got := LevelToSkills(1); got != nil {
		t.Errorf("等级1不应有技能: %v", got)
	}
	if got := LevelToSkills(2); !reflect.DeepEqual(got, []string{"Senior"}) {
		t.Errorf("等级2应为资深: %v", got)
	}
	if got := LevelToSkills(5); !reflect.DeepEqual(got, []string{"Senior"}) {
		t.Errorf("更高等级也应为资深: %v", got)
	}
}

func TestBuildHorizon(t *testing.T) {
	b := NewBuilder(testOptions())
	days := b.BuildHorizon()
	if len(days) != 7 {
		t.Fatalf("len(days) = %d, want 7", len(days))
	}
	if days[0] != "2026-03-02" || days[6] != "2026-03-08" {
		t.Errorf("日期范围错误: %s .. %s", days[0], days[6])
	}
}

func TestBuildPayload(t *testing.T) {
	nurses := testNurses()
	data, _ := json.Marshal([]model.DayOffRequest{{Date: "2026-03-04", Rank: float64(1)}})
	prefs := []model.RawPreference{
		{NurseID: nurses[0].ID, Type: model.PrefTypeDaysOff, Data: data},
	}

	req := NewBuilder(testOptions()).BuildPayload(nurses, prefs)

	if !reflect.DeepEqual(req.Nurses, []string{"N01", "N02"}) {
		t.Errorf("Nurses = %v", req.Nurses)
	}
	if len(req.Days) != 7 || len(req.Shifts) != 3 {
		t.Fatalf("排班范围错误: %d 天, %d 班次", len(req.Days), len(req.Shifts))
	}

	// 每个日期每个班次都有需求
	for _, d := range req.Days {
		if req.Demand[d]["Morning"] != 4 || req.Demand[d]["Evening"] != 3 || req.Demand[d]["Night"] != 2 {
			t.Errorf("日期 %s 需求错误: %v", d, req.Demand[d])
		}
		if req.RequiredSkills[d]["Night"]["Senior"] != 1 {
			t.Errorf("每个夜班都应要求资深护士: %s", d)
		}
	}

	// 雇佣类别推导上下限
	if req.MinTotalShiftsPerNurse["N01"] != 4 || req.MaxTotalShiftsPerNurse["N01"] != 7 {
		t.Errorf("全职上下限错误: min=%d max=%d",
			req.MinTotalShiftsPerNurse["N01"], req.MaxTotalShiftsPerNurse["N01"])
	}
	if req.MinTotalShiftsPerNurse["N02"] != 2 || req.MaxTotalShiftsPerNurse["N02"] != 4 {
		t.Errorf("兼职上下限错误: min=%d max=%d",
			req.MinTotalShiftsPerNurse["N02"], req.MaxTotalShiftsPerNurse["N02"])
	}

	// 资历推导技能
	if !reflect.DeepEqual(req.NurseSkills["N01"], []string{"Senior"}) {
		t.Errorf("N01 应为资深: %v", req.NurseSkills)
	}
	if _, ok := req.NurseSkills["N02"]; ok {
		t.Error("N02 不应有技能")
	}

	// 休息日请求落在该日期的全部班次
	for _, shift := range req.Shifts {
		if req.Preferences["N01"]["2026-03-04"][shift] != 10 {
			t.Errorf("班次 %s 的休息日惩罚错误: %v", shift, req.Preferences["N01"])
		}
	}
}

func TestBuildPayload_Deterministic(t *testing.T) {
	nurses := testNurses()
	data, _ := json.Marshal([]model.DayOffRequest{{Date: "2026-03-05", Rank: float64(2)}})
	prefs := []model.RawPreference{
		{NurseID: nurses[1].ID, Type: model.PrefTypeDaysOff, Data: data},
	}

	first := NewBuilder(testOptions()).BuildPayload(nurses, prefs)
	second := NewBuilder(testOptions()).BuildPayload(nurses, prefs)
	if !reflect.DeepEqual(first, second) {
		t.Error("同一输入应产生完全相同的载荷")
	}
}

func TestBuildPayload_MalformedRecordSkipped(t *testing.T) {
	nurses := testNurses()
	good, _ := json.Marshal([]model.DayOffRequest{{Date: "2026-03-03", Rank: float64(3)}})
	prefs := []model.RawPreference{
		{NurseID: nurses[0].ID, Type: model.PrefTypeDaysOff, Data: json.RawMessage(`{broken`)},
		{NurseID: uuid.New(), Type: model.PrefTypeDaysOff, Data: good},
		{NurseID: nurses[1].ID, Type: "unrecognized", Data: good},
		{NurseID: nurses[1].ID, Type: model.PrefTypeDaysOff, Data: good},
	}

	req := NewBuilder(testOptions()).BuildPayload(nurses, prefs)

	// 损坏、未知护士与无法识别类型的记录被跳过，其余正常归一化
	if len(req.Preferences) != 1 {
		t.Fatalf("Preferences = %v", req.Preferences)
	}
	if req.Preferences["N02"]["2026-03-03"]["Night"] != 40 {
		t.Errorf("剩余记录应正常生效: %v", req.Preferences["N02"])
	}
}

func TestBuildPayload_PreferredShiftsIgnored(t *testing.T) {
	nurses := testNurses()
	data, _ := json.Marshal(map[string]string{"shift": "Morning"})
	prefs := []model.RawPreference{
		{NurseID: nurses[0].ID, Type: model.PrefTypeShifts, Data: data},
	}

	req := NewBuilder(testOptions()).BuildPayload(nurses, prefs)
	if len(req.Preferences) != 0 {
		t.Errorf("班次偏好记录当前不参与建模: %v", req.Preferences)
	}
}

func TestPadRoster(t *testing.T) {
	opts := testOptions()
	opts.MinRosterSize = 5
	b := NewBuilder(opts)

	out := b.PadRoster(testNurses())
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	for _, n := range out[2:] {
		if n.ID == uuid.Nil || n.Code == "" || n.Level < 1 || n.Level > 3 {
			t.Errorf("合成护士属性不合法: %+v", n)
		}
		switch n.EmploymentType {
		case model.EmploymentFullTime, model.EmploymentPartTime, model.EmploymentContract:
		default:
			t.Errorf("雇佣类别不合法: %s", n.EmploymentType)
		}
	}

	// 足额花名册不补
	opts.MinRosterSize = 2
	if got := NewBuilder(opts).PadRoster(testNurses()); len(got) != 2 {
		t.Errorf("足额花名册不应补齐: %d", len(got))
	}
}
