package roster

import (
	"reflect"
	"testing"
)

func TestBuildWeekIndex_ExplicitOverride(t *testing.T) {
	days := []string{"D1", "D2", "D3"}
	explicit := map[string]int{"D1": 4, "D2": 4, "D3": 9}

	idx := BuildWeekIndex(days, explicit)
	if !reflect.DeepEqual(idx, explicit) {
		t.Errorf("显式覆盖应原样使用: got %v", idx)
	}
}

func TestBuildWeekIndex_ISODates(t *testing.T) {
	// 2026-01-01（周四）到 2026-01-05（周一）横跨两个ISO周
	days := []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05"}

	idx := BuildWeekIndex(days, nil)
	want := map[string]int{
		"2026-01-01": 0,
		"2026-01-02": 0,
		"2026-01-03": 0,
		"2026-01-04": 0, // 周日仍属于同一ISO周
		"2026-01-05": 1,
	}
	if !reflect.DeepEqual(idx, want) {
		t.Errorf("BuildWeekIndex = %v, want %v", idx, want)
	}

	distinct := map[int]bool{}
	for _, b := range idx {
		distinct[b] = true
	}
	if len(distinct) != 2 {
		t.Errorf("应恰好产生两个周桶, got %d", len(distinct))
	}
}

func TestBuildWeekIndex_FirstSeenOrder(t *testing.T) {
	// 日期列表不连续且跨周交错，桶序号按首次出现顺序分配
	days := []string{"2026-01-09", "2026-01-01", "2026-01-08"}

	idx := BuildWeekIndex(days, nil)
	if idx["2026-01-09"] != 0 {
		t.Errorf("首个日期应落在桶0, got %d", idx["2026-01-09"])
	}
	if idx["2026-01-01"] != 1 {
		t.Errorf("新ISO周应分配下一个桶号, got %d", idx["2026-01-01"])
	}
	if idx["2026-01-08"] != 0 {
		t.Errorf("同一ISO周应共享桶号, got %d", idx["2026-01-08"])
	}
}

func TestBuildWeekIndex_PositionalFallback(t *testing.T) {
	days := make([]string, 16)
	for i := range days {
		days[i] = string(rune('A' + i))
	}

	idx := BuildWeekIndex(days, nil)
	for i, d := range days {
		if idx[d] != i/7 {
			t.Errorf("位置 %d 应落在桶 %d, got %d", i, i/7, idx[d])
		}
	}
}

func TestBuildWeekIndex_MixedLabelsFallBack(t *testing.T) {
	// 任一标签不可解析为日期即整体退回位置分桶
	days := []string{"2026-01-01", "not-a-date", "2026-01-02"}

	idx := BuildWeekIndex(days, nil)
	for i, d := range days {
		if idx[d] != i/7 {
			t.Errorf("混合标签应按位置分桶: %s -> %d", d, idx[d])
		}
	}
}

func TestBucketDays(t *testing.T) {
	days := []string{"D1", "D2", "D3"}
	idx := map[string]int{"D1": 0, "D2": 1, "D3": 0}

	buckets := bucketDays(days, idx)
	if !reflect.DeepEqual(buckets[0], []int{0, 2}) {
		t.Errorf("桶0 = %v, want [0 2]", buckets[0])
	}
	if !reflect.DeepEqual(buckets[1], []int{1}) {
		t.Errorf("桶1 = %v, want [1]", buckets[1])
	}
}
