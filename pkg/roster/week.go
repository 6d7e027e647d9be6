// Package roster 实现排班核心流水线：请求验证、周桶划分、
// 约束模型构建、求解调用与结果解码。
package roster

import "time"

const dateLayout = "2006-01-02"

// BuildWeekIndex 为每个日期标签分配周桶序号。
// 显式覆盖优先且原样使用；全部标签可解析为日期时按 ISO 周号分桶，
// 桶序号按首次出现顺序从0起分配；否则退回按位置 i/7 分桶。
// 不对输入日期排序或去重。
func BuildWeekIndex(days []string, explicit map[string]int) map[string]int {
	if len(explicit) > 0 {
		idx := make(map[string]int, len(explicit))
		for d, w := range explicit {
			idx[d] = w
		}
		return idx
	}

	parsed := make([]time.Time, len(days))
	allDates := true
	for i, d := range days {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			allDates = false
			break
		}
		parsed[i] = t
	}

	idx := make(map[string]int, len(days))
	if allDates {
		bucketOf := make(map[int]int)
		next := 0
		for i, d := range days {
			_, wk := parsed[i].ISOWeek()
			b, ok := bucketOf[wk]
			if !ok {
				b = next
				next++
				bucketOf[wk] = b
			}
			idx[d] = b
		}
		return idx
	}

	for i, d := range days {
		idx[d] = i / 7
	}
	return idx
}

// bucketDays 按周桶聚合日期下标，桶内保持输入顺序
func bucketDays(days []string, weekIdx map[string]int) map[int][]int {
	out := make(map[int][]int)
	for i, d := range days {
		b := weekIdx[d]
		out[b] = append(out[b], i)
	}
	return out
}
