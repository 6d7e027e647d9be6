// Package normalizer 将存储层的原始护士与偏好记录翻译为排班请求。
// 它是唯一允许读取原始记录形态的组件：休息日等级映射为软惩罚，
// 资历推导技能集合，雇佣类别推导班次数上下限。
package normalizer

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/hupai/pkg/logger"
	"github.com/paiban/hupai/pkg/model"
)

const dateLayout = "2006-01-02"

// DefaultShifts 默认班次词汇表
var DefaultShifts = []string{"Morning", "Evening", "Night"}

// 休息日等级对应的软惩罚，等级越高惩罚越重
var dayOffPenaltyByRank = map[int]int{
	1: 10,
	2: 25,
	3: 40,
}

// 等级缺失或无法识别时按等级2处理
const defaultDayOffPenalty = 25

// SkillSenior 资深技能标签
const SkillSenior = "Senior"

// Options 归一化配置
type Options struct {
	StartDate     time.Time // 排班起始日
	HorizonDays   int       // 排班天数
	MorningDemand int
	EveningDemand int
	NightDemand   int
	MinRosterSize int // 花名册低于该人数时补齐合成护士
}

// DefaultOptions 返回默认归一化配置
func DefaultOptions(startDate time.Time) Options {
	return Options{
		StartDate:     startDate,
		HorizonDays:   14,
		MorningDemand: 4,
		EveningDemand: 3,
		NightDemand:   2,
		MinRosterSize: 8,
	}
}

// Builder 归一化构建器
type Builder struct {
	opts Options
	log  *logger.RosterLogger
	rng  *rand.Rand
}

// NewBuilder 创建归一化构建器
func NewBuilder(opts Options) *Builder {
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = 14
	}
	return &Builder{
		opts: opts,
		log:  logger.NewRosterLogger(),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildHorizon 生成自起始日起连续的日期标签
func (b *Builder) BuildHorizon() []string {
	days := make([]string, b.opts.HorizonDays)
	for i := range days {
		days[i] = b.opts.StartDate.AddDate(0, 0, i).Format(dateLayout)
	}
	return days
}

// ShiftBounds 按雇佣类别推导班次数上下限（可被显式逐人配置覆盖）
func ShiftBounds(employmentType string, horizon int) (min, max int) {
	switch model.NormalizeEmploymentType(employmentType) {
	case model.EmploymentPartTime:
		return maxInt(2, horizon/4), maxInt(4, horizon/2)
	case model.EmploymentContract:
		return maxInt(1, horizon/5), maxInt(3, horizon/2)
	default:
		return maxInt(4, horizon/2), horizon
	}
}

// LevelToSkills 从资历等级推导技能集合，等级≥2视为资深
func LevelToSkills(level int) []string {
	if level >= 2 {
		return []string{SkillSenior}
	}
	return nil
}

// BuildPayload 将原始护士与偏好记录组装为排班请求。
// 个别损坏的偏好记录记录日志后跳过，不中断整批归一化。
func (b *Builder) BuildPayload(nurses []model.Nurse, prefs []model.RawPreference) *model.SolveRequest {
	nurses = b.PadRoster(nurses)
	days := b.BuildHorizon()

	req := &model.SolveRequest{
		Nurses:                 make([]string, 0, len(nurses)),
		Days:                   days,
		Shifts:                 append([]string(nil), DefaultShifts...),
		Demand:                 make(map[string]map[string]int, len(days)),
		MinTotalShiftsPerNurse: make(map[string]int, len(nurses)),
		MaxTotalShiftsPerNurse: make(map[string]int, len(nurses)),
		NurseSkills:            make(map[string][]string),
		RequiredSkills:         make(map[string]map[string]map[string]int, len(days)),
	}

	for _, day := range days {
		req.Demand[day] = map[string]int{
			"Morning": b.opts.MorningDemand,
			"Evening": b.opts.EveningDemand,
			"Night":   b.opts.NightDemand,
		}
		// 每个夜班至少一名资深护士在岗
		req.RequiredSkills[day] = map[string]map[string]int{
			"Night": {SkillSenior: 1},
		}
	}

	codeByID := make(map[uuid.UUID]string, len(nurses))
	for _, n := range nurses {
		req.Nurses = append(req.Nurses, n.Code)
		codeByID[n.ID] = n.Code
		lo, hi := ShiftBounds(n.EmploymentType, b.opts.HorizonDays)
		req.MinTotalShiftsPerNurse[n.Code] = lo
		req.MaxTotalShiftsPerNurse[n.Code] = hi
		if skills := LevelToSkills(n.Level); len(skills) > 0 {
			req.NurseSkills[n.Code] = skills
		}
	}

	for _, p := range prefs {
		code, ok := codeByID[p.NurseID]
		if !ok {
			b.log.RecordSkipped(p.NurseID.String(), p.Type, "偏好记录指向未知护士")
			continue
		}
		switch p.Type {
		case model.PrefTypeDaysOff:
			b.applyDaysOff(req, code, p)
		case model.PrefTypeShifts:
			// 目前不参与建模，保留记录形态以便后续扩展
		default:
			b.log.RecordSkipped(code, p.Type, "无法识别的偏好类型")
		}
	}
	return req
}

// applyDaysOff 将休息日请求转为该日期所有班次上的软惩罚
func (b *Builder) applyDaysOff(req *model.SolveRequest, code string, p model.RawPreference) {
	var reqs []model.DayOffRequest
	if err := json.Unmarshal(p.Data, &reqs); err != nil {
		b.log.RecordSkipped(code, p.Type, fmt.Sprintf("数据解析失败: %v", err))
		return
	}
	for _, r := range reqs {
		if r.Date == "" {
			b.log.RecordSkipped(code, p.Type, "休息日记录缺少日期")
			continue
		}
		penalty := rankToPenalty(r.Rank)
		if req.Preferences == nil {
			req.Preferences = make(map[string]map[string]map[string]int)
		}
		if req.Preferences[code] == nil {
			req.Preferences[code] = make(map[string]map[string]int)
		}
		if req.Preferences[code][r.Date] == nil {
			req.Preferences[code][r.Date] = make(map[string]int, len(req.Shifts))
		}
		for _, shift := range req.Shifts {
			req.Preferences[code][r.Date][shift] = penalty
		}
	}
}

// rankToPenalty 宽容地把各种形态的等级值转为惩罚，识别不了时回退默认值
func rankToPenalty(rank interface{}) int {
	var r int
	switch v := rank.(type) {
	case float64:
		r = int(v)
	case int:
		r = v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return defaultDayOffPenalty
		}
		r = int(n)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return defaultDayOffPenalty
		}
		r = n
	default:
		return defaultDayOffPenalty
	}
	if p, ok := dayOffPenaltyByRank[r]; ok {
		return p
	}
	return defaultDayOffPenalty
}

// PadRoster 花名册不足最小人数时补齐合成护士。
// 合成属性随机但符合数据模型约束，仅用于演示与测试场景。
func (b *Builder) PadRoster(nurses []model.Nurse) []model.Nurse {
	if len(nurses) >= b.opts.MinRosterSize {
		return nurses
	}
	employments := []string{
		model.EmploymentFullTime,
		model.EmploymentPartTime,
		model.EmploymentContract,
	}
	out := append([]model.Nurse(nil), nurses...)
	for i := len(nurses); i < b.opts.MinRosterSize; i++ {
		now := time.Now()
		out = append(out, model.Nurse{
			ID:             uuid.New(),
			Code:           fmt.Sprintf("PAD%03d", i+1),
			Name:           fmt.Sprintf("占位护士%d", i+1),
			Level:          1 + b.rng.Intn(3),
			EmploymentType: employments[b.rng.Intn(len(employments))],
			Unit:           "General",
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
