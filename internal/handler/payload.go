package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/paiban/hupai/internal/config"
	"github.com/paiban/hupai/internal/metrics"
	"github.com/paiban/hupai/internal/repository"
	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/model"
	"github.com/paiban/hupai/pkg/normalizer"
)

// PayloadHandler 从存储的原始记录构建排班请求载荷
type PayloadHandler struct {
	nurses *repository.NurseRepository
	prefs  *repository.PreferenceRepository
	cfg    *config.NormalizerConfig
}

// NewPayloadHandler 创建载荷处理器
func NewPayloadHandler(nurses *repository.NurseRepository, prefs *repository.PreferenceRepository, cfg *config.NormalizerConfig) *PayloadHandler {
	return &PayloadHandler{nurses: nurses, prefs: prefs, cfg: cfg}
}

// buildRequest 载荷构建参数
type buildRequest struct {
	StartDate   string `json:"start_date,omitempty"` // 缺省为明天
	HorizonDays int    `json:"horizon_days,omitempty"`
}

// HandleBuild 读取存储的护士与偏好记录，归一化为排班请求
// POST /api/v1/roster/payload
func (h *PayloadHandler) HandleBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req buildRequest
	if r.Body != nil {
		// 空请求体也合法，全部参数用默认值
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	startDate := time.Now().AddDate(0, 0, 1)
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			respondError(w, apperrors.InvalidInput("start_date", "格式应为 YYYY-MM-DD"))
			return
		}
		startDate = t
	}

	opts := normalizer.Options{
		StartDate:     startDate,
		HorizonDays:   h.cfg.HorizonDays,
		MorningDemand: h.cfg.MorningDemand,
		EveningDemand: h.cfg.EveningDemand,
		NightDemand:   h.cfg.NightDemand,
		MinRosterSize: h.cfg.MinRosterSize,
	}
	if req.HorizonDays > 0 {
		opts.HorizonDays = req.HorizonDays
	}

	nurses, err := h.nurses.ListAll(r.Context())
	if err != nil {
		metrics.RecordPayloadBuild(false)
		respondError(w, toAppError(err))
		return
	}
	prefs, err := h.prefs.ListAll(r.Context())
	if err != nil {
		metrics.RecordPayloadBuild(false)
		respondError(w, toAppError(err))
		return
	}

	payload := normalizer.NewBuilder(opts).BuildPayload(nurses, prefs)
	metrics.RecordPayloadBuild(true)
	respondJSON(w, http.StatusOK, payload)
}

// exportResponse 全量导出结构
type exportResponse struct {
	Nurses      []model.Nurse         `json:"nurses"`
	Preferences []model.RawPreference `json:"preferences"`
	ExportedAt  time.Time             `json:"exported_at"`
}

// HandleExport 导出全部护士与原始偏好记录
// GET /api/v1/export
func (h *PayloadHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	nurses, err := h.nurses.ListAll(r.Context())
	if err != nil {
		respondError(w, toAppError(err))
		return
	}
	prefs, err := h.prefs.ListAll(r.Context())
	if err != nil {
		respondError(w, toAppError(err))
		return
	}

	respondJSON(w, http.StatusOK, exportResponse{
		Nurses:      nurses,
		Preferences: prefs,
		ExportedAt:  time.Now(),
	})
}
