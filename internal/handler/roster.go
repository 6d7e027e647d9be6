package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/paiban/hupai/internal/config"
	"github.com/paiban/hupai/internal/metrics"
	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/model"
	"github.com/paiban/hupai/pkg/roster"
)

// RosterHandler 排班求解处理器
type RosterHandler struct {
	svc *roster.Service
	cfg *config.SolverConfig
}

// NewRosterHandler 创建排班处理器
func NewRosterHandler(svc *roster.Service, cfg *config.SolverConfig) *RosterHandler {
	return &RosterHandler{svc: svc, cfg: cfg}
}

// HandleSolve 处理排班求解请求
// POST /api/v1/roster/solve
func (h *RosterHandler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}

	// 未指定资源限制时用服务端默认值
	if req.TimeLimitSec <= 0 && h.cfg != nil {
		req.TimeLimitSec = h.cfg.TimeLimit.Seconds()
	}
	if req.NumSearchWorkers <= 0 && h.cfg != nil {
		req.NumSearchWorkers = h.cfg.Workers
	}
	if req.RandomSeed == 0 && h.cfg != nil {
		req.RandomSeed = h.cfg.Seed
	}

	if g := metrics.GetRegistry().GetGauge("hupai_active_solves"); g != nil {
		g.Inc()
		defer g.Dec()
	}

	start := time.Now()
	resp, err := h.svc.Solve(r.Context(), &req)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Code == apperrors.CodeValidationFail || appErr.Code == apperrors.CodeInvalidInput {
			metrics.RecordValidationFailure(string(appErr.Code))
		} else {
			metrics.RecordSolve("ERROR", time.Since(start))
		}
		respondError(w, appErr)
		return
	}

	metrics.RecordSolve(resp.Status, time.Since(start))
	respondJSON(w, http.StatusOK, resp)
}

// HandleValidate 只做请求验证与周桶划分，不触发求解
// POST /api/v1/roster/validate
func (h *RosterHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if err := roster.ValidateRequest(&req); err != nil {
		appErr := toAppError(err)
		metrics.RecordValidationFailure(string(appErr.Code))
		respondError(w, appErr)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":             true,
		"week_index_by_day": roster.BuildWeekIndex(req.Days, req.WeekIndexByDay),
	})
}
