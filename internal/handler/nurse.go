package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/paiban/hupai/internal/repository"
	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/model"
)

// NurseHandler 护士与偏好记录的录入接口
type NurseHandler struct {
	nurses *repository.NurseRepository
	prefs  *repository.PreferenceRepository
}

// NewNurseHandler 创建护士处理器
func NewNurseHandler(nurses *repository.NurseRepository, prefs *repository.PreferenceRepository) *NurseHandler {
	return &NurseHandler{nurses: nurses, prefs: prefs}
}

// HandleNurses 护士的创建与列表
// POST/GET /api/v1/nurses
func (h *NurseHandler) HandleNurses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var n model.Nurse
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
			return
		}
		if n.Code == "" {
			respondError(w, apperrors.InvalidInput("code", "工号不能为空"))
			return
		}
		if n.Level <= 0 {
			n.Level = 1
		}
		if err := h.nurses.Create(r.Context(), &n); err != nil {
			respondError(w, toAppError(err))
			return
		}
		respondJSON(w, http.StatusCreated, n)
	case http.MethodGet:
		nurses, err := h.nurses.ListAll(r.Context())
		if err != nil {
			respondError(w, toAppError(err))
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"nurses": nurses,
			"total":  len(nurses),
		})
	default:
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持GET与POST方法"))
	}
}

// preferenceInput 偏好录入请求
type preferenceInput struct {
	NurseCode string          `json:"nurse_code"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
}

// HandlePreferences 录入一条原始偏好记录，护士用工号定位
// POST /api/v1/preferences
func (h *NurseHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, apperrors.New(apperrors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var in preferenceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if in.NurseCode == "" {
		respondError(w, apperrors.InvalidInput("nurse_code", "工号不能为空"))
		return
	}
	switch in.Type {
	case model.PrefTypeShifts, model.PrefTypeDaysOff:
	default:
		// 无法识别的类型照样入库，归一化时会记录并跳过
		in.Type = model.PrefTypeUnrecognized
	}

	nurse, err := h.nurses.GetByCode(r.Context(), in.NurseCode)
	if err != nil {
		respondError(w, toAppError(err))
		return
	}

	pref := &model.RawPreference{
		ID:      uuid.New(),
		NurseID: nurse.ID,
		Type:    in.Type,
		Data:    in.Data,
	}
	if err := h.prefs.Create(r.Context(), pref); err != nil {
		respondError(w, toAppError(err))
		return
	}
	respondJSON(w, http.StatusCreated, pref)
}
