package roster

import (
	"testing"

	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/model"
)

func validRequest() *model.SolveRequest {
	return &model.SolveRequest{
		Nurses: []string{"A", "B"},
		Days:   []string{"D1", "D2"},
		Shifts: []string{"Morning"},
		Demand: map[string]map[string]int{
			"D1": {"Morning": 1},
			"D2": {"Morning": 1},
		},
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.SolveRequest)
		wantCode apperrors.Code
	}{
		{
			name:   "合法请求",
			mutate: func(r *model.SolveRequest) {},
		},
		{
			name:     "缺少整个日期的需求",
			mutate:   func(r *model.SolveRequest) { delete(r.Demand, "D2") },
			wantCode: apperrors.CodeValidationFail,
		},
		{
			name: "缺少单个班次的需求",
			mutate: func(r *model.SolveRequest) {
				r.Shifts = []string{"Morning", "Night"}
				// Night 需求只补了 D1
				r.Demand["D1"]["Night"] = 1
			},
			wantCode: apperrors.CodeValidationFail,
		},
		{
			name:     "日期列表为空",
			mutate:   func(r *model.SolveRequest) { r.Days = nil },
			wantCode: apperrors.CodeValidationFail,
		},
		{
			name:     "需求为负",
			mutate:   func(r *model.SolveRequest) { r.Demand["D1"]["Morning"] = -1 },
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "周桶覆盖缺日期",
			mutate: func(r *model.SolveRequest) {
				r.WeekIndexByDay = map[string]int{"D1": 0}
			},
			wantCode: apperrors.CodeValidationFail,
		},
		{
			name: "偏好惩罚为负",
			mutate: func(r *model.SolveRequest) {
				r.Preferences = map[string]map[string]map[string]int{
					"A": {"D1": {"Morning": -5}},
				}
			},
			wantCode: apperrors.CodeValidationFail,
		},
		{
			name:     "时间预算为负",
			mutate:   func(r *model.SolveRequest) { r.TimeLimitSec = -1 },
			wantCode: apperrors.CodeValidationFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := ValidateRequest(req)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Errorf("Code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestValidateRequest_MissingPairIdentified(t *testing.T) {
	req := validRequest()
	req.Shifts = []string{"Morning", "Night"}
	req.Demand["D1"]["Night"] = 1

	err := ValidateRequest(req)
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("应返回 AppError, got %T", err)
	}
	if appErr.Fields["day"] != "D2" || appErr.Fields["shift"] != "Night" {
		t.Errorf("应精确指出缺失组合: %v", appErr.Fields)
	}
}
