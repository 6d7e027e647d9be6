package roster

import (
	"context"
	"time"

	"github.com/paiban/hupai/pkg/cpsolver"
	apperrors "github.com/paiban/hupai/pkg/errors"
	"github.com/paiban/hupai/pkg/logger"
	"github.com/paiban/hupai/pkg/model"
	"github.com/paiban/hupai/pkg/stats"
)

// Service 排班服务，串起验证、周桶划分、建模、求解与解码。
// 每次请求构建独立模型，无跨请求共享状态，可安全并发调用。
type Service struct {
	solver cpsolver.Solver
	log    *logger.RosterLogger
}

// NewService 创建排班服务
func NewService(solver cpsolver.Solver) *Service {
	return &Service{
		solver: solver,
		log:    logger.NewRosterLogger(),
	}
}

// Solve 执行一次完整的排班求解。
// 验证失败与求解后端失败返回错误；无可行解不是错误，
// 通过响应的 INFEASIBLE 状态表达。
func (s *Service) Solve(ctx context.Context, req *model.SolveRequest) (*model.SolveResponse, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	weekIdx := BuildWeekIndex(req.Days, req.WeekIndexByDay)
	bm := BuildModel(req, weekIdx)

	params := cpsolver.DefaultParams()
	if req.TimeLimitSec > 0 {
		params.TimeLimit = time.Duration(req.TimeLimitSec * float64(time.Second))
	}
	if req.NumSearchWorkers > 0 {
		params.Workers = req.NumSearchWorkers
	}
	params.Seed = req.RandomSeed

	s.log.SolveStart(len(req.Nurses), len(req.Days), len(req.Shifts))
	start := time.Now()
	sol, err := s.solver.Solve(ctx, bm.Model, params)
	if err != nil {
		return nil, apperrors.SolverFailure(err.Error()).WithCause(err)
	}

	resp := Decode(bm, sol)
	if sol.Status == cpsolver.StatusInfeasible {
		s.log.SolveInfeasible(time.Since(start))
		return resp, nil
	}
	s.log.SolveComplete(resp.Status, sol.Objective, time.Since(start))
	resp.Details.Fairness = stats.Summarize(resp.NurseStats)

	if violations := Verify(req, weekIdx, resp); len(violations) > 0 {
		// 解码结果未通过独立复核，按后端失败处理
		return nil, apperrors.SolverFailure(violations[0])
	}
	return resp, nil
}
