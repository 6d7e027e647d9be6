package cpsolver

import (
	"context"
	"sync"

	"github.com/paiban/hupai/pkg/cpmodel"
)

// PortfolioSolver 组合搜索：多个分支定界搜索并行运行，
// 0号搜索使用规范取值顺序，其余按 seed+i 做随机多样化。
// 任一搜索得出最优或不可行的结论后，其余立即终止。
type PortfolioSolver struct {
	base *BnBSolver
}

// NewPortfolioSolver 创建组合搜索求解器
func NewPortfolioSolver() *PortfolioSolver {
	return &PortfolioSolver{base: NewBnBSolver()}
}

// Name 返回求解器名称
func (s *PortfolioSolver) Name() string {
	return "portfolio"
}

type workerResult struct {
	idx int
	sol *Solution
	err error
}

// Solve 求解模型
func (s *PortfolioSolver) Solve(ctx context.Context, m *cpmodel.Model, p Params) (*Solution, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultParams().Workers
	}
	if n := m.NumVars(); workers > n && n > 0 {
		workers = n
	}
	if workers == 1 {
		return s.base.solve(ctx, m, p, p.Seed, false)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan workerResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sol, err := s.base.solve(runCtx, m, p, p.Seed+int64(idx), idx > 0)
			if err == nil && (sol.Status == StatusOptimal || sol.Status == StatusInfeasible) {
				cancel()
			}
			results <- workerResult{idx: idx, sol: sol, err: err}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var definitive, bestFeasible *Solution
	bestIdx := workers
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		switch r.sol.Status {
		case StatusOptimal, StatusInfeasible:
			// 最优与不可行均为完整搜索的结论，与取值顺序无关
			if definitive == nil {
				definitive = r.sol
			}
		case StatusFeasible:
			if bestFeasible == nil || r.sol.Objective < bestFeasible.Objective ||
				(r.sol.Objective == bestFeasible.Objective && r.idx < bestIdx) {
				bestFeasible = r.sol
				bestIdx = r.idx
			}
		}
	}

	if definitive != nil {
		return definitive, nil
	}
	if bestFeasible != nil {
		return bestFeasible, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrNoSolution
}
