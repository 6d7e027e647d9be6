package cpsolver

import (
	"context"
	"testing"
	"time"

	"github.com/paiban/hupai/pkg/cpmodel"
)

func solveModel(t *testing.T, s Solver, m *cpmodel.Model) *Solution {
	t.Helper()
	sol, err := s.Solve(context.Background(), m, Params{
		TimeLimit: 10 * time.Second,
		Workers:   2,
	})
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	return sol
}

func TestBnB_Minimize(t *testing.T) {
	// x + y == 1，最小化 2x + y，最优为 x=0, y=1，目标值1
	m := cpmodel.New()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	m.AddEq("pick_one", cpmodel.Sum(x, y), 1)
	m.Minimize([]cpmodel.Term{{Var: x, Coeff: 2}, {Var: y, Coeff: 1}})

	sol := solveModel(t, NewBnBSolver(), m)
	if sol.Status != StatusOptimal {
		t.Fatalf("Status = %s, want OPTIMAL", sol.Status)
	}
	if sol.Objective != 1 {
		t.Errorf("Objective = %d, want 1", sol.Objective)
	}
	if sol.BestBound != 1 {
		t.Errorf("BestBound = %d, want 1", sol.BestBound)
	}
	if sol.Value(x) != 0 || sol.Value(y) != 1 {
		t.Errorf("解错误: x=%d, y=%d", sol.Value(x), sol.Value(y))
	}
}

func TestBnB_Infeasible(t *testing.T) {
	m := cpmodel.New()
	x := m.NewBoolVar("x")
	m.AddEq("zero", cpmodel.Sum(x), 0)
	m.AddEq("one", cpmodel.Sum(x), 1)

	sol := solveModel(t, NewBnBSolver(), m)
	if sol.Status != StatusInfeasible {
		t.Fatalf("Status = %s, want INFEASIBLE", sol.Status)
	}
	if sol.HasValues() {
		t.Error("不可行解不应携带变量取值")
	}
}

func TestBnB_IntDerivation(t *testing.T) {
	// x + y == 3，y 为整数变量，最小化 y：x=1 时 y=2
	m := cpmodel.New()
	x := m.NewBoolVar("x")
	y := m.NewIntVar(0, 10, "y")
	m.AddEq("sum", cpmodel.Sum(x, y), 3)
	m.Minimize([]cpmodel.Term{{Var: y, Coeff: 1}})

	sol := solveModel(t, NewBnBSolver(), m)
	if sol.Status != StatusOptimal {
		t.Fatalf("Status = %s, want OPTIMAL", sol.Status)
	}
	if sol.Objective != 2 {
		t.Errorf("Objective = %d, want 2", sol.Objective)
	}
	if sol.Value(x) != 1 || sol.Value(y) != 2 {
		t.Errorf("解错误: x=%d, y=%d", sol.Value(x), sol.Value(y))
	}
}

func TestBnB_EmptyBoolSearch(t *testing.T) {
	// 只有整数变量的模型也应能求解
	m := cpmodel.New()
	y := m.NewIntVar(2, 8, "y")
	m.AddGe("floor", cpmodel.Sum(y), 4)
	m.Minimize(cpmodel.Sum(y))

	sol := solveModel(t, NewBnBSolver(), m)
	if sol.Status != StatusOptimal || sol.Objective != 4 {
		t.Errorf("Status = %s, Objective = %d, want OPTIMAL/4", sol.Status, sol.Objective)
	}
}

func TestBnB_Diagnostics(t *testing.T) {
	m := cpmodel.New()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	m.AddEq("pick_one", cpmodel.Sum(x, y), 1)
	m.Minimize(cpmodel.Sum(x, y))

	sol := solveModel(t, NewBnBSolver(), m)
	if sol.Branches == 0 {
		t.Error("分支计数不应为0")
	}
	if sol.WallTime <= 0 {
		t.Error("耗时应为正")
	}
}

func TestPortfolio_MatchesSingle(t *testing.T) {
	build := func() (*cpmodel.Model, *cpmodel.Var) {
		m := cpmodel.New()
		var vars []*cpmodel.Var
		for i := 0; i < 6; i++ {
			vars = append(vars, m.NewBoolVar("x"))
		}
		m.AddEq("exactly_three", cpmodel.Sum(vars...), 3)
		terms := make([]cpmodel.Term, len(vars))
		for i, v := range vars {
			terms[i] = cpmodel.Term{Var: v, Coeff: int64(i + 1)}
		}
		m.Minimize(terms)
		return m, vars[0]
	}

	m1, _ := build()
	single := solveModel(t, NewBnBSolver(), m1)
	m2, _ := build()
	multi := solveModel(t, NewPortfolioSolver(), m2)

	if single.Status != StatusOptimal || multi.Status != StatusOptimal {
		t.Fatalf("两种求解均应最优: %s / %s", single.Status, multi.Status)
	}
	// 最优目标为 1+2+3
	if single.Objective != 6 || multi.Objective != 6 {
		t.Errorf("Objective = %d / %d, want 6", single.Objective, multi.Objective)
	}
}

func TestPortfolio_Infeasible(t *testing.T) {
	m := cpmodel.New()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	m.AddGe("both", cpmodel.Sum(x, y), 2)
	m.AddLe("neither", cpmodel.Sum(x, y), 0)

	sol := solveModel(t, NewPortfolioSolver(), m)
	if sol.Status != StatusInfeasible {
		t.Errorf("Status = %s, want INFEASIBLE", sol.Status)
	}
}

func TestBnB_ContextCancelled(t *testing.T) {
	m := cpmodel.New()
	x := m.NewBoolVar("x")
	m.AddLe("c", cpmodel.Sum(x), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// 小模型在首次检查取消前就能搜完，不应因取消而失败
	if _, err := NewBnBSolver().Solve(ctx, m, DefaultParams()); err != nil {
		t.Errorf("小模型应在取消检查前完成: %v", err)
	}
}
