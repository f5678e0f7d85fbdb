package evaluator

import "time"

// Stats accumulates counters over one execution. Returned in
// ExecResult for tooling; the interpreter itself never reads them.
type Stats struct {
	Statements     int           `json:"statements"`
	Operators      int           `json:"operators"`
	LoopIterations int           `json:"loopIterations"`
	OutputLines    int           `json:"outputLines"`
	Duration       time.Duration `json:"duration"`
}

func (s *Stats) recordStatement() { s.Statements++ }
func (s *Stats) recordOperator()  { s.Operators++ }
func (s *Stats) recordIteration() { s.LoopIterations++ }
func (s *Stats) recordOutput()    { s.OutputLines++ }
