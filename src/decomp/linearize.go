package decomp

import "multiflow_decomp/src/milp"

// linkProduct forces product = binary·continuous with the McCormick
// envelope, given continuous ∈ [lower, upper]:
//
//	product ≤ upper·binary
//	product ≥ lower·binary
//	product ≤ continuous − lower·(1 − binary)
//	product ≥ continuous − upper·(1 − binary)
func linkProduct(m *milp.Model, binary, continuous, product milp.Var, lower, upper float64, name string) {
	m.AddConstr(milp.Sum(product), milp.LessEq,
		milp.NewExpr().Term(upper, binary), name+"_a")
	m.AddConstr(milp.Sum(product), milp.GreaterEq,
		milp.NewExpr().Term(lower, binary), name+"_b")
	m.AddConstr(milp.Sum(product), milp.LessEq,
		milp.Sum(continuous).Term(lower, binary).Plus(-lower), name+"_c")
	m.AddConstr(milp.Sum(product), milp.GreaterEq,
		milp.Sum(continuous).Term(upper, binary).Plus(-upper), name+"_d")
}
