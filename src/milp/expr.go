package milp

// Term is coef·Var.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression Σ coef·var + Const.
type Expr struct {
	Terms []Term
	Const float64
}

func NewExpr() *Expr { return new(Expr) }

// Const returns the constant expression c.
func Const(c float64) *Expr { return &Expr{Const: c} }

// Sum returns the unit-coefficient sum of vars.
func Sum(vars ...Var) *Expr {
	e := &Expr{Terms: make([]Term, 0, len(vars))}
	for _, v := range vars {
		e.Terms = append(e.Terms, Term{Var: v, Coef: 1})
	}
	return e
}

// Term appends coef·v and returns e.
func (e *Expr) Term(coef float64, v Var) *Expr {
	e.Terms = append(e.Terms, Term{Var: v, Coef: coef})
	return e
}

// Plus adds the constant c and returns e.
func (e *Expr) Plus(c float64) *Expr {
	e.Const += c
	return e
}

// AddExpr adds scale·other to e and returns e.
func (e *Expr) AddExpr(other *Expr, scale float64) *Expr {
	for _, t := range other.Terms {
		e.Terms = append(e.Terms, Term{Var: t.Var, Coef: scale * t.Coef})
	}
	e.Const += scale * other.Const
	return e
}

func (e *Expr) Clone() *Expr {
	c := &Expr{Terms: make([]Term, len(e.Terms)), Const: e.Const}
	copy(c.Terms, e.Terms)
	return c
}

// Eval evaluates e at the given column values.
func (e *Expr) Eval(values []float64) float64 {
	s := e.Const
	for _, t := range e.Terms {
		s += t.Coef * values[t.Var]
	}
	return s
}

func (e *Expr) collect() (map[Var]float64, float64) {
	coeffs := make(map[Var]float64, len(e.Terms))
	for _, t := range e.Terms {
		coeffs[t.Var] += t.Coef
	}
	return coeffs, e.Const
}
