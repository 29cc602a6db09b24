package eval

import "github.com/sunholo/lwlang/internal/core"

// termsExec steps its children in order, advancing to the next child
// when the current one exhausts.
type termsExec struct {
	terms []Exec
	ptr   int
}

func newTermsExec(t core.Terms) *termsExec {
	terms := make([]Exec, len(t.List))
	for i, child := range t.List {
		terms[i] = NewExec(child)
	}
	return &termsExec{terms: terms}
}

func (t *termsExec) Step(locals Variables) *StepResult {
	for t.ptr < len(t.terms) {
		if result := t.terms[t.ptr].Step(locals); result != nil {
			return result
		}
		t.ptr++
	}
	return nil
}

func (t *termsExec) Renew() Exec {
	terms := make([]Exec, len(t.terms))
	for i, child := range t.terms {
		terms[i] = child.Renew()
	}
	return &termsExec{terms: terms}
}
