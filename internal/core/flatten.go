package core

// Flatten splices nested Terms into their parent so the final program is
// a flat sequence. Loop and While bodies are flattened recursively; no
// other rewriting happens. Flatten is idempotent.
func Flatten(e Expr) Expr {
	switch n := e.(type) {
	case Terms:
		flat := make([]Expr, 0, len(n.List))
		for _, child := range n.List {
			switch c := Flatten(child).(type) {
			case Terms:
				flat = append(flat, c.List...)
			default:
				flat = append(flat, c)
			}
		}
		return Terms{List: flat}
	case Loop:
		n.Body = Flatten(n.Body)
		return n
	case While:
		n.Body = Flatten(n.Body)
		return n
	default:
		return e
	}
}
