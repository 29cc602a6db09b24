package errors

import (
	"fmt"
	"strings"

	"github.com/sunholo/lwlang/internal/ast"
)

// Error is the structured error every pass emits. Besides the code and
// message it carries the typed payload of its variant; unused fields
// stay zero. Lno is optional.
type Error struct {
	Code    Code
	Message string
	Lno     *ast.LineNo

	// Resolution payloads.
	Module  string
	Func    string
	Count   int
	History []string
	Origin  string

	// Narrowing payload.
	Expected string
	Got      string

	// Strict-mode payload.
	Kind string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Lno != nil {
		fmt.Fprintf(&b, " at line %d", e.Lno.Line())
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// key folds the variant into a comparable string for deduplication.
// Line numbers are deliberately excluded: the same collision reported
// from two sites is one diagnostic.
func (e *Error) key() string {
	return strings.Join([]string{
		string(e.Code), e.Message, e.Module, e.Func,
		fmt.Sprint(e.Count), strings.Join(e.History, "\x00"),
		e.Origin, e.Expected, e.Got, e.Kind,
	}, "\x1f")
}

// New builds a bare coded error.
func New(code Code, lno *ast.LineNo, message string) *Error {
	return &Error{Code: code, Lno: lno, Message: message}
}

// Newf builds a bare coded error with a formatted message.
func Newf(code Code, lno *ast.LineNo, format string, args ...any) *Error {
	return &Error{Code: code, Lno: lno, Message: fmt.Sprintf(format, args...)}
}

// List is the accumulating error monoid. Passes merge their children's
// lists and succeed only when the merged list is empty.
type List []*Error

// Append adds errs to the list and returns the extended list.
func (l List) Append(errs ...*Error) List { return append(l, errs...) }

// Merge folds another list in.
func (l List) Merge(other List) List { return append(l, other...) }

// Dedup removes repeated variants, keeping first occurrences in order.
func (l List) Dedup() List {
	seen := make(map[string]struct{}, len(l))
	out := make(List, 0, len(l))
	for _, e := range l {
		k := e.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Err returns the list as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	msgs := make([]string, 0, len(l))
	for _, e := range l {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// FirstCode reports the code of the first error, for terse matching in
// drivers and tests.
func (l List) FirstCode() Code {
	if len(l) == 0 {
		return ""
	}
	return l[0].Code
}

// HasCode reports whether any error in the list carries code.
func (l List) HasCode(code Code) bool {
	for _, e := range l {
		if e.Code == code {
			return true
		}
	}
	return false
}
