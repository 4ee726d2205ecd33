// Package combos selects and validates the pairwise variable combinations
// that drive one figure: given a requested set of columns it filters out the
// ones that cannot be plotted and enumerates every unordered pair of the
// survivors.
package combos

import (
	"errors"
	"fmt"
	"strconv"
)

// ColumnTable is the read-only column metadata the selector consumes.
// *dataset.Table satisfies it.
type ColumnTable interface {
	NumCols() int
	ColumnName(i int) string
	ColumnIndex(name string) (int, bool)
	IsNumeric(i int) bool
}

// ColumnRef addresses a table column either by position or by display name;
// callers pass whichever they have.
type ColumnRef struct {
	index  int
	name   string
	byName bool
}

// Index makes a positional column reference.
func Index(i int) ColumnRef { return ColumnRef{index: i} }

// Name makes a named column reference.
func Name(s string) ColumnRef { return ColumnRef{name: s, byName: true} }

func (r ColumnRef) String() string {
	if r.byName {
		return r.name
	}
	return strconv.Itoa(r.index)
}

// Pair is one unordered variable pair, oriented as first-seen: X comes from
// the earlier of the two requested columns.
type Pair struct {
	X, Y string
}

func (p Pair) String() string { return fmt.Sprintf("(%s, %s)", p.X, p.Y) }

// Reason explains why a requested column was dropped.
type Reason string

const (
	ReasonOutOfRange  Reason = "index out of range"
	ReasonUnknownName Reason = "no column with that name"
	ReasonNonNumeric  Reason = "column is not numeric"
	ReasonTooFew      Reason = "fewer than 2 valid columns in request"
)

// Rejection pairs a dropped reference with the reason it was dropped.
type Rejection struct {
	Ref    ColumnRef
	Reason Reason
}

// Result is the outcome of one selection. Rejections are informational: the
// request only fails outright when the fallback default is itself unusable.
type Result struct {
	Pairs       []Pair
	Rejected    []Rejection
	UsedDefault bool
}

// ErrInsufficientColumns reports that neither the request nor the fallback
// default yielded two valid columns.
var ErrInsufficientColumns = errors.New("fewer than 2 valid columns")

// Select filters requested down to valid numeric columns (original relative
// order kept, duplicates collapsed to first occurrence) and enumerates all
// unordered 2-combinations. With fewer than 2 valid columns the whole request
// is rejected and the combination is recomputed from def; if def is also
// short, Select returns ErrInsufficientColumns. Malformed input is never an
// error, only a rejection.
func Select(requested []ColumnRef, table ColumnTable, def []ColumnRef) (Result, error) {
	valid, rejected := validate(requested, table)
	if len(valid) >= 2 {
		return Result{Pairs: enumerate(valid, table), Rejected: rejected}, nil
	}

	defValid, _ := validate(def, table)
	if len(defValid) < 2 {
		return Result{}, fmt.Errorf("%w: default combination is unusable", ErrInsufficientColumns)
	}

	// The whole request was discarded, so every originally requested ref is
	// reported, including the ones that were individually valid.
	all := make([]Rejection, 0, len(requested))
	for _, ref := range requested {
		all = append(all, Rejection{Ref: ref, Reason: reasonFor(ref, table)})
	}
	return Result{Pairs: enumerate(defValid, table), Rejected: all, UsedDefault: true}, nil
}

// validate resolves refs to column indices, dropping invalid ones and
// collapsing duplicates while preserving first-seen order.
func validate(refs []ColumnRef, table ColumnTable) (valid []int, rejected []Rejection) {
	seen := make(map[int]bool)
	for _, ref := range refs {
		idx, reason := resolve(ref, table)
		if reason != "" {
			rejected = append(rejected, Rejection{Ref: ref, Reason: reason})
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		valid = append(valid, idx)
	}
	return valid, rejected
}

func resolve(ref ColumnRef, table ColumnTable) (int, Reason) {
	idx := ref.index
	if ref.byName {
		i, ok := table.ColumnIndex(ref.name)
		if !ok {
			return 0, ReasonUnknownName
		}
		idx = i
	} else if idx < 0 || idx >= table.NumCols() {
		return 0, ReasonOutOfRange
	}
	if !table.IsNumeric(idx) {
		return 0, ReasonNonNumeric
	}
	return idx, ""
}

func reasonFor(ref ColumnRef, table ColumnTable) Reason {
	if _, reason := resolve(ref, table); reason != "" {
		return reason
	}
	return ReasonTooFew
}

// enumerate produces every unordered 2-combination of the valid columns in
// lexicographic order over their retained relative order: for [c0,c1,c2] the
// pairs are (c0,c1), (c0,c2), (c1,c2).
func enumerate(valid []int, table ColumnTable) []Pair {
	pairs := make([]Pair, 0, len(valid)*(len(valid)-1)/2)
	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			pairs = append(pairs, Pair{X: table.ColumnName(valid[i]), Y: table.ColumnName(valid[j])})
		}
	}
	return pairs
}
