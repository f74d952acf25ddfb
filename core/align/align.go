// Package align computes longest-common-subsequence alignments between
// ordered sequences. The publish pipeline uses it to map a republished
// document's blocks onto the previously published ones, so persistence
// can update records in place instead of deleting and recreating them.
package align

// OpType classifies one region of an alignment.
type OpType string

const (
	OpEqual   OpType = "equal"
	OpInsert  OpType = "insert"
	OpDelete  OpType = "delete"
	OpReplace OpType = "replace"
)

// Op is one opcode over half-open index ranges: a[A0:A1] vs b[B0:B1].
type Op struct {
	Type           OpType
	A0, A1, B0, B1 int
}

// Opcodes computes the edit script between two sequences as coalesced
// regions. Adjacent deletions and insertions in the same gap coalesce
// into a single replace region.
func Opcodes(a, b []string) []Op {
	n, m := len(a), len(b)

	// lcs[i][j] holds the LCS length of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []Op
	i, j := 0, 0
	for i < n || j < m {
		if i < n && j < m && a[i] == b[j] {
			i0, j0 := i, j
			for i < n && j < m && a[i] == b[j] {
				i++
				j++
			}
			ops = append(ops, Op{Type: OpEqual, A0: i0, A1: i, B0: j0, B1: j})
			continue
		}
		i0, j0 := i, j
		for i < n || j < m {
			if i < n && j < m && a[i] == b[j] {
				break
			}
			if i < n && (j >= m || lcs[i+1][j] >= lcs[i][j+1]) {
				i++
			} else {
				j++
			}
		}
		op := Op{A0: i0, A1: i, B0: j0, B1: j}
		switch {
		case i == i0:
			op.Type = OpInsert
		case j == j0:
			op.Type = OpDelete
		default:
			op.Type = OpReplace
		}
		ops = append(ops, op)
	}
	return ops
}

// Pair is one correspondence between an old index and a new index. An
// index of -1 marks a pure insertion or deletion.
type Pair struct {
	Old int
	New int
}

// Pairs aligns two key sequences into correspondence pairs. Equal
// regions pair directly. Within a replace region the first min(a, b)
// items pair positionally and the excess becomes pure inserts or
// deletes; this positional tie-break is what lets a consumer update an
// existing record in place instead of replacing it.
func Pairs(old, new []string) []Pair {
	var pairs []Pair
	for _, op := range Opcodes(old, new) {
		switch op.Type {
		case OpEqual:
			for k := 0; k < op.A1-op.A0; k++ {
				pairs = append(pairs, Pair{Old: op.A0 + k, New: op.B0 + k})
			}
		case OpReplace:
			aLen, bLen := op.A1-op.A0, op.B1-op.B0
			common := min(aLen, bLen)
			for k := 0; k < common; k++ {
				pairs = append(pairs, Pair{Old: op.A0 + k, New: op.B0 + k})
			}
			for k := common; k < aLen; k++ {
				pairs = append(pairs, Pair{Old: op.A0 + k, New: -1})
			}
			for k := common; k < bLen; k++ {
				pairs = append(pairs, Pair{Old: -1, New: op.B0 + k})
			}
		case OpDelete:
			for k := op.A0; k < op.A1; k++ {
				pairs = append(pairs, Pair{Old: k, New: -1})
			}
		case OpInsert:
			for k := op.B0; k < op.B1; k++ {
				pairs = append(pairs, Pair{Old: -1, New: k})
			}
		}
	}
	return pairs
}
