package render

// Outcome is the result of one render attempt. A non-nil Err means the attempt
// failed; Node may then hold a fallback. Pending lists modules that were still
// loading, so the caller can re-render once they resolve. Reported holds
// non-fatal problems that were rendered inline.
type Outcome struct {
	Node     *Node
	Err      error
	Pending  []string
	Reported []error
}

// Ok wraps a successfully rendered node.
func Ok(n *Node) Outcome {
	return Outcome{Node: n}
}

// Fail returns a failed outcome.
func Fail(err error) Outcome {
	return Outcome{Err: err}
}

// Failed reports whether the attempt failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Absorb merges the pending and reported lists of child into o.
func (o *Outcome) Absorb(child Outcome) {
	o.Pending = appendUnique(o.Pending, child.Pending...)
	o.Reported = append(o.Reported, child.Reported...)
	if child.Err != nil {
		o.Reported = append(o.Reported, child.Err)
	}
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		dup := false
		for _, d := range dst {
			if d == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
