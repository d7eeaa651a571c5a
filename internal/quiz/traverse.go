package quiz

// Next decides which question follows q given the answer just recorded.
// Precedence is deliberate content-authoring convenience, in order:
//
//  1. a branch keyed exactly by the response value,
//  2. the branch keyed BranchDefault,
//  3. the catalog entry immediately after q by position.
//
// The returned bool is false when traversal reaches the end of the
// catalog. Loop protection against revisits lives in the Session, which
// owns the visited history.
func Next(q Question, v Value, c *Catalog) (string, bool) {
	if q.Branches != nil {
		if target, ok := q.Branches[v.Key()]; ok {
			return target, true
		}
		if target, ok := q.Branches[BranchDefault]; ok {
			return target, true
		}
	}

	pos := c.Position(q.ID)
	if pos < 0 || pos+1 >= c.Len() {
		return "", false
	}
	return c.Questions[pos+1].ID, true
}
