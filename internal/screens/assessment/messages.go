package assessment

// persistDoneMsg confirms that an answer write finished.
type persistDoneMsg struct {
	Err error
}

// resultPersistDoneMsg confirms that the final result write finished.
type resultPersistDoneMsg struct {
	Err error
}
