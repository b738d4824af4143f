package critpath

// Result holds the complete critical path analysis.
type Result struct {
	Bugs          map[string]*BugWindow
	CriticalPath  []string // ordered bug ids on the critical path
	TotalDuration float64  // engineer-days, ignoring resource contention
	TopoOrder     []string
	Excluded      []string // cycle members and their dependents, sorted
}

// BugWindow holds the scheduling window for a single bug.
type BugWindow struct {
	BugID      string
	ES, EF     float64 // earliest start/finish, in days
	LS, LF     float64 // latest start/finish, in days
	Slack      float64
	IsCritical bool
}
