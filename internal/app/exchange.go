package app

type ImportResult struct {
	ActivityCount int
	SnapshotCount int
	LogCount      int
	VacationCount int
}
