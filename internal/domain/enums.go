package domain

type ActivityKind string

const (
	KindCheckbox   ActivityKind = "checkbox"
	KindValue      ActivityKind = "value"
	KindCumulative ActivityKind = "cumulative"
	KindContainer  ActivityKind = "container"
	KindMetric     ActivityKind = "metric"
)

// ValidActivityKinds is the canonical set of accepted activity kind strings.
var ValidActivityKinds = map[string]bool{
	"checkbox": true, "value": true, "cumulative": true,
	"container": true, "metric": true,
}

type Aggregation string

const (
	AggregateSum     Aggregation = "sum"
	AggregateAverage Aggregation = "average"
)

type ScheduleType string

const (
	ScheduleDaily   ScheduleType = "daily"
	ScheduleWeekly  ScheduleType = "weekly"
	ScheduleMonthly ScheduleType = "monthly"
	ScheduleSticky  ScheduleType = "sticky"
	ScheduleAdhoc   ScheduleType = "adhoc"
)

type LogStatus string

const (
	LogCompleted LogStatus = "completed"
	LogSkipped   LogStatus = "skipped"
)

type LogSource string

const (
	SourceManual LogSource = "manual"
	SourceImport LogSource = "import"
	SourceSync   LogSource = "sync"
)

// EditPolicy controls how a structural edit treats history.
type EditPolicy string

const (
	// EditFutureOnly freezes the pre-edit config in a snapshot before mutating.
	EditFutureOnly EditPolicy = "future_only"
	// EditAllChanges mutates the live config directly and rewrites history.
	EditAllChanges EditPolicy = "all_changes"
)

// ParseEditPolicy accepts the CLI spellings of an edit policy.
func ParseEditPolicy(s string) (EditPolicy, error) {
	switch s {
	case "future", "future_only", "future-only", "":
		return EditFutureOnly, nil
	case "all", "all_changes", "all-changes":
		return EditAllChanges, nil
	}
	return "", NewValidationError("policy", "unknown edit policy %q (expected future or all)", s)
}
