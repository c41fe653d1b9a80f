package observability

// Metric name prefixes
const (
	MetricPrefix = "warden"
)

// Metric names
const (
	// Discord metrics
	InteractionsHandledTotal = MetricPrefix + ".interactions.handled_total"

	// Module metrics
	ModuleTogglesTotal = MetricPrefix + ".modules.toggles_total"

	// Role menu metrics
	RoleChangesTotal = MetricPrefix + ".rolemenus.role_changes_total"

	// Lockdown metrics
	LocksActive = MetricPrefix + ".lockdown.locks_active"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	// Common labels
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelModule    = "module"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)

// Interaction types for Discord
const (
	InteractionTypeCommand   = "command"
	InteractionTypeComponent = "component"
)

// Role change types
const (
	RoleChangeAdded   = "added"
	RoleChangeRemoved = "removed"
	RoleChangeFailed  = "failed"
)
