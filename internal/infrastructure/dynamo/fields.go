package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUpdatedAt = "updated_at"
	fieldStarted   = "started"
	fieldWon       = "won"
	fieldLost      = "lost"
	fieldRelapseAt = "relapse_at"
	fieldState     = "state"
	fieldContent   = "content"
	fieldVisitor   = "visitor"
)
