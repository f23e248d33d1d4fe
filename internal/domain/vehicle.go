package domain

// Represents one physical van in the fleet roster.
// The roster is maintained independently of allocation runs and is read-only
// from the matcher's perspective. OpFlag carries the raw roster value; the
// partitioner decides operational status against the configured sentinel, so
// roster adapters never interpret the flag themselves.
type Vehicle struct {
	VanID    string
	Category Category
	OpFlag   string
}
