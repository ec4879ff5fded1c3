package ports

// IDGenerator produces collision-resistant string identifiers for new
// trade and partial-exit records.
type IDGenerator interface {
	NewID() string
}
