package domain

// PaginationParams holds offset-based pagination parameters for list queries.
// Limit is the maximum number of rows returned; Offset is the number of rows
// skipped from the start of the ordered result.
type PaginationParams struct {
	Limit  int
	Offset int
}
