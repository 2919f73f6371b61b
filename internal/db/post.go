package db

// PostRow is a post as stored in the relational database.
type PostRow struct {
	ID          int64
	Title       string
	Content     string
	Password    string
	PublishedAt int64 // unix nanos
}

// PostQuery is the input for a filtered post listing. Where is appended to
// an always-true condition and must start with AND; OrderBy must be non-empty.
type PostQuery struct {
	Where     string
	Args      []any
	OrderBy   string
	OrderArgs []any
	Limit     int
	Offset    int
}

// PostPage is the output of a post listing.
type PostPage struct {
	Total int
	Rows  []PostRow
}
