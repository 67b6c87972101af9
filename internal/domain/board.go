package domain

// Post is a board entry; new posts and comments start at one upvote.
type Post struct {
	ID       int64
	Upvotes  int64
	Title    string
	Link     string
	Username string
}

// Comment belongs to a single post.
type Comment struct {
	ID       int64
	PostID   int64
	Upvotes  int64
	Text     string
	Username string
}

// PostSort orders post listings by upvotes.
type PostSort string

const (
	PostSortNone       PostSort = ""
	PostSortIncreasing PostSort = "increasing"
	PostSortDecreasing PostSort = "decreasing"
)

// Valid reports whether the sort value is one the board accepts.
func (s PostSort) Valid() bool {
	switch s {
	case PostSortNone, PostSortIncreasing, PostSortDecreasing:
		return true
	}
	return false
}
