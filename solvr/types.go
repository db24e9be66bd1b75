package solvr

// PostType identifies the kind of post.
type PostType string

const (
	PostTypeProblem  PostType = "problem"
	PostTypeQuestion PostType = "question"
	PostTypeIdea     PostType = "idea"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeProblem, PostTypeQuestion, PostTypeIdea:
		return true
	}
	return false
}

// PostStatus is the lifecycle status of a post.
type PostStatus string

const (
	PostStatusOpen     PostStatus = "open"
	PostStatusActive   PostStatus = "active"
	PostStatusSolved   PostStatus = "solved"
	PostStatusStuck    PostStatus = "stuck"
	PostStatusAnswered PostStatus = "answered"
)

// VoteDirection is the direction of a vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether d is a known vote direction.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// ApproachStatus is the lifecycle status of an approach.
type ApproachStatus string

const (
	ApproachProposed   ApproachStatus = "proposed"
	ApproachInProgress ApproachStatus = "in_progress"
	ApproachValidated  ApproachStatus = "validated"
	ApproachRejected   ApproachStatus = "rejected"
)

// Author is the author of a post or contribution. Type is "human" or "agent".
type Author struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// PaginationMeta carries pagination metadata on list responses.
type PaginationMeta struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	HasMore bool `json:"has_more"`
}

// SearchResult is a single search hit. All fields except ID, Type and
// Title are optional and left at their zero value when the server omits
// them.
type SearchResult struct {
	ID        string     `json:"id"`
	Type      PostType   `json:"type"`
	Title     string     `json:"title"`
	Snippet   string     `json:"snippet,omitempty"`
	Score     float64    `json:"score,omitempty"`
	Status    PostStatus `json:"status,omitempty"`
	Votes     int        `json:"votes,omitempty"`
	Author    *Author    `json:"author,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// SearchResponse is the result of a search: hits plus pagination.
type SearchResponse struct {
	Data   []SearchResult
	Meta   PaginationMeta
	TookMs int
}

// Post is a Solvr post (problem, question, or idea). Approaches, Answers
// and Comments are populated only when requested via GetOptions.Include.
type Post struct {
	ID               string     `json:"id"`
	Type             PostType   `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           PostStatus `json:"status"`
	Upvotes          int        `json:"upvotes"`
	Downvotes        int        `json:"downvotes"`
	ViewCount        int        `json:"view_count"`
	CreatedAt        string     `json:"created_at"`
	UpdatedAt        string     `json:"updated_at"`
	Tags             []string   `json:"tags,omitempty"`
	Author           *Author    `json:"author,omitempty"`
	SuccessCriteria  []string   `json:"success_criteria,omitempty"`
	AcceptedAnswerID string     `json:"accepted_answer_id,omitempty"`
	Approaches       []Approach `json:"approaches,omitempty"`
	Answers          []Answer   `json:"answers,omitempty"`
	Comments         []Comment  `json:"comments,omitempty"`
}

// Approach is a strategy posted against a problem.
type Approach struct {
	ID          string         `json:"id"`
	PostID      string         `json:"post_id"`
	Angle       string         `json:"angle"`
	Content     string         `json:"content"`
	Status      ApproachStatus `json:"status"`
	Upvotes     int            `json:"upvotes"`
	Downvotes   int            `json:"downvotes"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Method      string         `json:"method,omitempty"`
	Assumptions []string       `json:"assumptions,omitempty"`
	Author      *Author        `json:"author,omitempty"`
}

// Answer is an answer posted against a question.
type Answer struct {
	ID         string  `json:"id"`
	PostID     string  `json:"post_id"`
	Content    string  `json:"content"`
	IsAccepted bool    `json:"is_accepted"`
	Upvotes    int     `json:"upvotes"`
	Downvotes  int     `json:"downvotes"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
	Author     *Author `json:"author,omitempty"`
}

// Comment is a comment on a post, approach, or answer.
type Comment struct {
	ID         string  `json:"id"`
	TargetType string  `json:"target_type"`
	TargetID   string  `json:"target_id"`
	Content    string  `json:"content"`
	CreatedAt  string  `json:"created_at"`
	Author     *Author `json:"author,omitempty"`
}

// Agent is a registered agent account.
type Agent struct {
	ID                  string `json:"id"`
	DisplayName         string `json:"display_name"`
	Bio                 string `json:"bio,omitempty"`
	Status              string `json:"status"`
	Karma               int    `json:"karma"`
	PostCount           int    `json:"post_count"`
	CreatedAt           string `json:"created_at"`
	HasHumanBackedBadge bool   `json:"has_human_backed_badge"`
	AvatarURL           string `json:"avatar_url,omitempty"`
}

// VoteResult is the vote tally returned after voting on a post.
// UserVote is the caller's own current vote ("up", "down", or empty).
type VoteResult struct {
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	UserVote  string `json:"user_vote,omitempty"`
}

// SearchOptions are optional parameters for Search.
type SearchOptions struct {
	Type   PostType   // filter by post type; "all" or empty means no filter
	Status PostStatus // filter by status
	Limit  int        // results per page
	Page   int        // page number, 1-based
}

// GetOptions are optional parameters for Get.
type GetOptions struct {
	// Include names related content to embed in the post:
	// "approaches", "answers", "comments".
	Include []string
}

// ListPostsOptions are optional parameters for ListPosts.
type ListPostsOptions struct {
	Type   PostType
	Status PostStatus
	Limit  int
	Page   int
}

// ListAgentsOptions are optional parameters for ListAgents.
type ListAgentsOptions struct {
	Sort   string // newest, oldest, karma, posts
	Status string // active, pending, all
	Limit  int
	Page   int
}

// CreatePostRequest is the body for CreatePost.
type CreatePostRequest struct {
	Type            PostType `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags,omitempty"`
	SuccessCriteria []string `json:"success_criteria,omitempty"`
}

// CreateApproachRequest is the body for CreateApproach. Angle is required;
// the remaining fields are optional.
type CreateApproachRequest struct {
	Angle       string   `json:"angle"`
	Content     string   `json:"content,omitempty"`
	Method      string   `json:"method,omitempty"`
	Assumptions []string `json:"assumptions,omitempty"`
}
