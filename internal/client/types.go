package client

import "time"

// User is the profile returned by /auth/me and embedded in login and
// refresh responses.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio,omitempty"`
	GithubUsername string    `json:"github_username,omitempty"`
	Role           string    `json:"role"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TokenResponse is the payload of /auth/login and /auth/refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

// Project statuses and visibilities as the backend defines them.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"

	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

type Project struct {
	ID          int64          `json:"id"`
	OwnerID     int64          `json:"owner_id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
	TechStack   []string       `json:"tech_stack"`
	Categories  []string       `json:"categories"`
	Tags        []string       `json:"tags"`
	Status      string         `json:"status"`
	Visibility  string         `json:"visibility"`
	Featured    bool           `json:"featured"`
	ViewCount   int            `json:"view_count"`
	LikeCount   int            `json:"like_count"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProjectList is one page of projects.
type ProjectList struct {
	Items      []Project `json:"items"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

// Note types as the backend defines them.
const (
	NoteTypeLearn    = "learn"
	NoteTypeChange   = "change"
	NoteTypeResearch = "research"
	NoteTypeGeneral  = "general"
)

type Note struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	NoteType   string    `json:"note_type"`
	Tags       string    `json:"tags,omitempty"`
	IsPinned   bool      `json:"is_pinned"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NoteList is one page of notes.
type NoteList struct {
	Items      []Note `json:"items"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

type Media struct {
	ID           int64     `json:"id"`
	TargetType   string    `json:"target_type"`
	TargetID     int64     `json:"target_id"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"file_path"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	Type         string    `json:"type"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	IsPublic     bool      `json:"is_public"`
	AltText      string    `json:"alt_text,omitempty"`
	DownloadURL  string    `json:"download_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MediaList is one page of media records.
type MediaList struct {
	Items      []Media `json:"items"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
}

// MediaStorageStats summarizes upload volume per media type.
type MediaStorageStats struct {
	TotalFiles     int              `json:"total_files"`
	TotalSizeBytes int64            `json:"total_size_bytes"`
	ByType         map[string]int64 `json:"by_type"`
}

// SearchResults is the cross-resource search response.
type SearchResults struct {
	Projects   []Project `json:"projects"`
	Notes      []Note    `json:"notes"`
	Users      []User    `json:"users"`
	TotalCount int       `json:"total_count"`
	Query      string    `json:"query"`
}

// Autocomplete lists completion suggestions for a query prefix.
type Autocomplete struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Type        string   `json:"type"`
}

type PopularKeyword struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// PopularSearches lists the most frequent recent queries.
type PopularSearches struct {
	PopularSearches []PopularKeyword `json:"popular_searches"`
	Limit           int              `json:"limit"`
}

// DashboardStats is the headline counter set.
type DashboardStats struct {
	TotalProjects int `json:"total_projects"`
	TotalNotes    int `json:"total_notes"`
	TotalViews    int `json:"total_views"`
	TotalLikes    int `json:"total_likes"`
}

type Activity struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ActivityTimeline is one page of recent activity items.
type ActivityTimeline struct {
	Activities []Activity `json:"activities"`
	TotalCount int        `json:"total_count"`
}

// BreakdownItem is one label/count pair in a stats breakdown.
type BreakdownItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Repository struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	LastSyncAt  time.Time `json:"last_sync_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Commit struct {
	SHA         string    `json:"sha"`
	Message     string    `json:"message"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	CommittedAt time.Time `json:"committed_at"`
}

// RepositoryStats summarizes commit activity for one repository.
type RepositoryStats struct {
	TotalCommits   int            `json:"total_commits"`
	CommitsByMonth map[string]int `json:"commits_by_month"`
	Languages      map[string]int `json:"languages"`
}
