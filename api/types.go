package api

import (
	"time"

	"github.com/connectexe/connectexe-client/token"
)

// Response is the envelope the forum and profile endpoints reply with.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Page is a page of results as the backend serialises it.
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalPages       int  `json:"totalPages"`
	TotalElements    int  `json:"totalElements"`
	Size             int  `json:"size"`
	Number           int  `json:"number"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the backend's reply to a successful login. Older backends
// return the access token as "token".
type LoginResponse struct {
	UserID       string `json:"userId"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
	IsVerified   *bool  `json:"isVerified,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Token        string `json:"token,omitempty"`
}

// Tokens is the token pair, preferring accessToken over the legacy token field.
func (r *LoginResponse) Tokens() token.TokenPair {
	access := r.AccessToken
	if access == "" {
		access = r.Token
	}
	return token.TokenPair{AccessToken: access, RefreshToken: r.RefreshToken}
}

type Profile struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
	Gender       string `json:"gender"`
	IdentityCard string `json:"identityCard"`
	DateOfBirth  string `json:"dateOfBirth"`
}

type RegisterRequest struct {
	FullName     string `json:"fullName" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	PhoneNumber  string `json:"phoneNumber,omitempty" validate:"omitempty,numeric,min=9,max=15"`
	IdentityCard string `json:"identityCard,omitempty" validate:"omitempty,numeric"`
	DateOfBirth  string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender       string `json:"gender,omitempty"`
	Address      string `json:"address,omitempty"`
}

// RegisterResponse is returned on success and, with one of the *Used flags
// set, on a 400 for details another account already holds.
type RegisterResponse struct {
	Message          string `json:"message"`
	EmailUsed        bool   `json:"emailUsed"`
	PhoneUsed        bool   `json:"phoneUsed"`
	IdentityCardUsed bool   `json:"identityCardUsed"`
	UserID           string `json:"userId,omitempty"`
	Token            string `json:"token,omitempty"`
}

// Conflicts lists the registration details that are already taken.
func (r *RegisterResponse) Conflicts() []string {
	var used []string
	if r.EmailUsed {
		used = append(used, "email")
	}
	if r.PhoneUsed {
		used = append(used, "phoneNumber")
	}
	if r.IdentityCardUsed {
		used = append(used, "identityCard")
	}
	return used
}

type VerifyCodeRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verificationCode" validate:"required,len=6,numeric"`
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TopicFilter narrows a topic listing. Nil fields are not sent.
type TopicFilter struct {
	Approved *bool
	UserID   string
	IsActive *bool
	Page     int `validate:"gte=0"`
	Size     int `validate:"gte=0,lte=100"`
}

type Topic struct {
	TopicID    string    `json:"topicId"`
	Title      string    `json:"title"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	Approved   bool      `json:"approved"`
	CreatedAt  Timestamp `json:"createdAt"`
	UpdatedAt  Timestamp `json:"updatedAt"`
	ReplyCount int       `json:"replyCount"`
}

type TopicDetail struct {
	TopicID    string    `json:"topicId"`
	Title      string    `json:"title"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	Approved   bool      `json:"approved"`
	CreatedAt  Timestamp `json:"createdAt"`
	UpdatedAt  Timestamp `json:"updatedAt"`
	Replies    []Reply   `json:"replies"`
}

// Reply is a forum reply; root replies have no ParentReplyID.
type Reply struct {
	ReplyID       string    `json:"replyId"`
	TopicID       string    `json:"topicId"`
	UserID        string    `json:"userId"`
	AuthorName    string    `json:"authorName"`
	Content       string    `json:"content"`
	ImageURLs     []string  `json:"imageUrls,omitempty"`
	CreatedAt     Timestamp `json:"createdAt"`
	ParentReplyID string    `json:"parentReplyId,omitempty"`
	Children      []Reply   `json:"children,omitempty"`
	ReplyCount    int       `json:"replyCount,omitempty"`
}

type CreateTopicRequest struct {
	Title     string   `json:"title" validate:"required,max=100"`
	Content   string   `json:"content" validate:"required"`
	ImageURLs []string `json:"imageUrls,omitempty" validate:"max=5,dive,url"`
}

type CreateReplyRequest struct {
	Content       string   `json:"content" validate:"required"`
	ParentReplyID string   `json:"parentReplyId,omitempty"`
	ImageURLs     []string `json:"imageUrls,omitempty" validate:"max=5,dive,url"`
}

// Project categories and review states.
const (
	CategoryTechnology = "TECHNOLOGY"
	CategoryEducation  = "EDUCATION"
	CategoryRecycle    = "RECYCLE"
	CategoryIndustrial = "INDUSTRIAL"
	CategoryOther      = "OTHER"

	ProjectPending    = "PENDING"
	ProjectApproved   = "APPROVED"
	ProjectSuccessful = "SUCCESSFUL"
	ProjectRejected   = "REJECTED"
)

type ProjectFilter struct {
	Page int `validate:"gte=0"`
	Size int `validate:"gte=0,lte=100"`
}

type Project struct {
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"imageUrl"`
	Tags        string    `json:"tags"`
	Members     string    `json:"members"`
	WebsiteLink string    `json:"websiteLink"`
	GithubLink  string    `json:"githubLink"`
	DemoLink    string    `json:"demoLink"`
	OwnerID     string    `json:"ownerId"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
	VoteCount   int64     `json:"voteCount"`
	HasVoted    bool      `json:"hasVoted"`
}

type CreateProjectRequest struct {
	ProjectName string `json:"projectName" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Content     string `json:"content,omitempty"`
	Category    string `json:"category,omitempty" validate:"omitempty,oneof=TECHNOLOGY EDUCATION RECYCLE INDUSTRIAL OTHER"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Tags        string `json:"tags,omitempty"`
	Members     string `json:"members,omitempty"`
	WebsiteLink string `json:"websiteLink,omitempty" validate:"omitempty,url"`
	GithubLink  string `json:"githubLink,omitempty" validate:"omitempty,url"`
	DemoLink    string `json:"demoLink,omitempty" validate:"omitempty,url"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
}

// ApproveProjectRequest approves or rejects a pending project. Approved must
// be set either way.
type ApproveProjectRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	Approved  *bool  `json:"approved" validate:"required"`
	Reason    string `json:"reason,omitempty" validate:"max=500"`
}

type DashboardStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalProjects     int64 `json:"totalProjects"`
	TotalTopics       int64 `json:"totalTopics"`
	TotalReplies      int64 `json:"totalReplies"`
	PendingProjects   int64 `json:"pendingProjects"`
	ActiveUsers       int64 `json:"activeUsers"`
	ProjectsThisMonth int64 `json:"projectsThisMonth"`
	TopicsThisMonth   int64 `json:"topicsThisMonth"`
}

// Timestamp accepts the backend's zone-less local date-times as well as
// RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Value: s, Message: ": timestamp must be a JSON string"}
	}
	s = s[1 : len(s)-1]

	var err error
	for _, layout := range timestampLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}
