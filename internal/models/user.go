package models

import "time"

// UserConfig is a developer's report configuration.
type UserConfig struct {
	ID             string    `json:"id" bson:"id"`
	DisplayName    string    `json:"displayName" bson:"displayName"`
	GitHubUsername string    `json:"githubUsername" bson:"githubUsername"`
	Email          string    `json:"email" bson:"email"`
	ReportTime     string    `json:"reportTime" bson:"reportTime"`
	Timezone       string    `json:"timezone" bson:"timezone"`
	Active         bool      `json:"active" bson:"active"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

const (
	DefaultReportTime = "18:00"
	DefaultTimezone   = "UTC"
)

// Developer is the name printed on the user's reports.
func (u UserConfig) Developer() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.GitHubUsername
}

// Repository is a GitHub repository tracked for a user.
type Repository struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId" bson:"userId"`
	FullName  string    `json:"fullName" bson:"fullName"`
	URL       string    `json:"url" bson:"url"`
	Monitored bool      `json:"monitored" bson:"monitored"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Credential is a provider access token stored apart from the user config.
type Credential struct {
	UserID      string    `json:"userId" bson:"userId"`
	Provider    string    `json:"provider" bson:"provider"`
	AccessToken string    `json:"-" bson:"accessToken"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

const ProviderGitHub = "github"
