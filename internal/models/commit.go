package models

import "time"

// RawCommit is a commit as returned by the commit source, before filtering.
type RawCommit struct {
	SHA         string
	AuthorName  string
	AuthorEmail string
	Message     string
	AuthoredAt  time.Time
	URL         string
	Files       []RawFileChange
}

// RawFileChange holds the per-file change counts reported for a commit.
type RawFileChange struct {
	Filename  string
	Additions int
	Deletions int
}

// NormalizedCommit is the stored shape of a commit, keyed by SHA.
type NormalizedCommit struct {
	SHA          string    `json:"sha" bson:"sha"`
	UserID       string    `json:"userId" bson:"userId"`
	Repository   string    `json:"repository" bson:"repository"`
	Author       string    `json:"author" bson:"author"`
	AuthorEmail  string    `json:"authorEmail,omitempty" bson:"authorEmail,omitempty"`
	Summary      string    `json:"summary" bson:"summary"`
	Message      string    `json:"message" bson:"message"`
	URL          string    `json:"url,omitempty" bson:"url,omitempty"`
	CommittedAt  time.Time `json:"committedAt" bson:"committedAt"`
	FilesChanged int       `json:"filesChanged" bson:"filesChanged"`
	Additions    int       `json:"additions" bson:"additions"`
	Deletions    int       `json:"deletions" bson:"deletions"`
	FetchedAt    time.Time `json:"fetchedAt" bson:"fetchedAt"`
	Processed    bool      `json:"processed" bson:"processed"`
}
