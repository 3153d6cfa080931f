package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	since = time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	until = since.Add(24 * time.Hour)
)

func repoCommit(sha, message string, at time.Time) *github.RepositoryCommit {
	return &github.RepositoryCommit{
		SHA:     github.Ptr(sha),
		HTMLURL: github.Ptr("https://github.com/acme/api/commit/" + sha),
		Commit: &github.Commit{
			Message: github.Ptr(message),
			Author: &github.CommitAuthor{
				Name:  github.Ptr("Jane"),
				Email: github.Ptr("jane@example.com"),
				Date:  &github.Timestamp{Time: at},
			},
		},
	}
}

func TestDailyCommitsPaginates(t *testing.T) {
	repos := &MockRepoService{}
	client := NewClientWithServices(repos, &MockUserService{})

	repos.On("ListCommits", mock.Anything, "acme", "api", mock.MatchedBy(func(o *github.CommitsListOptions) bool {
		return o.Page == 0 && o.Since.Equal(since) && o.Until.Equal(until) && o.PerPage == 100
	})).Return([]*github.RepositoryCommit{repoCommit("a1", "Add x", since.Add(time.Hour))}, &github.Response{NextPage: 2}, nil).Once()

	repos.On("ListCommits", mock.Anything, "acme", "api", mock.MatchedBy(func(o *github.CommitsListOptions) bool {
		return o.Page == 2
	})).Return([]*github.RepositoryCommit{repoCommit("b2", "Fix y", since.Add(2*time.Hour))}, &github.Response{}, nil).Once()

	commits, err := client.DailyCommits(context.Background(), "acme/api", since, until)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, "a1", commits[0].SHA)
	assert.Equal(t, "Jane", commits[0].AuthorName)
	assert.Equal(t, "jane@example.com", commits[0].AuthorEmail)
	assert.Equal(t, "Add x", commits[0].Message)
	assert.True(t, commits[0].AuthoredAt.Equal(since.Add(time.Hour)))
	assert.Equal(t, "b2", commits[1].SHA)
	repos.AssertExpectations(t)
}

func TestDailyCommitsWithStats(t *testing.T) {
	repos := &MockRepoService{}
	client := NewClientWithServices(repos, &MockUserService{})
	client.commitStats = true

	listed := repoCommit("a1", "Add x", since)
	detailed := repoCommit("a1", "Add x", since)
	detailed.Files = []*github.CommitFile{
		{Filename: github.Ptr("a.go"), Additions: github.Ptr(4), Deletions: github.Ptr(1)},
		{Filename: github.Ptr("b.go"), Additions: github.Ptr(2), Deletions: github.Ptr(0)},
	}

	repos.On("ListCommits", mock.Anything, "acme", "api", mock.Anything).
		Return([]*github.RepositoryCommit{listed}, &github.Response{}, nil).Once()
	repos.On("GetCommit", mock.Anything, "acme", "api", "a1", mock.Anything).
		Return(detailed, &github.Response{}, nil).Once()

	commits, err := client.DailyCommits(context.Background(), "acme/api", since, until)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Len(t, commits[0].Files, 2)
	assert.Equal(t, 4, commits[0].Files[0].Additions)
	assert.Equal(t, "b.go", commits[0].Files[1].Filename)
}

func TestDailyCommitsError(t *testing.T) {
	repos := &MockRepoService{}
	client := NewClientWithServices(repos, &MockUserService{})

	repos.On("ListCommits", mock.Anything, "acme", "api", mock.Anything).
		Return([]*github.RepositoryCommit(nil), (*github.Response)(nil), errors.New("403 rate limited")).Once()

	commits, err := client.DailyCommits(context.Background(), "acme/api", since, until)
	require.Error(t, err)
	assert.Empty(t, commits)
}

func TestDailyCommitsInvalidName(t *testing.T) {
	client := NewClientWithServices(&MockRepoService{}, &MockUserService{})
	for _, name := range []string{"", "acme", "/api", "acme/", "a/b/c"} {
		_, err := client.DailyCommits(context.Background(), name, since, until)
		assert.Error(t, err, name)
	}
}

func TestDailyCommitsTimeoutIsPerRequest(t *testing.T) {
	repos := &MockRepoService{}
	client := NewClientWithServices(repos, &MockUserService{})
	client.commitStats = true
	client.requestTimeout = 50 * time.Millisecond

	first := []*github.RepositoryCommit{
		repoCommit("a1", "Add x", since),
		repoCommit("a2", "Add y", since),
		repoCommit("a3", "Add z", since),
	}
	repos.On("ListCommits", mock.Anything, "acme", "api", mock.MatchedBy(func(o *github.CommitsListOptions) bool {
		return o.Page == 0
	})).Return(first, &github.Response{NextPage: 2}, nil).Once()

	var lastPageErr error
	repos.On("ListCommits", mock.Anything, "acme", "api", mock.MatchedBy(func(o *github.CommitsListOptions) bool {
		return o.Page == 2
	})).Run(func(args mock.Arguments) {
		lastPageErr = args.Get(0).(context.Context).Err()
	}).Return([]*github.RepositoryCommit{repoCommit("b1", "Fix w", since)}, &github.Response{}, nil).Once()

	for _, rc := range first {
		repos.On("GetCommit", mock.Anything, "acme", "api", rc.GetSHA(), mock.Anything).
			Return(rc, &github.Response{}, nil).After(30 * time.Millisecond).Once()
	}

	commits, err := client.DailyCommits(context.Background(), "acme/api", since, until)
	require.NoError(t, err)
	require.NoError(t, lastPageErr)
	assert.Len(t, commits, 4)
	repos.AssertExpectations(t)
}

func unauthorized() error {
	req, _ := http.NewRequest(http.MethodGet, "https://api.github.com/user", nil)
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusUnauthorized, Request: req},
		Message:  "Bad credentials",
	}
}

func TestVerifyToken(t *testing.T) {
	users := &MockUserService{}
	client := NewClientWithServices(&MockRepoService{}, users)

	users.On("Get", mock.Anything, "").Return(&github.User{Login: github.Ptr("jdoe")}, &github.Response{}, nil).Once()
	valid, err := client.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.True(t, valid)

	users.On("Get", mock.Anything, "").Return((*github.User)(nil), (*github.Response)(nil), unauthorized()).Once()
	valid, err = client.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyTokenOutageIsAnError(t *testing.T) {
	users := &MockUserService{}
	client := NewClientWithServices(&MockRepoService{}, users)

	users.On("Get", mock.Anything, "").Return((*github.User)(nil), (*github.Response)(nil), errors.New("dial tcp: i/o timeout")).Once()
	valid, err := client.VerifyToken(context.Background())
	require.Error(t, err)
	assert.False(t, valid)
}

func TestUserRepositories(t *testing.T) {
	repos := &MockRepoService{}
	client := NewClientWithServices(repos, &MockUserService{})

	repos.On("ListByUser", mock.Anything, "jdoe", mock.Anything).Return([]*github.Repository{
		{FullName: github.Ptr("jdoe/api"), HTMLURL: github.Ptr("https://github.com/jdoe/api")},
		{FullName: github.Ptr("jdoe/web"), HTMLURL: github.Ptr("https://github.com/jdoe/web")},
	}, &github.Response{}, nil).Once()

	got, err := client.UserRepositories(context.Background(), "jdoe")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "jdoe/api", got[0].FullName)
	assert.Equal(t, "https://github.com/jdoe/web", got[1].URL)
}

func TestNewClientEnterpriseURL(t *testing.T) {
	c, err := NewClient("token", Options{BaseURL: "https://ghe.example.com/api/v3/", CommitStats: true})
	require.NoError(t, err)
	assert.True(t, c.commitStats)

	_, err = NewClient("", Options{})
	require.NoError(t, err)
}
