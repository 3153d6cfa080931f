// Package github reads commit activity and repositories from the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dailydigest/internal/logger"
	"dailydigest/internal/models"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	// FetchTimeout bounds each GitHub request, not a whole paginated listing.
	FetchTimeout  = 10 * time.Second
	VerifyTimeout = 5 * time.Second
	perPage       = 100
)

type RepositoriesService interface {
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	GetCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) (*github.RepositoryCommit, *github.Response, error)
	ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type Client struct {
	repoService    RepositoriesService
	usersService   UsersService
	commitStats    bool
	requestTimeout time.Duration
}

// Options configure clients built by NewClient.
type Options struct {
	// BaseURL points the client at a GitHub Enterprise API.
	BaseURL string
	// CommitStats fetches each commit individually to fill in file stats.
	CommitStats bool
}

func NewClient(token string, opts Options) (*Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		var err error
		client, err = client.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url %q: %w", base, err)
		}
	}

	c := NewClientWithServices(client.Repositories, client.Users)
	c.commitStats = opts.CommitStats
	return c, nil
}

func NewClientWithServices(repoService RepositoriesService, usersService UsersService) *Client {
	return &Client{
		repoService:    repoService,
		usersService:   usersService,
		requestTimeout: FetchTimeout,
	}
}

// Factory builds a client for a user's access token.
func Factory(opts Options) func(token string) (*Client, error) {
	return func(token string) (*Client, error) {
		return NewClient(token, opts)
	}
}

// DailyCommits lists the commits of fullName authored in [since, until).
func (c *Client) DailyCommits(ctx context.Context, fullName string, since, until time.Time) ([]models.RawCommit, error) {
	owner, repo, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []models.RawCommit
	for {
		page, resp, err := c.listCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits of %s: %w", fullName, err)
		}

		for _, rc := range page {
			if c.commitStats {
				rc = c.withFiles(ctx, owner, repo, rc)
			}
			out = append(out, toRawCommit(rc))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

func (c *Client) listCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	return c.repoService.ListCommits(ctx, owner, repo, opts)
}

func (c *Client) withFiles(ctx context.Context, owner, repo string, rc *github.RepositoryCommit) *github.RepositoryCommit {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	detail, _, err := c.repoService.GetCommit(reqCtx, owner, repo, rc.GetSHA(), nil)
	if err != nil {
		logger.Warn(ctx, "could not load commit stats", "repo", owner+"/"+repo, "sha", rc.GetSHA(), "error", err)
		return rc
	}
	return detail
}

// VerifyToken reports whether the client's token can read the authenticated
// user. Only a 401 from GitHub counts as a rejected token; any other failure
// is returned as an error.
func (c *Client) VerifyToken(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, VerifyTimeout)
	defer cancel()

	user, _, err := c.usersService.Get(ctx, "")
	if isUnauthorized(err) {
		logger.Debug(ctx, "token rejected by github")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify token: %w", err)
	}
	return user.GetLogin() != "", nil
}

func isUnauthorized(err error) bool {
	var resp *github.ErrorResponse
	return errors.As(err, &resp) && resp.Response != nil && resp.Response.StatusCode == http.StatusUnauthorized
}

// UserRepositories lists the full names of the repositories owned by username.
func (c *Client) UserRepositories(ctx context.Context, username string) ([]models.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []models.Repository
	for {
		page, resp, err := c.listByUser(ctx, username, opts)
		if err != nil {
			return nil, fmt.Errorf("list repositories of %s: %w", username, err)
		}

		for _, r := range page {
			out = append(out, models.Repository{
				FullName: r.GetFullName(),
				URL:      r.GetHTMLURL(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

func (c *Client) listByUser(ctx context.Context, username string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	return c.repoService.ListByUser(ctx, username, opts)
}

func toRawCommit(rc *github.RepositoryCommit) models.RawCommit {
	author := rc.GetCommit().GetAuthor()

	raw := models.RawCommit{
		SHA:         rc.GetSHA(),
		AuthorName:  author.GetName(),
		AuthorEmail: author.GetEmail(),
		Message:     rc.GetCommit().GetMessage(),
		AuthoredAt:  author.GetDate().Time,
		URL:         rc.GetHTMLURL(),
	}
	for _, f := range rc.Files {
		raw.Files = append(raw.Files, models.RawFileChange{
			Filename:  f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}
	return raw
}

func splitFullName(fullName string) (string, string, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository name %q", fullName)
	}
	return owner, repo, nil
}
