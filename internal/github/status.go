package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v60/github"

	"github.com/cgast/contest/pkg/harness"
)

// StatusReporter posts a suite verdict as a commit status, so a CI run of
// the harness shows up next to the commit it tested. Posting failures are
// the caller's to log; they never change the suite verdict.
type StatusReporter struct {
	client  *gh.Client
	owner   string
	repo    string
	sha     string
	context string
}

// NewStatusReporter creates a reporter for the given commit.
func NewStatusReporter(token, owner, repo, sha, statusContext string) (*StatusReporter, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if statusContext == "" {
		statusContext = "contest"
	}
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}
	return &StatusReporter{
		client:  gh.NewClient(httpClient),
		owner:   owner,
		repo:    repo,
		sha:     sha,
		context: statusContext,
	}, nil
}

// Post publishes the summary as a commit status: success when every case
// passed, failure otherwise.
func (r *StatusReporter) Post(ctx context.Context, sum harness.Summary) error {
	state := "success"
	if sum.Failed() > 0 {
		state = "failure"
	}
	status := &gh.RepoStatus{
		State:       gh.String(state),
		Context:     gh.String(r.context),
		Description: gh.String(fmt.Sprintf("%d/%d tests passed", sum.Passed, sum.Total)),
	}

	_, _, err := r.client.Repositories.CreateStatus(ctx, r.owner, r.repo, r.sha, status)
	if err != nil {
		return fmt.Errorf("create status for %s/%s@%s: %w", r.owner, r.repo, r.sha, err)
	}
	return nil
}

// tokenTransport adds Bearer token auth to HTTP requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}
