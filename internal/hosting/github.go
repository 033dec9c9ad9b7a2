// Package hosting talks to the source-control host: default-branch
// lookup, branch push of a modified file set, and pull-request creation.
// Pushes go through the git CLI against a temporary clone; everything
// else is the GitHub REST API.
package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const apiBase = "https://api.github.com"

// Client is an authenticated GitHub client for one repository.
type Client struct {
	repoURL string
	token   string
	api     string
	http    *http.Client
}

// NewClient builds a Client for an https repository URL.
func NewClient(repoURL, token string) (*Client, error) {
	if _, _, err := splitRepoURL(repoURL); err != nil {
		return nil, err
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("missing hosting token")
	}
	return &Client{
		repoURL: strings.TrimSuffix(strings.TrimSpace(repoURL), "/"),
		token:   token,
		api:     apiBase,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// DefaultBranch returns the repository's default branch name.
func (c *Client) DefaultBranch(ctx context.Context) (string, error) {
	owner, repo, err := splitRepoURL(c.repoURL)
	if err != nil {
		return "", err
	}

	var payload struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", c.api, owner, repo), &payload); err != nil {
		return "", fmt.Errorf("default branch: %w", err)
	}
	if payload.DefaultBranch == "" {
		return "", errors.New("default branch: empty response")
	}
	return payload.DefaultBranch, nil
}

// PushFiles clones the repository into a temporary directory, writes the
// modified files onto a new branch, commits and pushes. The clone is
// removed afterwards.
func (c *Client) PushFiles(ctx context.Context, branch, commitMessage string, files map[string]string) error {
	if len(files) == 0 {
		return errors.New("push: no files to commit")
	}

	tempDir, err := os.MkdirTemp("", "planpatch-push-")
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer os.RemoveAll(tempDir)

	authedURL := strings.Replace(c.repoURL, "https://", "https://"+c.token+"@", 1)
	if err := runGit(ctx, "", "clone", "--depth", "1", authedURL, tempDir); err != nil {
		return fmt.Errorf("push: clone: %w", err)
	}
	if err := runGit(ctx, tempDir, "checkout", "-b", branch); err != nil {
		return fmt.Errorf("push: checkout: %w", err)
	}

	for rel, content := range files {
		abs := filepath.Join(tempDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("push: %w", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			return fmt.Errorf("push: %w", err)
		}
	}

	if err := runGit(ctx, tempDir, "add", "."); err != nil {
		return fmt.Errorf("push: add: %w", err)
	}
	if err := runGit(ctx, tempDir, "commit", "-m", commitMessage); err != nil {
		return fmt.Errorf("push: commit: %w", err)
	}
	if err := runGit(ctx, tempDir, "push", "-u", "origin", branch); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// OpenPullRequest opens a PR from branch onto base and returns its URL.
// If a PR for the branch already exists, its URL is returned instead of
// an error.
func (c *Client) OpenPullRequest(ctx context.Context, branch, base, title, body string) (string, error) {
	owner, repo, err := splitRepoURL(c.repoURL)
	if err != nil {
		return "", err
	}
	pullsURL := fmt.Sprintf("%s/repos/%s/%s/pulls", c.api, owner, repo)

	payload, err := json.Marshal(map[string]any{
		"title": title,
		"head":  branch,
		"base":  base,
		"body":  body,
		"draft": false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pullsURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("open pull request: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusCreated {
		var created struct {
			HTMLURL string `json:"html_url"`
		}
		if err := json.Unmarshal(respBody, &created); err != nil {
			return "", fmt.Errorf("open pull request: %w", err)
		}
		return created.HTMLURL, nil
	}

	// 422 with "already exists" means a PR for this branch is open; find
	// and reuse it.
	if resp.StatusCode == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(string(respBody)), "already exists") {
		if url, ok := c.findExistingPR(ctx, pullsURL, owner, branch, base); ok {
			return url, nil
		}
	}

	return "", fmt.Errorf("open pull request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
}

func (c *Client) findExistingPR(ctx context.Context, pullsURL, owner, branch, base string) (string, bool) {
	var open []struct {
		HTMLURL string `json:"html_url"`
	}
	listURL := fmt.Sprintf("%s?head=%s:%s&base=%s", pullsURL, owner, branch, base)
	if err := c.getJSON(ctx, listURL, &open); err != nil || len(open) == 0 {
		return "", false
	}
	return open[0].HTMLURL, true
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

func splitRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || !strings.HasPrefix(repoURL, "https://") {
		return "", "", fmt.Errorf("invalid repository url %q", repoURL)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

func runGit(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %v: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
