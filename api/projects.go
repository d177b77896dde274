package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
)

const projectsPath = "/projects"

func projectPath(projectID string) string {
	return projectsPath + "/" + url.PathEscape(projectID)
}

func (c *Client) ListProjects(ctx context.Context, filter ProjectFilter) (*Page[Project], error) {
	if err := c.validate.Struct(&filter); err != nil {
		return nil, fmt.Errorf("list projects: %w: %s", cxerrors.ErrInvalidRequest, err)
	}
	if filter.Size == 0 {
		filter.Size = 10
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("size", strconv.Itoa(filter.Size))

	var resp Response[Page[Project]]
	if err := c.do(ctx, call{method: http.MethodGet, path: projectsPath, query: q, out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	if projectID == "" {
		return nil, fmt.Errorf("get project: %w: empty project id", cxerrors.ErrInvalidRequest)
	}
	var resp Response[Project]
	if err := c.do(ctx, call{method: http.MethodGet, path: projectPath(projectID), out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateProject submits a project for review; it starts out PENDING.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var resp Response[Project]
	if err := c.do(ctx, call{method: http.MethodPost, path: projectsPath, body: &req, out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) VoteProject(ctx context.Context, projectID string) error {
	return c.vote(ctx, http.MethodPost, projectID)
}

func (c *Client) UnvoteProject(ctx context.Context, projectID string) error {
	return c.vote(ctx, http.MethodDelete, projectID)
}

func (c *Client) vote(ctx context.Context, method, projectID string) error {
	if projectID == "" {
		return fmt.Errorf("vote: %w: empty project id", cxerrors.ErrInvalidRequest)
	}
	return c.do(ctx, call{method: method, path: projectPath(projectID) + "/vote"})
}
