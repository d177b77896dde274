package api

import (
	"context"
	"net/http"
	"net/url"
)

const (
	dashboardStatsPath = "/admin/dashboard/stats"
	adminProjectsPath  = "/admin/projects"
)

// DashboardStats needs an ADMIN session; anything else gets ErrForbidden.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, call{method: http.MethodGet, path: dashboardStatsPath, out: &stats}); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ApproveProject records an admin decision on a pending project and returns
// the backend's message.
func (c *Client) ApproveProject(ctx context.Context, req ApproveProjectRequest) (string, error) {
	var resp Response[any]
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   adminProjectsPath + "/" + url.PathEscape(req.ProjectID) + "/approve",
		body:   &req,
		out:    &resp,
	}); err != nil {
		return "", err
	}
	return resp.Message, nil
}
