package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
)

const topicsPath = "/forum/topics"

func topicPath(topicID string) string {
	return topicsPath + "/" + url.PathEscape(topicID)
}

func (c *Client) ListTopics(ctx context.Context, filter TopicFilter) (*Page[Topic], error) {
	if err := c.validate.Struct(&filter); err != nil {
		return nil, fmt.Errorf("list topics: %w: %s", cxerrors.ErrInvalidRequest, err)
	}
	if filter.Size == 0 {
		filter.Size = 10
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("size", strconv.Itoa(filter.Size))
	if filter.Approved != nil {
		q.Set("approved", strconv.FormatBool(*filter.Approved))
	}
	if filter.UserID != "" {
		q.Set("userId", filter.UserID)
	}
	if filter.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*filter.IsActive))
	}

	var resp Response[Page[Topic]]
	if err := c.do(ctx, call{method: http.MethodGet, path: topicsPath, query: q, out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) GetTopic(ctx context.Context, topicID string) (*TopicDetail, error) {
	if topicID == "" {
		return nil, fmt.Errorf("get topic: %w: empty topic id", cxerrors.ErrInvalidRequest)
	}
	var resp Response[TopicDetail]
	if err := c.do(ctx, call{method: http.MethodGet, path: topicPath(topicID), out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) CreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error) {
	var resp Response[Topic]
	if err := c.do(ctx, call{method: http.MethodPost, path: topicsPath, body: &req, out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) CreateReply(ctx context.Context, topicID string, req CreateReplyRequest) (*Reply, error) {
	if topicID == "" {
		return nil, fmt.Errorf("create reply: %w: empty topic id", cxerrors.ErrInvalidRequest)
	}
	var resp Response[Reply]
	if err := c.do(ctx, call{method: http.MethodPost, path: topicPath(topicID) + "/replies", body: &req, out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
