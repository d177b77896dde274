package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
)

const (
	loginPath      = "/auth/login"
	logoutPath     = "/auth/logout"
	profilePath    = "/auth/profile"
	registerPath   = "/auth/register"
	verifyCodePath = registerPath + "/verify-code"
	resendCodePath = registerPath + "/resend-code"
)

// Login posts credentials. Bad credentials come back as ErrInvalidCredentials
// without a redirect.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      loginPath,
		body:      &req,
		out:       &resp,
		anonymous: true,
	}); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout asks the backend to drop its session and expire its cookies.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{
		method:    http.MethodPost,
		path:      logoutPath,
		anonymous: true,
	})
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var resp Response[Profile]
	if err := c.do(ctx, call{method: http.MethodGet, path: profilePath, out: &resp}); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Register creates an unverified account; the backend mails a six digit code
// for VerifyCode. When the email, phone number or identity card is taken the
// response names them and the error wraps ErrInvalidRequest.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      registerPath,
		body:      &req,
		out:       &resp,
		errOut:    &resp,
		anonymous: true,
	})
	if err != nil {
		if used := resp.Conflicts(); len(used) > 0 {
			return &resp, fmt.Errorf("register: %w: already used: %s", cxerrors.ErrInvalidRequest, strings.Join(used, ", "))
		}
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VerifyCode(ctx context.Context, req VerifyCodeRequest) (string, error) {
	return c.registerStep(ctx, verifyCodePath, &req)
}

// ResendCode asks for a fresh verification code. The backend limits how often
// this works and refuses already verified accounts.
func (c *Client) ResendCode(ctx context.Context, req ResendCodeRequest) (string, error) {
	return c.registerStep(ctx, resendCodePath, &req)
}

func (c *Client) registerStep(ctx context.Context, path string, body any) (string, error) {
	var resp Response[any]
	if err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      path,
		body:      body,
		out:       &resp,
		anonymous: true,
	}); err != nil {
		return "", err
	}
	return resp.Message, nil
}
