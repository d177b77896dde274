package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/connectexe/connectexe-client/api"
	"github.com/connectexe/connectexe-client/internal/utils"
	"github.com/connectexe/connectexe-client/session"
	"github.com/connectexe/connectexe-client/token"
	"github.com/connectexe/connectexe-client/token/jwt"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

type command struct {
	summary string
	run     func(a *app, args []string) error
}

var commands = map[string]command{
	"login":          {"sign in with email and password", loginCmd},
	"logout":         {"sign out and clear stored credentials", logoutCmd},
	"whoami":         {"print the signed-in identity", whoamiCmd},
	"oauth-callback": {"store the identity carried by an OAuth redirect URL", oauthCallbackCmd},
	"topics":         {"list forum topics", topicsCmd},
	"topic":          {"show a forum topic with its replies", topicCmd},
	"stats":          {"show admin dashboard statistics", statsCmd},
	"register":       {"create an account and send a verification code", registerCmd},
	"verify-code":    {"confirm an account with the emailed code", verifyCodeCmd},
	"resend-code":    {"email a new verification code", resendCodeCmd},
	"projects":       {"list projects", projectsCmd},
	"project":        {"show a project", projectCmd},
	"project-create": {"submit a project for review", projectCreateCmd},
	"vote":           {"vote for a project", voteCmd},
	"unvote":         {"withdraw a vote", unvoteCmd},
	"approve":        {"approve or reject a pending project (admin)", approveCmd},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: connectexe [--config dir] [--quiet] <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}
}

func (a *app) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.GetHTTPTimeout())
}

func loginCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	email := fs.StringP("email", "e", "", "account email (defaults to the remembered one)")
	password := fs.StringP("password", "p", os.Getenv("CONNECTEXE_PASSWORD"), "account password")
	remember := fs.BoolP("remember", "r", false, "keep the session after this process exits")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		*email, _ = a.manager.Store().RememberedEmail()
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	resp, err := a.client.Login(ctx, api.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	pair := resp.Tokens()
	route, err := a.manager.SignIn(session.Grant{
		Email:        *email,
		UserID:       resp.UserID,
		FullName:     resp.FullName,
		Role:         resp.Role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Verified:     resp.IsVerified,
		Remember:     *remember,
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	color.New(color.FgGreen).Fprintf(a.out, "Signed in as %s (%s)\n", resp.FullName, resp.Role)
	a.navigator.Navigate(route)
	return nil
}

func logoutCmd(a *app, _ []string) error {
	ctx, cancel := a.requestContext()
	defer cancel()

	a.manager.SignOut(ctx)
	if a.cfg.GetForceReload() && a.cfg.GetReloadDelay() > 0 {
		// Let the delayed reload fire before the process exits.
		time.Sleep(a.cfg.GetReloadDelay() + 10*time.Millisecond)
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func whoamiCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
	showToken := fs.Bool("token", false, "also introspect the stored access token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")

	id, ok := a.manager.Current()
	if !ok {
		fmt.Fprintln(a.out, "anonymous")
	} else if err := enc.Encode(id); err != nil {
		return err
	}

	if *showToken {
		access, ok := a.manager.Store().Get(token.KeyAccessToken)
		if _, err := jwt.Check(access); ok && err != nil {
			color.New(color.FgYellow).Fprintf(a.out, "warning: stored access token: %v\n", err)
		}
		return enc.Encode(jwt.Introspect(access))
	}
	return nil
}

func oauthCallbackCmd(a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("oauth-callback: expected the redirect URL")
	}
	u, err := url.Parse(args[0])
	if err != nil {
		return fmt.Errorf("oauth-callback: %w", err)
	}
	if !a.manager.CaptureOAuthRedirect(u.Query()) {
		return fmt.Errorf("oauth-callback: redirect carries no userId, fullName and role")
	}
	a.navigator.Navigate(session.RouteForRole(u.Query().Get("role")))
	return nil
}

func topicsCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("topics", pflag.ContinueOnError)
	page := fs.Int("page", 0, "page number, from 0")
	size := fs.Int("size", 10, "page size")
	mine := fs.Bool("mine", false, "only topics by the signed-in user")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := api.TopicFilter{Page: *page, Size: *size}
	if *mine {
		id, ok := a.manager.Current()
		if !ok {
			return fmt.Errorf("topics: --mine needs a signed-in user")
		}
		filter.UserID = id.UserID
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	result, err := a.client.ListTopics(ctx, filter)
	if err != nil {
		return fmt.Errorf("topics: %w", err)
	}
	for _, t := range result.Content {
		fmt.Fprintf(a.out, "%-12s %-40s %-20s %3d replies\n", t.TopicID, t.Title, t.AuthorName, t.ReplyCount)
	}
	fmt.Fprintf(a.out, "page %d/%d, %d topics\n", result.Number+1, result.TotalPages, result.TotalElements)
	return nil
}

func topicCmd(a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("topic: expected a topic id")
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	t, err := a.client.GetTopic(ctx, args[0])
	if err != nil {
		return fmt.Errorf("topic: %w", err)
	}
	fmt.Fprintf(a.out, "%s\nby %s, %s\n\n%s\n", t.Title, t.AuthorName, t.CreatedAt.Format(time.DateTime), t.Content)
	printReplies(a.out, t.Replies, 1)
	return nil
}

func printReplies(w io.Writer, replies []api.Reply, depth int) {
	for _, r := range replies {
		fmt.Fprintf(w, "%*s- %s: %s\n", depth*2, "", r.AuthorName, r.Content)
		printReplies(w, r.Children, depth+1)
	}
}

func statsCmd(a *app, _ []string) error {
	id, ok := a.manager.Current()
	if !ok || !id.IsAdmin() {
		// UI hint only, the backend decides.
		color.New(color.FgYellow).Fprintln(a.out, "warning: the current identity is not ADMIN")
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	stats, err := a.client.DashboardStats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	rows := []struct {
		label string
		value int64
	}{
		{"Users", stats.TotalUsers},
		{"Active users", stats.ActiveUsers},
		{"Projects", stats.TotalProjects},
		{"Pending projects", stats.PendingProjects},
		{"Projects this month", stats.ProjectsThisMonth},
		{"Topics", stats.TotalTopics},
		{"Topics this month", stats.TopicsThisMonth},
		{"Replies", stats.TotalReplies},
	}
	for _, row := range rows {
		fmt.Fprintf(a.out, "%-20s %s\n", row.label, strconv.FormatInt(row.value, 10))
	}
	return nil
}

func registerCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	var req api.RegisterRequest
	fs.StringVarP(&req.Email, "email", "e", "", "account email")
	fs.StringVarP(&req.Password, "password", "p", os.Getenv("CONNECTEXE_PASSWORD"), "account password")
	fs.StringVarP(&req.FullName, "name", "n", "", "full name")
	fs.StringVar(&req.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&req.IdentityCard, "identity-card", "", "identity card number")
	fs.StringVar(&req.DateOfBirth, "birth-date", "", "date of birth, YYYY-MM-DD")
	fs.StringVar(&req.Gender, "gender", "", "gender")
	fs.StringVar(&req.Address, "address", "", "address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	resp, err := a.client.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	color.New(color.FgGreen).Fprintln(a.out, resp.Message)
	fmt.Fprintf(a.out, "Run: connectexe verify-code --email %s --code <6 digits>\n", req.Email)
	return nil
}

func verifyCodeCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("verify-code", pflag.ContinueOnError)
	var req api.VerifyCodeRequest
	fs.StringVarP(&req.Email, "email", "e", "", "account email")
	fs.StringVar(&req.VerificationCode, "code", "", "verification code from the email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	msg, err := a.client.VerifyCode(ctx, req)
	if err != nil {
		return fmt.Errorf("verify-code: %w", err)
	}
	color.New(color.FgGreen).Fprintln(a.out, msg)
	a.navigator.Navigate(session.RouteLogin)
	return nil
}

func resendCodeCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("resend-code", pflag.ContinueOnError)
	var req api.ResendCodeRequest
	fs.StringVarP(&req.Email, "email", "e", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	msg, err := a.client.ResendCode(ctx, req)
	if err != nil {
		return fmt.Errorf("resend-code: %w", err)
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func projectsCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("projects", pflag.ContinueOnError)
	page := fs.Int("page", 0, "page number, from 0")
	size := fs.Int("size", 10, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	result, err := a.client.ListProjects(ctx, api.ProjectFilter{Page: *page, Size: *size})
	if err != nil {
		return fmt.Errorf("projects: %w", err)
	}
	for _, p := range result.Content {
		voted := " "
		if p.HasVoted {
			voted = "*"
		}
		fmt.Fprintf(a.out, "%-12s %-40s %-11s %-10s %s%4d votes\n", p.ProjectID, p.ProjectName, p.Category, p.Status, voted, p.VoteCount)
	}
	fmt.Fprintf(a.out, "page %d/%d, %d projects\n", result.Number+1, result.TotalPages, result.TotalElements)
	return nil
}

func projectCmd(a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("project: expected a project id")
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	p, err := a.client.GetProject(ctx, args[0])
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	fmt.Fprintf(a.out, "%s [%s, %s]\nby %s, %d votes, public: %t\n\n%s\n", p.ProjectName, p.Category, p.Status,
		p.AuthorName, p.VoteCount, utils.Value(p.IsPublic), p.Description)
	for _, link := range []string{p.WebsiteLink, p.GithubLink, p.DemoLink} {
		if link != "" {
			fmt.Fprintln(a.out, link)
		}
	}
	return nil
}

func projectCreateCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("project-create", pflag.ContinueOnError)
	var req api.CreateProjectRequest
	fs.StringVarP(&req.ProjectName, "name", "n", "", "project name")
	fs.StringVarP(&req.Description, "description", "d", "", "short description")
	fs.StringVar(&req.Content, "content", "", "full write-up")
	fs.StringVar(&req.Category, "category", api.CategoryOther, "TECHNOLOGY, EDUCATION, RECYCLE, INDUSTRIAL or OTHER")
	fs.StringVar(&req.Tags, "tags", "", "comma separated tags")
	fs.StringVar(&req.Members, "members", "", "comma separated member names")
	fs.StringVar(&req.GithubLink, "github", "", "repository link")
	fs.StringVar(&req.WebsiteLink, "website", "", "website link")
	fs.StringVar(&req.DemoLink, "demo", "", "demo link")
	private := fs.Bool("private", false, "hide the project from the public listing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.IsPublic = utils.Ptr(!*private)

	ctx, cancel := a.requestContext()
	defer cancel()

	p, err := a.client.CreateProject(ctx, req)
	if err != nil {
		return fmt.Errorf("project-create: %w", err)
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", p.ProjectID, p.Status)
	return nil
}

func voteCmd(a *app, args []string) error {
	return voteWith(a, "vote", args, a.client.VoteProject)
}

func unvoteCmd(a *app, args []string) error {
	return voteWith(a, "unvote", args, a.client.UnvoteProject)
}

func voteWith(a *app, name string, args []string, fn func(context.Context, string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("%s: expected a project id", name)
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	if err := fn(ctx, args[0]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func approveCmd(a *app, args []string) error {
	fs := pflag.NewFlagSet("approve", pflag.ContinueOnError)
	reject := fs.Bool("reject", false, "reject instead of approving")
	reason := fs.String("reason", "", "reason shown to the owner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("approve: expected a project id")
	}

	if id, ok := a.manager.Current(); !ok || !id.IsAdmin() {
		color.New(color.FgYellow).Fprintln(a.out, "warning: the current identity is not ADMIN")
	}

	ctx, cancel := a.requestContext()
	defer cancel()

	msg, err := a.client.ApproveProject(ctx, api.ApproveProjectRequest{
		ProjectID: fs.Arg(0),
		Approved:  utils.Ptr(!*reject),
		Reason:    *reason,
	})
	if err != nil {
		return fmt.Errorf("approve: %w", err)
	}
	fmt.Fprintln(a.out, msg)
	return nil
}
