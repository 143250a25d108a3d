// Package agilefant implements tracker.Interface against Agilefant's web
// interface, using its login form and ajax actions.
package agilefant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jeffrom/agilog/model"
	"github.com/jeffrom/agilog/tracker"
)

// Paths relative to the base url.
const (
	PathLogin         = "login.jsp"
	PathSecurityCheck = "j_spring_security_check"
	PathLogout        = "j_spring_security_logout"
	PathIterationData = "ajax/iterationData.action"
	PathHourEntries   = "ajax/retrieveTaskHourEntries.action"
	PathLogTaskEffort = "ajax/logTaskEffort.action"
)

const SessionCookie = "JSESSIONID"

// Client is a session with an Agilefant server. It is not safe for
// concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	log       *zap.Logger
}

var _ tracker.Interface = (*Client)(nil)

type Option func(c *Client)

// WithHTTPClient replaces the http client. A cookie jar is added if it
// doesn't have one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("agilefant: invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("agilefant: invalid base url scheme %q", base.Scheme)
	}

	c := &Client{
		base:      base,
		userAgent: "agilog",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Authenticate starts a session and logs in with the login form.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	res, err := c.do(ctx, http.MethodGet, PathLogin, nil, nil)
	if err != nil {
		return unavailable(tracker.OpAuthenticate, err)
	}
	drain(res)
	if c.sessionID() == "" {
		return unavailable(tracker.OpAuthenticate, errors.New("no session cookie"))
	}

	form := url.Values{
		"j_username": {username},
		"j_password": {password},
	}
	res, err = c.postForm(ctx, PathSecurityCheck, form)
	if err != nil {
		return unavailable(tracker.OpAuthenticate, err)
	}
	defer drain(res)

	// failed logins are redirected back to the login page
	if final := res.Request.URL; strings.HasSuffix(final.Path, PathLogin) || final.Query().Has("error") {
		return unavailable(tracker.OpAuthenticate, fmt.Errorf("login failed for user %q", username))
	}
	c.log.Debug("authenticated", zap.String("user", username))
	return nil
}

func (c *Client) Deauthenticate(ctx context.Context) error {
	q := url.Values{"exit": {"Logout"}}
	res, err := c.do(ctx, http.MethodGet, PathLogout, q, nil)
	if err != nil {
		return unavailable(tracker.OpDeauthenticate, err)
	}
	drain(res)
	return nil
}

func (c *Client) FetchIteration(ctx context.Context, id int) (*model.Iteration, error) {
	q := url.Values{"iterationId": {strconv.Itoa(id)}}
	it := &model.Iteration{}
	if err := c.getJSON(ctx, PathIterationData, q, it); err != nil {
		return nil, unavailable(tracker.OpFetchIteration, fmt.Errorf("iteration %d (check the iteration id is correct): %w", id, err))
	}
	it.ID = id
	c.log.Debug("fetched iteration", zap.Int("iteration_id", id), zap.Int("stories", len(it.Stories)))
	return it, nil
}

func (c *Client) FetchEntries(ctx context.Context, taskID int) ([]*model.HourEntry, error) {
	q := url.Values{"parentObjectId": {strconv.Itoa(taskID)}}
	var entries []*model.HourEntry
	if err := c.getJSON(ctx, PathHourEntries, q, &entries); err != nil {
		return nil, unavailable(tracker.OpFetchEntries, fmt.Errorf("task %d: %w", taskID, err))
	}
	return entries, nil
}

func (c *Client) SubmitEntry(ctx context.Context, entry *model.EffortEntry) error {
	form := url.Values{
		"hourEntry.date":         {strconv.FormatInt(entry.Date, 10)},
		"hourEntry.minutesSpent": {strconv.Itoa(entry.MinutesSpent)},
		"hourEntry.description":  {entry.Description},
		"parentObjectId":         {strconv.Itoa(entry.TaskID)},
		"userIds":                {strconv.Itoa(entry.UserID)},
	}
	res, err := c.postForm(ctx, PathLogTaskEffort, form)
	if err != nil {
		return unavailable(tracker.OpSubmitEntry, err)
	}
	defer drain(res)
	if strings.HasSuffix(res.Request.URL.Path, PathLogin) {
		return unavailable(tracker.OpSubmitEntry, errors.New("session expired"))
	}
	return nil
}

// CloseIdleConnections closes any connections left open by the session.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

func (c *Client) sessionID() string {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == SessionCookie {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) getJSON(ctx context.Context, p string, q url.Values, v interface{}) error {
	res, err := c.do(ctx, http.MethodGet, p, q, nil)
	if err != nil {
		return err
	}
	defer drain(res)

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid response from %s: %w", p, err)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, p string, form url.Values) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, p, nil, strings.NewReader(form.Encode()))
}

func (c *Client) do(ctx context.Context, method, p string, q url.Values, body io.Reader) (*http.Response, error) {
	u := c.base.ResolveReference(&url.URL{Path: p})
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", p),
		zap.Int("status", res.StatusCode),
	)
	if res.StatusCode >= 400 {
		drain(res)
		return nil, fmt.Errorf("%s %s: %s", method, p, res.Status)
	}
	return res, nil
}

func drain(res *http.Response) {
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
}

func unavailable(op string, err error) error {
	return tracker.ServiceUnavailableError{Op: op, Err: err}
}
