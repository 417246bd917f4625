package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/models"
)

var jsonHeader = http.Header{"Content-Type": []string{"application/json"}}

// send maps a Result onto the error taxonomy and rejects non-2xx statuses.
// The returned body has been fully read; the response is closed.
func (c *Client) send(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	var header http.Header
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		header = jsonHeader
	}

	res := c.Request(ctx, method, path, body, header)
	switch res.Kind {
	case ResultSessionExpired:
		return 0, nil, ErrSessionExpired
	case ResultNetworkError:
		return 0, nil, res.Err
	}
	return readResponse(res.Response)
}

func readResponse(resp *http.Response) (int, []byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Method: resp.Request.Method, URL: resp.Request.URL.String(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, data, newAPIError(resp.StatusCode, data)
	}
	return resp.StatusCode, data, nil
}

func decodePlan(data []byte) (models.Plan, error) {
	if err := models.ValidatePlanJSON(data); err != nil {
		return models.Plan{}, err
	}
	var plan models.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.Plan{}, fmt.Errorf("failed to decode plan: %w", err)
	}
	return plan, nil
}

func isNullBody(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Signup registers a new account. It does not touch the session.
func (c *Client) Signup(ctx context.Context, creds models.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(constants.EndpointSignup), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, _, err = c.sendAnonymous(req)
	return err
}

// Login exchanges credentials for a token. Storing the token is the caller's decision.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.Token, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(constants.EndpointLogin), strings.NewReader(form.Encode()))
	if err != nil {
		return models.Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, data, err := c.sendAnonymous(req)
	if err != nil {
		return models.Token{}, err
	}
	var token models.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return models.Token{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	if token.AccessToken == "" {
		return models.Token{}, fmt.Errorf("login response carried no access token")
	}
	if token.Username == "" {
		token.Username = creds.Username
	}
	return token, nil
}

// sendAnonymous bypasses the session: a 401 here means bad credentials, not an expired session
func (c *Client) sendAnonymous(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("Request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return 0, nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	return readResponse(resp)
}

// GeneratePlan submits free-text tasks and returns the generated plan
func (c *Client) GeneratePlan(ctx context.Context, tasks string) (models.Plan, error) {
	_, data, err := c.send(ctx, http.MethodPost, constants.EndpointPlan, models.TaskInput{Tasks: tasks})
	if err != nil {
		return models.Plan{}, err
	}
	return decodePlan(data)
}

// LoadPlan returns the stored plan, or nil when none exists yet
func (c *Client) LoadPlan(ctx context.Context) (*models.Plan, error) {
	status, data, err := c.send(ctx, http.MethodGet, constants.EndpointLoad, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || isNullBody(data) {
		return nil, nil
	}
	plan, err := decodePlan(data)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// SavePlan persists the entire plan
func (c *Client) SavePlan(ctx context.Context, plan models.Plan) error {
	_, _, err := c.send(ctx, http.MethodPost, constants.EndpointSave, plan)
	return err
}

// Today returns the tasks whose deadline is today
func (c *Client) Today(ctx context.Context) ([]models.Task, error) {
	_, data, err := c.send(ctx, http.MethodGet, constants.EndpointToday, nil)
	if err != nil {
		return nil, err
	}
	if isNullBody(data) {
		return nil, nil
	}
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode today's tasks: %w", err)
	}
	return tasks, nil
}

// Analytics returns completed-task counts per category
func (c *Client) Analytics(ctx context.Context) (models.Analytics, error) {
	_, data, err := c.send(ctx, http.MethodGet, constants.EndpointAnalytics, nil)
	if err != nil {
		return models.Analytics{}, err
	}
	var analytics models.Analytics
	if err := json.Unmarshal(data, &analytics); err != nil {
		return models.Analytics{}, fmt.Errorf("failed to decode analytics: %w", err)
	}
	return analytics, nil
}

// Ping checks that the service is reachable
func (c *Client) Ping(ctx context.Context) (models.Ping, error) {
	_, data, err := c.send(ctx, http.MethodGet, constants.EndpointPing, nil)
	if err != nil {
		return models.Ping{}, err
	}
	var ping models.Ping
	if err := json.Unmarshal(data, &ping); err != nil {
		return models.Ping{}, fmt.Errorf("failed to decode ping: %w", err)
	}
	return ping, nil
}
