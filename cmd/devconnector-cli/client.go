package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type post struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Likes []struct {
		User string `json:"user"`
	} `json:"likes"`
	Comments []struct {
		ID string `json:"id"`
	} `json:"comments"`
}

func (p post) likedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

// apiClient talks to the devconnector REST API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

type envelope struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"Error"`
}

func (c *apiClient) do(method, path string, body any) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api unreachable: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("unexpected response (%d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 || !env.Success {
		if env.Error == "" {
			env.Error = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", env.Error)
	}
	return &env, nil
}

// login stores the session token and returns the signed in user's id.
func (c *apiClient) login(email, password string) (string, error) {
	env, err := c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	c.token = env.Token

	me, err := c.do(http.MethodGet, "/api/v1/auth/me", nil)
	if err != nil {
		return "", err
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(me.Data, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (c *apiClient) posts(limit int) ([]post, error) {
	env, err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/posts?limit=%d&sort=-createdAt", limit), nil)
	if err != nil {
		return nil, err
	}
	var out []post
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) like(postID string) error {
	_, err := c.do(http.MethodPut, "/api/v1/posts/likes/"+postID, nil)
	return err
}

func (c *apiClient) unlike(postID string) error {
	_, err := c.do(http.MethodPut, "/api/v1/posts/unlike/"+postID, nil)
	return err
}

func (c *apiClient) createPost(text string) error {
	_, err := c.do(http.MethodPost, "/api/v1/posts", map[string]string{"text": text})
	return err
}
