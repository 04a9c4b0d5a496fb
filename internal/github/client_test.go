package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devlink/devlink/backend/internal/github"
)

func TestClient_Repos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("per_page") != "5" {
			t.Errorf("expected per_page=5, got %s", r.URL.Query().Get("per_page"))
		}
		if r.Header.Get("User-Agent") != "devlink" {
			t.Errorf("expected devlink user agent, got %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"hello-world","html_url":"https://github.com/octocat/hello-world","stargazers_count":3}]`))
	}))
	defer server.Close()

	client := github.NewClientWithBaseURL(server.URL)

	repos, err := client.Repos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repos) != 1 {
		t.Fatalf("expected 1 repo, got %d", len(repos))
	}
	if repos[0].Name != "hello-world" || repos[0].StargazersCount != 3 {
		t.Errorf("unexpected repo: %+v", repos[0])
	}
}

func TestClient_Repos_UnknownUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client := github.NewClientWithBaseURL(server.URL)

	_, err := client.Repos(context.Background(), "nobody")
	if !errors.Is(err, github.ErrNoGithubProfile) {
		t.Fatalf("expected ErrNoGithubProfile, got %v", err)
	}
}
