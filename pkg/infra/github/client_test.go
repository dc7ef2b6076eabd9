package github_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bosun/pkg/infra/github"
)

func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
	}{
		{
			name:      "SSH form",
			url:       "git@github.com:acme/widget.git",
			wantOwner: "acme",
			wantRepo:  "widget",
		},
		{
			name:      "SSH form without .git suffix",
			url:       "git@github.com:acme/widget",
			wantOwner: "acme",
			wantRepo:  "widget",
		},
		{
			name:      "HTTPS git+ form",
			url:       "git+https://github.com/acme/widget.git",
			wantOwner: "acme",
			wantRepo:  "widget",
		},
		{
			name:      "plain HTTPS form",
			url:       "https://github.com/acme/widget",
			wantOwner: "acme",
			wantRepo:  "widget",
		},
		{
			name:      "bare owner/repo",
			url:       "acme/widget",
			wantOwner: "acme",
			wantRepo:  "widget",
		},
		{
			name:      "anything else passes through unparsed",
			url:       "ftp://example.com/not/a/repo/url",
			wantOwner: "ftp://example.com/not/a/repo/url",
			wantRepo:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo := github.ParseOwnerRepo(tt.url)
			gt.Equal(t, owner, tt.wantOwner)
			gt.Equal(t, repo, tt.wantRepo)
		})
	}
}

func TestNewClient(t *testing.T) {
	client := github.NewClient("token")
	gt.Value(t, client).NotNil()
}
