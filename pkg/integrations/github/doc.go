// Package github provides an HTTP client for the GitHub API.
//
// # Overview
//
// Bower packages have no version index of their own: the Bower registry only
// maps a name to a git repository. This package reads the repository's tags
// from GitHub (https://api.github.com) so the newest release can be picked.
//
// # Usage
//
//	client := github.NewClient(cache.NewMemoryCache(0, 0), os.Getenv("GITHUB_TOKEN"))
//	owner, repo, ok := github.ParseRepoURL("git://github.com/jquery/jquery-dist.git")
//	latest, err := client.LatestRelease(ctx, owner, repo)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Release Selection
//
// [Client.LatestRelease] parses every tag as a version (a leading "v" is
// accepted) and returns the highest one without a prerelease suffix.
package github
