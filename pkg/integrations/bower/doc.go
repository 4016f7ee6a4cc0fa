// Package bower provides an HTTP client for the Bower registry.
//
// The Bower registry (https://registry.bower.io) stores only a name to
// repository mapping. [Client.Latest] looks the name up and then asks GitHub
// for the repository's highest release tag:
//
//	gh := github.NewClient(memo, os.Getenv("GITHUB_TOKEN"))
//	client := bower.NewClient(memo, "", gh)
//	latest, err := client.Latest(ctx, "jquery")
//
// Packages registered with a non-GitHub repository cannot be resolved.
package bower
