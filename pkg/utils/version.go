// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

import "fmt"

// Build information, stamped with -ldflags "-X" at release time.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// BuildInfo is the multi-line report printed by "rehearse version".
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nSha: %s\nBuilt at: %s\n", Version, Sha, Buildtime)
}

// UserAgent identifies this build to the interview backend.
func UserAgent() string {
	sha := Sha
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return fmt.Sprintf("rehearse/%s (%s)", Version, sha)
}
