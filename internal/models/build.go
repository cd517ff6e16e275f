package models

// BuildInformation is set when linking the program.
type BuildInformation struct {
	Version string
	Commit  string
	Date    string
}

// VersionString returns the version, suffixed with the
// short commit hash for builds of the latest sources.
func (b BuildInformation) VersionString() string {
	const shortCommitLength = 7
	if b.Version != "latest" || len(b.Commit) < shortCommitLength {
		return b.Version
	}
	return b.Version + "-" + b.Commit[:shortCommitLength]
}
