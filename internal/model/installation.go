package model

import "time"

// Installation is a GitHub App installation on an account.
type Installation struct {
	ID           int64 // GitHub installation ID
	AccountLogin string
	Installed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repo is a repository reachable through an installation.
type Repo struct {
	ID             string // internal UUID
	FullName       string // "owner/name"
	GitHubRepoID   int64
	InstallationID int64 // 0 when the app was uninstalled
	Installed      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
