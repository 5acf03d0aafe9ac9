package auth

// PrimaryUser owns the home directory that "~" expands to.
const PrimaryUser = "skairipa"

// Identity is a registered account with its shell metadata.
type Identity struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	UID          int      `json:"uid"`
	GID          int      `json:"gid"`
	Home         string   `json:"home"`
	Shell        string   `json:"shell"`
	Groups       []string `json:"groups"`
	FullName     string   `json:"full_name"`
}

// IsRoot reports whether the identity has uid 0.
func (id Identity) IsRoot() bool { return id.UID == 0 }

func (id Identity) clone() Identity {
	c := id
	c.Groups = append([]string(nil), id.Groups...)
	return c
}

// DefaultIdentities returns the seeded accounts. Password hashes are
// unsalted SHA-256 hex digests.
func DefaultIdentities() []Identity {
	return []Identity{
		{
			Username:     PrimaryUser,
			PasswordHash: "936d04ec3da8478e72828e63e558cd8f12418becae504669fb878f571ee75d61",
			UID:          1000,
			GID:          1000,
			Home:         "/home/skairipa",
			Shell:        "/bin/bash",
			Groups:       []string{"wheel", "sudo", "users"},
			FullName:     "Hanna Skairipa",
		},
		{
			Username:     "root",
			PasswordHash: "8f3e9a2c1b5d7f4e6a8c3b9d2f5e7a1c4d8b6e3f9a2c5d7e4b1f8a6c3e9d2b5f7",
			UID:          0,
			GID:          0,
			Home:         "/root",
			Shell:        "/bin/bash",
			Groups:       []string{"root"},
			FullName:     "System Administrator",
		},
	}
}
