package credentials

// Credentials represents the stored login state in credentials.toml.
type Credentials struct {
	Version int               `toml:"version"`
	Session SessionCredential `toml:"session"`
}

// SessionCredential holds the token issued by the interview backend at login.
type SessionCredential struct {
	Token    string `toml:"token,omitempty"`
	Username string `toml:"username,omitempty"`
	UserID   int64  `toml:"user_id,omitempty"`
}
