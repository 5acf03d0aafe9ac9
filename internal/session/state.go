package session

import "fmt"

// State is the login state of a Controller.
type State int

const (
	AwaitingUsername State = iota
	AwaitingPassword
	Active
)

func (s State) String() string {
	switch s {
	case AwaitingUsername:
		return "login_username"
	case AwaitingPassword:
		return "login_password"
	case Active:
		return "active"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state as its tag.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state tag.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{AwaitingUsername, AwaitingPassword, Active} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}

// Reserved outputs of Execute. Callers tell them apart from command output
// by exact match (USERNAME_OK, CLEAR, LOGOUT) or by prefix.
const (
	UsernameOK   = "USERNAME_OK"
	LoginSuccess = "LOGIN_SUCCESS:"
	LoginFailed  = "LOGIN_FAILED:"
	Clear        = "CLEAR"
	Logout       = "LOGOUT"
)
