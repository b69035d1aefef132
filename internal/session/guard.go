package session

// Access is the route guard's verdict for a protected view.
type Access int

const (
	// AccessDefer renders nothing until the session resolves.
	AccessDefer Access = iota
	// AccessRedirect sends the browser to the login view.
	AccessRedirect
	// AccessAllow renders the protected view.
	AccessAllow
)

func (a Access) String() string {
	switch a {
	case AccessRedirect:
		return "redirect"
	case AccessAllow:
		return "allow"
	default:
		return "defer"
	}
}

// Guard decides access to a protected view from the session status alone.
func Guard(status Status) Access {
	switch status {
	case StatusAuthenticated:
		return AccessAllow
	case StatusUnauthenticated:
		return AccessRedirect
	default:
		return AccessDefer
	}
}
