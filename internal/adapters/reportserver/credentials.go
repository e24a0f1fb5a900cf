package reportserver

import (
	"fmt"
	"net/http"
)

// AmbientCredentials delegates authentication to the execution context:
// no explicit credentials are attached and the server authenticates
// whatever identity the process runs as.
type AmbientCredentials struct{}

func (AmbientCredentials) Apply(*http.Request) error { return nil }

// BasicAuthCredentials attaches HTTP basic auth for report servers that
// do not accept the ambient identity.
type BasicAuthCredentials struct {
	Username string
	Password string
}

func (c BasicAuthCredentials) Apply(req *http.Request) error {
	if c.Username == "" {
		return fmt.Errorf("basic auth username is empty")
	}
	req.SetBasicAuth(c.Username, c.Password)
	return nil
}
