// Package identity supplies the bearer token and organization id that the
// hosting environment owns. Providers are read on every invocation, never
// cached by callers, so an org switch is picked up immediately.
package identity

import "strings"

const (
	EnvToken = "ACTIONRUN_IMS_TOKEN"
	EnvOrg   = "ACTIONRUN_IMS_ORG"
)

type Credentials struct {
	Token string
	Org   string
}

func (c Credentials) Empty() bool {
	return c.Token == "" && c.Org == ""
}

type Provider interface {
	Credentials() Credentials
}

type Static Credentials

func (s Static) Credentials() Credentials {
	return Credentials(s)
}

// Env reads the environment through Getenv each time it is asked.
type Env struct {
	Getenv func(string) string
}

func (e Env) Credentials() Credentials {
	if e.Getenv == nil {
		return Credentials{}
	}
	return Credentials{
		Token: strings.TrimSpace(e.Getenv(EnvToken)),
		Org:   strings.TrimSpace(e.Getenv(EnvOrg)),
	}
}

// Chain returns the first non-empty credentials, so flags can shadow the
// environment which in turn shadows the credentials file.
type Chain []Provider

func (c Chain) Credentials() Credentials {
	for _, p := range c {
		if p == nil {
			continue
		}
		if creds := p.Credentials(); !creds.Empty() {
			return creds
		}
	}
	return Credentials{}
}
