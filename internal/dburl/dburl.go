// Package dburl parses database URLs of the form
// dialect[+driver]://[user[:password]@][host][:port][/database][?query].
package dburl

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalid is returned for URLs that cannot be parsed.
var ErrInvalid = errors.New("invalid database url")

// URL is a parsed database URL.
type URL struct {
	Drivername string
	Username   string
	Password   string
	// HasPassword distinguishes an empty password from no password.
	HasPassword bool
	Host        string
	Port        int
	Database    string
	Query       url.Values
}

// Parse parses a database URL.
func Parse(raw string) (*URL, error) {
	scheme, _, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return nil, fmt.Errorf("%w: %q has no drivername", ErrInvalid, Redact(raw))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, redactErr(err, raw))
	}

	out := &URL{
		Drivername: scheme,
		Host:       u.Hostname(),
		Query:      u.Query(),
	}
	if u.User != nil {
		out.Username = u.User.Username()
		out.Password, out.HasPassword = u.User.Password()
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("%w: port %q out of range", ErrInvalid, p)
		}
		out.Port = port
	}

	// sqlite:///rel.db has path "/rel.db", sqlite:////abs.db has "//abs.db".
	out.Database = strings.TrimPrefix(u.Path, "/")

	return out, nil
}

// Set returns a copy of the URL with another drivername.
func (u *URL) Set(drivername string) *URL {
	c := *u
	c.Drivername = drivername
	c.Query = url.Values{}
	for k, v := range u.Query {
		c.Query[k] = append([]string(nil), v...)
	}
	return &c
}

// WithoutPassword returns a copy of the URL with the password removed.
func (u *URL) WithoutPassword() *URL {
	c := u.Set(u.Drivername)
	c.Password = ""
	c.HasPassword = false
	return c
}

// HostPort returns host:port, omitting the port when unset.
func (u *URL) HostPort() string {
	if u.Port == 0 {
		if strings.Contains(u.Host, ":") {
			return "[" + u.Host + "]"
		}
		return u.Host
	}
	return net.JoinHostPort(u.Host, strconv.Itoa(u.Port))
}

func (u *URL) render(hidePassword bool) string {
	var b strings.Builder
	b.WriteString(u.Drivername)
	b.WriteString("://")

	switch {
	case u.HasPassword && hidePassword:
		b.WriteString(url.UserPassword(u.Username, "***").String())
		b.WriteByte('@')
	case u.HasPassword:
		b.WriteString(url.UserPassword(u.Username, u.Password).String())
		b.WriteByte('@')
	case u.Username != "":
		b.WriteString(url.User(u.Username).String())
		b.WriteByte('@')
	}

	b.WriteString(u.HostPort())

	if u.Database != "" {
		b.WriteString((&url.URL{Path: "/" + u.Database}).EscapedPath())
	}
	if len(u.Query) > 0 {
		b.WriteByte('?')
		b.WriteString(u.Query.Encode())
	}
	return b.String()
}

// String renders the URL including the password.
func (u *URL) String() string {
	return u.render(false)
}

// Redacted renders the URL with the password masked.
func (u *URL) Redacted() string {
	return u.render(true)
}

// Redact masks the password of a raw URL for logging; unparsable input is
// replaced entirely.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparsable url>"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

func redactErr(err error, raw string) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err.Error()
	}
	return "cannot parse " + Redact(raw)
}
