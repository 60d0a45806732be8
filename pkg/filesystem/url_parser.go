package filesystem

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSSHPort is used when an SFTP URL does not name a port.
const DefaultSSHPort = 22

var (
	// ErrMissingUser is returned for SFTP URLs without a username.
	ErrMissingUser = errors.New("SFTP URL must include username (sftp://user@host/path)")
	// ErrMissingHost is returned for SFTP URLs without a host.
	ErrMissingHost = errors.New("SFTP URL must include host")
)

// ParsedPath represents either a local path or an SFTP URL.
type ParsedPath struct {
	IsRemote bool

	// For local paths
	LocalPath string

	// For SFTP paths
	Host string
	Port int
	User string
	Path string // Remote path
}

// ParsePath parses a path string, detecting whether it's a local path or an
// SFTP URL of the form sftp://user@host[:port]/path. The port defaults to 22.
//
// Remote path convention:
//   - sftp://user@host/path  → path relative to the user's home directory
//   - sftp://user@host//path → absolute path /path
//   - sftp://user@host       → the home directory itself
func ParsePath(pathStr string) (*ParsedPath, error) {
	if !strings.HasPrefix(pathStr, "sftp://") {
		return &ParsedPath{IsRemote: false, LocalPath: pathStr}, nil
	}

	parsed, err := url.Parse(pathStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if parsed.User == nil || parsed.User.Username() == "" {
		return nil, ErrMissingUser
	}

	host := parsed.Hostname()
	if host == "" {
		return nil, ErrMissingHost
	}

	port := DefaultSSHPort

	if portStr := parsed.Port(); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}
	}

	return &ParsedPath{
		IsRemote: true,
		Host:     host,
		Port:     port,
		User:     parsed.User.Username(),
		Path:     remotePathFrom(parsed.Path),
	}, nil
}

// remotePathFrom applies the home-relative vs absolute convention to the
// path component of an SFTP URL.
func remotePathFrom(urlPath string) string {
	switch {
	case urlPath == "" || urlPath == "/":
		return "."
	case strings.HasPrefix(urlPath, "//"):
		return urlPath[1:]
	default:
		return strings.TrimPrefix(urlPath, "/")
	}
}
