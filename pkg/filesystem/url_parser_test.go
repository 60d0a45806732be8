//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package filesystem_test

import (
	"testing"

	"github.com/meg/extract-files/pkg/filesystem"
)

// TestParsePath_Local tests ParsePath with local filesystem paths.
func TestParsePath_Local(t *testing.T) {
	t.Parallel()

	result, err := filesystem.ParsePath("/local/path")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.IsRemote {
		t.Error("IsRemote should be false for local path")
	}

	if result.LocalPath != "/local/path" {
		t.Errorf("LocalPath = %q, want %q", result.LocalPath, "/local/path")
	}
}

// TestParsePath_SFTP tests ParsePath with SFTP URLs.
//
//nolint:funlen // Comprehensive table-driven test with many SFTP URL parsing cases
func TestParsePath_SFTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantUser string
		wantHost string
		wantPort int
		wantPath string
	}{
		{
			name:     "basic SFTP URL",
			input:    "sftp://user@host/path",
			wantUser: "user",
			wantHost: "host",
			wantPort: 22,
			wantPath: "path",
		},
		{
			name:     "custom port",
			input:    "sftp://admin@server.com:2222/home/data",
			wantUser: "admin",
			wantHost: "server.com",
			wantPort: 2222,
			wantPath: "home/data",
		},
		{
			name:     "absolute remote path uses double slash",
			input:    "sftp://user@host//var/data",
			wantUser: "user",
			wantHost: "host",
			wantPort: 22,
			wantPath: "/var/data",
		},
		{
			name:     "bare host scans home directory",
			input:    "sftp://user@host",
			wantUser: "user",
			wantHost: "host",
			wantPort: 22,
			wantPath: ".",
		},
		{
			name:     "trailing slash only scans home directory",
			input:    "sftp://user@host/",
			wantUser: "user",
			wantHost: "host",
			wantPort: 22,
			wantPath: ".",
		},
		{
			name:    "missing username",
			input:   "sftp://host/path",
			wantErr: true,
		},
		{
			name:    "missing host",
			input:   "sftp://user@/path",
			wantErr: true,
		},
		{
			name:    "bad port",
			input:   "sftp://user@host:notaport/path",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := filesystem.ParsePath(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got nil")
				}

				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if !result.IsRemote {
				t.Error("IsRemote should be true for SFTP URL")
			}

			if result.User != tt.wantUser {
				t.Errorf("User = %q, want %q", result.User, tt.wantUser)
			}

			if result.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", result.Host, tt.wantHost)
			}

			if result.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", result.Port, tt.wantPort)
			}

			if result.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", result.Path, tt.wantPath)
			}
		})
	}
}
