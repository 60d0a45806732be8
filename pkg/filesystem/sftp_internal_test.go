//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package filesystem

import "testing"

func TestRemoteRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		root    string
		target  string
		want    string
		wantErr bool
	}{
		{
			name:   "nested file under absolute root",
			root:   "/var/data",
			target: "/var/data/sub/file.txt",
			want:   "sub/file.txt",
		},
		{
			name:   "direct child of filesystem root",
			root:   "/",
			target: "/file.txt",
			want:   "file.txt",
		},
		{
			name:   "home directory walk yields already-relative paths",
			root:   ".",
			target: "docs/file.txt",
			want:   "docs/file.txt",
		},
		{
			name:   "home relative root",
			root:   "docs",
			target: "docs/sub/file.txt",
			want:   "sub/file.txt",
		},
		{
			name:   "trailing slash on root is tolerated",
			root:   "/var/data/",
			target: "/var/data/file.txt",
			want:   "file.txt",
		},
		{
			name:   "root itself",
			root:   "/var/data",
			target: "/var/data",
			want:   ".",
		},
		{
			name:    "target outside root",
			root:    "/var/data",
			target:  "/etc/passwd",
			wantErr: true,
		},
		{
			name:    "sibling with shared prefix is not under root",
			root:    "/var/data",
			target:  "/var/database/file.txt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := remoteRelativePath(tt.root, tt.target)

			if tt.wantErr {
				if err == nil {
					t.Errorf("remoteRelativePath(%q, %q) = %q, want error", tt.root, tt.target, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("remoteRelativePath(%q, %q) failed: %v", tt.root, tt.target, err)
			}

			if got != tt.want {
				t.Errorf("remoteRelativePath(%q, %q) = %q, want %q", tt.root, tt.target, got, tt.want)
			}
		})
	}
}
