package platform

import (
	"testing"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
)

func TestTargetFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"linux amd64", "linux", "amd64", "x86_64-unknown-linux-musl", false},
		{"linux x86_64", "linux", "x86_64", "x86_64-unknown-linux-musl", false},
		{"linux arm64", "linux", "arm64", "aarch64-unknown-linux-musl", false},
		{"linux aarch64", "linux", "aarch64", "aarch64-unknown-linux-musl", false},
		{"uname Linux", "Linux", "x86_64", "x86_64-unknown-linux-musl", false},
		{"darwin amd64", "darwin", "amd64", "x86_64-apple-darwin", false},
		{"darwin arm64", "darwin", "arm64", "aarch64-apple-darwin", false},
		{"uname Darwin", "Darwin", "arm64", "aarch64-apple-darwin", false},
		{"windows", "windows", "amd64", "", true},
		{"freebsd", "freebsd", "amd64", "", true},
		{"empty os", "", "amd64", "", true},
		{"linux 386", "linux", "386", "", true},
		{"linux arm", "linux", "arm", "", true},
		{"darwin riscv64", "darwin", "riscv64", "", true},
		{"empty arch", "linux", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetFor(tt.goos, tt.goarch)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("TargetFor() = %v, want error", got)
				}
				if !failure.Is(err, failure.KindUnsupportedPlatform) {
					t.Errorf("error kind = %s, want %s", failure.KindOf(err), failure.KindUnsupportedPlatform)
				}
				if got != (Target{}) {
					t.Errorf("TargetFor() returned %v alongside error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("TargetFor() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("TargetFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizePlatform(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ubuntu", "ubuntu", "ubuntu"},
		{"Ubuntu uppercase", "Ubuntu", "ubuntu"},
		{"with spaces", "  ubuntu  ", "ubuntu"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePlatform(tt.input); got != tt.want {
				t.Errorf("normalizePlatform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapFamily(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debian", FamilyDebian},
		{"Ubuntu", FamilyDebian},
		{"centos", FamilyRHEL},
		{"alpine", FamilyAlpine},
		{"manjaro", FamilyArch},
		{"nixos", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mapFamily(tt.input); got != tt.want {
				t.Errorf("mapFamily(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
