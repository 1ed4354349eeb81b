package osrelease

import (
	"slices"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	const ubuntu = `PRETTY_NAME="Ubuntu 24.04.1 LTS"
NAME="Ubuntu"
VERSION_ID="24.04"
VERSION="24.04.1 LTS (Noble Numbat)"
ID=ubuntu
ID_LIKE=debian
# comment
HOME_URL="https://www.ubuntu.com/"
`

	tests := []struct {
		name   string
		input  string
		want   Info
		str    string
		likeOf string
	}{
		{
			name:   "ubuntu",
			input:  ubuntu,
			want:   Info{ID: "ubuntu", VersionID: "24.04", Name: "Ubuntu", PrettyName: "Ubuntu 24.04.1 LTS", IDLike: []string{"debian"}},
			str:    "Ubuntu 24.04.1 LTS",
			likeOf: "debian",
		},
		{
			name:   "rocky multiple id_like",
			input:  "NAME=\"Rocky Linux\"\nID=\"rocky\"\nVERSION_ID=\"9.3\"\nID_LIKE=\"rhel centos fedora\"\n",
			want:   Info{ID: "rocky", VersionID: "9.3", Name: "Rocky Linux", IDLike: []string{"rhel", "centos", "fedora"}},
			str:    "Rocky Linux 9.3",
			likeOf: "fedora",
		},
		{
			name:   "empty",
			input:  "",
			want:   Info{ID: "linux", Name: "Linux"},
			str:    "Linux",
			likeOf: "linux",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got.ID != tt.want.ID || got.VersionID != tt.want.VersionID || got.Name != tt.want.Name ||
				got.PrettyName != tt.want.PrettyName || !slices.Equal(got.IDLike, tt.want.IDLike) {
				t.Errorf("Parse = %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String = %q, want %q", got.String(), tt.str)
			}
			if !got.Like(tt.likeOf) {
				t.Errorf("Like(%q) = false", tt.likeOf)
			}
			if got.Like("windows") {
				t.Error("Like(windows) = true")
			}
		})
	}
}
