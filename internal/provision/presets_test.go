package provision_test

import (
	"strings"
	"testing"

	"solvr-go/internal/provision"
)

func TestPresetFor(t *testing.T) {
	tests := []struct {
		purpose    string
		serverType string
		component  string
	}{
		{"ipfs", "cx33", "kubo"},
		{"api", "cx33", "solvr"},
		{"cluster", "cx43", "cluster"},
		{"does-not-exist", "cx33", "kubo"},
		{"", "cx33", "kubo"},
	}
	for _, tt := range tests {
		t.Run(tt.purpose, func(t *testing.T) {
			p := provision.PresetFor(tt.purpose)
			if p.ServerType != tt.serverType {
				t.Errorf("server type = %q, want %q", p.ServerType, tt.serverType)
			}
			if p.Image != "ubuntu-24.04" {
				t.Errorf("image = %q, want ubuntu-24.04", p.Image)
			}
			if p.Labels["component"] != tt.component {
				t.Errorf("component label = %q, want %q", p.Labels["component"], tt.component)
			}
		})
	}
}

func TestUserData(t *testing.T) {
	t.Run("ipfs renders the boot script", func(t *testing.T) {
		data, err := provision.UserData("ipfs", "node7")
		if err != nil {
			t.Fatalf("UserData: %v", err)
		}
		if !strings.HasPrefix(data, "#cloud-config") {
			t.Error("user data is not a cloud-config document")
		}
		if !strings.Contains(data, "solvr.instance=node7") {
			t.Error("instance name not substituted into the compose labels")
		}
		if !strings.Contains(data, "ipfs/kubo:latest") {
			t.Error("kubo image missing from the boot script")
		}
		if strings.Contains(data, "{{") {
			t.Error("unrendered template markers in user data")
		}
	})

	t.Run("other purposes have no boot script", func(t *testing.T) {
		for _, purpose := range []string{"api", "cluster", "unknown"} {
			data, err := provision.UserData(purpose, "node7")
			if err != nil {
				t.Fatalf("UserData(%q): %v", purpose, err)
			}
			if data != "" {
				t.Errorf("UserData(%q) = %q, want empty", purpose, data)
			}
		}
	})
}

func TestKeyName(t *testing.T) {
	if got := provision.KeyName("node1"); got != "solvr-node1" {
		t.Errorf("KeyName = %q, want solvr-node1", got)
	}
}

func TestValidLocation(t *testing.T) {
	for _, loc := range provision.Locations {
		if !provision.ValidLocation(loc) {
			t.Errorf("ValidLocation(%q) = false", loc)
		}
	}
	if provision.ValidLocation("mars") {
		t.Error("ValidLocation accepted an unknown datacenter")
	}
	if provision.ValidLocation("") {
		t.Error("ValidLocation accepted an empty string")
	}
}
