package provision

import (
	"bytes"
	"fmt"
	"text/template"
)

// Managed-by label used to scope list/destroy to servers owned by this tool.
const (
	ManagedByLabel = "managed-by"
	ManagedByValue = "solvr-infra"
)

// DefaultLocation is the datacenter used when none is given.
const DefaultLocation = "nbg1"

// Locations are the datacenters a server may be placed in.
var Locations = []string{"nbg1", "fsn1", "hel1", "ash", "hil"}

// ValidLocation reports whether loc is an allowed datacenter.
func ValidLocation(loc string) bool {
	for _, l := range Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// Preset is a purpose-derived bundle of machine type, image and labels.
type Preset struct {
	ServerType string
	Image      string
	Labels     map[string]string
}

// DefaultPurpose is used when no purpose is given.
const DefaultPurpose = "ipfs"

var presets = map[string]Preset{
	"ipfs": {
		ServerType: "cx33",
		Image:      "ubuntu-24.04",
		Labels:     map[string]string{"service": "ipfs", "component": "kubo"},
	},
	"api": {
		ServerType: "cx33",
		Image:      "ubuntu-24.04",
		Labels:     map[string]string{"service": "api", "component": "solvr"},
	},
	"cluster": {
		ServerType: "cx43",
		Image:      "ubuntu-24.04",
		Labels:     map[string]string{"service": "ipfs", "component": "cluster"},
	},
}

// PresetFor returns the preset for the given purpose, falling back to the
// ipfs preset for unknown purposes.
func PresetFor(purpose string) Preset {
	if p, ok := presets[purpose]; ok {
		return p
	}
	return presets[DefaultPurpose]
}

// KeyName returns the deterministic provider-side SSH key name for an
// instance.
func KeyName(instanceName string) string {
	return "solvr-" + instanceName
}

// ipfsUserData is the cloud-init boot script for IPFS nodes. It installs
// Docker, runs Kubo via docker-compose, opens its API to localhost only,
// and drops a status helper script on the machine.
const ipfsUserData = `#cloud-config
package_update: true
package_upgrade: true

packages:
  - docker.io
  - docker-compose
  - jq
  - htop
  - curl

runcmd:
  - systemctl enable docker
  - systemctl start docker
  - mkdir -p /opt/solvr/ipfs
  - mkdir -p /var/lib/ipfs
  - |
    cat > /opt/solvr/ipfs/docker-compose.yml << 'COMPOSE'
    version: "3.9"
    services:
      ipfs:
        image: ipfs/kubo:latest
        container_name: solvr-ipfs
        restart: unless-stopped
        environment:
          - IPFS_PROFILE=server
        labels:
          - "solvr.instance={{.Name}}"
        volumes:
          - /var/lib/ipfs:/data/ipfs
        ports:
          - "4001:4001"
          - "127.0.0.1:5001:5001"
          - "127.0.0.1:8080:8080"
        healthcheck:
          test: ["CMD", "ipfs", "id"]
          interval: 30s
          timeout: 10s
          retries: 3
    COMPOSE
  - cd /opt/solvr/ipfs && docker-compose up -d
  - sleep 30
  - docker exec solvr-ipfs ipfs config --json API.HTTPHeaders.Access-Control-Allow-Origin '["*"]'
  - docker exec solvr-ipfs ipfs config --json API.HTTPHeaders.Access-Control-Allow-Methods '["PUT", "POST", "GET"]'
  - docker restart solvr-ipfs
  - |
    cat > /opt/solvr/ipfs/status.sh << 'STATUS'
    #!/bin/bash
    echo "=== IPFS Node Status ==="
    docker exec solvr-ipfs ipfs id | jq -r '.ID'
    echo ""
    echo "=== Repo Stats ==="
    docker exec solvr-ipfs ipfs repo stat
    echo ""
    echo "=== Swarm Peers ==="
    docker exec solvr-ipfs ipfs swarm peers | wc -l
    STATUS
    chmod +x /opt/solvr/ipfs/status.sh

final_message: "Solvr IPFS node {{.Name}} ready! Run: /opt/solvr/ipfs/status.sh"
`

var ipfsUserDataTmpl = template.Must(template.New("ipfs-userdata").Parse(ipfsUserData))

// UserData renders the cloud-init boot script for the given purpose and
// instance name. Purposes without a boot script return an empty string.
func UserData(purpose, name string) (string, error) {
	if purpose != "ipfs" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := ipfsUserDataTmpl.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return "", fmt.Errorf("rendering user data: %w", err)
	}
	return buf.String(), nil
}
