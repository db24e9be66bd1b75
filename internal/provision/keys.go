package provision

import "context"

// KeyManager manages the local SSH key pair for an instance.
type KeyManager interface {
	// Ensure creates the key pair for the named instance if it does not
	// exist, and returns the private key path plus the public key line.
	Ensure(name string) (privateKeyPath string, publicKey string, err error)
}

// SSHWaiter polls a freshly created server until SSH accepts connections.
type SSHWaiter interface {
	Wait(ctx context.Context, ip string, privateKeyPath string) error
}
