package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func resetFlags(t *testing.T) {
	t.Helper()
	prevConfig, prevHost, prevPort, prevTLS := configPath, serverHost, serverPort, serverTLS
	t.Cleanup(func() {
		configPath, serverHost, serverPort, serverTLS = prevConfig, prevHost, prevPort, prevTLS
	})
}

func TestResolveServerDefaults(t *testing.T) {
	resetFlags(t)
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	serverHost, serverPort, serverTLS = "", "", false

	server, err := resolveServer()
	if err != nil {
		t.Fatalf("resolveServer: %v", err)
	}
	if server.Host != "localhost" || server.Port != "8080" || server.TLS {
		t.Errorf("server = %+v", server)
	}
}

func TestResolveServerFlagsOverrideConfig(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  host: config.example.com\n  port: \"9090\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	configPath = path
	serverHost, serverPort, serverTLS = "flag.example.com", "", true

	server, err := resolveServer()
	if err != nil {
		t.Fatalf("resolveServer: %v", err)
	}
	if server.Host != "flag.example.com" {
		t.Errorf("host = %q, want the flag override", server.Host)
	}
	if server.Port != "9090" {
		t.Errorf("port = %q, want the config value", server.Port)
	}
	if !server.TLS {
		t.Error("tls flag not applied")
	}
}

func TestCommandsRegistered(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"host", "play", "join"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
