package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name: "server",
			args: []string{"cmd",
				"server", "--dry-run",
				"--host-address", "agency.example.com",
				"--backup-time", "04:30",
				"--wallet-backup", "wallet-backups",
			},
		},
		{
			name: "server bad backup time",
			args: []string{"cmd",
				"server", "--dry-run",
				"--backup-time", "late",
			},
			wantErr: true,
		},
		{
			name: "agent create",
			args: []string{"cmd",
				"agent", "create", "--dry-run",
				"--owner-did", "VsKV7grR1BUE29mG2Fm2kX",
				"--owner-verkey", "GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL",
			},
		},
		{
			name: "ping",
			args: []string{"cmd",
				"ping", "--dry-run",
				"--base-address", "http://localhost:8080",
			},
		},
		{
			name: "version",
			args: []string{"cmd", "version"},
		},
	}

	for _, test := range tests {
		os.Args = test.args
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true

		t.Run(test.name, func(t *testing.T) {
			err := rootCmd.Execute()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
