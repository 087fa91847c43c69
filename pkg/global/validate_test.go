package global

import (
	"context"
	"testing"

	"github.com/anvilbuild/anvil/pkg/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		set          map[string]string
		wantErr      bool
		wantFlag     string
		wantRequires string
	}{
		{
			name:         "remote_execution_without_server",
			set:          map[string]string{"remote-execution": "true"},
			wantErr:      true,
			wantFlag:     "--remote-execution",
			wantRequires: "--remote-execution-server",
		},
		{
			name: "execution_server_without_store",
			set: map[string]string{
				"remote-execution-server": "host:1234",
			},
			wantErr:      true,
			wantFlag:     "--remote-execution-server",
			wantRequires: "--remote-store-server",
		},
		{
			// The store requirement holds even with remote execution off.
			name: "execution_server_without_store_and_remote_execution_off",
			set: map[string]string{
				"remote-execution":        "false",
				"remote-execution-server": "host:1234",
			},
			wantErr:      true,
			wantFlag:     "--remote-execution-server",
			wantRequires: "--remote-store-server",
		},
		{
			name: "everything_off",
			set:  map[string]string{},
		},
		{
			name: "fully_configured",
			set: map[string]string{
				"remote-execution":        "true",
				"remote-execution-server": "host:1234",
				"remote-store-server":     "host:5678",
			},
		},
		{
			// Rule 1 fires before rule 2.
			name: "both_rules_violated_reports_first",
			set: map[string]string{
				"remote-execution": "true",
			},
			wantErr:      true,
			wantFlag:     "--remote-execution",
			wantRequires: "--remote-execution-server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			v := option.NewValues(registeredRegistry(t))
			for name, raw := range tt.set {
				require.NoError(t, v.Set(ctx, name, raw))
			}

			err := Validate(v)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var valErr *option.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantFlag, valErr.Flag)
			assert.Equal(t, tt.wantRequires, valErr.Requires)
			assert.Contains(t, err.Error(), tt.wantFlag)
			assert.Contains(t, err.Error(), tt.wantRequires)
		})
	}
}
