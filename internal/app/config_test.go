package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "normalizes case", cfg: Config{Currency: "eur"}, want: "EUR"},
		{name: "default", cfg: Config{Currency: "USD", SeedProducts: 10}, want: "USD"},
		{name: "unknown code", cfg: Config{Currency: "XYZ1"}, wantErr: true},
		{name: "negative seed", cfg: Config{Currency: "USD", SeedProducts: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.cfg.Currency)
		})
	}
}
