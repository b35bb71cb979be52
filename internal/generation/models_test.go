package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedModels(t *testing.T) {
	models := SupportedModels()
	require.Len(t, models, 3)
	assert.Equal(t, DefaultModelID, models[0].ID)
	for _, m := range models {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Language)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		want    any
		wantErr bool
	}{
		{"", &StubBackend{}, false},
		{"stub", &StubBackend{}, false},
		{"HTTP", &HTTPBackend{}, false},
		{"none", Disabled{}, false},
		{"openai", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			gw, err := New(Config{Backend: tt.backend}, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, gw)
		})
	}
}
