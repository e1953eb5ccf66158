package seed

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargenet/backend/services/roaming-api/internal/domain"
)

func sampleSeedPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs", "seed.yaml")
}

func TestLoadAndApplySample(t *testing.T) {
	f, err := Load(sampleSeedPath(t))
	require.NoError(t, err)

	registry := domain.NewRegistry(domain.NetworkOptions{})
	require.NoError(t, f.Apply(registry))

	network, ok := registry.Get("Prod")
	require.True(t, ok)
	assert.Len(t, network.Operators(), 1)
	assert.Len(t, network.Pools(), 1)
	assert.Len(t, network.Stations(), 2)
	assert.Len(t, network.EVSEs(), 3)
	assert.Len(t, network.EMobilityProviders(), 1)
	assert.Len(t, network.ParkingOperators(), 1)
	assert.Len(t, network.EVSEsOfStation("DE*GEF*S1"), 2)

	verdict, provider := registry.Authorizator().CheckToken("AABBCCDD")
	assert.Equal(t, domain.AuthorizationGranted, verdict)
	assert.Equal(t, domain.EMobilityProviderID("DE*ICE"), provider)
	verdict, _ = registry.Authorizator().CheckToken("DEADBEEF")
	assert.Equal(t, domain.AuthorizationBlocked, verdict)
	verdict, provider = registry.Authorizator().CheckEMAID("DE*ICE*C12345678*X")
	assert.Equal(t, domain.AuthorizationGranted, verdict)
	assert.Equal(t, domain.EMobilityProviderID("DE*ICE"), provider)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("networks:\n  - id: Prod\n    colour: blue\n"))
	assert.Error(t, err)
}

func TestApplyValidatesIdentifiers(t *testing.T) {
	cases := map[string]string{
		"bad network": "networks:\n  - id: 'not valid!'\n",
		"bad evse": `
networks:
  - id: Prod
    operators:
      - id: DE*GEF
        pools:
          - id: DE*GEF*P1
            stations:
              - id: DE*GEF*S1
                evses:
                  - id: nope
`,
		"bad token": "authorization:\n  tokens:\n    - id: xyz\n",
		"duplicate": "networks:\n  - id: Prod\n  - id: Prod\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Parse([]byte(doc))
			require.NoError(t, err)
			assert.Error(t, f.Apply(domain.NewRegistry(domain.NetworkOptions{})))
		})
	}
}
