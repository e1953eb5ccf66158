package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libdb "chargenet/backend/libs/db"
	"chargenet/backend/services/roaming-api/internal/domain"
)

// Runs against a real database when ROAMING_TEST_DATABASE_DSN is set.
func TestCDRRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("ROAMING_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("ROAMING_TEST_DATABASE_DSN not set")
	}
	ctx := context.Background()
	db, err := libdb.NewPostgresDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewCDRRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	network := domain.RoamingNetworkID("cdr-test-" + time.Now().Format("150405.000000"))
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cdr := domain.ChargeDetailRecord{
		SessionID:        domain.ChargingSessionID("S-" + network.String()),
		RoamingNetworkID: network,
		EVSEID:           "DE*GEF*E1",
		AuthToken:        "AABBCCDD",
		SessionStart:     start,
		SessionEnd:       start.Add(time.Hour),
		ChargeStart:      start.Add(5 * time.Minute),
		ChargeEnd:        start.Add(55 * time.Minute),
		MeterValueStart:  10,
		MeterValueEnd:    32.5,
		ReceivedAt:       start.Add(2 * time.Hour),
	}
	require.NoError(t, repo.Store(ctx, cdr))
	require.NoError(t, repo.Store(ctx, cdr))

	records, err := repo.ListByNetwork(ctx, network, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, cdr, records[0])
	_, err = db.ExecContext(ctx, `DELETE FROM charge_detail_records WHERE roaming_network_id = $1`, network.String())
	require.NoError(t, err)
}

func TestNullable(t *testing.T) {
	assert.False(t, nullable("").Valid)
	assert.True(t, nullable("x").Valid)
}
