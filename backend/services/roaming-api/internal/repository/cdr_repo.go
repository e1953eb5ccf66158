package repository

import (
	"context"
	"database/sql"
	"time"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// Schema creates the charge detail record table.
const Schema = `
	CREATE TABLE IF NOT EXISTS charge_detail_records (
		session_id          TEXT PRIMARY KEY,
		roaming_network_id  TEXT NOT NULL,
		evse_id             TEXT NOT NULL,
		provider_id         TEXT,
		auth_token          TEXT,
		emaid               TEXT,
		charging_product_id TEXT,
		session_start       TIMESTAMPTZ NOT NULL,
		session_end         TIMESTAMPTZ NOT NULL,
		charge_start        TIMESTAMPTZ NOT NULL,
		charge_end          TIMESTAMPTZ NOT NULL,
		meter_value_start   DOUBLE PRECISION NOT NULL,
		meter_value_end     DOUBLE PRECISION NOT NULL,
		energy_kwh          DOUBLE PRECISION NOT NULL,
		received_at         TIMESTAMPTZ NOT NULL
	)
`

// CDRRepository persists charge detail records; it implements domain.CDRArchive.
type CDRRepository struct {
	db *sql.DB
}

// NewCDRRepository returns repository.
func NewCDRRepository(db *sql.DB) *CDRRepository {
	return &CDRRepository{db: db}
}

// EnsureSchema creates the table when missing.
func (r *CDRRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Store inserts cdr, replacing an earlier record of the same session.
func (r *CDRRepository) Store(ctx context.Context, cdr domain.ChargeDetailRecord) error {
	const query = `
		INSERT INTO charge_detail_records (
			session_id, roaming_network_id, evse_id, provider_id, auth_token, emaid, charging_product_id,
			session_start, session_end, charge_start, charge_end,
			meter_value_start, meter_value_end, energy_kwh, received_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (session_id) DO UPDATE SET
			evse_id = EXCLUDED.evse_id,
			session_end = EXCLUDED.session_end,
			charge_end = EXCLUDED.charge_end,
			meter_value_end = EXCLUDED.meter_value_end,
			energy_kwh = EXCLUDED.energy_kwh,
			received_at = EXCLUDED.received_at
	`
	_, err := r.db.ExecContext(ctx, query,
		cdr.SessionID.String(),
		cdr.RoamingNetworkID.String(),
		cdr.EVSEID.String(),
		nullable(cdr.ProviderID.String()),
		nullable(cdr.AuthToken.String()),
		nullable(cdr.EMAID.String()),
		nullable(cdr.ChargingProductID.String()),
		cdr.SessionStart,
		cdr.SessionEnd,
		cdr.ChargeStart,
		cdr.ChargeEnd,
		cdr.MeterValueStart,
		cdr.MeterValueEnd,
		cdr.ConsumedEnergy(),
		cdr.ReceivedAt,
	)
	return err
}

// ListByNetwork returns the newest records of a roaming network.
func (r *CDRRepository) ListByNetwork(ctx context.Context, network domain.RoamingNetworkID, limit int) ([]domain.ChargeDetailRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT session_id, roaming_network_id, evse_id,
		       COALESCE(provider_id, ''), COALESCE(auth_token, ''), COALESCE(emaid, ''), COALESCE(charging_product_id, ''),
		       session_start, session_end, charge_start, charge_end,
		       meter_value_start, meter_value_end, received_at
		FROM charge_detail_records
		WHERE roaming_network_id = $1
		ORDER BY received_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, network.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ChargeDetailRecord
	for rows.Next() {
		var (
			c                                                            domain.ChargeDetailRecord
			session, rn, evse, provider, token, emaid, product           string
			sessionStart, sessionEnd, chargeStart, chargeEnd, receivedAt time.Time
		)
		if err := rows.Scan(
			&session, &rn, &evse, &provider, &token, &emaid, &product,
			&sessionStart, &sessionEnd, &chargeStart, &chargeEnd,
			&c.MeterValueStart, &c.MeterValueEnd, &receivedAt,
		); err != nil {
			return nil, err
		}
		c.SessionID = domain.ChargingSessionID(session)
		c.RoamingNetworkID = domain.RoamingNetworkID(rn)
		c.EVSEID = domain.EVSEID(evse)
		c.ProviderID = domain.EMobilityProviderID(provider)
		c.AuthToken = domain.AuthToken(token)
		c.EMAID = domain.EMAID(emaid)
		c.ChargingProductID = domain.ChargingProductID(product)
		c.SessionStart, c.SessionEnd = sessionStart.UTC(), sessionEnd.UTC()
		c.ChargeStart, c.ChargeEnd = chargeStart.UTC(), chargeEnd.UTC()
		c.ReceivedAt = receivedAt.UTC()
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
