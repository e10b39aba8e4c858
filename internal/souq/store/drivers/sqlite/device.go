package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/souq/pkg/idx"
)

const keyDeviceID = "device_id"

// DeviceID returns the identifier of this installation, creating it on
// first use. It survives Clear so the backend sees one device across
// sign-ins.
func (s *Store) DeviceID(ctx context.Context) (string, error) {
	var id string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT value FROM session_kv WHERE key = ?`, keyDeviceID).Scan(&id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		id = idx.New().String()
		return put(ctx, tx, keyDeviceID, id)
	})
	if err != nil {
		return "", fmt.Errorf("device id: %w", err)
	}
	return id, nil
}
