// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package store

// Record tables share one schema; the table name is substituted by
// recordTable after the entity kind has been validated.
const (
	upsertRecord = `
		INSERT OR REPLACE INTO %s (
			id,
			parent_id,
			version,
			updated_at,
			sync_status,
			asset_ref,
			payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7);`

	getRecordByID = `
		SELECT
			id,
			parent_id,
			version,
			updated_at,
			sync_status,
			asset_ref,
			payload
		FROM %s
		WHERE id = $1;`

	getAllRecords = `
		SELECT
			id,
			parent_id,
			version,
			updated_at,
			sync_status,
			asset_ref,
			payload
		FROM %s
		ORDER BY updated_at;`

	countAllRecords = `
		SELECT COUNT(*) FROM %s;`

	clearRecords = `
		DELETE FROM %s;`

	deleteRecord = `
		DELETE FROM %s WHERE id = $1;`

	getUpdatedAtIndex = `
		SELECT id, updated_at FROM %s;`

	setAssetRef = `
		UPDATE %s SET asset_ref = $1 WHERE id = $2;`

	markRecordSynced = `
		UPDATE %s SET sync_status = $1 WHERE id = $2;`
)

const (
	insertOperation = `
		INSERT INTO sync_queue (
			id,
			kind,
			payload,
			enqueued_at,
			retry_count,
			max_retries,
			status,
			last_error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	deleteOperation = `
		DELETE FROM sync_queue WHERE id = $1;`

	updateOperation = `
		UPDATE sync_queue SET
			retry_count = $1,
			status      = $2,
			last_error  = $3
		WHERE id = $4;`

	clearQueue = `
		DELETE FROM sync_queue;`
)
