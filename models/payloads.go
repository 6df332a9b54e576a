package models

import (
	"encoding/json"
	"fmt"
)

// RecordPayload is the payload of every create_*/update_* operation: the full
// tracked-record envelope to be written to the cloud collection.
type RecordPayload struct {
	Record TrackedRecord `json:"record"`
}

// DeletePayload is the payload of every delete_* operation.
type DeletePayload struct {
	ID string `json:"id"`
}

// UploadAssetPayload is the payload of an upload_asset operation. LocalFile
// is read at apply time; once the upload succeeds the queue enqueues a
// follow-up update for the owning beer with the returned remote reference.
type UploadAssetPayload struct {
	BeerID    string `json:"beer_id"`
	LocalFile string `json:"local_file"`
	Path      string `json:"path"`
}

// DeleteAssetPayload is the payload of a delete_asset operation.
type DeleteAssetPayload struct {
	Path string `json:"path"`
}

// DecodePayload decodes the raw payload of an operation into the concrete
// type for its kind. Unknown kinds are a permanent error: the operation can
// never be applied and must be dead-lettered, not retried.
func DecodePayload(kind OperationKind, raw []byte) (any, error) {
	switch kind {
	case OpCreateBrewery, OpUpdateBrewery, OpCreateBeer, OpUpdateBeer:
		var p RecordPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		return p, nil
	case OpDeleteBrewery, OpDeleteBeer:
		var p DeletePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		return p, nil
	case OpUploadAsset:
		var p UploadAssetPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		return p, nil
	case OpDeleteAsset:
		var p DeleteAssetPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown operation kind %q", kind)
	}
}

// EntityKindFor maps an operation kind to the tracked collection it touches.
// Asset operations return an empty kind: they target the object store.
func EntityKindFor(kind OperationKind) EntityKind {
	switch kind {
	case OpCreateBrewery, OpUpdateBrewery, OpDeleteBrewery:
		return EntityBrewery
	case OpCreateBeer, OpUpdateBeer, OpDeleteBeer:
		return EntityBeer
	}
	return ""
}
