package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"valet_manager/internal/usecase/interfaces"

	"github.com/tidwall/jsonc"
)

// Collection store keys, as laid out on the device.
const (
	KeyPendingBookings         = "pendingBookings"
	KeyConfirmedBookings       = "confirmedBookings"
	KeyPlannerCalendarBookings = "plannerCalendarBookings"
	KeyServiceProgress         = "serviceProgress"
	KeyTrackingProgress        = "trackingProgress"
)

// ErrMalformedCollection is returned by writes to a collection whose stored
// document (or one of its elements) cannot be parsed. The stored bytes are
// left untouched.
var ErrMalformedCollection = errors.New("malformed collection")

// decodeCollection parses raw as a JSON array (comments and trailing commas
// allowed). It returns every element it could read and, separately, what it
// could not.
func decodeCollection[T any](raw []byte) ([]T, error) {
	out := make([]T, 0)
	if len(raw) == 0 {
		return out, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(raw), &elems); err != nil {
		return out, fmt.Errorf("document: %w", err)
	}
	var damage []error
	for i, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			damage = append(damage, fmt.Errorf("element %d: %w", i, err))
			continue
		}
		out = append(out, v)
	}
	return out, errors.Join(damage...)
}

// readCollection decodes the JSON array stored under key. A missing key, an
// unparsable document or an unparsable element never fails the read: the
// damage is logged and the readable remainder is returned.
func readCollection[T any](ctx context.Context, kv interfaces.IKeyValueStore, key string) ([]T, error) {
	raw, _, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	out, damage := decodeCollection[T](raw)
	if damage != nil {
		log.Printf("[store][local][warn] reading readable remainder of damaged collection key=%s kept=%d err=%v", key, len(out), damage)
	}
	return out, nil
}

// loadCollection is the read half of a read-modify-write. Unlike
// readCollection it refuses damaged documents, since writing back the
// readable remainder would drop whatever could not be parsed.
func loadCollection[T any](ctx context.Context, kv interfaces.IKeyValueStore, key string) ([]T, error) {
	raw, _, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	out, damage := decodeCollection[T](raw)
	if damage != nil {
		log.Printf("[store][local][warn] refusing write to damaged collection key=%s err=%v", key, damage)
		return nil, fmt.Errorf("%w: key=%s: %w", ErrMalformedCollection, key, damage)
	}
	return out, nil
}

func writeCollection[T any](ctx context.Context, kv interfaces.IKeyValueStore, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return kv.Put(ctx, key, b)
}
