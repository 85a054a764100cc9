package repository

import (
	"context"
	"time"

	"blackcenter/sources/tracing"

	"github.com/redis/go-redis/v9"
)

const chargeKeyPrefix = "charge:"

// ChargesRepository is the dedup ledger for processed payment charge
// references. The payment provider delivers confirmations at least once, so a
// charge reference must be claimed before the increment is applied.
type ChargesRepository struct {
	client *redis.Client
}

func NewChargesRepository(client *redis.Client) *ChargesRepository {
	return &ChargesRepository{client: client}
}

// Claim records the charge reference. Returns true when this is the first time
// the reference is seen. Entries have no expiry: the ledger survives process
// restarts as long as redis does.
func (x *ChargesRepository) Claim(ctx context.Context, logger *tracing.Logger, chargeRef string) (bool, error) {
	first, err := x.client.SetNX(ctx, chargeKeyPrefix+chargeRef, time.Now().Unix(), 0).Result()
	if err != nil {
		logger.E("Failed to claim charge reference", tracing.InnerError, err, tracing.ChargeRef, chargeRef)
		return false, err
	}

	if !first {
		logger.W("Charge reference already processed", tracing.ChargeRef, chargeRef)
	}
	return first, nil
}

// Release drops a claimed charge reference so a redelivered confirmation can
// retry after the store write failed.
func (x *ChargesRepository) Release(ctx context.Context, logger *tracing.Logger, chargeRef string) {
	if err := x.client.Del(ctx, chargeKeyPrefix+chargeRef).Err(); err != nil {
		logger.E("Failed to release charge reference", tracing.InnerError, err, tracing.ChargeRef, chargeRef)
	}
}
