package reconciler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"blackcenter/sources/catalog"
	"blackcenter/sources/configuration"
	"blackcenter/sources/metrics"
	"blackcenter/sources/notify"
	"blackcenter/sources/persistence/entities"
	"blackcenter/sources/platform"
	"blackcenter/sources/repository"
	"blackcenter/sources/texting"
	"blackcenter/sources/tracing"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

var baselinePower = decimal.NewFromInt(1)

// AccountStore is the slice of the accounts repository the reconciler needs.
type AccountStore interface {
	GetAccountByTelegramID(ctx context.Context, logger *tracing.Logger, telegramID string) (*entities.Account, error)
	UpdateAccount(ctx context.Context, logger *tracing.Logger, documentID string, patch entities.AccountPatch) error
}

// ChargeLedger is the dedup ledger for processed charge references.
type ChargeLedger interface {
	Claim(ctx context.Context, logger *tracing.Logger, chargeRef string) (bool, error)
	Release(ctx context.Context, logger *tracing.Logger, chargeRef string)
}

// Confirmation is a captured payment as delivered by the provider. The
// provider may deliver it more than once; ChargeRef is the idempotency key.
type Confirmation struct {
	Identity   int64
	ChatID     int64
	Username   string
	OfferID    string
	ChargeRef  string
	AmountPaid int
}

// Outcome reports a reconciliation that did not fail. Duplicate outcomes made
// no store write.
type Outcome struct {
	Offer        catalog.Offer
	NewPower     decimal.Decimal
	NewPurchased decimal.Decimal
	Duplicate    bool
}

// Reconciler durably applies confirmed purchases to account documents: at
// most once per charge reference, serialized per identity, with bounded
// retries around the store calls. Money has already moved by the time it
// runs, so every failure is reported to operators.
type Reconciler struct {
	log      *tracing.Logger
	config   *configuration.Config
	catalog  *catalog.Catalog
	store    AccountStore
	ledger   ChargeLedger
	notifier *notify.Notifier
	counter  *metrics.PurchaseCounter
	metrics  *metrics.MetricsService
	locks    *identityLocks
}

func NewReconciler(log *tracing.Logger, config *configuration.Config, cat *catalog.Catalog, store AccountStore, ledger ChargeLedger, notifier *notify.Notifier, counter *metrics.PurchaseCounter, ms *metrics.MetricsService) *Reconciler {
	return &Reconciler{
		log:      log,
		config:   config,
		catalog:  cat,
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		counter:  counter,
		metrics:  ms,
		locks:    newIdentityLocks(),
	}
}

func (x *Reconciler) storeTimeout() time.Duration {
	if x.config.Reconciler.StoreTimeout > 0 {
		return x.config.Reconciler.StoreTimeout
	}
	return 20 * time.Second
}

func (x *Reconciler) backoff() retry.Backoff {
	base := x.config.Reconciler.RetryBackoff
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	attempts := x.config.Reconciler.StoreAttempts
	if attempts == 0 {
		attempts = 2
	}
	return retry.WithMaxRetries(attempts, retry.NewExponential(base))
}

// Reconcile applies one confirmed payment. It never returns an error other
// than *Failure, and it always leaves both the purchaser and the operators
// informed before returning.
func (x *Reconciler) Reconcile(logger *tracing.Logger, c Confirmation) (*Outcome, error) {
	defer tracing.ProfilePoint(logger, "Reconciliation completed", "reconciler.reconcile", tracing.ChargeRef, c.ChargeRef)()

	start := time.Now()
	outcome, failure := x.apply(logger, c)
	x.metrics.ObserveReconcileDuration(time.Since(start))

	if failure != nil {
		x.metrics.RecordPurchase(c.OfferID, "failed")
		x.report(logger, c, failure)
		return nil, failure
	}

	if outcome.Duplicate {
		x.metrics.RecordPurchase(c.OfferID, "duplicate")
		msg := texting.MsgPurchaseAlreadyApplied
		if outcome.NewPower.IsPositive() {
			msg = texting.PurchaseDuplicate(outcome.NewPower)
		}
		x.notifier.NotifyPurchaser(logger, c.ChatID, msg)
		return outcome, nil
	}

	x.metrics.RecordPurchase(c.OfferID, "applied")
	count := x.counter.Increment(c.Identity)
	logger.I("Purchase applied",
		tracing.OfferName, outcome.Offer.Name,
		tracing.MiningPower, outcome.NewPower,
		"process_purchase_count", count,
	)

	x.notifier.NotifyPurchaser(logger, c.ChatID, texting.PurchaseSuccess(outcome.Offer.PowerIncrement, outcome.NewPower))
	x.notifier.NotifyOperators(logger, texting.OperatorPurchaseAlert(
		c.Username, c.Identity, outcome.Offer.Name, outcome.Offer.PriceStars,
		outcome.Offer.PowerIncrement, outcome.NewPurchased,
		texting.ShortChargeRef(c.ChargeRef),
	))

	return outcome, nil
}

func (x *Reconciler) apply(logger *tracing.Logger, c Confirmation) (*Outcome, *Failure) {
	offer, ok := x.catalog.Lookup(c.OfferID)
	if !ok {
		// No store call here: funds were captured for an item that no
		// longer exists, nothing to apply.
		return nil, x.failure(c, FailureUnknownOffer, nil)
	}

	unlock := x.locks.lock(c.Identity)
	defer unlock()

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), x.storeTimeout())
	defer cancel()

	first, err := x.ledger.Claim(ctx, logger, c.ChargeRef)
	if err != nil {
		// Ledger unavailable: proceed rather than drop a paid upgrade.
		// Worst case is a double-apply, which operators can compensate;
		// a silently lost credit cannot be noticed at all.
		logger.W("Charge ledger unavailable, proceeding without dedup", tracing.InnerError, err)
		first = true
	}

	if !first {
		account, err := x.readAccount(ctx, logger, c)
		power := decimal.Decimal{}
		if err == nil {
			power = account.MiningPower
		}
		return &Outcome{Offer: offer, NewPower: power, Duplicate: true}, nil
	}

	account, err := x.readAccount(ctx, logger, c)
	if err != nil {
		x.releaseClaim(logger, c.ChargeRef)
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, x.failure(c, FailureAccountNotFound, err)
		}
		return nil, x.failure(c, FailureStoreRead, err)
	}

	newPurchased := account.PurchasedUpgrade.Add(offer.PowerIncrement)
	newPower := baselinePower.Add(newPurchased).Add(account.CodeBonus).Add(account.ReferralBonus)

	patch := entities.AccountPatch{MiningPower: newPower, PurchasedUpgrade: newPurchased}

	err = retry.Do(ctx, x.backoff(), func(ctx context.Context) error {
		if werr := x.store.UpdateAccount(ctx, logger, account.DocumentID, patch); werr != nil {
			return retry.RetryableError(werr)
		}
		return nil
	})
	if err != nil {
		x.releaseClaim(logger, c.ChargeRef)
		f := x.failure(c, FailureStoreWrite, err)
		f.IntendedPower = newPower
		return nil, f
	}

	return &Outcome{Offer: offer, NewPower: newPower, NewPurchased: newPurchased}, nil
}

// releaseClaim runs on its own context. The store deadline that just caused
// the failure must not also doom the release, or a redelivered confirmation
// would be swallowed as a duplicate.
func (x *Reconciler) releaseClaim(logger *tracing.Logger, chargeRef string) {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()
	x.ledger.Release(ctx, logger, chargeRef)
}

func (x *Reconciler) readAccount(ctx context.Context, logger *tracing.Logger, c Confirmation) (*entities.Account, error) {
	var account *entities.Account

	err := retry.Do(ctx, x.backoff(), func(ctx context.Context) error {
		found, rerr := x.store.GetAccountByTelegramID(ctx, logger, strconv.FormatInt(c.Identity, 10))
		if rerr != nil {
			if errors.Is(rerr, repository.ErrAccountNotFound) {
				return rerr
			}
			return retry.RetryableError(rerr)
		}
		account = found
		return nil
	})

	return account, err
}

func (x *Reconciler) failure(c Confirmation, kind FailureKind, err error) *Failure {
	return &Failure{
		Kind:      kind,
		Identity:  c.Identity,
		OfferID:   c.OfferID,
		ChargeRef: c.ChargeRef,
		Err:       err,
	}
}

// report delivers the post-capture failure to both sides: the purchaser gets
// the same apology regardless of the failure kind, operators get the detail.
func (x *Reconciler) report(logger *tracing.Logger, c Confirmation, f *Failure) {
	logger.E("Purchase processing failed",
		tracing.InnerError, f,
		tracing.OfferId, c.OfferID,
		tracing.ChargeRef, c.ChargeRef,
		tracing.SupportRef, texting.SupportRef(c.ChargeRef),
	)

	x.notifier.NotifyPurchaser(logger, c.ChatID, texting.PurchaseApology(texting.SupportRef(c.ChargeRef)))
	x.notifier.NotifyOperators(logger, texting.OperatorFailureAlert(
		c.Identity, c.OfferID, f.Detail(), texting.ShortChargeRef(c.ChargeRef),
	))
}
