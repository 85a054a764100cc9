package reconciler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"blackcenter/sources/catalog"
	"blackcenter/sources/configuration"
	"blackcenter/sources/metrics"
	"blackcenter/sources/notify"
	"blackcenter/sources/persistence/entities"
	"blackcenter/sources/repository"
	"blackcenter/sources/tracing"

	"github.com/shopspring/decimal"
)

var testOperators = []int64{111, 222}

type fakeStore struct {
	mu         sync.Mutex
	accounts   map[string]*entities.Account
	readCalls  int
	writeCalls int
	failReads   bool
	failWrites  int // fail this many writes, then succeed; -1 fails forever
	blockWrites bool
	readJitter  time.Duration
}

func newFakeStore(accounts ...*entities.Account) *fakeStore {
	s := &fakeStore{accounts: make(map[string]*entities.Account)}
	for _, account := range accounts {
		s.accounts[account.TelegramID] = account
	}
	return s
}

func (s *fakeStore) GetAccountByTelegramID(ctx context.Context, logger *tracing.Logger, telegramID string) (*entities.Account, error) {
	s.mu.Lock()
	s.readCalls++
	fail := s.failReads
	account, ok := s.accounts[telegramID]
	var snapshot entities.Account
	if ok {
		snapshot = *account
	}
	jitter := s.readJitter
	s.mu.Unlock()

	if jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(jitter))))
	}

	if fail {
		return nil, errors.New("store unreachable")
	}
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &snapshot, nil
}

func (s *fakeStore) UpdateAccount(ctx context.Context, logger *tracing.Logger, documentID string, patch entities.AccountPatch) error {
	s.mu.Lock()
	s.writeCalls++
	block := s.blockWrites
	fail := s.failWrites != 0
	if s.failWrites > 0 {
		s.failWrites--
	}
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if fail {
		return errors.New("store write rejected")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.DocumentID == documentID {
			account.MiningPower = patch.MiningPower
			account.PurchasedUpgrade = patch.PurchasedUpgrade
			return nil
		}
	}
	return errors.New("no such document")
}

func (s *fakeStore) power(telegramID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[telegramID].MiningPower
}

type fakeLedger struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{seen: make(map[string]bool)}
}

func (l *fakeLedger) Claim(ctx context.Context, logger *tracing.Logger, chargeRef string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen[chargeRef] {
		return false, nil
	}
	l.seen[chargeRef] = true
	return true, nil
}

func (l *fakeLedger) Release(ctx context.Context, logger *tracing.Logger, chargeRef string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.seen, chargeRef)
}

func (l *fakeLedger) claimed(chargeRef string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[chargeRef]
}

type fanoutSender struct {
	mu       sync.Mutex
	messages map[int64][]string
}

func newFanoutSender() *fanoutSender {
	return &fanoutSender{messages: make(map[int64][]string)}
}

func (s *fanoutSender) record(chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[chatID] = append(s.messages[chatID], text)
	return nil
}

func (s *fanoutSender) SendText(logger *tracing.Logger, chatID int64, text string) error {
	return s.record(chatID, text)
}

func (s *fanoutSender) SendMarkdown(logger *tracing.Logger, chatID int64, text string) error {
	return s.record(chatID, text)
}

func (s *fanoutSender) lastFor(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[chatID]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func (s *fanoutSender) countFor(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages[chatID])
}

func newTestReconciler(store AccountStore, ledger ChargeLedger) (*Reconciler, *fanoutSender) {
	log := tracing.NewConsoleLogger()
	config := &configuration.Config{
		Reconciler: configuration.ReconcilerConfig{
			StoreTimeout:  5 * time.Second,
			StoreAttempts: 1,
			RetryBackoff:  time.Millisecond,
		},
		Operators: configuration.OperatorsConfig{ChatIDs: testOperators},
	}

	cat := catalog.NewCatalog(log, &configuration.Config{})
	sender := newFanoutSender()
	notifier := notify.NewNotifier(sender, config, log)

	rec := NewReconciler(log, config, cat, store, ledger, notifier, metrics.NewPurchaseCounter(), metrics.NewMetricsService(log))
	return rec, sender
}

func confirmation(identity int64, offerID, chargeRef string) Confirmation {
	return Confirmation{
		Identity:  identity,
		ChatID:    identity,
		Username:  fmt.Sprintf("@user%d", identity),
		OfferID:   offerID,
		ChargeRef: chargeRef,
	}
}

func account(telegramID, documentID string, power, purchased string) *entities.Account {
	return &entities.Account{
		DocumentID:       documentID,
		TelegramID:       telegramID,
		MiningPower:      decimal.RequireFromString(power),
		PurchasedUpgrade: decimal.RequireFromString(purchased),
	}
}

func TestReconcileMissingAccount(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	rec, sender := newTestReconciler(store, ledger)

	_, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(1, "basic", "CH-1"))

	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailureAccountNotFound {
		t.Fatalf("err = %v, want account-not-found failure", err)
	}

	if got := sender.lastFor(1); !strings.Contains(got, "PAY-CH-1") {
		t.Errorf("purchaser message %q does not cite support reference", got)
	}
	for _, operator := range testOperators {
		alert := sender.lastFor(operator)
		if !strings.Contains(alert, "account not found") {
			t.Errorf("operator %d alert %q missing failure detail", operator, alert)
		}
		if !strings.Contains(alert, "CH-1") {
			t.Errorf("operator %d alert %q missing charge reference", operator, alert)
		}
	}

	if ledger.claimed("CH-1") {
		t.Errorf("charge still claimed after failed reconciliation")
	}
}

func TestReconcileAppliesUpgrade(t *testing.T) {
	store := newFakeStore(account("2", "doc-2", "1.0", "0"))
	ledger := newFakeLedger()
	rec, sender := newTestReconciler(store, ledger)

	outcome, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(2, "ultimate", "CH-2"))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	want := decimal.RequireFromString("2.0")
	if !outcome.NewPower.Equal(want) {
		t.Errorf("new power = %s, want %s", outcome.NewPower, want)
	}
	if !store.power("2").Equal(want) {
		t.Errorf("stored power = %s, want %s", store.power("2"), want)
	}

	if got := sender.lastFor(2); !strings.Contains(got, "2×") {
		t.Errorf("purchaser message %q does not cite new power", got)
	}
	for _, operator := range testOperators {
		alert := sender.lastFor(operator)
		if !strings.Contains(alert, "+1.0× Mining Power — 250 ⭐️") {
			t.Errorf("operator %d alert %q missing offer name", operator, alert)
		}
		if !strings.Contains(alert, "CH-2") {
			t.Errorf("operator %d alert %q missing truncated charge", operator, alert)
		}
	}
}

func TestReconcileUnknownOfferSkipsStore(t *testing.T) {
	store := newFakeStore(account("3", "doc-3", "1.0", "0"))
	ledger := newFakeLedger()
	rec, sender := newTestReconciler(store, ledger)

	_, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(3, "nonexistent", "CH-3"))

	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailureUnknownOffer {
		t.Fatalf("err = %v, want unknown-offer failure", err)
	}

	if store.readCalls != 0 || store.writeCalls != 0 {
		t.Errorf("store contacted (%d reads, %d writes) for unknown offer", store.readCalls, store.writeCalls)
	}
	for _, operator := range testOperators {
		if !strings.Contains(sender.lastFor(operator), "unknown offer") {
			t.Errorf("operator %d not alerted about unknown offer", operator)
		}
	}
}

func TestReconcileWriteFailure(t *testing.T) {
	store := newFakeStore(account("4", "doc-4", "1.0", "0"))
	store.failWrites = -1
	ledger := newFakeLedger()
	rec, sender := newTestReconciler(store, ledger)

	_, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(4, "basic", "CH-4"))

	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailureStoreWrite {
		t.Fatalf("err = %v, want store-write failure", err)
	}
	if !failure.IntendedPower.Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("intended power = %s, want 1.2", failure.IntendedPower)
	}

	if got := sender.lastFor(4); !strings.Contains(got, "PAY-CH-4") {
		t.Errorf("purchaser message %q does not cite support reference", got)
	}
	for _, operator := range testOperators {
		alert := sender.lastFor(operator)
		if !strings.Contains(alert, "intended mining_power=1.2") {
			t.Errorf("operator %d alert %q missing intended value", operator, alert)
		}
	}

	if ledger.claimed("CH-4") {
		t.Errorf("charge still claimed after write failure, redelivery would be dropped")
	}
}

func TestReconcileRetriesTransientWriteFailure(t *testing.T) {
	store := newFakeStore(account("5", "doc-5", "1.0", "0"))
	store.failWrites = 1
	ledger := newFakeLedger()
	rec, _ := newTestReconciler(store, ledger)

	outcome, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(5, "basic", "CH-5"))
	if err != nil {
		t.Fatalf("Reconcile after transient failure: %v", err)
	}
	if !outcome.NewPower.Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("new power = %s, want 1.2", outcome.NewPower)
	}
	if store.writeCalls != 2 {
		t.Errorf("write calls = %d, want 2", store.writeCalls)
	}
}

func TestReconcileRedeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore(account("6", "doc-6", "1.0", "0"))
	ledger := newFakeLedger()
	rec, sender := newTestReconciler(store, ledger)

	log := tracing.NewConsoleLogger()
	c := confirmation(6, "advanced", "CH-6")

	if _, err := rec.Reconcile(log, c); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	operatorAlerts := sender.countFor(testOperators[0])

	outcome, err := rec.Reconcile(log, c)
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if !outcome.Duplicate {
		t.Errorf("redelivery outcome not marked duplicate")
	}

	want := decimal.RequireFromString("1.4")
	if !store.power("6").Equal(want) {
		t.Errorf("stored power after redelivery = %s, want %s", store.power("6"), want)
	}
	if got := sender.countFor(testOperators[0]); got != operatorAlerts {
		t.Errorf("redelivery produced %d extra operator alerts", got-operatorAlerts)
	}
}

func TestReconcileConcurrentConfirmationsPair(t *testing.T) {
	store := newFakeStore(account("7", "doc-7", "1.0", "0"))
	store.readJitter = 2 * time.Millisecond
	ledger := newFakeLedger()
	rec, _ := newTestReconciler(store, ledger)

	var wg sync.WaitGroup
	for i, offerID := range []string{"basic", "advanced"} {
		wg.Add(1)
		go func(offer string, n int) {
			defer wg.Done()
			c := confirmation(7, offer, fmt.Sprintf("CH-7-%d", n))
			if _, err := rec.Reconcile(tracing.NewConsoleLogger(), c); err != nil {
				t.Errorf("Reconcile(%s): %v", offer, err)
			}
		}(offerID, i)
	}
	wg.Wait()

	// 1.0 + 0.2 + 0.4, never 1.2 or 1.4.
	want := decimal.RequireFromString("1.6")
	if !store.power("7").Equal(want) {
		t.Errorf("final power = %s, want %s", store.power("7"), want)
	}
}

func TestReconcileNoLostUpdatesRandomInterleavings(t *testing.T) {
	offerIDs := []string{"basic", "advanced", "recommended", "ultra", "ultimate"}
	increments := map[string]string{
		"basic":       "0.2",
		"advanced":    "0.4",
		"recommended": "0.6",
		"ultra":       "0.8",
		"ultimate":    "1.0",
	}

	for round := 0; round < 10; round++ {
		n := 2 + rand.Intn(4)

		store := newFakeStore(account("9", "doc-9", "1.0", "0"))
		store.readJitter = time.Millisecond
		rec, _ := newTestReconciler(store, newFakeLedger())

		expected := decimal.RequireFromString("1.0")
		chosen := make([]string, n)
		for i := 0; i < n; i++ {
			chosen[i] = offerIDs[rand.Intn(len(offerIDs))]
			expected = expected.Add(decimal.RequireFromString(increments[chosen[i]]))
		}

		var wg sync.WaitGroup
		for i, offerID := range chosen {
			wg.Add(1)
			go func(offer string, seq int) {
				defer wg.Done()
				c := confirmation(9, offer, fmt.Sprintf("CH-9-%d-%d", round, seq))
				if _, err := rec.Reconcile(tracing.NewConsoleLogger(), c); err != nil {
					t.Errorf("round %d Reconcile(%s): %v", round, offer, err)
				}
			}(offerID, i)
		}
		wg.Wait()

		if !store.power("9").Equal(expected) {
			t.Errorf("round %d: final power = %s, want %s (offers %v)", round, store.power("9"), expected, chosen)
		}
	}
}

func TestReconcileProceedsWhenLedgerUnavailable(t *testing.T) {
	store := newFakeStore(account("8", "doc-8", "1.0", "0"))
	rec, _ := newTestReconciler(store, brokenLedger{})

	outcome, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(8, "basic", "CH-8"))
	if err != nil {
		t.Fatalf("Reconcile with broken ledger: %v", err)
	}
	if outcome.Duplicate {
		t.Errorf("outcome marked duplicate with broken ledger")
	}
	if !store.power("8").Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("upgrade not applied with broken ledger")
	}
}

func TestReconcileReleasesClaimAfterStoreTimeout(t *testing.T) {
	store := newFakeStore(account("10", "doc-10", "1.0", "0"))
	store.blockWrites = true
	ledger := &deadlineLedger{fakeLedger: newFakeLedger()}
	rec, _ := newTestReconciler(store, ledger)
	rec.config.Reconciler.StoreTimeout = 50 * time.Millisecond

	_, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(10, "basic", "CH-10"))

	var failure *Failure
	if !errors.As(err, &failure) || failure.Kind != FailureStoreWrite {
		t.Fatalf("err = %v, want store-write failure", err)
	}
	if ledger.claimed("CH-10") {
		t.Fatalf("charge still claimed after timed-out write, redelivery would be dropped")
	}

	store.mu.Lock()
	store.blockWrites = false
	store.mu.Unlock()

	outcome, err := rec.Reconcile(tracing.NewConsoleLogger(), confirmation(10, "basic", "CH-10"))
	if err != nil {
		t.Fatalf("redelivery after store recovered: %v", err)
	}
	if outcome.Duplicate {
		t.Errorf("redelivery treated as duplicate, upgrade dropped")
	}
	if !store.power("10").Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("power after redelivery = %s, want 1.2", store.power("10"))
	}
}

type brokenLedger struct{}

func (brokenLedger) Claim(ctx context.Context, logger *tracing.Logger, chargeRef string) (bool, error) {
	return false, errors.New("ledger down")
}

func (brokenLedger) Release(ctx context.Context, logger *tracing.Logger, chargeRef string) {}

// deadlineLedger refuses releases on a dead context, like the real redis
// client does.
type deadlineLedger struct {
	*fakeLedger
}

func (l *deadlineLedger) Release(ctx context.Context, logger *tracing.Logger, chargeRef string) {
	if ctx.Err() != nil {
		return
	}
	l.fakeLedger.Release(ctx, logger, chargeRef)
}
