package usecases

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/repositories"
)

// In-memory repository fakes. They mirror the guarantees the SQL
// implementations get from the database: the balance compare-and-swap, the
// guarded status transitions, and the lock-and-skip card selection are all
// atomic under a mutex, so the concurrency tests below exercise the same races
// the production code is written against. With Repositories.DB nil,
// InTransaction runs the unit directly, and every WithTx(nil) returns the
// receiver.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User // keyed by ID; single-tenant enough for tests
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(tenantID, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(tenantID uint, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) WithTx(tx *gorm.DB) repositories.UserRepository { return r }

type fakeWalletRepo struct {
	mu      sync.Mutex
	nextID  uint
	wallets map[uint]*models.Wallet
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{nextID: 1, wallets: make(map[uint]*models.Wallet)}
}

func (r *fakeWalletRepo) Create(wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wallets {
		if w.TenantID == wallet.TenantID && w.UserID == wallet.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	wallet.ID = r.nextID
	r.nextID++
	cp := *wallet
	r.wallets[wallet.ID] = &cp
	return nil
}

func (r *fakeWalletRepo) GetByID(id uint) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) GetByUserID(tenantID, userID uint) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wallets {
		if w.TenantID == tenantID && w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWalletRepo) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	return r.GetByID(id)
}

func (r *fakeWalletRepo) UpdateBalance(walletID uint, newBalance decimal.Decimal, version uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok || w.Version != version {
		return gorm.ErrRecordNotFound
	}
	w.Balance = newBalance
	w.Version++
	return nil
}

func (r *fakeWalletRepo) ListByTenant(tenantID uint, offset, limit int) ([]models.Wallet, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Wallet
	for _, w := range r.wallets {
		if w.TenantID == tenantID {
			out = append(out, *w)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeWalletRepo) WithTx(tx *gorm.DB) repositories.WalletRepository { return r }

type fakeTransactionRepo struct {
	mu     sync.Mutex
	nextID uint
	txns   []models.WalletTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{nextID: 1}
}

func (r *fakeTransactionRepo) Create(txn *models.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn.ID = r.nextID
	r.nextID++
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	r.txns = append(r.txns, *txn)
	return nil
}

func (r *fakeTransactionRepo) GetByID(id uint) (*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txns {
		if r.txns[i].ID == id {
			cp := r.txns[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTransactionRepo) GetByReference(reference string) (*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txns {
		if r.txns[i].Reference == reference {
			cp := r.txns[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTransactionRepo) GetByWalletIDWithCursor(walletID uint, cursor *time.Time, cursorID *uint, limit int) ([]models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WalletTransaction
	for i := range r.txns {
		t := r.txns[i]
		if t.WalletID != walletID {
			continue
		}
		if cursor != nil {
			if t.CreatedAt.After(*cursor) {
				continue
			}
			if t.CreatedAt.Equal(*cursor) && cursorID != nil && t.ID >= *cursorID {
				continue
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit+1 {
		out = out[:limit+1]
	}
	return out, nil
}

func (r *fakeTransactionRepo) SumAmounts(walletID uint) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for i := range r.txns {
		if r.txns[i].WalletID == walletID && r.txns[i].Status == models.TransactionStatusCompleted {
			sum = sum.Add(r.txns[i].Amount)
		}
	}
	return sum, nil
}

func (r *fakeTransactionRepo) ListByWalletAsc(walletID uint) ([]models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WalletTransaction
	for i := range r.txns {
		if r.txns[i].WalletID == walletID {
			out = append(out, r.txns[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTransactionRepo) WithTx(tx *gorm.DB) repositories.TransactionRepository { return r }

type fakeTopUpRepo struct {
	mu     sync.Mutex
	nextID uint
	reqs   map[uint]*models.WalletTopUpRequest
}

func newFakeTopUpRepo() *fakeTopUpRepo {
	return &fakeTopUpRepo{nextID: 1, reqs: make(map[uint]*models.WalletTopUpRequest)}
}

func (r *fakeTopUpRepo) Create(req *models.WalletTopUpRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextID
	r.nextID++
	req.CreatedAt = time.Now().UTC()
	cp := *req
	r.reqs[req.ID] = &cp
	return nil
}

func (r *fakeTopUpRepo) GetByID(tenantID, id uint) (*models.WalletTopUpRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok || req.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeTopUpRepo) List(tenantID uint, userID *uint, status *models.TopUpStatus, offset, limit int) ([]models.WalletTopUpRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WalletTopUpRequest
	for _, req := range r.reqs {
		if req.TenantID != tenantID {
			continue
		}
		if userID != nil && req.UserID != *userID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeTopUpRepo) Transition(id uint, from, to models.TopUpStatus, processedBy uint, processedAt time.Time, reason string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok || req.Status != from {
		return 0, nil
	}
	req.Status = to
	req.ProcessedAt = &processedAt
	req.ProcessedByUserID = &processedBy
	req.RejectionReason = reason
	return 1, nil
}

func (r *fakeTopUpRepo) WithTx(tx *gorm.DB) repositories.TopUpRepository { return r }

type fakeBankRepo struct {
	mu     sync.Mutex
	nextID uint
	banks  map[uint]*models.Bank
}

func newFakeBankRepo() *fakeBankRepo {
	return &fakeBankRepo{nextID: 1, banks: make(map[uint]*models.Bank)}
}

func (r *fakeBankRepo) Create(bank *models.Bank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bank.ID = r.nextID
	r.nextID++
	cp := *bank
	r.banks[bank.ID] = &cp
	return nil
}

func (r *fakeBankRepo) GetByID(tenantID, id uint) (*models.Bank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.banks[id]
	if !ok || b.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBankRepo) GetByCode(tenantID uint, code string) (*models.Bank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.banks {
		if b.TenantID == tenantID && b.Code == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBankRepo) List(tenantID uint, offset, limit int) ([]models.Bank, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Bank
	for _, b := range r.banks {
		if b.TenantID == tenantID && b.IsActive {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeBankRepo) WithTx(tx *gorm.DB) repositories.BankRepository { return r }

type fakeCardRepo struct {
	mu          sync.Mutex
	nextCardID  uint
	nextBatchID uint
	cards       map[uint]*models.CardInventory
	batches     map[uint]*models.CardBatch
	// claimed emulates row locks held by in-flight reservations.
	claimed map[uint]bool
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{
		nextCardID:  1,
		nextBatchID: 1,
		cards:       make(map[uint]*models.CardInventory),
		batches:     make(map[uint]*models.CardBatch),
		claimed:     make(map[uint]bool),
	}
}

func (r *fakeCardRepo) CreateBatch(batch *models.CardBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch.ID = r.nextBatchID
	r.nextBatchID++
	batch.CreatedAt = time.Now().UTC()
	cp := *batch
	r.batches[batch.ID] = &cp
	return nil
}

func (r *fakeCardRepo) CreateCard(card *models.CardInventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	card.ID = r.nextCardID
	r.nextCardID++
	card.CreatedAt = time.Now().UTC()
	cp := *card
	r.cards[card.ID] = &cp
	return nil
}

func (r *fakeCardRepo) GetByID(tenantID, id uint) (*models.CardInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok || c.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCardRepo) CodeExists(tenantID uint, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.TenantID == tenantID && strings.EqualFold(c.CardCode, code) {
			return true, nil
		}
	}
	return false, nil
}

// LockAvailable mimics FOR UPDATE SKIP LOCKED: rows already claimed by an
// in-flight reservation are skipped, and rows returned for a full reservation
// are claimed until UpdateStatus moves them. A short result is not claimed,
// matching a rolled-back transaction releasing its locks.
func (r *fakeCardRepo) LockAvailable(tenantID, productID uint, limit int, now time.Time) ([]models.CardInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var eligible []*models.CardInventory
	for _, c := range r.cards {
		if c.TenantID != tenantID || c.ProductID != productID || c.Status != models.CardStatusAvailable {
			continue
		}
		if r.claimed[c.ID] {
			continue
		}
		if c.ExpiryDate != nil && !c.ExpiryDate.After(now) {
			continue
		}
		eligible = append(eligible, c)
	}
	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].CreatedAt.Equal(eligible[j].CreatedAt) {
			return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
		}
		return eligible[i].ID < eligible[j].ID
	})
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}

	out := make([]models.CardInventory, len(eligible))
	for i, c := range eligible {
		out[i] = *c
	}
	if len(out) == limit {
		for _, c := range out {
			r.claimed[c.ID] = true
		}
	}
	return out, nil
}

func (r *fakeCardRepo) UpdateStatus(tenantID uint, ids []uint, from, to models.CardStatus, extra map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, id := range ids {
		c, ok := r.cards[id]
		if !ok || c.TenantID != tenantID || c.Status != from {
			continue
		}
		c.Status = to
		for column, value := range extra {
			switch column {
			case "order_id":
				if value == nil {
					c.OrderID = nil
				} else if s, ok := value.(string); ok {
					c.OrderID = &s
				}
			case "sold_at":
				if t, ok := value.(time.Time); ok {
					c.SoldAt = &t
				}
			case "sold_to_user_id":
				if u, ok := value.(uint); ok {
					c.SoldToUserID = &u
				}
			}
		}
		delete(r.claimed, id)
		affected++
	}
	return affected, nil
}

func (r *fakeCardRepo) MarkExpired(tenantID uint, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, c := range r.cards {
		if c.TenantID != tenantID || c.Status != models.CardStatusAvailable {
			continue
		}
		if c.ExpiryDate != nil && c.ExpiryDate.Before(now) {
			c.Status = models.CardStatusExpired
			affected++
		}
	}
	return affected, nil
}

func (r *fakeCardRepo) ListInventory(tenantID, productID uint, status *models.CardStatus, offset, limit int) ([]models.CardInventory, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CardInventory
	for _, c := range r.cards {
		if c.TenantID != tenantID || c.ProductID != productID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeCardRepo) ListBatches(tenantID, productID uint, offset, limit int) ([]models.CardBatch, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CardBatch
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.ProductID == productID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeCardRepo) CountByStatus(tenantID, productID uint) (map[models.CardStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[models.CardStatus]int64)
	for _, c := range r.cards {
		if c.TenantID == tenantID && c.ProductID == productID {
			out[c.Status]++
		}
	}
	return out, nil
}

func (r *fakeCardRepo) WithTx(tx *gorm.DB) repositories.CardRepository { return r }

type fakeAuditRepo struct {
	mu      sync.Mutex
	reports []models.LedgerAuditReport
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (r *fakeAuditRepo) Create(report *models.LedgerAuditReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = uint(len(r.reports) + 1)
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeAuditRepo) ListByWalletID(walletID uint, offset, limit int) ([]models.LedgerAuditReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LedgerAuditReport
	for i := range r.reports {
		if r.reports[i].WalletID == walletID {
			out = append(out, r.reports[i])
		}
	}
	return out, nil
}

// fakeNotifier records deliveries so tests can assert the best-effort hooks
// fired without coupling to the log output.
type fakeNotifier struct {
	mu       sync.Mutex
	approved []uint
	rejected []uint
}

func (n *fakeNotifier) TopUpApproved(req *models.WalletTopUpRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved = append(n.approved, req.ID)
	return nil
}

func (n *fakeNotifier) TopUpRejected(req *models.WalletTopUpRequest, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected = append(n.rejected, req.ID)
	return nil
}

func newTestRepos() *repositories.Repositories {
	return &repositories.Repositories{
		User:        newFakeUserRepo(),
		Wallet:      newFakeWalletRepo(),
		Transaction: newFakeTransactionRepo(),
		TopUp:       newFakeTopUpRepo(),
		Bank:        newFakeBankRepo(),
		Card:        newFakeCardRepo(),
		Audit:       newFakeAuditRepo(),
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}
