// Package memory implements an in-memory ledger store for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"weightbattle/internal/domain"
)

// DB implements the user, weigh-in and config ports against in-memory state.
// Pot and audit persistence live on sub-repositories sharing the same lock.
type DB struct {
	mu            sync.Mutex
	users         []domain.User
	weighIns      []domain.WeighIn
	contributions map[string]domain.PotContribution
	config        map[string]string
	auditLog      []domain.AuditEntry

	userIDCounter    int64
	weighInIDCounter int64
}

// New creates an empty in-memory store.
func New() *DB {
	return &DB{
		contributions: make(map[string]domain.PotContribution),
		config:        make(map[string]string),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.WeighInRepository = (*DB)(nil)
var _ domain.ConfigRepository = (*DB)(nil)
var _ domain.PotRepository = (*PotRepo)(nil)
var _ domain.AuditRepository = (*AuditRepo)(nil)

// --- UserRepository ---

// Create adds a participant, rejecting duplicate names.
func (db *DB) Create(ctx context.Context, name string, startWeight float64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Name == name {
			return nil, domain.ErrUserExists
		}
	}
	db.userIDCounter++
	u := domain.User{
		ID:          db.userIDCounter,
		Name:        name,
		StartWeight: startWeight,
		CreatedAt:   time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return &u, nil
}

// GetByID returns a participant by id.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Update replaces a participant's name and start weight.
func (db *DB) Update(ctx context.Context, id int64, name string, startWeight float64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.users {
		if db.users[i].ID == id {
			db.users[i].Name = name
			db.users[i].StartWeight = startWeight
			copied := db.users[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// List returns all participants ordered by name.
func (db *DB) List(ctx context.Context) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.User, len(db.users))
	copy(result, db.users)
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Count returns the number of participants.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- WeighInRepository ---

// Upsert writes the weigh-in for (userID, weekStart), replacing any prior value.
func (db *DB) Upsert(ctx context.Context, userID int64, weekStart string, weight float64, createdAt time.Time) (*domain.WeighIn, *domain.WeighIn, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.weighIns {
		if db.weighIns[i].UserID == userID && db.weighIns[i].WeekStart == weekStart {
			replaced := db.weighIns[i]
			db.weighIns[i].Weight = weight
			db.weighIns[i].CreatedAt = createdAt.UTC()
			stored := db.weighIns[i]
			return &stored, &replaced, nil
		}
	}

	db.weighInIDCounter++
	wi := domain.WeighIn{
		ID:        db.weighInIDCounter,
		UserID:    userID,
		WeekStart: weekStart,
		Weight:    weight,
		CreatedAt: createdAt.UTC(),
	}
	db.weighIns = append(db.weighIns, wi)
	return &wi, nil, nil
}

// Get returns the weigh-in for (userID, weekStart), or nil if none.
func (db *DB) Get(ctx context.Context, userID int64, weekStart string) (*domain.WeighIn, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, wi := range db.weighIns {
		if wi.UserID == userID && wi.WeekStart == weekStart {
			copied := wi
			return &copied, nil
		}
	}
	return nil, nil
}

// ListByUser returns a user's weigh-ins ordered by week ascending.
func (db *DB) ListByUser(ctx context.Context, userID int64) ([]domain.WeighIn, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeighIn, 0)
	for _, wi := range db.weighIns {
		if wi.UserID == userID {
			result = append(result, wi)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WeekStart < result[j].WeekStart })
	return result, nil
}

// ListByWeek returns all weigh-ins for the given week.
func (db *DB) ListByWeek(ctx context.Context, weekStart string) ([]domain.WeighIn, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeighIn, 0)
	for _, wi := range db.weighIns {
		if wi.WeekStart == weekStart {
			result = append(result, wi)
		}
	}
	return result, nil
}

// Weeks returns every distinct week start ascending.
func (db *DB) Weeks(ctx context.Context) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[string]bool)
	weeks := make([]string, 0)
	for _, wi := range db.weighIns {
		if !seen[wi.WeekStart] {
			seen[wi.WeekStart] = true
			weeks = append(weeks, wi.WeekStart)
		}
	}
	sort.Strings(weeks)
	return weeks, nil
}

// --- ConfigRepository ---

const (
	cfgPotContribution = "pot_contribution"
	cfgTotalAmount     = "total_amount"
	cfgEndDate         = "battle_end_date"
	cfgSetupComplete   = "setup_complete"
)

// Load returns the stored configuration, or ErrConfigMissing before setup.
func (db *DB) Load(ctx context.Context) (*domain.CompetitionConfig, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	pot, ok1 := db.config[cfgPotContribution]
	total, ok2 := db.config[cfgTotalAmount]
	end, ok3 := db.config[cfgEndDate]
	if !ok1 || !ok2 || !ok3 {
		return nil, domain.ErrConfigMissing
	}
	potDec, err := decimal.NewFromString(pot)
	if err != nil {
		return nil, err
	}
	totalDec, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &domain.CompetitionConfig{
		PotContribution: potDec,
		TotalAmount:     totalDec,
		EndDate:         end,
	}, nil
}

// Save stores the configuration.
func (db *DB) Save(ctx context.Context, cfg domain.CompetitionConfig) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.config[cfgPotContribution] = cfg.PotContribution.String()
	db.config[cfgTotalAmount] = cfg.TotalAmount.String()
	db.config[cfgEndDate] = cfg.EndDate
	return nil
}

// SetupComplete reports whether setup has been marked done.
func (db *DB) SetupComplete(ctx context.Context) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.config[cfgSetupComplete] == "true", nil
}

// MarkSetupComplete flags setup as done.
func (db *DB) MarkSetupComplete(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.config[cfgSetupComplete] = "true"
	return nil
}

// --- PotRepository ---

// PotRepo implements pot persistence on top of the shared store.
type PotRepo struct {
	db *DB
}

// NewPotRepo creates the pot repository view of the store.
func (db *DB) NewPotRepo() *PotRepo {
	return &PotRepo{db: db}
}

// Upsert writes the single contribution for a week.
func (r *PotRepo) Upsert(ctx context.Context, weekStart string, userID int64, amount decimal.Decimal, createdAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.contributions[weekStart] = domain.PotContribution{
		WeekStart: weekStart,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: createdAt.UTC(),
	}
	return nil
}

// Delete removes a week's contribution if present.
func (r *PotRepo) Delete(ctx context.Context, weekStart string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.contributions, weekStart)
	return nil
}

// List returns all contributions ordered by week descending.
func (r *PotRepo) List(ctx context.Context) ([]domain.PotContribution, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.PotContribution, 0, len(r.db.contributions))
	for _, c := range r.db.contributions {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WeekStart > result[j].WeekStart })
	return result, nil
}

// --- AuditRepository ---

// AuditRepo implements the append-only audit trail on top of the shared store.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates the audit repository view of the store.
func (db *DB) NewAuditRepo() *AuditRepo {
	return &AuditRepo{db: db}
}

// Append adds an entry to the audit log.
func (r *AuditRepo) Append(ctx context.Context, entry domain.AuditEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.auditLog = append(r.db.auditLog, entry)
	return nil
}

// List returns entries newest first, optionally filtered.
func (r *AuditRepo) List(ctx context.Context, entity string, entityID int64, limit int) ([]domain.AuditEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.AuditEntry, 0, limit)
	for i := len(r.db.auditLog) - 1; i >= 0 && len(result) < limit; i-- {
		e := r.db.auditLog[i]
		if entity != "" && e.Entity != entity {
			continue
		}
		if entityID != 0 && e.EntityID != entityID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}
