package shop

import (
	"context"
	"fmt"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/formula"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Store is the slice of balance data the shop reads.
type Store interface {
	GetUpgrade(ctx context.Context, id string) *domain.UpgradeDefinition
	GetUpgradesByCategory(ctx context.Context, category string) []*domain.UpgradeDefinition
	AllUpgrades(ctx context.Context) []*domain.UpgradeDefinition
}

// Progression is the slice of the progression service the shop needs: the
// derived-value recompute that runs after every successful purchase.
type Progression interface {
	Recalculate(ctx context.Context, profileID string, st *domain.PlayerState) formula.Derived
}

// PurchaseResult reports one successful upgrade purchase.
type PurchaseResult struct {
	UpgradeID string  `json:"upgrade_id"`
	NewLevel  int     `json:"new_level"`
	PricePaid float64 `json:"price_paid"`
	Currency  string  `json:"currency"`
	NextPrice float64 `json:"next_price"`
	Maxed     bool    `json:"maxed"`
}

// CatalogEntry is one upgrade as the client sees it: the definition plus
// the player-relative price and availability flags.
type CatalogEntry struct {
	Upgrade    *domain.UpgradeDefinition `json:"upgrade"`
	Owned      int                       `json:"owned"`
	Price      float64                   `json:"price"`
	Affordable bool                      `json:"affordable"`
	Locked     bool                      `json:"locked"`
	Maxed      bool                      `json:"maxed"`
}

// Service is the upgrade purchase controller. Callers must hold the
// profile's session lock for the duration of any call.
type Service interface {
	Purchase(ctx context.Context, profileID string, st *domain.PlayerState, upgradeID string) (*PurchaseResult, error)
	Quote(ctx context.Context, st *domain.PlayerState, upgradeID string) (*CatalogEntry, error)
	Catalog(ctx context.Context, st *domain.PlayerState, category string) []CatalogEntry
	Shutdown(ctx context.Context) error
}

type service struct {
	store       Store
	progression Progression
	publisher   *event.ResilientPublisher
}

// NewService creates a new shop service
func NewService(store Store, progression Progression, publisher *event.ResilientPublisher) Service {
	return &service{
		store:       store,
		progression: progression,
		publisher:   publisher,
	}
}

// Purchase buys one level of an upgrade. The preconditions run in a fixed
// order so the client can tell "locked" from "maxed out" from "can't
// afford": existence, max level, unlock gate, then funds. Nothing on the
// state changes unless every check passes; the debit and the level bump
// commit together.
func (s *service) Purchase(ctx context.Context, profileID string, st *domain.PlayerState, upgradeID string) (*PurchaseResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPurchaseCalled, "profile_id", profileID, "upgrade_id", upgradeID)

	// 1. Upgrade exists
	def := s.store.GetUpgrade(ctx, upgradeID)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpgradeNotFound, upgradeID)
	}

	owned := st.UpgradeLevel(upgradeID)

	// 2. Not already at max level
	if def.MaxLevel > 0 && owned >= def.MaxLevel {
		return nil, fmt.Errorf("%w: %s is at level %d of %d", domain.ErrMaxLevelReached, upgradeID, owned, def.MaxLevel)
	}

	// 3. Unlock condition satisfied
	if err := checkUnlocked(st, def); err != nil {
		return nil, err
	}

	// 4. Sufficient currency of the required type
	price := formula.Price(def, owned)
	if st.Balance(def.Currency) < price {
		return nil, fmt.Errorf("%w: %s costs %.2f %s, balance is %.2f",
			domain.ErrInsufficientFunds, upgradeID, price, def.Currency, st.Balance(def.Currency))
	}

	// Commit: debit and level bump land together under the session lock.
	s.debit(ctx, profileID, st, def.Currency, price)
	if st.UpgradeLevels == nil {
		st.UpgradeLevels = make(map[string]int)
	}
	newLevel := owned + 1
	st.UpgradeLevels[upgradeID] = newLevel
	st.Stats.UpgradesPurchased++

	s.logUnhandledEffects(ctx, def)
	s.progression.Recalculate(ctx, profileID, st)

	s.publish(ctx, event.NewUpgradePurchasedEvent(profileID, upgradeID, newLevel, price, def.Currency))
	log.Info(LogMsgUpgradePurchased,
		"profile_id", profileID,
		"upgrade_id", upgradeID,
		"new_level", newLevel,
		"price_paid", price,
		"currency", def.Currency)

	maxed := def.MaxLevel > 0 && newLevel >= def.MaxLevel
	return &PurchaseResult{
		UpgradeID: upgradeID,
		NewLevel:  newLevel,
		PricePaid: price,
		Currency:  def.Currency,
		NextPrice: formula.Price(def, newLevel),
		Maxed:     maxed,
	}, nil
}

// Quote prices an upgrade for a player without buying it.
func (s *service) Quote(ctx context.Context, st *domain.PlayerState, upgradeID string) (*CatalogEntry, error) {
	def := s.store.GetUpgrade(ctx, upgradeID)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpgradeNotFound, upgradeID)
	}
	entry := s.quoteFor(st, def)
	return &entry, nil
}

// Catalog returns every upgrade in a category priced for the player, or
// the full catalog when category is empty. Locked upgrades stay listed so
// the client can render them greyed out with their unlock condition.
func (s *service) Catalog(ctx context.Context, st *domain.PlayerState, category string) []CatalogEntry {
	logger.FromContext(ctx).Info(LogMsgCatalogCalled, "category", category)

	var defs []*domain.UpgradeDefinition
	if category == "" {
		defs = s.store.AllUpgrades(ctx)
	} else {
		defs = s.store.GetUpgradesByCategory(ctx, category)
	}

	entries := make([]CatalogEntry, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, s.quoteFor(st, def))
	}
	return entries
}

func (s *service) quoteFor(st *domain.PlayerState, def *domain.UpgradeDefinition) CatalogEntry {
	owned := st.UpgradeLevel(def.ID)
	price := formula.Price(def, owned)
	maxed := def.MaxLevel > 0 && owned >= def.MaxLevel
	return CatalogEntry{
		Upgrade:    def,
		Owned:      owned,
		Price:      price,
		Affordable: st.Balance(def.Currency) >= price,
		Locked:     checkUnlocked(st, def) != nil,
		Maxed:      maxed,
	}
}

// checkUnlocked reports whether the upgrade's unlock condition is satisfied:
// minimum level, minimum stage, and prerequisite upgrade owned.
func checkUnlocked(st *domain.PlayerState, def *domain.UpgradeDefinition) error {
	if def.UnlockLevel > 0 && st.Level < def.UnlockLevel {
		return fmt.Errorf("%w: %s needs level %d", domain.ErrUpgradeLocked, def.ID, def.UnlockLevel)
	}
	if def.UnlockStage > 0 && st.Stage < def.UnlockStage {
		return fmt.Errorf("%w: %s needs stage %d", domain.ErrUpgradeLocked, def.ID, def.UnlockStage)
	}
	if def.Prerequisite != "" && st.UpgradeLevel(def.Prerequisite) == 0 {
		return fmt.Errorf("%w: %s needs %s first", domain.ErrUpgradeLocked, def.ID, def.Prerequisite)
	}
	return nil
}

// debit subtracts the price from the purchase currency. Experience spent
// here does not lower the level; the level is cached and only ever
// advances, so spending just lengthens the climb to the next threshold.
func (s *service) debit(ctx context.Context, profileID string, st *domain.PlayerState, currency string, amount float64) {
	switch currency {
	case domain.CurrencyExperience:
		st.Experience -= amount
		s.publish(ctx, event.NewExperienceChangedEvent(profileID, -amount, st.Experience, SourcePurchase))
	default:
		st.Money -= amount
		s.publish(ctx, event.NewMoneyChangedEvent(profileID, -amount, st.Money, SourcePurchase))
	}
}

// logUnhandledEffects warns once per purchase about effect types the
// formula engine does not resolve yet. The purchase still succeeds; the
// unknown effect simply contributes nothing until the engine learns it.
func (s *service) logUnhandledEffects(ctx context.Context, def *domain.UpgradeDefinition) {
	log := logger.FromContext(ctx)
	for _, e := range def.Effects {
		if !domain.KnownEffectType(e.Type) {
			log.Warn(LogMsgUnhandledEffect, "upgrade_id", def.ID, "effect_type", e.Type)
		}
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}

// Shutdown gracefully shuts down the shop service. Purchases run inline
// under the caller's session lock, so there is nothing to wait for.
func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info("Shop service shutdown complete")
	return nil
}
