package pair

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// Lock takes the caller's liquidity into pair custody until an expiry.
// A fresh lock needs both an amount and a period. An active lock can be
// extended (the period adds to the current expiry) and topped up (the
// amount adds to custody) independently; locking (0, 0) is a no-op. A
// lock that has expired but was never unlocked rebases: a new period
// counts from now.
type Lock struct {
	tx.BaseTx
	Pair   types.Address `json:"pair"`
	Amount *big.Int      `json:"amount"`
	Period uint64        `json:"period"` // seconds
}

// NewLock builds a lock transaction.
func NewLock(account, pair types.Address, amount *big.Int, period uint64) *Lock {
	return &Lock{
		BaseTx: *tx.NewBaseTx(tx.TypePairLock, account),
		Pair:   pair,
		Amount: mathutil.Clone(amount),
		Period: period,
	}
}

// Validate checks the transaction is well formed.
func (t *Lock) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Pair.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "pair is required")
	}
	if t.Amount == nil || t.Amount.Sign() < 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "amount must be non-negative")
	}
	return nil
}

// Apply locks liquidity.
func (t *Lock) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadPair(ctx, t.Pair)
	if res != tx.TesSUCCESS {
		return res
	}

	res = ApplyLock(p, t.Account, t.Amount, t.Period, ctx.Env.Timestamp)
	if res != tx.TesSUCCESS {
		return res
	}

	if err := tx.WritePair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// ApplyLock mutates the pair entry for a lock request. Shared with the
// factory, which locks freshly minted liquidity for new listings.
func ApplyLock(p *state.PairEntry, holder types.Address, amount *big.Int, period uint64, now uint64) tx.Result {
	lk := p.LockupOf(holder)

	if lk == nil {
		// Fresh lock: both legs must be present, unless both are absent
		if period == 0 && amount.Sign() == 0 {
			return tx.TesSUCCESS
		}
		if period == 0 {
			return tx.TecZERO_LOCKUP_PERIOD
		}
		if amount.Sign() == 0 {
			return tx.TecZERO_LOCKUP_AMOUNT
		}
		if res := lockIntoCustody(p, holder, amount); res != tx.TesSUCCESS {
			return res
		}
		if p.Lockups == nil {
			p.Lockups = make(map[types.Address]*state.Lockup)
		}
		p.Lockups[holder] = &state.Lockup{
			Amount: mathutil.Clone(amount),
			Expiry: now + period,
		}
		return tx.TesSUCCESS
	}

	if period > 0 {
		if now < lk.Expiry {
			// Active lock: the period extends the current expiry
			lk.Expiry += period
		} else {
			// Expired but never unlocked: rebase from now
			lk.Expiry = now + period
		}
	}
	if amount.Sign() > 0 {
		if res := lockIntoCustody(p, holder, amount); res != tx.TesSUCCESS {
			return res
		}
		total, err := mathutil.Add(lk.Amount, amount)
		if err != nil {
			return tx.TefARITHMETIC
		}
		lk.Amount = total
	}
	return tx.TesSUCCESS
}

// lockIntoCustody moves liquidity from the holder's balance into the
// pair's custody balance and grows the locked total.
func lockIntoCustody(p *state.PairEntry, holder types.Address, amount *big.Int) tx.Result {
	holderBal, err := mathutil.Sub(p.BalanceOf(holder), amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	custody, err := mathutil.Add(p.BalanceOf(p.Address), amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	locked, err := mathutil.Add(p.TotalLocked, amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	p.SetBalance(holder, holderBal)
	p.SetBalance(p.Address, custody)
	p.TotalLocked = locked
	return tx.TesSUCCESS
}

// Unlock releases an expired lock back to its holder. Anyone may
// trigger the release; the liquidity always returns to the holder.
type Unlock struct {
	tx.BaseTx
	Pair   types.Address `json:"pair"`
	Holder types.Address `json:"holder"`
}

// NewUnlock builds an unlock transaction for the given holder.
func NewUnlock(account, pair, holder types.Address) *Unlock {
	return &Unlock{
		BaseTx: *tx.NewBaseTx(tx.TypePairUnlock, account),
		Pair:   pair,
		Holder: holder,
	}
}

// Validate checks the transaction is well formed.
func (t *Unlock) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Pair.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "pair is required")
	}
	if t.Holder.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "holder is required")
	}
	return nil
}

// Apply releases the lock.
func (t *Unlock) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadPair(ctx, t.Pair)
	if res != tx.TesSUCCESS {
		return res
	}

	lk := p.LockupOf(t.Holder)
	if lk == nil {
		// Nothing locked; releasing nothing succeeds
		return tx.TesSUCCESS
	}
	if ctx.Env.Timestamp < lk.Expiry {
		return tx.TecBEFORE_EXPIRY
	}

	custody, err := mathutil.Sub(p.BalanceOf(p.Address), lk.Amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	holderBal, err := mathutil.Add(p.BalanceOf(t.Holder), lk.Amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	locked, err := mathutil.Sub(p.TotalLocked, lk.Amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	p.SetBalance(p.Address, custody)
	p.SetBalance(t.Holder, holderBal)
	p.TotalLocked = locked
	delete(p.Lockups, t.Holder)

	if err := tx.WritePair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
