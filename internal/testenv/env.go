// Package testenv provides a self-contained ledger environment for
// transaction tests: an in-memory store, a manual clock and helpers for
// the common setup steps (tokens, factory, pairs).
package testenv

import (
	"math/big"
	"testing"

	"github.com/yflink/linkswap/internal/core/ledger"
	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/tx/factory"
	"github.com/yflink/linkswap/internal/core/tx/pair"
	"github.com/yflink/linkswap/internal/core/tx/token"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/storage/keyValueDb/memory"
)

// Env manages a test ledger environment for transaction testing.
type Env struct {
	T      *testing.T
	Engine *tx.Engine
	Store  *ledger.Store
	Clock  *ManualClock
}

// New creates a test environment over an in-memory store.
func New(t *testing.T) *Env {
	t.Helper()

	store, err := ledger.NewStore(memory.New(), ledger.WithCompressor("none"))
	if err != nil {
		t.Fatalf("Failed to create ledger store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &Env{
		T:      t,
		Engine: tx.NewEngine(store),
		Store:  store,
		Clock:  NewManualClock(),
	}
}

// Submit applies a transaction at the clock's current environment.
func (e *Env) Submit(t tx.Transaction) tx.ApplyResult {
	e.T.Helper()
	return e.Engine.Apply(t, e.Clock.Env())
}

// Expect applies a transaction and fails the test unless it yields the
// given result.
func (e *Env) Expect(t tx.Transaction, want tx.Result) {
	e.T.Helper()
	res := e.Submit(t)
	if res.Result != want {
		e.T.Fatalf("%s: got %s, want %s (%s)", t.TxType(), res.Result, want, res.Message)
	}
}

// NewToken creates a token with the full supply credited to creator and
// returns its address.
func (e *Env) NewToken(creator types.Address, name, symbol string, supply *big.Int) types.Address {
	e.T.Helper()
	e.Expect(token.NewCreate(creator, name, symbol, 18, supply), tx.TesSUCCESS)
	return state.TokenAddress(creator, symbol)
}

// Fund transfers tokens from one holder to another.
func (e *Env) Fund(tokenAddr, from, to types.Address, amount *big.Int) {
	e.T.Helper()
	e.Expect(token.NewTransfer(from, tokenAddr, to, amount), tx.TesSUCCESS)
}

// Balance returns to's balance of the given token.
func (e *Env) Balance(tokenAddr, holder types.Address) *big.Int {
	e.T.Helper()
	entry, err := tx.ReadToken(e.Engine.View(), tokenAddr)
	if err != nil {
		e.T.Fatalf("Failed to read token: %v", err)
	}
	if entry == nil {
		e.T.Fatalf("Token %s not found", tokenAddr)
	}
	return entry.BalanceOf(holder)
}

// Pair reads a pair entry, failing the test when it is missing.
func (e *Env) Pair(addr types.Address) *state.PairEntry {
	e.T.Helper()
	p, err := tx.ReadPair(e.Engine.View(), addr)
	if err != nil {
		e.T.Fatalf("Failed to read pair: %v", err)
	}
	if p == nil {
		e.T.Fatalf("Pair %s not found", addr)
	}
	return p
}

// Factory reads the factory entry, failing the test when it is missing.
func (e *Env) Factory() *state.FactoryEntry {
	e.T.Helper()
	f, err := tx.ReadFactory(e.Engine.View())
	if err != nil {
		e.T.Fatalf("Failed to read factory: %v", err)
	}
	if f == nil {
		e.T.Fatal("Factory not initialized")
	}
	return f
}

// Oracle reads the oracle entry, failing the test when it is missing.
func (e *Env) Oracle() *state.OracleEntry {
	e.T.Helper()
	o, err := tx.ReadOracle(e.Engine.View())
	if err != nil {
		e.T.Fatalf("Failed to read oracle: %v", err)
	}
	if o == nil {
		e.T.Fatal("Oracle not initialized")
	}
	return o
}

// System is a fully initialized factory with its base tokens.
type System struct {
	Governance types.Address
	Treasury   types.Address
	Link       types.Address
	Weth       types.Address
	Yfl        types.Address
}

// SetupFactory creates the LINK/WETH/YFL tokens under creator, then
// initializes the factory with governance as its controller.
func (e *Env) SetupFactory(governance, treasury, creator types.Address, supply *big.Int) System {
	e.T.Helper()

	sys := System{
		Governance: governance,
		Treasury:   treasury,
		Link:       e.NewToken(creator, "ChainLink Token", "LINK", supply),
		Weth:       e.NewToken(creator, "Wrapped Ether", "WETH", supply),
		Yfl:        e.NewToken(creator, "YFLink", "YFL", supply),
	}
	e.Expect(factory.NewInit(governance, treasury, sys.Link, sys.Weth, sys.Yfl), tx.TesSUCCESS)
	return sys
}

// CreatePair registers a pair between the two tokens and returns its
// address. No listing deposit is made; caller must be eligible for the
// fee-free path (governance-approved pair or zero configured fees).
func (e *Env) CreatePair(caller, tokenA, tokenB types.Address) types.Address {
	e.T.Helper()
	e.Expect(factory.NewCreatePair(caller, tokenA, tokenB, nil, nil, 0, tokenB), tx.TesSUCCESS)
	return state.PairAddress(tokenA, tokenB)
}

// AddLiquidity transfers the given amounts into the pair and mints
// liquidity to the provider.
func (e *Env) AddLiquidity(provider, pairAddr types.Address, amount0, amount1 *big.Int) {
	e.T.Helper()
	p := e.Pair(pairAddr)
	if amount0.Sign() > 0 {
		e.Fund(p.Token0, provider, pairAddr, amount0)
	}
	if amount1.Sign() > 0 {
		e.Fund(p.Token1, provider, pairAddr, amount1)
	}
	e.Expect(pair.NewMint(provider, pairAddr, provider), tx.TesSUCCESS)
}

// Addr returns a deterministic test address.
func Addr(i byte) types.Address {
	var a types.Address
	a[19] = i
	a[0] = 0xaa
	return a
}

// Big parses a decimal big integer, failing at test setup on bad input.
func Big(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("testenv: invalid big integer " + s)
	}
	return v
}

// E18 returns n scaled by 10^18.
func E18(n int64) *big.Int {
	v := big.NewInt(n)
	return v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}
