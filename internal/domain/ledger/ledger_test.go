package ledger

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, price string) Product {
	return Product{ID: id, Title: "Product", UnitPrice: decimal.RequireFromString(price), ImageRef: "uploads/p.png"}
}

func reward(id, points int) Reward {
	return Reward{ID: id, Name: "Reward", PointsPerUnit: points}
}

func TestAdjustLine(t *testing.T) {
	t.Run("creates line on positive delta", func(t *testing.T) {
		l := New()
		require.NoError(t, l.AdjustLine(product(1, "10.00"), 2))

		line, ok := l.Line(1)
		require.True(t, ok)
		assert.Equal(t, 2, line.Quantity)
		assert.Equal(t, "Product", line.Title)
	})

	t.Run("ignores non-positive delta on missing line", func(t *testing.T) {
		l := New()
		require.NoError(t, l.AdjustLine(product(1, "10.00"), -3))
		require.NoError(t, l.AdjustLine(product(1, "10.00"), 0))
		assert.True(t, l.IsEmpty())
	})

	t.Run("removes line when quantity drops to zero", func(t *testing.T) {
		l := New()
		require.NoError(t, l.AdjustLine(product(1, "10.00"), 2))
		require.NoError(t, l.AdjustLine(product(1, "10.00"), -5))

		_, ok := l.Line(1)
		assert.False(t, ok)
		assert.Equal(t, KindEmpty, l.Kind())
	})

	t.Run("rejects invalid product", func(t *testing.T) {
		l := New()
		assert.ErrorIs(t, l.AdjustLine(product(0, "1"), 1), ErrInvalidItem)
		assert.ErrorIs(t, l.AdjustLine(product(2, "-1"), 1), ErrInvalidItem)
	})
}

func TestAdjustLineSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		l := New()
		expected := 0
		for step := 0; step < 30; step++ {
			delta := rng.Intn(11) - 5
			require.NoError(t, l.AdjustLine(product(7, "1.25"), delta))

			if expected == 0 {
				if delta > 0 {
					expected = delta
				}
			} else {
				expected += delta
				if expected < 0 {
					expected = 0
				}
			}

			line, ok := l.Line(7)
			if expected == 0 {
				require.False(t, ok)
				continue
			}
			require.True(t, ok)
			require.Equal(t, expected, line.Quantity)
			require.Positive(t, line.Quantity)
		}
	}
}

func TestSetLineQuantity(t *testing.T) {
	l := New()
	require.NoError(t, l.SetLineQuantity(product(1, "3.50"), 4))
	line, _ := l.Line(1)
	assert.Equal(t, 4, line.Quantity)

	require.NoError(t, l.SetLineQuantity(product(1, "3.50"), 1))
	line, _ = l.Line(1)
	assert.Equal(t, 1, line.Quantity)

	require.NoError(t, l.SetLineQuantity(product(1, "3.50"), 0))
	assert.True(t, l.IsEmpty())
}

func TestRemoveLine(t *testing.T) {
	l := New()
	require.NoError(t, l.AdjustLine(product(1, "3"), 1))
	require.NoError(t, l.AdjustLine(product(2, "4"), 1))

	require.NoError(t, l.RemoveLine(1))
	assert.Len(t, l.Lines(), 1)
	assert.ErrorIs(t, l.RemoveLine(1), ErrLineNotFound)
}

func TestTotalMatchesRecomputation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prices := []string{"0.10", "19.99", "3.33", "100", "0"}

	l := New()
	for step := 0; step < 500; step++ {
		id := rng.Intn(len(prices)) + 1
		switch rng.Intn(3) {
		case 0:
			require.NoError(t, l.AdjustLine(product(id, prices[id-1]), rng.Intn(7)-3))
		case 1:
			require.NoError(t, l.SetLineQuantity(product(id, prices[id-1]), rng.Intn(5)))
		default:
			_ = l.RemoveLine(id)
		}

		want := decimal.Zero
		qty := 0
		for _, line := range l.Lines() {
			want = want.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			qty += line.Quantity
		}
		require.True(t, want.Equal(l.Total()), "step %d: want %s got %s", step, want, l.Total())
		require.Equal(t, qty, l.TotalQuantity())
		require.True(t, l.Total().Equal(l.Totals().Total))
	}
}

func TestTotalExactDecimal(t *testing.T) {
	l := New()
	require.NoError(t, l.AdjustLine(product(1, "0.10"), 3))
	require.NoError(t, l.AdjustLine(product(2, "0.20"), 1))
	assert.Equal(t, "0.5", l.Total().String())
}

func TestRewardBalance(t *testing.T) {
	t.Run("accepts within balance", func(t *testing.T) {
		l := New()
		l.SetPointBalance(100)
		require.NoError(t, l.AdjustReward(reward(1, 30), 2))
		require.NoError(t, l.AdjustReward(reward(2, 40), 1))
		assert.Equal(t, 100, l.TotalPoints())
		assert.Equal(t, 0, l.AvailablePoints())
	})

	t.Run("rejects increment over balance and leaves ledger unchanged", func(t *testing.T) {
		l := New()
		l.SetPointBalance(100)
		require.NoError(t, l.AdjustReward(reward(1, 30), 3))
		before := l.RewardLines()

		err := l.AdjustReward(reward(1, 30), 1)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Equal(t, before, l.RewardLines())

		err = l.AdjustReward(reward(2, 11), 1)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Equal(t, before, l.RewardLines())

		err = l.SetRewardQuantity(reward(1, 30), 4)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Equal(t, before, l.RewardLines())
	})

	t.Run("decrements are always allowed", func(t *testing.T) {
		l := New()
		l.SetPointBalance(60)
		require.NoError(t, l.AdjustReward(reward(1, 30), 2))
		l.SetPointBalance(10)

		require.NoError(t, l.AdjustReward(reward(1, 30), -1))
		assert.Equal(t, 30, l.TotalPoints())
		require.NoError(t, l.AdjustReward(reward(1, 30), -1))
		assert.Empty(t, l.RewardLines())
	})

	t.Run("remove", func(t *testing.T) {
		l := New()
		l.SetPointBalance(10)
		require.NoError(t, l.AdjustReward(reward(1, 5), 1))
		require.NoError(t, l.RemoveReward(1))
		assert.ErrorIs(t, l.RemoveReward(1), ErrLineNotFound)
	})
}

func TestKind(t *testing.T) {
	l := New()
	l.SetPointBalance(50)
	assert.Equal(t, KindEmpty, l.Kind())

	require.NoError(t, l.AdjustLine(product(1, "1"), 1))
	assert.Equal(t, KindCart, l.Kind())

	require.NoError(t, l.AdjustReward(reward(2, 5), 1))
	assert.Equal(t, KindMixed, l.Kind())

	l.ClearCart()
	assert.Equal(t, KindReward, l.Kind())

	l.Clear()
	assert.Equal(t, KindEmpty, l.Kind())
	assert.Equal(t, 50, l.PointBalance())
}

func TestSnapshotRestore(t *testing.T) {
	l := New()
	l.SetPointBalance(20)
	require.NoError(t, l.AdjustLine(product(1, "2.50"), 2))
	require.NoError(t, l.AdjustReward(reward(9, 10), 1))

	snap := l.Snapshot(42)
	assert.Equal(t, 42, snap.AccountID)
	assert.False(t, snap.CapturedAt.IsZero())

	snap.Cart = append(snap.Cart, CartLine{ProductID: 3, Quantity: 0}, CartLine{ProductID: 1, Quantity: 9, UnitPrice: decimal.NewFromInt(1)})

	restored := New()
	restored.SetPointBalance(20)
	restored.Restore(snap)
	assert.Len(t, restored.Lines(), 1)
	assert.True(t, restored.Total().Equal(decimal.RequireFromString("5")))
	assert.Equal(t, 10, restored.TotalPoints())

	poorer := New()
	poorer.SetPointBalance(5)
	poorer.Restore(snap)
	assert.Empty(t, poorer.RewardLines())
	assert.Len(t, poorer.Lines(), 1)
}

func TestQuantityLimit(t *testing.T) {
	t.Run("huge reward quantity cannot wrap past the balance", func(t *testing.T) {
		l := New()
		l.SetPointBalance(50)

		err := l.SetRewardQuantity(reward(1, 2), 1<<62)
		assert.ErrorIs(t, err, ErrInvalidItem)
		assert.Empty(t, l.RewardLines())
		assert.Equal(t, 50, l.AvailablePoints())
	})

	t.Run("expensive reward within the limit is rejected by points", func(t *testing.T) {
		l := New()
		l.SetPointBalance(50)

		err := l.SetRewardQuantity(reward(1, 1<<60), MaxLineQuantity)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Empty(t, l.RewardLines())
	})

	t.Run("huge reward delta", func(t *testing.T) {
		l := New()
		l.SetPointBalance(50)
		require.NoError(t, l.AdjustReward(reward(1, 2), 1))

		assert.ErrorIs(t, l.AdjustReward(reward(1, 2), math.MaxInt), ErrInvalidItem)
		assert.Equal(t, 2, l.TotalPoints())
	})

	t.Run("cart delta cannot overflow the line", func(t *testing.T) {
		l := New()
		p := product(1, "1.00")

		assert.ErrorIs(t, l.AdjustLine(p, math.MaxInt), ErrInvalidItem)
		assert.True(t, l.IsEmpty())

		require.NoError(t, l.AdjustLine(p, MaxLineQuantity))
		assert.ErrorIs(t, l.AdjustLine(p, 1), ErrInvalidItem)

		line, ok := l.Line(1)
		require.True(t, ok)
		assert.Equal(t, MaxLineQuantity, line.Quantity)
	})

	t.Run("absolute cart quantity", func(t *testing.T) {
		l := New()
		assert.ErrorIs(t, l.SetLineQuantity(product(1, "1.00"), MaxLineQuantity+1), ErrInvalidItem)
		assert.True(t, l.IsEmpty())
	})

	t.Run("restore drops oversized lines", func(t *testing.T) {
		l := New()
		l.SetPointBalance(50)
		l.Restore(Snapshot{
			Cart:    []CartLine{{ProductID: 1, Quantity: MaxLineQuantity + 1}},
			Rewards: []RewardLine{{ProductID: 2, PointsPerUnit: 2, Quantity: 1 << 62}},
		})
		assert.True(t, l.IsEmpty())
	})
}
