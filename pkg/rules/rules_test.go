package rules_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/rules"
)

func execute(t *testing.T, rule rules.Rule, value any) bool {
	t.Helper()
	ok, err := rule.Execute(context.Background(), value, nil)
	require.NoError(t, err)
	return ok
}

func TestRequiredRule(t *testing.T) {
	t.Parallel()

	t.Run("fails for nil", func(t *testing.T) {
		t.Parallel()
		assert.False(t, execute(t, rules.NewRequiredRule(), nil))
	})

	t.Run("fails for blank strings", func(t *testing.T) {
		t.Parallel()
		assert.False(t, execute(t, rules.NewRequiredRule(), ""))
		assert.False(t, execute(t, rules.NewRequiredRule(), "   "))
	})

	t.Run("fails for nil pointers", func(t *testing.T) {
		t.Parallel()
		var p *int
		assert.False(t, execute(t, rules.NewRequiredRule(), p))
	})

	t.Run("passes for present values", func(t *testing.T) {
		t.Parallel()
		assert.True(t, execute(t, rules.NewRequiredRule(), "x"))
		assert.True(t, execute(t, rules.NewRequiredRule(), 0))
		assert.True(t, execute(t, rules.NewRequiredRule(), false))
	})
}

func TestRegexRule(t *testing.T) {
	t.Parallel()

	t.Run("absent values pass", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewMatchesRule(regexp.MustCompile(`^\d+$`))
		assert.True(t, execute(t, rule, nil))
		assert.True(t, execute(t, rule, ""))
	})

	t.Run("matching strings pass", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewMatchesRule(regexp.MustCompile(`^\d+$`))
		assert.True(t, execute(t, rule, "12345"))
		assert.False(t, execute(t, rule, "12a45"))
	})

	t.Run("email shape is enforced", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewEmailRule()
		assert.True(t, execute(t, rule, "user@example.com"))
		assert.False(t, execute(t, rule, "not-an-email"))
		assert.False(t, execute(t, rule, "user@host"))
	})
}

func TestLengthRules(t *testing.T) {
	t.Parallel()

	t.Run("min length counts runes", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewMinLengthRule(3)
		assert.True(t, execute(t, rule, "héllo"))
		assert.True(t, execute(t, rule, "abc"))
		assert.False(t, execute(t, rule, "ab"))
		assert.True(t, execute(t, rule, ""))
	})

	t.Run("max length bounds the value", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewMaxLengthRule(3)
		assert.True(t, execute(t, rule, "abc"))
		assert.False(t, execute(t, rule, "abcd"))
	})

	t.Run("item bounds apply to collections", func(t *testing.T) {
		t.Parallel()
		assert.True(t, execute(t, rules.NewMinItemsRule(2), []int{1, 2}))
		assert.False(t, execute(t, rules.NewMinItemsRule(2), []int{1}))
		assert.True(t, execute(t, rules.NewMaxItemsRule(2), map[string]int{"a": 1}))
		assert.False(t, execute(t, rules.NewMaxItemsRule(1), []string{"a", "b"}))
		assert.True(t, execute(t, rules.NewMinItemsRule(2), nil))
	})
}

func TestRangeRules(t *testing.T) {
	t.Parallel()

	t.Run("range bounds are inclusive", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewRangeRule(1, 10)
		assert.True(t, execute(t, rule, 1))
		assert.True(t, execute(t, rule, 10))
		assert.True(t, execute(t, rule, 5))
		assert.False(t, execute(t, rule, 0))
		assert.False(t, execute(t, rule, 11))
	})

	t.Run("between bounds are exclusive", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewBetweenRule(1, 10)
		assert.False(t, execute(t, rule, 1))
		assert.False(t, execute(t, rule, 10))
		assert.True(t, execute(t, rule, 2))
		assert.True(t, execute(t, rule, 9.5))
	})

	t.Run("min and max are one-sided", func(t *testing.T) {
		t.Parallel()
		assert.True(t, execute(t, rules.NewMinRule(18), 18))
		assert.False(t, execute(t, rules.NewMinRule(18), 17))
		assert.True(t, execute(t, rules.NewMaxRule(100), 100))
		assert.False(t, execute(t, rules.NewMaxRule(100), 101))
	})

	t.Run("absent values pass and non-numeric values fail", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewRangeRule(1, 10)
		assert.True(t, execute(t, rule, nil))
		assert.False(t, execute(t, rule, "five"))
	})
}

func TestEqualsRule(t *testing.T) {
	t.Parallel()

	t.Run("compares deeply", func(t *testing.T) {
		t.Parallel()
		assert.True(t, execute(t, rules.NewEqualsRule("yes"), "yes"))
		assert.False(t, execute(t, rules.NewEqualsRule("yes"), "no"))
		assert.True(t, execute(t, rules.NewEqualsRule([]int{1, 2}), []int{1, 2}))
	})

	t.Run("absent values pass", func(t *testing.T) {
		t.Parallel()
		assert.True(t, execute(t, rules.NewEqualsRule("yes"), nil))
	})
}

func TestSatisfiesRule(t *testing.T) {
	t.Parallel()

	t.Run("wraps a synchronous predicate", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewSatisfiesRule(func(value, _ any) bool { return value == 42 })
		assert.True(t, execute(t, rule, 42))
		assert.False(t, execute(t, rule, 41))
	})

	t.Run("async predicate errors surface", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewSatisfiesAsyncRule(func(ctx context.Context, _, _ any) (bool, error) {
			return false, ctx.Err()
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := rule.Execute(ctx, nil, nil)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("has no built-in message key", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewSatisfiesRule(func(_, _ any) bool { return false })
		assert.Empty(t, rule.MessageKey())
	})
}

func TestRuleMetadata(t *testing.T) {
	t.Parallel()

	t.Run("guard defaults to always execute", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewRequiredRule()
		assert.True(t, rule.CanExecute(nil))
		assert.True(t, rule.CanExecute(struct{}{}))
	})

	t.Run("guard respects the condition", func(t *testing.T) {
		t.Parallel()
		rule := rules.NewRequiredRule()
		rule.SetWhen(func(object any) bool { return object != nil })
		assert.False(t, rule.CanExecute(nil))
		assert.True(t, rule.CanExecute("anything"))
	})

	t.Run("changing the message key drops the resolved message", func(t *testing.T) {
		t.Parallel()
		provider := rules.NewMessageProvider()
		rule := rules.NewRequiredRule()
		rule.SetMessage(provider.ParseMessage("custom"))
		require.NotNil(t, rule.Message())

		rule.SetMessageKey("email")
		assert.Nil(t, rule.Message())
		assert.Equal(t, "email", rule.MessageKey())
	})
}
