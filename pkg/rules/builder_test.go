package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/rules"
)

type signupForm struct {
	FirstName string
	Email     string
}

func TestBuilderEnsure(t *testing.T) {
	t.Parallel()

	t.Run("repeated ensure reuses the property rule", func(t *testing.T) {
		t.Parallel()
		b := rules.New(rules.WithRegistrar(rules.NewRegistrar(nil)))
		first := b.Ensure("firstName").Required()
		second := b.Ensure("firstName").MinLength(2)

		assert.Same(t, first, second)
		require.Len(t, b.Rules(), 1)
		assert.Len(t, b.Rules()[0].RuleGroups()[0], 2)
	})

	t.Run("distinct properties get distinct rules", func(t *testing.T) {
		t.Parallel()
		b := rules.New(rules.WithRegistrar(rules.NewRegistrar(nil)))
		b.Ensure("firstName").Required().
			Ensure("email").Required().Email()

		require.Len(t, b.Rules(), 2)
		assert.Equal(t, "firstName", b.Rules()[0].Property().Name)
		assert.Equal(t, "email", b.Rules()[1].Property().Name)
	})

	t.Run("paths resolve to their rendered name", func(t *testing.T) {
		t.Parallel()
		b := rules.New(rules.WithRegistrar(rules.NewRegistrar(nil)))
		byPath := b.Ensure(rules.Field("address").Field("city")).Required()
		byName := b.Ensure("address.city")

		assert.Same(t, byPath, byName)
	})

	t.Run("unsupported accessor types panic", func(t *testing.T) {
		t.Parallel()
		b := rules.New(rules.WithRegistrar(rules.NewRegistrar(nil)))
		assertPanicsIs(t, rules.ErrUnparsableAccessor, func() {
			b.Ensure(42)
		})
	})

	t.Run("unparsable access paths panic", func(t *testing.T) {
		t.Parallel()
		b := rules.New(rules.WithRegistrar(rules.NewRegistrar(nil)))
		assertPanicsIs(t, rules.ErrUnparsableAccessor, func() {
			b.Ensure("first..name")
		})
	})

	t.Run("ensure object never reuses", func(t *testing.T) {
		t.Parallel()
		b := rules.New(rules.WithRegistrar(rules.NewRegistrar(nil)))
		first := b.EnsureObject().Satisfies(func(_, _ any) bool { return true })
		second := b.EnsureObject()

		assert.NotSame(t, first, second)
		assert.Len(t, b.Rules(), 2)
	})
}

func TestBuilderOnOff(t *testing.T) {
	t.Parallel()

	t.Run("on registers the rule set with the registrar", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &signupForm{}

		b := rules.New(rules.WithRegistrar(registrar))
		b.Ensure("firstName").Required().On(target)

		require.True(t, registrar.IsValidationRulesSet(target))
		assert.Equal(t, b.Rules(), registrar.Get(target, ""))
	})

	t.Run("re-attaching the same set is a no-op", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &signupForm{}

		b := rules.New(rules.WithRegistrar(registrar))
		b.Ensure("firstName").Required().On(target).On(target)

		require.Len(t, registrar.Get(target, ""), 1)
	})

	t.Run("a second builder adopts the existing registration", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &signupForm{}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().
			On(target)

		// Attaching to a target that already has a different set makes that
		// set the builder's own; later declarations extend it.
		other := rules.New(rules.WithRegistrar(registrar))
		other.On(target)
		other.Ensure("firstName").MinLength(2)
		other.Ensure("email").Email().On(target)

		set := registrar.Get(target, "")
		require.Len(t, set, 2)
		assert.Equal(t, "firstName", set[0].Property().Name)
		assert.Equal(t, "email", set[1].Property().Name)
		assert.Len(t, set[0].RuleGroups()[0], 2)
	})

	t.Run("tagged sets live independently of the default set", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &signupForm{}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().On(target)
		rules.New(rules.WithRegistrar(registrar)).
			Ensure("email").Email().On(target, "contact")

		assert.Len(t, registrar.Get(target, ""), 1)
		assert.Len(t, registrar.Get(target, "contact"), 1)
		assert.Equal(t, "email", registrar.Get(target, "contact")[0].Property().Name)
	})

	t.Run("off detaches a single target", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &signupForm{}

		b := rules.New(rules.WithRegistrar(registrar))
		b.Ensure("firstName").Required().On(target)
		b.Off(target)

		assert.False(t, registrar.IsValidationRulesSet(target))
		assert.Nil(t, registrar.Get(target, ""))
	})

	t.Run("off with a tag leaves other sets in place", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &signupForm{}

		b := rules.New(rules.WithRegistrar(registrar))
		b.Ensure("firstName").Required().On(target)
		rules.New(rules.WithRegistrar(registrar)).
			Ensure("email").Email().On(target, "contact")

		b.Off(target, "contact")
		assert.Nil(t, registrar.Get(target, "contact"))
		assert.NotNil(t, registrar.Get(target, ""))
	})

	t.Run("off with a nil target detaches every tracked target", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		one, two := &signupForm{}, &signupForm{}

		b := rules.New(rules.WithRegistrar(registrar))
		b.Ensure("firstName").Required().On(one).On(two)
		b.Off(nil)

		assert.False(t, registrar.IsValidationRulesSet(one))
		assert.False(t, registrar.IsValidationRulesSet(two))
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	t.Run("renders field and index selectors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "address.city", rules.Field("address").Field("city").String())
		assert.Equal(t, "labels['en']", rules.Field("labels").Index("en").String())
		assert.Equal(t, "items[0].name", rules.Field("items").Index(0).Field("name").String())
	})

	t.Run("rejects malformed selectors", func(t *testing.T) {
		t.Parallel()
		assertPanicsIs(t, rules.ErrUnparsableAccessor, func() {
			rules.Field("")
		})
		assertPanicsIs(t, rules.ErrUnparsableAccessor, func() {
			rules.Field("a.b")
		})
		assertPanicsIs(t, rules.ErrUnparsableAccessor, func() {
			rules.Field("items").Index(-1)
		})
		assertPanicsIs(t, rules.ErrUnparsableAccessor, func() {
			rules.Field("items").Index(3.5)
		})
		assertPanicsIs(t, rules.ErrUnparsableAccessor, func() {
			_ = rules.Path{}.String()
		})
	})
}
