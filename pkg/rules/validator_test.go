package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/rules"
)

type person struct {
	FirstName string
	Email     string
	Age       int
	Address   address
}

type address struct {
	City string
}

func TestValidatorValidateObject(t *testing.T) {
	t.Parallel()

	t.Run("reports every failing property", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{Email: "not-an-email", Age: 16}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().
			Ensure("email").Email().
			Ensure("age").Min(18).
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		results, err := v.ValidateObject(context.Background(), target)
		require.NoError(t, err)
		require.Len(t, results, 3)

		for _, r := range results {
			assert.False(t, r.Valid, "property %q", r.PropertyName)
			assert.Same(t, target, r.Object)
		}
		assert.Equal(t, "First name is required.", results[0].Message)
		assert.Equal(t, "Email is not a valid email.", results[1].Message)
		assert.Equal(t, "Age must be at least 18.", results[2].Message)
	})

	t.Run("passes when the object satisfies every rule", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{FirstName: "Ada", Email: "ada@example.com", Age: 36}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().
			Ensure("email").Email().
			Ensure("age").Min(18).
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		results, err := v.ValidateObject(context.Background(), target)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, r := range results {
			assert.True(t, r.Valid)
		}
	})

	t.Run("resolves nested access paths", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{Address: address{City: ""}}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure(rules.Field("address").Field("city")).Required().
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		results, err := v.ValidateObject(context.Background(), target)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].Valid)
		assert.Equal(t, "address.city", results[0].PropertyName)
	})

	t.Run("whole-object rules receive the target itself", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{FirstName: "Ada"}

		var seen any
		rules.New(rules.WithRegistrar(registrar)).
			EnsureObject().
			Satisfies(func(value, _ any) bool {
				seen = value
				return true
			}).
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		_, err := v.ValidateObject(context.Background(), target)
		require.NoError(t, err)
		assert.Same(t, target, seen)
	})

	t.Run("a tagged run prefers the tagged set", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().
			On(target)
		rules.New(rules.WithRegistrar(registrar)).
			Ensure("email").Required().
			On(target, "contact")

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		results, err := v.ValidateObject(context.Background(), target, "contact")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "email", results[0].PropertyName)
	})

	t.Run("without a tagged set the default set runs filtered by tag", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().Tag("submit").
			Ensure("email").Required().
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		results, err := v.ValidateObject(context.Background(), target, "submit")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "firstName", results[0].PropertyName)
	})

	t.Run("targets without rules yield no results", func(t *testing.T) {
		t.Parallel()
		v := rules.NewValidator(rules.WithValidatorRegistrar(rules.NewRegistrar(nil)))
		results, err := v.ValidateObject(context.Background(), &person{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("predicate errors abort the run", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{FirstName: "Ada"}
		boom := errors.New("directory unavailable")

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").
			SatisfiesAsync(func(_ context.Context, _, _ any) (bool, error) {
				return false, boom
			}).
			Ensure("email").Required().
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		_, err := v.ValidateObject(context.Background(), target)
		require.ErrorIs(t, err, boom)
	})
}

func TestValidatorValidateProperty(t *testing.T) {
	t.Parallel()

	t.Run("restricts the run to one property", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().
			Ensure("email").Required().
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		results, err := v.ValidateProperty(context.Background(), target, "email")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "email", results[0].PropertyName)
	})

	t.Run("unknown properties yield no results", func(t *testing.T) {
		t.Parallel()
		registrar := rules.NewRegistrar(nil)
		target := &person{}

		rules.New(rules.WithRegistrar(registrar)).
			Ensure("firstName").Required().
			On(target)

		v := rules.NewValidator(rules.WithValidatorRegistrar(registrar))
		results, err := v.ValidateProperty(context.Background(), target, "lastName")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
