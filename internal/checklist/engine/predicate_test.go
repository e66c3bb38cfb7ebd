package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/checklist/models"
)

func conditionalRule(ct models.ConditionType, values ...models.Value) *models.RequirementTemplate {
	return &models.RequirementTemplate{
		ID:              "tpl-" + string(ct),
		DocumentType:    "doc-" + string(ct),
		Category:        models.CategoryIdentification,
		Conditional:     true,
		ConditionType:   ct,
		ConditionValues: models.NewValueSet(values...),
	}
}

func subjectWith(attrs map[models.ConditionType]models.Value) *models.Subject {
	return &models.Subject{Attributes: attrs}
}

func TestApplies(t *testing.T) {
	t.Run("unconditional rule applies to any subject", func(t *testing.T) {
		rule := &models.RequirementTemplate{ID: "tpl-rg", DocumentType: "rg"}
		for _, s := range []*models.Subject{
			subjectWith(nil),
			subjectWith(map[models.ConditionType]models.Value{models.ConditionRole: models.StringValue("driver")}),
		} {
			ok, err := Applies(rule, s)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("conditional rule applies when attribute is a member", func(t *testing.T) {
		rule := conditionalRule(models.ConditionMaritalStatus,
			models.StringValue(models.MaritalMarried), models.StringValue(models.MaritalStableUnion))
		s := subjectWith(map[models.ConditionType]models.Value{
			models.ConditionMaritalStatus: models.StringValue(models.MaritalStableUnion),
		})
		ok, err := Applies(rule, s)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("conditional rule does not apply when attribute is not a member", func(t *testing.T) {
		rule := conditionalRule(models.ConditionMaritalStatus, models.StringValue(models.MaritalMarried))
		s := subjectWith(map[models.ConditionType]models.Value{
			models.ConditionMaritalStatus: models.StringValue(models.MaritalSingle),
		})
		ok, err := Applies(rule, s)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("boolean condition matches on value", func(t *testing.T) {
		rule := conditionalRule(models.ConditionHasDependents, models.BoolValue(true))
		yes := subjectWith(map[models.ConditionType]models.Value{models.ConditionHasDependents: models.BoolValue(true)})
		no := subjectWith(map[models.ConditionType]models.Value{models.ConditionHasDependents: models.BoolValue(false)})

		ok, err := Applies(rule, yes)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = Applies(rule, no)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	// The has_extension attribute is not populated by every subject source.
	// Until product defines a default, a missing attribute must never surface
	// the requirement.
	t.Run("absent attribute fails closed", func(t *testing.T) {
		rule := conditionalRule(models.ConditionHasExtension, models.BoolValue(true), models.BoolValue(false))
		ok, err := Applies(rule, subjectWith(map[models.ConditionType]models.Value{
			models.ConditionRole: models.StringValue("engineer"),
		}))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("attribute of the wrong kind does not match", func(t *testing.T) {
		rule := conditionalRule(models.ConditionHasDependents, models.BoolValue(true))
		s := subjectWith(map[models.ConditionType]models.Value{
			models.ConditionHasDependents: models.StringValue("true"),
		})
		ok, err := Applies(rule, s)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown condition type is an error", func(t *testing.T) {
		rule := conditionalRule(models.ConditionType("blood_type"), models.StringValue("O+"))
		ok, err := Applies(rule, subjectWith(nil))
		assert.False(t, ok)
		assert.ErrorIs(t, err, models.ErrUnknownConditionType)
	})

	t.Run("conditional rule without values is malformed", func(t *testing.T) {
		rule := conditionalRule(models.ConditionRole)
		_, err := Applies(rule, subjectWith(nil))
		assert.ErrorIs(t, err, models.ErrMalformedRule)
	})

	t.Run("conditional rule without type is malformed", func(t *testing.T) {
		rule := conditionalRule("", models.StringValue("x"))
		_, err := Applies(rule, subjectWith(nil))
		assert.ErrorIs(t, err, models.ErrMalformedRule)
	})

	t.Run("condition value of the wrong kind is malformed", func(t *testing.T) {
		rule := conditionalRule(models.ConditionHasDependents, models.StringValue("yes"))
		ok, err := Applies(rule, subjectWith(map[models.ConditionType]models.Value{
			models.ConditionHasDependents: models.BoolValue(true),
		}))
		assert.False(t, ok)
		assert.ErrorIs(t, err, models.ErrMalformedRule)
	})

	t.Run("unconditional rule carrying a condition is malformed", func(t *testing.T) {
		rule := conditionalRule(models.ConditionRole, models.StringValue("engineer"))
		rule.Conditional = false
		ok, err := Applies(rule, subjectWith(nil))
		assert.False(t, ok)
		assert.ErrorIs(t, err, models.ErrMalformedRule)
	})
}
