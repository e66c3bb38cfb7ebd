//go:build property

package engine

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

var epoch = id.NewDate(2020, time.January, 1)

// TestDeadlineProperties verifies the deadline calculator's algebra.
// Property: ComputeDeadline(base, 0) == base and deadlines grow with offset.
func TestDeadlineProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("zero offset is identity", prop.ForAll(
		func(days int) bool {
			base := epoch.AddDays(days)
			d, err := ComputeDeadline(base, 0)
			return err == nil && d.Equal(base)
		},
		gen.IntRange(0, 5000),
	))

	properties.Property("strictly increasing in offset", prop.ForAll(
		func(days, n int) bool {
			base := epoch.AddDays(days)
			a, errA := ComputeDeadline(base, n)
			b, errB := ComputeDeadline(base, n+1)
			return errA == nil && errB == nil && b.After(a)
		},
		gen.IntRange(0, 5000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// TestStatusProperties verifies the status precedence.
func TestStatusProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("any submission is on time", prop.ForAll(
		func(deadlineDays, todayDays, count int) bool {
			return ResolveStatus(epoch.AddDays(deadlineDays), epoch.AddDays(todayDays), count) == models.StatusOnTime
		},
		gen.IntRange(0, 3000),
		gen.IntRange(0, 3000),
		gen.IntRange(1, 50),
	))

	properties.Property("without submissions, overdue iff today is after the deadline", prop.ForAll(
		func(deadlineDays, todayDays int) bool {
			deadline, today := epoch.AddDays(deadlineDays), epoch.AddDays(todayDays)
			got := ResolveStatus(deadline, today, 0)
			if todayDays > deadlineDays {
				return got == models.StatusOverdue
			}
			return got == models.StatusPending
		},
		gen.IntRange(0, 3000),
		gen.IntRange(0, 3000),
	))

	properties.TestingRun(t)
}

// TestResolveProperties verifies summary and idempotence invariants over
// generated rule sets.
func TestResolveProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	engine := New()

	genRule := gopter.CombineGens(
		gen.IntRange(0, 60),
		gen.Bool(),
		gen.OneConstOf(models.MaritalSingle, models.MaritalMarried, models.MaritalDivorced),
		gen.IntRange(0, 5),
	).Map(func(v []any) models.RequirementTemplate {
		offset, conditional, marital, idx := v[0].(int), v[1].(bool), v[2].(string), v[3].(int)
		docType := []string{"rg", "cpf", "aso", "ctps", "bank", "photo"}[idx]
		r := models.RequirementTemplate{
			ID:                 "tpl-" + docType,
			DocumentType:       docType,
			Category:           models.CategoryIdentification,
			DeadlineOffsetDays: offset,
		}
		if conditional {
			r.Conditional = true
			r.ConditionType = models.ConditionMaritalStatus
			r.ConditionValues = models.NewValueSet(models.StringValue(marital))
		}
		return r
	})

	properties.Property("summary totals match requirements and repeat runs agree", prop.ForAll(
		func(rules []models.RequirementTemplate, submitted []int, todayDays int) bool {
			subject := &models.Subject{
				ID:            id.NewSubjectID(),
				ReferenceDate: epoch,
				Attributes: map[models.ConditionType]models.Value{
					models.ConditionMaritalStatus: models.StringValue(models.MaritalMarried),
				},
			}
			var subs []models.SubmittedArtifact
			for i, n := range submitted {
				if i < len(rules) {
					subs = append(subs, models.SubmittedArtifact{DocumentType: rules[i].DocumentType, Count: n})
				}
			}
			today := epoch.AddDays(todayDays)

			first, err := engine.Resolve(subject, rules, subs, today)
			if err != nil {
				return false
			}
			second, err := engine.Resolve(subject, rules, subs, today)
			if err != nil {
				return false
			}

			sum := first.Summary
			if sum.Total != len(first.Requirements) || sum.OnTime+sum.Pending+sum.Overdue != sum.Total {
				return false
			}
			if len(first.Requirements) != len(second.Requirements) || first.Summary != second.Summary {
				return false
			}
			for i := range first.Requirements {
				if first.Requirements[i] != second.Requirements[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genRule),
		gen.SliceOf(gen.IntRange(0, 2)),
		gen.IntRange(0, 120),
	))

	properties.TestingRun(t)
}
