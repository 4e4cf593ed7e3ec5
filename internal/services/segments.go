package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"devblog/internal/models"
)

var (
	criterionFields = map[models.CriterionType][]string{
		models.CriterionTimeframe:  {"subscribedAt"},
		models.CriterionEngagement: {"opens", "clicks", "emailsReceived"},
		models.CriterionInterest:   {"interests"},
		models.CriterionProperty:   {"status", "email", "firstName", "lastName"},
	}
	criterionOperators = map[models.CriterionType][]string{
		models.CriterionTimeframe:  {"within_days", "older_than_days"},
		models.CriterionEngagement: {"gt", "gte", "lt", "lte", "eq"},
		models.CriterionInterest:   {"contains"},
		models.CriterionProperty:   {"eq", "neq", "contains", "ends_with"},
	}
)

// checkCriterion проверяет, что поле, оператор и значение подходят к типу условия.
func checkCriterion(i int, c models.Criterion) error {
	prefix := fmt.Sprintf("criteria[%d].", i)
	if fields := criterionFields[c.Type]; !slices.Contains(fields, c.Field) {
		return invalid(prefix+"field", fmt.Sprintf("invalid value %q for type %s", c.Field, c.Type), fields...)
	}
	if ops := criterionOperators[c.Type]; !slices.Contains(ops, c.Operator) {
		return invalid(prefix+"operator", fmt.Sprintf("invalid value %q for type %s", c.Operator, c.Type), ops...)
	}
	switch c.Type {
	case models.CriterionTimeframe, models.CriterionEngagement:
		if n, err := strconv.Atoi(c.Value); err != nil || n < 0 {
			return invalid(prefix+"value", fmt.Sprintf("%q is not a non-negative integer", c.Value))
		}
	}
	return nil
}

// matchesAll: подписчик входит в сегмент, если выполнены все условия.
func matchesAll(s models.Subscriber, criteria []models.Criterion, now time.Time) bool {
	for _, c := range criteria {
		if !matches(s, c, now) {
			return false
		}
	}
	return true
}

func matches(s models.Subscriber, c models.Criterion, now time.Time) bool {
	switch c.Type {
	case models.CriterionTimeframe:
		days, _ := strconv.Atoi(c.Value)
		cutoff := now.AddDate(0, 0, -days)
		if c.Operator == "within_days" {
			return !s.SubscribedAt.Before(cutoff)
		}
		return s.SubscribedAt.Before(cutoff)

	case models.CriterionEngagement:
		want, _ := strconv.Atoi(c.Value)
		var got int
		switch c.Field {
		case "opens":
			got = s.Stats.Opens
		case "clicks":
			got = s.Stats.Clicks
		case "emailsReceived":
			got = s.Stats.EmailsReceived
		}
		return compareInt(got, c.Operator, want)

	case models.CriterionInterest:
		return slices.ContainsFunc(s.Interests, func(in string) bool { return strings.EqualFold(in, c.Value) })

	case models.CriterionProperty:
		var got string
		switch c.Field {
		case "status":
			got = string(s.Status)
		case "email":
			got = s.Email
		case "firstName":
			got = s.FirstName
		case "lastName":
			got = s.LastName
		}
		got, want := strings.ToLower(got), strings.ToLower(c.Value)
		switch c.Operator {
		case "eq":
			return got == want
		case "neq":
			return got != want
		case "contains":
			return strings.Contains(got, want)
		case "ends_with":
			return strings.HasSuffix(got, want)
		}
	}
	return false
}

func compareInt(got int, op string, want int) bool {
	switch op {
	case "gt":
		return got > want
	case "gte":
		return got >= want
	case "lt":
		return got < want
	case "lte":
		return got <= want
	case "eq":
		return got == want
	}
	return false
}
