package domain

import (
	"sort"
	"strconv"
)

// FilterExpenses returns the expenses matching the given year and month,
// sorted latest year first. Empty filter values match everything. The month
// filter compares against the row's description field, which is where the
// finance views record the month.
func FilterExpenses(expenses []FinancialExpense, year, month string) []FinancialExpense {
	out := make([]FinancialExpense, 0, len(expenses))
	for _, e := range expenses {
		if year != "" && e.Year != year {
			continue
		}
		if month != "" && e.Description != month {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return parseAmount(out[i].Year) > parseAmount(out[j].Year)
	})
	return out
}

// ExpenseTotal sums the amount column. Rows whose amount does not parse as a
// number count as zero.
func ExpenseTotal(expenses []FinancialExpense) float64 {
	var total float64
	for _, e := range expenses {
		total += parseAmount(e.Amount)
	}
	return total
}

// ExpenseYears returns the distinct years present, sorted ascending. Used to
// populate filter dropdowns.
func ExpenseYears(expenses []FinancialExpense) []string {
	return distinct(expenses, func(e FinancialExpense) string { return e.Year })
}

// ExpenseMonths returns the distinct description values present, sorted
// ascending. The description column doubles as the month filter value.
func ExpenseMonths(expenses []FinancialExpense) []string {
	return distinct(expenses, func(e FinancialExpense) string { return e.Description })
}

func distinct(expenses []FinancialExpense, key func(FinancialExpense) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(expenses))
	for _, e := range expenses {
		k := key(e)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
