package budget

// DefaultLine is one seed expense row for a fresh budget file.
type DefaultLine struct {
	Category string
	Expense  string
	Allotted string
	Comment  string
}

// DefaultChart returns the starter categories seeded into a new file's first
// period. Amounts are deliberately round placeholders the user edits.
func DefaultChart() []DefaultLine {
	return []DefaultLine{
		{Category: "Housing", Expense: "Rent", Allotted: "1000", Comment: "monthly rent or mortgage"},
		{Category: "Housing", Expense: "Utilities", Allotted: "150", Comment: "power, water, heating"},
		{Category: "Food", Expense: "Groceries", Allotted: "400", Comment: ""},
		{Category: "Food", Expense: "Eating Out", Allotted: "100", Comment: ""},
		{Category: "Transport", Expense: "Fuel", Allotted: "120", Comment: ""},
		{Category: "Transport", Expense: "Public Transit", Allotted: "60", Comment: ""},
		{Category: "Leisure", Expense: "Subscriptions", Allotted: "40", Comment: "streaming, music"},
		{Category: "Leisure", Expense: "Hobbies", Allotted: "80", Comment: ""},
		{Category: "Savings", Expense: "Emergency Fund", Allotted: "200", Comment: ""},
	}
}

// SeedDefaults applies the default chart to one period of the service.
func (s *Service) SeedDefaults(year, month string) error {
	for _, line := range DefaultChart() {
		if err := s.AddCategory(year, month, line.Category, line.Expense, line.Allotted, line.Comment); err != nil {
			return err
		}
	}
	return nil
}
