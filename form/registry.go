package form

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// EmploymentOnboarding is a simplified employment onboarding intake
// (I-9 status, W-4 basics, direct deposit).
func EmploymentOnboarding() *Schema {
	return &Schema{
		ID:   "employment_onboarding",
		Name: "Employment Onboarding",
		Fields: []*Field{
			{
				ID:          "i9_citizenship_status",
				Type:        TypeSelect,
				Label:       "Citizenship status",
				Description: "Select the option that best describes your current immigration status.",
				Required:    true,
				Options: []string{
					"U.S. citizen",
					"Noncitizen national of the U.S.",
					"Lawful permanent resident",
					"Alien authorized to work",
				},
			},
			{
				ID:          "i9_ssn",
				Type:        TypeText,
				Label:       "Social Security Number",
				Description: "Enter your 9-digit SSN (no dashes needed).",
				Required:    false,
				Rules:       &Rules{MinLength: intPtr(9), MaxLength: intPtr(11)},
			},
			{
				ID:          "w4_filing_status",
				Type:        TypeSelect,
				Label:       "Filing status",
				Description: "Your expected filing status on your federal tax return.",
				Required:    true,
				Options: []string{
					"Single or Married filing separately",
					"Married filing jointly",
					"Head of household",
				},
			},
			{
				ID:          "w4_has_dependents",
				Type:        TypeBoolean,
				Label:       "Do you claim any dependents",
				Required:    true,
			},
			{
				ID:          "w4_dependents_under_17",
				Type:        TypeNumber,
				Label:       "Number of qualifying children under age 17",
				Description: "Enter how many children under age 17 you can claim.",
				Required:    false,
				Rules:       &Rules{Min: floatPtr(0), Max: floatPtr(20)},
				Condition:   &Condition{DependsOn: "w4_has_dependents", Operator: OpEquals, Value: true},
			},
			{
				ID:          "dd_bank_name",
				Type:        TypeText,
				Label:       "Bank name",
				Description: "Name of your bank (e.g., Chase, Bank of America).",
				Required:    true,
				Rules:       &Rules{MinLength: intPtr(2), MaxLength: intPtr(80)},
			},
			{
				ID:          "dd_account_type",
				Type:        TypeSelect,
				Label:       "Account type",
				Description: "Type of bank account for direct deposit.",
				Required:    true,
				Options:     []string{"Checking", "Savings"},
			},
			{
				ID:          "dd_routing_number",
				Type:        TypeText,
				Label:       "Routing number",
				Description: "9-digit routing number from the bottom of your check.",
				Required:    true,
				Rules:       &Rules{MinLength: intPtr(9), MaxLength: intPtr(9)},
			},
		},
	}
}

// RentalApplication is a short rental application intake.
func RentalApplication() *Schema {
	return &Schema{
		ID:   "rental_application",
		Name: "Rental Application",
		Fields: []*Field{
			{
				ID:          "rent_current_address",
				Type:        TypeAddress,
				Label:       "Current address",
				Description: "Your current residential address.",
				Required:    true,
			},
			{
				ID:          "rent_employer_name",
				Type:        TypeText,
				Label:       "Current employer",
				Description: "Name of your current employer.",
				Required:    true,
			},
			{
				ID:          "rent_contact_email",
				Type:        TypeEmail,
				Label:       "Contact email",
				Required:    true,
			},
			{
				ID:          "rent_gross_monthly_income",
				Type:        TypeNumber,
				Label:       "Gross monthly income",
				Description: "Your approximate gross monthly income (before taxes).",
				Required:    true,
				Rules:       &Rules{Min: floatPtr(0)},
			},
		},
	}
}

// Registry maps built-in schema ids to constructors. Constructors return a
// fresh schema each call so callers can mutate their copy safely.
var Registry = map[string]func() *Schema{
	"employment_onboarding": EmploymentOnboarding,
	"rental_application":    RentalApplication,
}

// Lookup returns a fresh copy of a built-in schema, or nil when unknown.
func Lookup(id string) *Schema {
	ctor, ok := Registry[id]
	if !ok {
		return nil
	}
	return ctor()
}
